package service

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuvan-fsdev/billing-system/internal/billing"
	"github.com/yuvan-fsdev/billing-system/internal/model"
	"github.com/yuvan-fsdev/billing-system/internal/store/memory"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func seedStore(t *testing.T) *memory.Store {
	t.Helper()
	st := memory.New()
	st.AddProduct(model.Product{
		Name:           "Sample Item",
		ProductCode:    "SKU-1",
		AvailableStock: 5,
		UnitPrice:      dec(t, "100.00"),
		TaxPercentage:  dec(t, "10.00"),
	})
	st.SetDenomination(100, 1)
	st.SetDenomination(50, 2)
	st.SetDenomination(20, 2)
	st.SetDenomination(10, 5)
	return st
}

type notifierSpy struct {
	mu      sync.Mutex
	done    chan struct{}
	lastID  uint
	lastTo  string
	summary *PurchaseSummary
}

func newNotifierSpy() *notifierSpy {
	return &notifierSpy{done: make(chan struct{})}
}

func (n *notifierSpy) InvoiceCreated(purchaseID uint, recipient string, summary *PurchaseSummary) {
	n.mu.Lock()
	n.lastID = purchaseID
	n.lastTo = recipient
	n.summary = summary
	n.mu.Unlock()
	close(n.done)
}

func TestGenerateBillEndToEnd(t *testing.T) {
	st := seedStore(t)
	spy := newNotifierSpy()
	svc := New(st, spy, nil)

	summary, err := svc.GenerateBill(context.Background(), &BillRequest{
		CustomerEmail: "customer@example.com",
		Items:         []LineItem{{ProductCode: "SKU-1", Quantity: 1}},
		Denominations: DenominationPayload{
			Counts:     map[string]int{"200": 1},
			PaidAmount: dec(t, "200.00"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "customer@example.com", summary.CustomerEmail)
	assert.True(t, summary.TotalPriceWithoutTax.Equal(dec(t, "100.00")))
	assert.True(t, summary.TotalTaxPayable.Equal(dec(t, "10.00")))
	assert.True(t, summary.NetPrice.Equal(dec(t, "110.00")))
	assert.Equal(t, int64(110), summary.RoundedDownNetPrice)
	assert.True(t, summary.BalancePayableToCustomer.Equal(dec(t, "90.00")))
	assert.Equal(t, int64(0), summary.ChangeRemainder)
	assert.Equal(t, model.DenominationMap{200: 1}, summary.PaymentDenomination)
	assert.Equal(t, model.DenominationMap{50: 1, 20: 2}, summary.BalanceDenomination)

	require.Len(t, summary.Lines, 1)
	line := summary.Lines[0]
	assert.Equal(t, "SKU-1", line.ProductCode)
	assert.True(t, line.PurchasePrice.Equal(dec(t, "100.00")))
	assert.True(t, line.TaxPayableForItem.Equal(dec(t, "10.00")))
	assert.True(t, line.TotalPriceOfItem.Equal(dec(t, "110.00")))

	// Denomination stock after the transaction: the 200 note came in, the
	// 50 and both 20s went out.
	assert.Equal(t, 1, st.DenominationCount(200))
	assert.Equal(t, 1, st.DenominationCount(100))
	assert.Equal(t, 1, st.DenominationCount(50))
	assert.Equal(t, 0, st.DenominationCount(20))
	assert.Equal(t, 5, st.DenominationCount(10))
	assert.Equal(t, 4, st.ProductStock("SKU-1"))

	<-spy.done
	spy.mu.Lock()
	defer spy.mu.Unlock()
	assert.Equal(t, summary.PurchaseID, spy.lastID)
	assert.Equal(t, "customer@example.com", spy.lastTo)
}

func TestGenerateBillReportsRemainderWhenStockShort(t *testing.T) {
	st := memory.New()
	st.AddProduct(model.Product{
		Name:           "Sample Item",
		ProductCode:    "SKU-1",
		AvailableStock: 5,
		UnitPrice:      dec(t, "100.00"),
		TaxPercentage:  dec(t, "10.00"),
	})
	st.SetDenomination(50, 1)
	svc := New(st, nil, nil)

	summary, err := svc.GenerateBill(context.Background(), &BillRequest{
		CustomerEmail: "short@example.com",
		Items:         []LineItem{{ProductCode: "SKU-1", Quantity: 1}},
		Denominations: DenominationPayload{
			Counts:     map[string]int{"200": 1},
			PaidAmount: dec(t, "200.00"),
		},
	})
	require.NoError(t, err)

	// Change due 90, only one 50 available.
	assert.Equal(t, model.DenominationMap{50: 1}, summary.BalanceDenomination)
	assert.Equal(t, int64(40), summary.ChangeRemainder)
	assert.Equal(t, 0, st.DenominationCount(50))
	assert.Equal(t, 1, st.DenominationCount(200))
}

func TestGenerateBillInsufficientPayment(t *testing.T) {
	st := seedStore(t)
	svc := New(st, nil, nil)

	_, err := svc.GenerateBill(context.Background(), &BillRequest{
		CustomerEmail: "customer@example.com",
		Items:         []LineItem{{ProductCode: "SKU-1", Quantity: 1}},
		Denominations: DenominationPayload{
			Counts:     map[string]int{"100": 1},
			PaidAmount: dec(t, "100.00"),
		},
	})
	assert.Equal(t, billing.KindInsufficientPayment, billing.KindOf(err))

	// No side effects.
	assert.Equal(t, 5, st.ProductStock("SKU-1"))
	assert.Equal(t, 1, st.DenominationCount(100))
}

func TestGenerateBillInsufficientStockLeavesStateUntouched(t *testing.T) {
	st := seedStore(t)
	svc := New(st, nil, nil)

	_, err := svc.GenerateBill(context.Background(), &BillRequest{
		CustomerEmail: "customer@example.com",
		Items:         []LineItem{{ProductCode: "SKU-1", Quantity: 6}},
		Denominations: DenominationPayload{
			Counts:     map[string]int{"2000": 1},
			PaidAmount: dec(t, "2000.00"),
		},
	})
	assert.Equal(t, billing.KindInsufficientStock, billing.KindOf(err))
	assert.Equal(t, 5, st.ProductStock("SKU-1"))
	assert.Equal(t, 1, st.DenominationCount(100))
	assert.Equal(t, 2, st.DenominationCount(50))

	history, histErr := svc.PurchaseHistory(context.Background(), "customer@example.com")
	require.NoError(t, histErr)
	assert.Empty(t, history)
}

func TestGenerateBillUnknownProduct(t *testing.T) {
	svc := New(seedStore(t), nil, nil)

	_, err := svc.GenerateBill(context.Background(), &BillRequest{
		CustomerEmail: "customer@example.com",
		Items:         []LineItem{{ProductCode: "GHOST", Quantity: 1}},
		Denominations: DenominationPayload{PaidAmount: dec(t, "100.00")},
	})
	assert.Equal(t, billing.KindNotFound, billing.KindOf(err))
}

func TestGenerateBillInvalidDenomination(t *testing.T) {
	st := seedStore(t)
	svc := New(st, nil, nil)

	_, err := svc.GenerateBill(context.Background(), &BillRequest{
		CustomerEmail: "customer@example.com",
		Items:         []LineItem{{ProductCode: "SKU-1", Quantity: 1}},
		Denominations: DenominationPayload{
			Counts:     map[string]int{"-100": 1},
			PaidAmount: dec(t, "200.00"),
		},
	})
	assert.Equal(t, billing.KindInvalidDenomination, billing.KindOf(err))
	assert.Equal(t, 5, st.ProductStock("SKU-1"))
}

func TestPurchaseSummaryAndHistory(t *testing.T) {
	st := memory.New()
	st.AddProduct(model.Product{
		Name:           "History Item",
		ProductCode:    "HIST-1",
		AvailableStock: 3,
		UnitPrice:      dec(t, "50.00"),
		TaxPercentage:  dec(t, "5.00"),
	})
	st.SetDenomination(100, 2)
	st.SetDenomination(20, 3)
	svc := New(st, nil, nil)

	created, err := svc.GenerateBill(context.Background(), &BillRequest{
		CustomerEmail: "history@example.com",
		Items:         []LineItem{{ProductCode: "HIST-1", Quantity: 2}},
		Denominations: DenominationPayload{
			Counts:     map[string]int{"200": 1},
			PaidAmount: dec(t, "200.00"),
		},
	})
	require.NoError(t, err)

	detail, err := svc.PurchaseSummary(context.Background(), created.PurchaseID)
	require.NoError(t, err)
	assert.Equal(t, created.PurchaseID, detail.PurchaseID)
	assert.True(t, detail.TotalPriceWithoutTax.Equal(dec(t, "100.00")))
	assert.Len(t, detail.Lines, 1)

	history, err := svc.PurchaseHistory(context.Background(), "history@example.com")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, created.PurchaseID, history[0].ID)
	assert.True(t, history[0].GrandTotal.Equal(dec(t, "105.00")))

	_, err = svc.PurchaseSummary(context.Background(), 9999)
	assert.Equal(t, billing.KindNotFound, billing.KindOf(err))
}
