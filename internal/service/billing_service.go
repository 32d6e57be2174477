// Package service sequences the billing core against the store: validate,
// compute, persist atomically, then notify.
package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/yuvan-fsdev/billing-system/internal/billing"
	"github.com/yuvan-fsdev/billing-system/internal/model"
	"github.com/yuvan-fsdev/billing-system/internal/money"
	"github.com/yuvan-fsdev/billing-system/internal/store"
)

// BillRequest is the bill-generation payload.
type BillRequest struct {
	CustomerEmail string              `json:"customer_email"`
	Items         []LineItem          `json:"items"`
	Denominations DenominationPayload `json:"denominations"`
}

// LineItem is one requested purchase line.
type LineItem struct {
	ProductCode string `json:"product_code"`
	Quantity    int    `json:"quantity"`
}

// DenominationPayload carries the tendered denomination counts and the total
// paid amount.
type DenominationPayload struct {
	Counts     map[string]int  `json:"counts"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
}

// Notifier receives a post-commit invoice notification. Implementations must
// never fail the purchase; errors stay on their side of the boundary.
type Notifier interface {
	InvoiceCreated(purchaseID uint, recipient string, summary *PurchaseSummary)
}

// Service orchestrates bill generation and purchase retrieval.
type Service struct {
	store    store.Store
	notifier Notifier
	log      *zap.Logger
}

// New builds a Service. notifier may be nil when notification is disabled.
func New(st store.Store, notifier Notifier, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: st, notifier: notifier, log: log}
}

// GenerateBill runs the full billing flow: resolve and validate lines,
// compute totals, validate payment, compute change against current
// denomination stock, then persist the purchase, the product stock decrement
// and the denomination ledger mutation in one transaction. Notification is
// dispatched only after the transaction commits.
func (s *Service) GenerateBill(ctx context.Context, req *BillRequest) (*PurchaseSummary, error) {
	lineRequests := make([]billing.LineRequest, 0, len(req.Items))
	for _, item := range req.Items {
		lineRequests = append(lineRequests, billing.LineRequest{
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
		})
	}

	lines, err := billing.LoadLines(ctx, s.store.Catalog(), lineRequests)
	if err != nil {
		return nil, err
	}
	bill := billing.ComputeBill(lines)

	paid := money.Quantize(req.Denominations.PaidAmount)
	if paid.LessThan(decimal.NewFromInt(bill.RoundedTotal)) {
		return nil, billing.Errorf(billing.KindInsufficientPayment,
			"paid amount is less than the rounded bill amount")
	}

	paymentMap, err := billing.NormalizeDenominationMap(req.Denominations.Counts)
	if err != nil {
		return nil, err
	}

	changeDue := money.FloorUnits(paid) - bill.RoundedTotal
	inventory, err := s.store.Denominations().ListByValueDesc(ctx)
	if err != nil {
		return nil, err
	}
	changeMap, remainder := billing.ComputeChange(changeDue, inventory)

	var purchaseID uint
	err = s.store.InTransaction(ctx, func(tx store.Store) error {
		customer, err := tx.Customers().GetOrCreate(ctx, req.CustomerEmail)
		if err != nil {
			return err
		}

		purchase := buildPurchase(customer.ID, bill, paid, paymentMap, changeMap, remainder)
		if err := tx.Purchases().Create(ctx, purchase); err != nil {
			return err
		}
		purchaseID = purchase.ID

		for _, line := range bill.Lines {
			if err := tx.Catalog().TakeStock(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		return tx.Denominations().ApplyDelta(ctx, paymentMap, changeMap)
	})
	if err != nil {
		if billing.KindOf(err) == billing.KindUnknown {
			s.log.Error("purchase transaction failed", zap.Error(err))
			return nil, billing.Errorf(billing.KindPersistence, "failed to persist purchase")
		}
		return nil, err
	}

	summary, err := s.PurchaseSummary(ctx, purchaseID)
	if err != nil {
		return nil, err
	}

	s.log.Info("bill generated",
		zap.Uint("purchase_id", summary.PurchaseID),
		zap.String("customer_email", summary.CustomerEmail),
		zap.Int64("rounded_total", summary.RoundedDownNetPrice),
		zap.Int64("change_remainder", summary.ChangeRemainder))

	if s.notifier != nil {
		// Fire and forget; the purchase is committed and notification
		// failures must not surface.
		go s.notifier.InvoiceCreated(summary.PurchaseID, summary.CustomerEmail, summary)
	}
	return summary, nil
}

// PurchaseSummary returns the full invoice view of one purchase.
func (s *Service) PurchaseSummary(ctx context.Context, id uint) (*PurchaseSummary, error) {
	purchase, err := s.store.Purchases().ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, billing.Errorf(billing.KindNotFound, "purchase %d not found", id)
	}
	return summarize(purchase), nil
}

// PurchaseHistory lists a customer's purchases newest first.
func (s *Service) PurchaseHistory(ctx context.Context, email string) ([]HistoryEntry, error) {
	purchases, err := s.store.Purchases().ForCustomer(ctx, email)
	if err != nil {
		return nil, err
	}
	entries := make([]HistoryEntry, 0, len(purchases))
	for _, purchase := range purchases {
		entries = append(entries, HistoryEntry{
			ID:         purchase.ID,
			CreatedAt:  purchase.CreatedAt,
			GrandTotal: purchase.GrandTotal,
		})
	}
	return entries, nil
}

func buildPurchase(customerID uint, bill billing.Computation, paid decimal.Decimal,
	paymentMap, changeMap model.DenominationMap, remainder int64) *model.Purchase {

	items := make([]model.PurchaseItem, 0, len(bill.Lines))
	for _, line := range bill.Lines {
		items = append(items, model.PurchaseItem{
			ProductID:     line.ProductID,
			ProductCode:   line.ProductCode,
			ProductName:   line.ProductName,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			TaxPercentage: line.TaxPercentage,
			LineSubtotal:  line.PurchasePrice,
			LineTax:       line.TaxPayable,
			LineTotal:     line.LineTotal,
		})
	}

	return &model.Purchase{
		CustomerID:       customerID,
		Subtotal:         bill.Subtotal,
		TaxTotal:         bill.TaxTotal,
		GrandTotal:       bill.NetTotal,
		RoundedTotal:     bill.RoundedTotal,
		PaidAmount:       paid,
		Items:            items,
		PaymentBreakdown: &model.PaymentBreakdown{Denominations: paymentMap},
		ChangeBreakdown:  &model.ChangeBreakdown{Denominations: changeMap, Remainder: remainder},
	}
}
