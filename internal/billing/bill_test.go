package billing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuvan-fsdev/billing-system/internal/model"
)

type catalogFake map[string]model.Product

func (c catalogFake) ProductByCode(_ context.Context, code string) (*model.Product, error) {
	p, ok := c[code]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func testProduct(t *testing.T, code, name, price, tax string, stock int) model.Product {
	t.Helper()
	return model.Product{
		ID:             1,
		Name:           name,
		ProductCode:    code,
		AvailableStock: stock,
		UnitPrice:      dec(t, price),
		TaxPercentage:  dec(t, tax),
	}
}

func TestLoadLinesResolvesAndValidates(t *testing.T) {
	catalog := catalogFake{"W123": testProduct(t, "W123", "Test Widget", "199.50", "18.0", 10)}

	lines, err := LoadLines(context.Background(), catalog, []LineRequest{{ProductCode: "W123", Quantity: 2}})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "W123", lines[0].Product.ProductCode)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestLoadLinesValidationOrder(t *testing.T) {
	catalog := catalogFake{"LIM-1": testProduct(t, "LIM-1", "Limited Item", "10.00", "5.0", 1)}

	_, err := LoadLines(context.Background(), catalog, []LineRequest{{ProductCode: "NOPE", Quantity: 1}})
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = LoadLines(context.Background(), catalog, []LineRequest{{ProductCode: "LIM-1", Quantity: 0}})
	assert.Equal(t, KindInvalidQuantity, KindOf(err))

	_, err = LoadLines(context.Background(), catalog, []LineRequest{{ProductCode: "LIM-1", Quantity: 2}})
	assert.Equal(t, KindInsufficientStock, KindOf(err))

	// An unknown code beats a bad quantity on the same line.
	_, err = LoadLines(context.Background(), catalog, []LineRequest{{ProductCode: "NOPE", Quantity: 0}})
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestLoadLinesEmptyOrder(t *testing.T) {
	_, err := LoadLines(context.Background(), catalogFake{}, nil)
	assert.Equal(t, KindEmptyOrder, KindOf(err))
}

func TestLoadLinesFirstFailureAborts(t *testing.T) {
	catalog := catalogFake{"OK": testProduct(t, "OK", "Fine", "1.00", "0", 5)}

	lines, err := LoadLines(context.Background(), catalog, []LineRequest{
		{ProductCode: "MISSING", Quantity: 1},
		{ProductCode: "OK", Quantity: 1},
	})
	assert.Nil(t, lines)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestComputeBill(t *testing.T) {
	product := testProduct(t, "W123", "Test Widget", "199.50", "18.0", 10)
	bill := ComputeBill([]LoadedLine{{Product: product, Quantity: 2}})

	assert.True(t, bill.Subtotal.Equal(dec(t, "399.00")))
	assert.True(t, bill.TaxTotal.Equal(dec(t, "71.82")))
	assert.True(t, bill.NetTotal.Equal(dec(t, "470.82")))
	assert.Equal(t, int64(470), bill.RoundedTotal)

	require.Len(t, bill.Lines, 1)
	line := bill.Lines[0]
	assert.Equal(t, "W123", line.ProductCode)
	assert.Equal(t, "Test Widget", line.ProductName)
	assert.True(t, line.PurchasePrice.Equal(dec(t, "399.00")))
	assert.True(t, line.TaxPayable.Equal(dec(t, "71.82")))
	assert.True(t, line.LineTotal.Equal(dec(t, "470.82")))
}

func TestComputeBillAggregatesMatchLineSums(t *testing.T) {
	lines := []LoadedLine{
		{Product: testProduct(t, "NB200", "Notebook 200 pages", "45.50", "12.0", 100), Quantity: 3},
		{Product: testProduct(t, "PEN-GEL", "Gel Pen Pack", "60.00", "18.0", 200), Quantity: 2},
		{Product: testProduct(t, "DESK-ORG", "Desk Organizer", "349.00", "18.0", 40), Quantity: 1},
	}
	bill := ComputeBill(lines)

	lineSum := decimal.Zero
	for _, line := range bill.Lines {
		lineSum = lineSum.Add(line.LineTotal)
	}
	diff := lineSum.Sub(bill.Subtotal.Add(bill.TaxTotal)).Abs()
	assert.True(t, diff.LessThanOrEqual(dec(t, "0.01")),
		"line totals %s drifted from aggregates %s", lineSum, bill.Subtotal.Add(bill.TaxTotal))
	assert.Equal(t, bill.NetTotal.IntPart(), bill.RoundedTotal)
}

func TestComputeBillFloorsFractionalUnits(t *testing.T) {
	// 10.55 + 5% tax = 11.0775 -> 11.08 net, 11 charged.
	product := testProduct(t, "FRAC", "Fractional", "10.55", "5.0", 10)
	bill := ComputeBill([]LoadedLine{{Product: product, Quantity: 1}})

	assert.True(t, bill.NetTotal.Equal(dec(t, "11.08")))
	assert.Equal(t, int64(11), bill.RoundedTotal)
}
