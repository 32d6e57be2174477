// Package billing implements the computation core of the register: line
// validation, tax-inclusive bill totals, greedy change-making and the
// denomination ledger arithmetic. Everything here is pure apart from catalog
// lookups, which go through the small ProductFinder interface.
package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/yuvan-fsdev/billing-system/internal/model"
	"github.com/yuvan-fsdev/billing-system/internal/money"
)

// ProductFinder resolves a product code to catalog data.
type ProductFinder interface {
	ProductByCode(ctx context.Context, code string) (*model.Product, error)
}

// LineRequest is one requested purchase line.
type LineRequest struct {
	ProductCode string
	Quantity    int
}

// LoadedLine pairs a resolved product with the requested quantity.
type LoadedLine struct {
	Product  model.Product
	Quantity int
}

// ComputedLine holds the figures for a single line, snapshotted at sale time.
type ComputedLine struct {
	ProductID     uint
	ProductCode   string
	ProductName   string
	UnitPrice     decimal.Decimal
	Quantity      int
	TaxPercentage decimal.Decimal
	PurchasePrice decimal.Decimal
	TaxPayable    decimal.Decimal
	LineTotal     decimal.Decimal
}

// Computation is the aggregate result of a bill.
type Computation struct {
	Subtotal     decimal.Decimal
	TaxTotal     decimal.Decimal
	NetTotal     decimal.Decimal
	RoundedTotal int64
	Lines        []ComputedLine
}

// LoadLines resolves each requested line against the catalog and validates
// it. Per line the checks run in order: existence, quantity positivity,
// stock sufficiency; the first failing line aborts the whole call. An empty
// request list fails with an empty-order error.
func LoadLines(ctx context.Context, finder ProductFinder, requests []LineRequest) ([]LoadedLine, error) {
	lines := make([]LoadedLine, 0, len(requests))
	for _, req := range requests {
		product, err := finder.ProductByCode(ctx, req.ProductCode)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, Errorf(KindNotFound, "product with code %q not found", req.ProductCode)
		}
		if req.Quantity < 1 {
			return nil, Errorf(KindInvalidQuantity, "quantity for product %q must be at least 1", req.ProductCode)
		}
		if req.Quantity > product.AvailableStock {
			return nil, Errorf(KindInsufficientStock, "insufficient stock for product %q", req.ProductCode)
		}
		lines = append(lines, LoadedLine{Product: *product, Quantity: req.Quantity})
	}

	if len(lines) == 0 {
		return nil, Errorf(KindEmptyOrder, "at least one line item is required")
	}
	return lines, nil
}

var hundred = decimal.NewFromInt(100)

// ComputeBill computes per-line and aggregate totals in input order. The
// running subtotal and tax total are re-quantized after every addition so
// the aggregates stay equal to the sum of the persisted per-line values.
// The rounded total is the net total truncated to whole currency units.
func ComputeBill(lines []LoadedLine) Computation {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	computed := make([]ComputedLine, 0, len(lines))

	for _, line := range lines {
		unitPrice := money.Quantize(line.Product.UnitPrice)
		quantity := decimal.NewFromInt(int64(line.Quantity))
		purchasePrice := money.Quantize(unitPrice.Mul(quantity))
		taxPercentage := money.Quantize(line.Product.TaxPercentage)
		lineTax := money.Quantize(purchasePrice.Mul(taxPercentage.Div(hundred)))
		lineTotal := money.Quantize(purchasePrice.Add(lineTax))

		subtotal = money.Quantize(subtotal.Add(purchasePrice))
		taxTotal = money.Quantize(taxTotal.Add(lineTax))

		computed = append(computed, ComputedLine{
			ProductID:     line.Product.ID,
			ProductCode:   line.Product.ProductCode,
			ProductName:   line.Product.Name,
			UnitPrice:     unitPrice,
			Quantity:      line.Quantity,
			TaxPercentage: taxPercentage,
			PurchasePrice: purchasePrice,
			TaxPayable:    lineTax,
			LineTotal:     lineTotal,
		})
	}

	netTotal := money.Quantize(subtotal.Add(taxTotal))
	return Computation{
		Subtotal:     subtotal,
		TaxTotal:     taxTotal,
		NetTotal:     netTotal,
		RoundedTotal: money.FloorUnits(netTotal),
		Lines:        computed,
	}
}
