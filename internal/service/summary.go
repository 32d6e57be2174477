package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yuvan-fsdev/billing-system/internal/model"
	"github.com/yuvan-fsdev/billing-system/internal/money"
)

// PurchaseLine is the response view of one purchase line.
type PurchaseLine struct {
	ProductID         uint            `json:"product_id"`
	ProductCode       string          `json:"product_code"`
	ProductName       string          `json:"product_name"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Quantity          int             `json:"quantity"`
	TaxPercentage     decimal.Decimal `json:"tax_percentage"`
	PurchasePrice     decimal.Decimal `json:"purchase_price"`
	TaxPayableForItem decimal.Decimal `json:"tax_payable_for_item"`
	TotalPriceOfItem  decimal.Decimal `json:"total_price_of_item"`
}

// PurchaseSummary is the full invoice view returned to callers.
type PurchaseSummary struct {
	PurchaseID               uint                  `json:"purchase_id"`
	CustomerEmail            string                `json:"customer_email"`
	CreatedAt                time.Time             `json:"created_at"`
	Lines                    []PurchaseLine        `json:"lines"`
	TotalPriceWithoutTax     decimal.Decimal       `json:"total_price_without_tax"`
	TotalTaxPayable          decimal.Decimal       `json:"total_tax_payable"`
	NetPrice                 decimal.Decimal       `json:"net_price"`
	RoundedDownNetPrice      int64                 `json:"rounded_down_net_price"`
	PaidAmount               decimal.Decimal       `json:"paid_amount"`
	BalancePayableToCustomer decimal.Decimal       `json:"balance_payable_to_customer"`
	PaymentDenomination      model.DenominationMap `json:"payment_denomination"`
	BalanceDenomination      model.DenominationMap `json:"balance_denomination"`
	ChangeRemainder          int64                 `json:"change_remainder"`
}

// HistoryEntry is one row of a customer's purchase history.
type HistoryEntry struct {
	ID         uint            `json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

func summarize(purchase *model.Purchase) *PurchaseSummary {
	lines := make([]PurchaseLine, 0, len(purchase.Items))
	for _, item := range purchase.Items {
		lines = append(lines, PurchaseLine{
			ProductID:         item.ProductID,
			ProductCode:       item.ProductCode,
			ProductName:       item.ProductName,
			UnitPrice:         item.UnitPrice,
			Quantity:          item.Quantity,
			TaxPercentage:     item.TaxPercentage,
			PurchasePrice:     item.LineSubtotal,
			TaxPayableForItem: item.LineTax,
			TotalPriceOfItem:  item.LineTotal,
		})
	}

	paymentMap := model.DenominationMap{}
	if purchase.PaymentBreakdown != nil {
		paymentMap = purchase.PaymentBreakdown.Denominations
	}
	changeMap := model.DenominationMap{}
	var remainder int64
	if purchase.ChangeBreakdown != nil {
		changeMap = purchase.ChangeBreakdown.Denominations
		remainder = purchase.ChangeBreakdown.Remainder
	}

	balance := money.Quantize(purchase.PaidAmount.Sub(decimal.NewFromInt(purchase.RoundedTotal)))

	return &PurchaseSummary{
		PurchaseID:               purchase.ID,
		CustomerEmail:            purchase.Customer.Email,
		CreatedAt:                purchase.CreatedAt,
		Lines:                    lines,
		TotalPriceWithoutTax:     purchase.Subtotal,
		TotalTaxPayable:          purchase.TaxTotal,
		NetPrice:                 purchase.GrandTotal,
		RoundedDownNetPrice:      purchase.RoundedTotal,
		PaidAmount:               purchase.PaidAmount,
		BalancePayableToCustomer: balance,
		PaymentDenomination:      paymentMap,
		BalanceDenomination:      changeMap,
		ChangeRemainder:          remainder,
	}
}
