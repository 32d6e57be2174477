package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is a committed billing transaction. Rows are written once inside
// the bill-generation transaction and never updated afterwards.
type Purchase struct {
	ID           uint            `json:"id" gorm:"primarykey"`
	CustomerID   uint            `json:"customer_id" gorm:"index;not null"`
	CreatedAt    time.Time       `json:"created_at" gorm:"index"`
	Subtotal     decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2);not null"`
	TaxTotal     decimal.Decimal `json:"tax_total" gorm:"type:numeric(12,2);not null"`
	GrandTotal   decimal.Decimal `json:"grand_total" gorm:"type:numeric(12,2);not null"`
	RoundedTotal int64           `json:"rounded_total" gorm:"not null"`
	PaidAmount   decimal.Decimal `json:"paid_amount" gorm:"type:numeric(12,2);not null"`

	Customer         Customer          `json:"-"`
	Items            []PurchaseItem    `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	PaymentBreakdown *PaymentBreakdown `json:"payment_breakdown" gorm:"constraint:OnDelete:CASCADE"`
	ChangeBreakdown  *ChangeBreakdown  `json:"change_breakdown" gorm:"constraint:OnDelete:CASCADE"`
}

// PurchaseItem is a denormalized line snapshot. Product identity, price and
// tax rate are copied at sale time so later catalog edits do not rewrite
// history.
type PurchaseItem struct {
	ID            uint            `json:"id" gorm:"primarykey"`
	PurchaseID    uint            `json:"purchase_id" gorm:"index;not null"`
	ProductID     uint            `json:"product_id" gorm:"index;not null"`
	ProductCode   string          `json:"product_code" gorm:"type:varchar(64);not null"`
	ProductName   string          `json:"product_name" gorm:"type:varchar(255);not null"`
	Quantity      int             `json:"quantity" gorm:"not null"`
	UnitPrice     decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2);not null"`
	TaxPercentage decimal.Decimal `json:"tax_percentage" gorm:"type:numeric(5,2);not null"`
	LineSubtotal  decimal.Decimal `json:"line_subtotal" gorm:"type:numeric(12,2);not null"`
	LineTax       decimal.Decimal `json:"line_tax" gorm:"type:numeric(12,2);not null"`
	LineTotal     decimal.Decimal `json:"line_total" gorm:"type:numeric(12,2);not null"`
}
