package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents the product master data
type Product struct {
	ID             uint            `json:"id" gorm:"primarykey"`
	Name           string          `json:"name" gorm:"type:varchar(255);not null"`
	ProductCode    string          `json:"product_code" gorm:"type:varchar(64);uniqueIndex;not null"`
	AvailableStock int             `json:"available_stock" gorm:"not null;default:0"`
	UnitPrice      decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2);not null"`
	TaxPercentage  decimal.Decimal `json:"tax_percentage" gorm:"type:numeric(5,2);not null"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
