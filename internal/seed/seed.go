// Package seed inserts sample products and the default denomination rows.
package seed

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yuvan-fsdev/billing-system/internal/model"
)

var productFixtures = []model.Product{
	{Name: "Notebook 200 pages", ProductCode: "NB200", AvailableStock: 100, UnitPrice: decimal.RequireFromString("45.50"), TaxPercentage: decimal.RequireFromString("12.0")},
	{Name: "Gel Pen Pack", ProductCode: "PEN-GEL", AvailableStock: 200, UnitPrice: decimal.RequireFromString("60.00"), TaxPercentage: decimal.RequireFromString("18.0")},
	{Name: "Desk Organizer", ProductCode: "DESK-ORG", AvailableStock: 40, UnitPrice: decimal.RequireFromString("349.00"), TaxPercentage: decimal.RequireFromString("18.0")},
	{Name: "USB-C Cable 1m", ProductCode: "USBC-1M", AvailableStock: 150, UnitPrice: decimal.RequireFromString("199.00"), TaxPercentage: decimal.RequireFromString("18.0")},
	{Name: "Wireless Mouse", ProductCode: "MOUSE-WL", AvailableStock: 80, UnitPrice: decimal.RequireFromString("599.00"), TaxPercentage: decimal.RequireFromString("18.0")},
}

var defaultDenominations = []int{2000, 500, 200, 100, 50, 20, 10, 5, 2, 1}

// Run upserts the product fixtures and ensures a row exists for every
// default denomination. Safe to run repeatedly.
func Run(db *gorm.DB) error {
	for _, fixture := range productFixtures {
		var existing model.Product
		err := db.Where("product_code = ?", fixture.ProductCode).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := db.Create(&fixture).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			existing.Name = fixture.Name
			existing.AvailableStock = fixture.AvailableStock
			existing.UnitPrice = fixture.UnitPrice
			existing.TaxPercentage = fixture.TaxPercentage
			if err := db.Save(&existing).Error; err != nil {
				return err
			}
		}
	}

	for _, value := range defaultDenominations {
		var denom model.DenominationStock
		err := db.Where("value = ?", value).First(&denom).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&model.DenominationStock{Value: value}).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}

	return nil
}
