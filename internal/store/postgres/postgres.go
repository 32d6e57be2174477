// Package postgres implements the store interfaces on GORM/PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yuvan-fsdev/billing-system/internal/billing"
	"github.com/yuvan-fsdev/billing-system/internal/model"
	"github.com/yuvan-fsdev/billing-system/internal/store"
)

// Store is a GORM-backed store.Store. A Store built on a transaction handle
// scopes every entity store to that transaction.
type Store struct {
	db *gorm.DB
}

// New wraps a GORM connection (or transaction) in a Store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Catalog() store.Catalog             { return &catalog{db: s.db} }
func (s *Store) Customers() store.Customers         { return &customers{db: s.db} }
func (s *Store) Denominations() store.Denominations { return &denominations{db: s.db} }
func (s *Store) Purchases() store.Purchases         { return &purchases{db: s.db} }

// InTransaction runs fn inside one database transaction; fn's error rolls
// everything back.
func (s *Store) InTransaction(ctx context.Context, fn func(store.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

type catalog struct {
	db *gorm.DB
}

func (c *catalog) ProductByCode(ctx context.Context, code string) (*model.Product, error) {
	var product model.Product
	err := c.db.WithContext(ctx).Where("product_code = ?", code).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *catalog) TakeStock(ctx context.Context, productID uint, quantity int) error {
	var product model.Product
	err := c.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return billing.Errorf(billing.KindNotFound, "product %d not found", productID)
	}
	if err != nil {
		return err
	}

	product.AvailableStock -= quantity
	if product.AvailableStock < 0 {
		return billing.Errorf(billing.KindNegativeStock, "product stock cannot go negative for %q", product.ProductCode)
	}
	return c.db.WithContext(ctx).Model(&product).Update("available_stock", product.AvailableStock).Error
}

type customers struct {
	db *gorm.DB
}

func (c *customers) GetOrCreate(ctx context.Context, email string) (*model.Customer, error) {
	var customer model.Customer
	err := c.db.WithContext(ctx).Where("email = ?", email).First(&customer).Error
	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer = model.Customer{Email: email}
	if err := c.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

type denominations struct {
	db *gorm.DB
}

func (d *denominations) ListByValueDesc(ctx context.Context) ([]model.DenominationStock, error) {
	var rows []model.DenominationStock
	err := d.db.WithContext(ctx).Order("value DESC").Find(&rows).Error
	return rows, err
}

func (d *denominations) ApplyDelta(ctx context.Context, received, given model.DenominationMap) error {
	for value, delta := range billing.NetDelta(received, given) {
		if delta == 0 {
			continue
		}

		var row model.DenominationStock
		err := d.db.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("value = ?", value).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Absent denomination means zero count; created lazily on first
			// credit.
			row = model.DenominationStock{Value: value}
		} else if err != nil {
			return err
		}

		row.AvailableCount += delta
		if row.AvailableCount < 0 {
			return billing.Errorf(billing.KindInsufficientDenominationStock,
				"insufficient denomination stock for value %d", value)
		}
		if err := d.db.WithContext(ctx).Save(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

type purchases struct {
	db *gorm.DB
}

func (p *purchases) Create(ctx context.Context, purchase *model.Purchase) error {
	return p.db.WithContext(ctx).Create(purchase).Error
}

func (p *purchases) ByID(ctx context.Context, id uint) (*model.Purchase, error) {
	var purchase model.Purchase
	err := p.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items").
		Preload("PaymentBreakdown").
		Preload("ChangeBreakdown").
		First(&purchase, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (p *purchases) ForCustomer(ctx context.Context, email string) ([]model.Purchase, error) {
	var rows []model.Purchase
	err := p.db.WithContext(ctx).
		Select("purchases.*").
		Joins("JOIN customers ON customers.id = purchases.customer_id").
		Where("customers.email = ?", email).
		Order("purchases.created_at DESC").
		Find(&rows).Error
	return rows, err
}
