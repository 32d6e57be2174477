// Package store defines the persistence boundary of the billing service as
// small per-entity interfaces plus a transaction scope. The billing core
// only ever sees these interfaces; postgres backs them in production and the
// memory implementation backs them in tests.
package store

import (
	"context"

	"github.com/yuvan-fsdev/billing-system/internal/model"
)

// Catalog reads product data and mutates product stock.
type Catalog interface {
	// ProductByCode returns the product for a code, or nil when no product
	// matches.
	ProductByCode(ctx context.Context, code string) (*model.Product, error)
	// TakeStock decrements a product's available stock. It fails with a
	// negative-stock error when the decrement would drop below zero.
	TakeStock(ctx context.Context, productID uint, quantity int) error
}

// Customers looks up or creates customers by their unique email.
type Customers interface {
	GetOrCreate(ctx context.Context, email string) (*model.Customer, error)
}

// Denominations reads and mutates the register's denomination inventory.
type Denominations interface {
	// ListByValueDesc returns the denomination stock ordered largest value
	// first, the order the change-making walk consumes.
	ListByValueDesc(ctx context.Context) ([]model.DenominationStock, error)
	// ApplyDelta credits received denominations and debits dispensed ones.
	// A delta that would drive any count below zero fails without applying
	// anything.
	ApplyDelta(ctx context.Context, received, given model.DenominationMap) error
}

// Purchases persists and reads purchase records.
type Purchases interface {
	Create(ctx context.Context, purchase *model.Purchase) error
	// ByID returns a purchase with customer, items and breakdowns attached,
	// or nil when no purchase matches.
	ByID(ctx context.Context, id uint) (*model.Purchase, error)
	// ForCustomer returns a customer's purchases newest first.
	ForCustomer(ctx context.Context, email string) ([]model.Purchase, error)
}

// Store composes the entity stores and provides the atomic unit the
// orchestration runs in.
type Store interface {
	Catalog() Catalog
	Customers() Customers
	Denominations() Denominations
	Purchases() Purchases
	// InTransaction runs fn against a transaction-scoped store. Any error
	// rolls back every mutation fn made.
	InTransaction(ctx context.Context, fn func(Store) error) error
}
