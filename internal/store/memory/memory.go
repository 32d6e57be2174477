// Package memory implements the store interfaces in process memory. It
// exists for tests: the orchestration runs unmodified against it, including
// transaction rollback.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yuvan-fsdev/billing-system/internal/billing"
	"github.com/yuvan-fsdev/billing-system/internal/model"
	"github.com/yuvan-fsdev/billing-system/internal/store"
)

// Store keeps all entities in slices guarded by one mutex.
type Store struct {
	mu            sync.Mutex
	products      []model.Product
	customers     []model.Customer
	denominations []model.DenominationStock
	purchases     []model.Purchase

	nextProductID  uint
	nextCustomerID uint
	nextPurchaseID uint
	nextRowID      uint
}

func New() *Store {
	return &Store{
		nextProductID:  1,
		nextCustomerID: 1,
		nextPurchaseID: 1,
		nextRowID:      1,
	}
}

func (s *Store) Catalog() store.Catalog             { return (*catalog)(s) }
func (s *Store) Customers() store.Customers         { return (*customers)(s) }
func (s *Store) Denominations() store.Denominations { return (*denominations)(s) }
func (s *Store) Purchases() store.Purchases         { return (*purchases)(s) }

type snapshot struct {
	products      []model.Product
	customers     []model.Customer
	denominations []model.DenominationStock
	purchases     []model.Purchase

	nextProductID  uint
	nextCustomerID uint
	nextPurchaseID uint
	nextRowID      uint
}

// InTransaction snapshots the whole store, runs fn, and restores the
// snapshot when fn fails, giving the same all-or-nothing behavior as a
// database transaction.
func (s *Store) InTransaction(_ context.Context, fn func(store.Store) error) error {
	s.mu.Lock()
	snap := snapshot{
		products:       append([]model.Product(nil), s.products...),
		customers:      append([]model.Customer(nil), s.customers...),
		denominations:  append([]model.DenominationStock(nil), s.denominations...),
		purchases:      append([]model.Purchase(nil), s.purchases...),
		nextProductID:  s.nextProductID,
		nextCustomerID: s.nextCustomerID,
		nextPurchaseID: s.nextPurchaseID,
		nextRowID:      s.nextRowID,
	}
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.products = snap.products
		s.customers = snap.customers
		s.denominations = snap.denominations
		s.purchases = snap.purchases
		s.nextProductID = snap.nextProductID
		s.nextCustomerID = snap.nextCustomerID
		s.nextPurchaseID = snap.nextPurchaseID
		s.nextRowID = snap.nextRowID
		s.mu.Unlock()
		return err
	}
	return nil
}

// AddProduct seeds a product and returns it with its assigned ID.
func (s *Store) AddProduct(product model.Product) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	product.ID = s.nextProductID
	s.nextProductID++
	s.products = append(s.products, product)
	return product
}

// SetDenomination seeds or overwrites one denomination count.
func (s *Store) SetDenomination(value, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.denominations {
		if s.denominations[i].Value == value {
			s.denominations[i].AvailableCount = count
			return
		}
	}
	s.denominations = append(s.denominations, model.DenominationStock{
		ID:             s.nextRowID,
		Value:          value,
		AvailableCount: count,
	})
	s.nextRowID++
}

// DenominationCount reports the current count for a value, zero when absent.
func (s *Store) DenominationCount(value int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.denominations {
		if s.denominations[i].Value == value {
			return s.denominations[i].AvailableCount
		}
	}
	return 0
}

// ProductStock reports the current stock for a product code, -1 when absent.
func (s *Store) ProductStock(code string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ProductCode == code {
			return s.products[i].AvailableStock
		}
	}
	return -1
}

type catalog Store

func (c *catalog) ProductByCode(_ context.Context, code string) (*model.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.products {
		if c.products[i].ProductCode == code {
			product := c.products[i]
			return &product, nil
		}
	}
	return nil, nil
}

func (c *catalog) TakeStock(_ context.Context, productID uint, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.products {
		if c.products[i].ID == productID {
			if c.products[i].AvailableStock-quantity < 0 {
				return billing.Errorf(billing.KindNegativeStock,
					"product stock cannot go negative for %q", c.products[i].ProductCode)
			}
			c.products[i].AvailableStock -= quantity
			return nil
		}
	}
	return billing.Errorf(billing.KindNotFound, "product %d not found", productID)
}

type customers Store

func (c *customers) GetOrCreate(_ context.Context, email string) (*model.Customer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.customers {
		if c.customers[i].Email == email {
			customer := c.customers[i]
			return &customer, nil
		}
	}
	customer := model.Customer{ID: c.nextCustomerID, Email: email, CreatedAt: time.Now()}
	c.nextCustomerID++
	c.customers = append(c.customers, customer)
	return &customer, nil
}

type denominations Store

func (d *denominations) ListByValueDesc(_ context.Context) ([]model.DenominationStock, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rows := append([]model.DenominationStock(nil), d.denominations...)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Value > rows[j].Value })
	return rows, nil
}

func (d *denominations) ApplyDelta(_ context.Context, received, given model.DenominationMap) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Validate every delta before touching anything so a failure leaves the
	// counts untouched even outside a transaction scope.
	updated := make(map[int]int)
	for value, delta := range billing.NetDelta(received, given) {
		if delta == 0 {
			continue
		}
		count := 0
		for i := range d.denominations {
			if d.denominations[i].Value == value {
				count = d.denominations[i].AvailableCount
				break
			}
		}
		count += delta
		if count < 0 {
			return billing.Errorf(billing.KindInsufficientDenominationStock,
				"insufficient denomination stock for value %d", value)
		}
		updated[value] = count
	}

	for value, count := range updated {
		found := false
		for i := range d.denominations {
			if d.denominations[i].Value == value {
				d.denominations[i].AvailableCount = count
				found = true
				break
			}
		}
		if !found {
			d.denominations = append(d.denominations, model.DenominationStock{
				ID:             d.nextRowID,
				Value:          value,
				AvailableCount: count,
			})
			d.nextRowID++
		}
	}
	return nil
}

type purchases Store

func (p *purchases) Create(_ context.Context, purchase *model.Purchase) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	purchase.ID = p.nextPurchaseID
	p.nextPurchaseID++
	if purchase.CreatedAt.IsZero() {
		purchase.CreatedAt = time.Now()
	}
	for i := range purchase.Items {
		purchase.Items[i].ID = p.nextRowID
		p.nextRowID++
		purchase.Items[i].PurchaseID = purchase.ID
	}
	if purchase.PaymentBreakdown != nil {
		purchase.PaymentBreakdown.ID = p.nextRowID
		p.nextRowID++
		purchase.PaymentBreakdown.PurchaseID = purchase.ID
	}
	if purchase.ChangeBreakdown != nil {
		purchase.ChangeBreakdown.ID = p.nextRowID
		p.nextRowID++
		purchase.ChangeBreakdown.PurchaseID = purchase.ID
	}

	p.purchases = append(p.purchases, *purchase)
	return nil
}

func (p *purchases) ByID(_ context.Context, id uint) (*model.Purchase, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.purchases {
		if p.purchases[i].ID == id {
			purchase := p.purchases[i]
			for j := range p.customers {
				if p.customers[j].ID == purchase.CustomerID {
					purchase.Customer = p.customers[j]
					break
				}
			}
			return &purchase, nil
		}
	}
	return nil, nil
}

func (p *purchases) ForCustomer(_ context.Context, email string) ([]model.Purchase, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var customerID uint
	for i := range p.customers {
		if p.customers[i].Email == email {
			customerID = p.customers[i].ID
			break
		}
	}
	if customerID == 0 {
		return nil, nil
	}

	var rows []model.Purchase
	for i := len(p.purchases) - 1; i >= 0; i-- {
		if p.purchases[i].CustomerID == customerID {
			rows = append(rows, p.purchases[i])
		}
	}
	return rows, nil
}
