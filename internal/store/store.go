// Package store is the single in-memory owner of all POS entities. There is
// no persistence: state lives for the process lifetime and resets on restart.
//
// Mutation follows the immutable-replace convention: accessors hand out
// copies, and updates swap whole records so no caller ever shares a mutable
// reference with the store.
package store

import (
	"errors"
	"sync"

	"github.com/reluxe-pos/app/internal/model"
)

// ErrNotFound is returned when a lookup or replace misses.
var ErrNotFound = errors.New("not found")

// Store holds every entity list. Safe for concurrent use, though the core
// dispatches transitions one at a time.
type Store struct {
	mu sync.RWMutex

	products      []model.Product
	members       []model.Member
	employees     []model.Employee
	merchants     []model.Merchant
	invoiceTitles []model.InvoiceTitle
	orders        []model.Settlement
	returnOrders  []model.ReturnOrder
	recycleOrders []model.RecycleOrder
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// --- Products ---

func (s *Store) Products() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Product(nil), s.products...)
}

func (s *Store) GetProduct(id string) (model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Product{}, ErrNotFound
}

func (s *Store) InsertProduct(p model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, p)
}

// --- Members ---

func (s *Store) Members() []model.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Member(nil), s.members...)
}

func (s *Store) GetMember(id string) (model.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if m.ID == id {
			return m, nil
		}
	}
	return model.Member{}, ErrNotFound
}

func (s *Store) InsertMember(m model.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = append(s.members, m)
}

// ReplaceMember swaps the member with the same ID for the given value.
func (s *Store) ReplaceMember(m model.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.members {
		if s.members[i].ID == m.ID {
			members := append([]model.Member(nil), s.members...)
			members[i] = m
			s.members = members
			return nil
		}
	}
	return ErrNotFound
}

// --- Employees / merchants (read-only reference lists) ---

func (s *Store) Employees() []model.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Employee(nil), s.employees...)
}

func (s *Store) GetEmployee(id string) (model.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return model.Employee{}, ErrNotFound
}

func (s *Store) Merchants() []model.Merchant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Merchant(nil), s.merchants...)
}

func (s *Store) GetMerchant(id string) (model.Merchant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.merchants {
		if m.ID == id {
			return m, nil
		}
	}
	return model.Merchant{}, ErrNotFound
}

// --- Invoice titles ---

func (s *Store) InvoiceTitles() []model.InvoiceTitle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.InvoiceTitle(nil), s.invoiceTitles...)
}

func (s *Store) GetInvoiceTitle(id string) (model.InvoiceTitle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.invoiceTitles {
		if t.ID == id {
			return t, nil
		}
	}
	return model.InvoiceTitle{}, ErrNotFound
}

// InsertInvoiceTitle appends a title. When it is flagged default, the flag
// is cleared from every other title so at most one default exists.
func (s *Store) InsertInvoiceTitle(t model.InvoiceTitle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	titles := append([]model.InvoiceTitle(nil), s.invoiceTitles...)
	if t.IsDefault {
		for i := range titles {
			titles[i].IsDefault = false
		}
	}
	s.invoiceTitles = append(titles, t)
}

func (s *Store) ReplaceInvoiceTitle(t model.InvoiceTitle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.invoiceTitles {
		if s.invoiceTitles[i].ID == t.ID {
			titles := append([]model.InvoiceTitle(nil), s.invoiceTitles...)
			if t.IsDefault {
				for j := range titles {
					titles[j].IsDefault = false
				}
			}
			titles[i] = t
			s.invoiceTitles = titles
			return nil
		}
	}
	return ErrNotFound
}

// --- Settlements (sales orders) ---

// Orders returns settlements newest-first.
func (s *Store) Orders() []model.Settlement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Settlement(nil), s.orders...)
}

// OrdersByEmployee filters the order list by salesperson.
func (s *Store) OrdersByEmployee(employeeID string) []model.Settlement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Settlement
	for _, o := range s.orders {
		if o.EmployeeID == employeeID {
			out = append(out, o)
		}
	}
	return out
}

func (s *Store) GetOrder(id string) (model.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return model.Settlement{}, ErrNotFound
}

// InsertOrder prepends so the newest order heads the list.
func (s *Store) InsertOrder(o model.Settlement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append([]model.Settlement{o}, s.orders...)
}

func (s *Store) ReplaceOrder(o model.Settlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == o.ID {
			orders := append([]model.Settlement(nil), s.orders...)
			orders[i] = o
			s.orders = orders
			return nil
		}
	}
	return ErrNotFound
}

// --- Return orders ---

func (s *Store) ReturnOrders() []model.ReturnOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.ReturnOrder(nil), s.returnOrders...)
}

func (s *Store) ReturnOrdersByEmployee(employeeID string) []model.ReturnOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.ReturnOrder
	for _, r := range s.returnOrders {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out
}

func (s *Store) GetReturnOrder(id string) (model.ReturnOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.returnOrders {
		if r.ID == id {
			return r, nil
		}
	}
	return model.ReturnOrder{}, ErrNotFound
}

// ReturnOrderForOriginal finds the return request spawned from the given
// sales order, if any. Used to enforce at most one return per settlement.
func (s *Store) ReturnOrderForOriginal(salesOrderID string) (model.ReturnOrder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.returnOrders {
		if r.OriginalOrderID == salesOrderID {
			return r, true
		}
	}
	return model.ReturnOrder{}, false
}

func (s *Store) InsertReturnOrder(r model.ReturnOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.returnOrders = append([]model.ReturnOrder{r}, s.returnOrders...)
}

func (s *Store) ReplaceReturnOrder(r model.ReturnOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.returnOrders {
		if s.returnOrders[i].ID == r.ID {
			returns := append([]model.ReturnOrder(nil), s.returnOrders...)
			returns[i] = r
			s.returnOrders = returns
			return nil
		}
	}
	return ErrNotFound
}

// --- Recycle orders ---

func (s *Store) RecycleOrders() []model.RecycleOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.RecycleOrder(nil), s.recycleOrders...)
}

func (s *Store) InsertRecycleOrder(r model.RecycleOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recycleOrders = append([]model.RecycleOrder{r}, s.recycleOrders...)
}
