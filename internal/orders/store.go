package orders

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/suppcart/storefront/internal/cart"
	"github.com/suppcart/storefront/internal/localstore"
	"github.com/suppcart/storefront/pkg/enums"
	pkgerrors "github.com/suppcart/storefront/pkg/errors"
)

// Customer captures the checkout form for an order.
type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	ZipCode   string `json:"zip_code"`
}

// Order is a placed order. Items are a frozen snapshot of the cart at
// creation time, never a live reference.
type Order struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Status    enums.OrderStatus `json:"status"`
	Total     decimal.Decimal   `json:"total"`
	Items     []cart.Item       `json:"items"`
	Customer  Customer          `json:"customer"`
}

// Store holds the order history newest-first and persists it on every
// mutation.
type Store struct {
	mu      sync.Mutex
	orders  []Order
	persist *localstore.Store
	now     func() time.Time
}

// NewStore builds an order store backed by the provided persistence layer.
func NewStore(persist *localstore.Store) (*Store, error) {
	if persist == nil {
		return nil, fmt.Errorf("persistence store required")
	}
	return &Store{persist: persist, now: time.Now}, nil
}

// Rehydrate loads the persisted order list, if any. Called once at startup.
func (s *Store) Rehydrate(ctx context.Context) error {
	var orders []Order
	found, err := s.persist.Get(ctx, localstore.KeyOrders, &orders)
	if err != nil {
		return fmt.Errorf("rehydrating orders: %w", err)
	}
	if !found {
		return nil
	}
	s.mu.Lock()
	s.orders = orders
	s.mu.Unlock()
	return nil
}

// NewOrder assembles an unplaced pending order from a cart snapshot. The
// id combines the creation timestamp with a random token so repeated
// calls in the same millisecond stay unique.
func (s *Store) NewOrder(items []cart.Item, customer Customer) Order {
	now := s.now()
	snapshot := make([]cart.Item, len(items))
	copy(snapshot, items)
	return Order{
		ID:        newOrderID(now),
		CreatedAt: now,
		Status:    enums.OrderStatusPending,
		Total:     itemsTotal(snapshot),
		Items:     snapshot,
		Customer:  customer,
	}
}

// Create places a new pending order at the head of the list and persists.
func (s *Store) Create(ctx context.Context, items []cart.Item, customer Customer) (Order, error) {
	order := s.NewOrder(items, customer)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = append([]Order{order}, s.orders...)
	if err := s.persistLocked(ctx); err != nil {
		s.orders = s.orders[1:]
		return Order{}, err
	}
	return copyOrder(order), nil
}

// Get returns the order with the given id or a not-found error.
func (s *Store) Get(id string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, order := range s.orders {
		if order.ID == id {
			return copyOrder(order), nil
		}
	}
	return Order{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

// List returns a copy of all orders, newest first.
func (s *Store) List() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Order, len(s.orders))
	for i, order := range s.orders {
		out[i] = copyOrder(order)
	}
	return out
}

// SetStatus moves the order to the requested status. Transitions outside
// the allowed table are rejected.
func (s *Store) SetStatus(ctx context.Context, id string, status enums.OrderStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID != id {
			continue
		}
		current := s.orders[i].Status
		if current == status {
			return nil
		}
		if !current.CanTransitionTo(status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order cannot move from %s to %s", current, status))
		}
		s.orders[i].Status = status
		if err := s.persistLocked(ctx); err != nil {
			s.orders[i].Status = current
			return err
		}
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

// StageCreate writes the order list with order prepended into the provided
// transaction without touching the in-memory state. Callers must invoke
// Adopt once the transaction commits.
func (s *Store) StageCreate(tx *localstore.Tx, order Order) error {
	s.mu.Lock()
	staged := append([]Order{order}, s.orders...)
	s.mu.Unlock()
	return tx.Put(localstore.KeyOrders, staged)
}

// Adopt prepends the order in memory only. It pairs with StageCreate
// after an external transactional persist.
func (s *Store) Adopt(order Order) {
	s.mu.Lock()
	s.orders = append([]Order{order}, s.orders...)
	s.mu.Unlock()
}

func (s *Store) persistLocked(ctx context.Context) error {
	orders := s.orders
	if orders == nil {
		orders = []Order{}
	}
	return s.persist.Put(ctx, localstore.KeyOrders, orders)
}

func newOrderID(now time.Time) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), token)
}

func itemsTotal(items []cart.Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func copyOrder(order Order) Order {
	items := make([]cart.Item, len(order.Items))
	copy(items, order.Items)
	order.Items = items
	return order
}
