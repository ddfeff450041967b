package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/suppcart/storefront/internal/localstore"
)

// Item is one cart line. There is at most one entry per product id and
// quantity is always at least 1.
type Item struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"image_url,omitempty"`
}

// Product is the view-level payload for an add-to-cart action.
type Product struct {
	ID        int64
	Name      string
	UnitPrice decimal.Decimal
	ImageURL  string
}

// Store holds the cart collection in memory and persists it on every
// mutation, mirroring the browser local-storage behaviour it replaces.
type Store struct {
	mu      sync.Mutex
	items   []Item
	persist *localstore.Store
}

// NewStore builds a cart store backed by the provided persistence layer.
func NewStore(persist *localstore.Store) (*Store, error) {
	if persist == nil {
		return nil, fmt.Errorf("persistence store required")
	}
	return &Store{persist: persist}, nil
}

// Rehydrate loads the persisted cart, if any. Called once at startup.
func (s *Store) Rehydrate(ctx context.Context) error {
	var items []Item
	found, err := s.persist.Get(ctx, localstore.KeyCart, &items)
	if err != nil {
		return fmt.Errorf("rehydrating cart: %w", err)
	}
	if !found {
		return nil
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Add inserts the product with quantity 1, or increments the existing
// entry's quantity when the product is already in the cart.
func (s *Store) Add(ctx context.Context, p Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := false
	for i := range s.items {
		if s.items[i].ID == p.ID {
			s.items[i].Quantity++
			updated = true
			break
		}
	}
	if !updated {
		s.items = append(s.items, Item{
			ID:        p.ID,
			Name:      p.Name,
			UnitPrice: p.UnitPrice,
			Quantity:  1,
			ImageURL:  p.ImageURL,
		})
	}
	return s.persistLocked(ctx)
}

// Remove deletes the entry with the given id. Absent ids are a no-op,
// but the collection is still persisted.
func (s *Store) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(id)
	return s.persistLocked(ctx)
}

// SetQuantity replaces the entry's quantity. A quantity of zero or less
// removes the entry.
func (s *Store) SetQuantity(ctx context.Context, id int64, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty <= 0 {
		s.removeLocked(id)
		return s.persistLocked(ctx)
	}
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = qty
			break
		}
	}
	return s.persistLocked(ctx)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return s.persistLocked(ctx)
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Total sums unit price times quantity over all entries.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Count sums the quantities over all entries.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// StageClear writes an emptied cart into the provided transaction without
// touching the in-memory state. Callers must invoke Reset once the
// transaction commits.
func (s *Store) StageClear(tx *localstore.Tx) error {
	return tx.Put(localstore.KeyCart, []Item{})
}

// Reset empties the in-memory collection only. It pairs with StageClear
// after an external transactional persist.
func (s *Store) Reset() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

func (s *Store) removeLocked(id int64) {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

func (s *Store) persistLocked(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []Item{}
	}
	return s.persist.Put(ctx, localstore.KeyCart, items)
}
