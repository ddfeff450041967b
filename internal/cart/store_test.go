package cart

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/suppcart/storefront/internal/localstore"
	"github.com/suppcart/storefront/pkg/config"
	"github.com/suppcart/storefront/pkg/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	client, err := db.New(context.Background(), config.StoreConfig{
		Path: filepath.Join(t.TempDir(), "state.db"),
	}, nil)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	persist, err := localstore.New(client)
	if err != nil {
		t.Fatalf("building persistence: %v", err)
	}
	store, err := NewStore(persist)
	if err != nil {
		t.Fatalf("building cart store: %v", err)
	}
	return store
}

func whey() Product {
	return Product{ID: 1, Name: "Whey Protein", UnitPrice: decimal.NewFromInt(549)}
}

func creatine() Product {
	return Product{ID: 2, Name: "Creatine", UnitPrice: decimal.NewFromInt(239)}
}

func TestAddMergesDuplicates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Add(ctx, whey()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Add(ctx, whey()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items := store.Items()
	if len(items) != 1 {
		t.Fatalf("got %d entries, want 1", len(items))
	}
	if items[0].Quantity != 2 {
		t.Fatalf("got quantity %d, want 2", items[0].Quantity)
	}
}

func TestAddKeepsInsertionOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Add(ctx, whey()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Add(ctx, creatine()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Add(ctx, whey()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items := store.Items()
	if len(items) != 2 {
		t.Fatalf("got %d entries, want 2", len(items))
	}
	if items[0].ID != 1 || items[1].ID != 2 {
		t.Fatalf("order changed: %v", items)
	}
}

func TestSetQuantityZeroRemoves(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Add(ctx, whey()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.SetQuantity(ctx, 1, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.Items()) != 0 {
		t.Fatal("expected item to be removed")
	}
}

func TestSetQuantityReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Add(ctx, whey()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.SetQuantity(ctx, 1, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items := store.Items()
	if items[0].Quantity != 7 {
		t.Fatalf("got quantity %d, want 7", items[0].Quantity)
	}
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Add(ctx, whey()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Remove(ctx, 99); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.Items()) != 1 {
		t.Fatal("expected cart untouched")
	}
}

func TestTotalAndCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Add(ctx, whey()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Add(ctx, whey()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Add(ctx, creatine()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantTotal := decimal.NewFromInt(549*2 + 239)
	if !store.Total().Equal(wantTotal) {
		t.Fatalf("got total %s, want %s", store.Total(), wantTotal)
	}
	if store.Count() != 3 {
		t.Fatalf("got count %d, want 3", store.Count())
	}
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Add(ctx, whey()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.Items()) != 0 {
		t.Fatal("expected cart to be empty")
	}
	if !store.Total().IsZero() {
		t.Fatal("expected zero total")
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Add(ctx, whey()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items := store.Items()
	items[0].Quantity = 99

	if store.Items()[0].Quantity != 1 {
		t.Fatal("mutating the returned slice leaked into the store")
	}
}

func TestRehydrateRestoresPersistedCart(t *testing.T) {
	client, err := db.New(context.Background(), config.StoreConfig{
		Path: filepath.Join(t.TempDir(), "state.db"),
	}, nil)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	persist, err := localstore.New(client)
	if err != nil {
		t.Fatalf("building persistence: %v", err)
	}

	ctx := context.Background()

	first, err := NewStore(persist)
	if err != nil {
		t.Fatalf("building cart store: %v", err)
	}
	if err := first.Add(ctx, whey()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := first.Add(ctx, whey()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := NewStore(persist)
	if err != nil {
		t.Fatalf("building cart store: %v", err)
	}
	if err := second.Rehydrate(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items := second.Items()
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("rehydrated cart mismatch: %v", items)
	}
}
