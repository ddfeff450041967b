package localstore

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

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

	store, err := New(client)
	if err != nil {
		t.Fatalf("building store: %v", err)
	}
	return store
}

func TestGetMissingKey(t *testing.T) {
	store := newTestStore(t)

	var dest []string
	found, err := store.Get(context.Background(), KeyCart, &dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected missing key")
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := store.Put(ctx, KeyCart, doc{Name: "whey", Count: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got doc
	found, err := store.Get(ctx, KeyCart, &got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected key to exist")
	}
	if got.Name != "whey" || got.Count != 2 {
		t.Fatalf("got %+v", got)
	}
}

func TestPutOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, KeySession, "first"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Put(ctx, KeySession, "second"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got string
	if _, err := store.Get(ctx, KeySession, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "second" {
		t.Fatalf("got %q, want %q", got, "second")
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, KeyOrders, []int{1, 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Delete(ctx, KeyOrders); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Delete(ctx, KeyOrders); err != nil {
		t.Fatalf("second delete: %v", err)
	}

	var dest []int
	found, err := store.Get(ctx, KeyOrders, &dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected key to be gone")
	}
}

func TestUpdateCommitsAllKeys(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Update(ctx, func(tx *Tx) error {
		if err := tx.Put(KeyCart, []string{}); err != nil {
			return err
		}
		return tx.Put(KeyOrders, []string{"ORD-1"})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var cartDoc []string
	if _, err := store.Get(ctx, KeyCart, &cartDoc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var orderDoc []string
	if _, err := store.Get(ctx, KeyOrders, &orderDoc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orderDoc) != 1 || orderDoc[0] != "ORD-1" {
		t.Fatalf("got %v", orderDoc)
	}
}

func TestUpdateRollsBackOnError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, KeyCart, []string{"keep"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := store.Update(ctx, func(tx *Tx) error {
		if err := tx.Put(KeyCart, []string{}); err != nil {
			return err
		}
		return fmt.Errorf("boom")
	})
	if err == nil {
		t.Fatal("expected update to fail")
	}

	var got []string
	if _, err := store.Get(ctx, KeyCart, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "keep" {
		t.Fatalf("expected rollback to preserve previous value, got %v", got)
	}
}
