package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/suppcart/storefront/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Fixed keys mirroring the browser local-storage entries this service replaces.
const (
	KeyCart    = "cart"
	KeyOrders  = "orders"
	KeySession = "session"
)

// StateBlob persists one store's full state as a JSON document.
type StateBlob struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     []byte    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName implements the gorm naming override.
func (StateBlob) TableName() string {
	return "state_blobs"
}

// Store reads and writes whole-collection JSON blobs under fixed keys.
type Store struct {
	client *db.Client
}

// New migrates the blob table and returns a ready store.
func New(client *db.Client) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if err := client.DB().AutoMigrate(&StateBlob{}); err != nil {
		return nil, fmt.Errorf("migrating state blobs: %w", err)
	}
	return &Store{client: client}, nil
}

// Get unmarshals the blob stored under key into dest. The second return is
// false when the key has never been written.
func (s *Store) Get(ctx context.Context, key string, dest any) (bool, error) {
	var blob StateBlob
	err := s.client.DB().WithContext(ctx).First(&blob, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading %q: %w", key, err)
	}
	if err := json.Unmarshal(blob.Value, dest); err != nil {
		return false, fmt.Errorf("decoding %q: %w", key, err)
	}
	return true, nil
}

// Put replaces the blob stored under key.
func (s *Store) Put(ctx context.Context, key string, value any) error {
	return putBlob(s.client.DB().WithContext(ctx), key, value)
}

// Delete removes the blob stored under key. Missing keys are a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.DB().WithContext(ctx).Delete(&StateBlob{}, "key = ?", key).Error
}

// Tx scopes blob writes to a single transaction.
type Tx struct {
	db *gorm.DB
}

// Put replaces the blob stored under key within the transaction.
func (t *Tx) Put(key string, value any) error {
	return putBlob(t.db, key, value)
}

// Update runs fn inside one transaction so that writes to several keys
// either all land or none do.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	return s.client.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(&Tx{db: tx})
	})
}

func putBlob(conn *gorm.DB, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	blob := StateBlob{Key: key, Value: raw}
	err = conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&blob).Error
	if err != nil {
		return fmt.Errorf("storing %q: %w", key, err)
	}
	return nil
}
