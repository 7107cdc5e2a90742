package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

// DefaultSnapshotTTL is how long an untouched snapshot survives a purge.
const DefaultSnapshotTTL = 30 * 24 * time.Hour

// Store persists cart snapshots in PostgreSQL, one row per key.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// NewStore wires a PostgreSQL-backed snapshot store. Caller owns DB lifecycle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (s *Store) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

type snapshotRecord struct {
	Key       string    `gorm:"primaryKey;column:key;size:255"`
	Value     string    `gorm:"column:value;type:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;index"`
}

func (snapshotRecord) TableName() string { return "cart_snapshots" }

// Read loads the snapshot stored under key. Keys are trimmed the same way
// Write trims them.
func (s *Store) Read(ctx context.Context, key string) (string, bool, error) {
	if err := s.ensureDB(); err != nil {
		return "", false, err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false, errors.New("snapshot key is required")
	}
	var rec snapshotRecord
	if err := s.db.WithContext(ctx).First(&rec, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return rec.Value, true, nil
}

// Write upserts the snapshot for key, replacing any previous value.
func (s *Store) Write(ctx context.Context, key, value string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("snapshot key is required")
	}
	now := s.now()
	rec := snapshotRecord{Key: key, Value: value, CreatedAt: now, UpdatedAt: now}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rec).Error
}

// PurgeOlderThan deletes snapshots not written within age and reports how
// many were removed.
func (s *Store) PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	if age <= 0 {
		age = DefaultSnapshotTTL
	}
	cutoff := s.now().Add(-age)
	result := s.db.WithContext(ctx).Where("updated_at <= ?", cutoff).Delete(&snapshotRecord{})
	return result.RowsAffected, result.Error
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres snapshot store not configured")
	}
	return nil
}

var _ ports.Store = (*Store)(nil)
