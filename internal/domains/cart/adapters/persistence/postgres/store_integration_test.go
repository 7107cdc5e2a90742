//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/storefront-cart/internal/platform/migrations"
)

func setupSnapshotPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("cart_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestStore_ReadMissingKey(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupSnapshotPostgresContainer(t)
	defer cleanup()

	store := NewStore(db)
	_, ok, err := store.Read(context.Background(), "@RocketShoes:cart")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_WriteOverwritesWholesale(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupSnapshotPostgresContainer(t)
	defer cleanup()

	store := NewStore(db)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "cart", `[{"id":1,"amount":1}]`))
	require.NoError(t, store.Write(ctx, "cart", `[{"id":2,"amount":3}]`))

	value, ok, err := store.Read(ctx, "cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":2,"amount":3}]`, value)
}

func TestStore_PurgeOlderThan(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupSnapshotPostgresContainer(t)
	defer cleanup()

	store := NewStore(db)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	store.WithClock(func() time.Time { return old })
	require.NoError(t, store.Write(ctx, "stale", "[]"))

	store.WithClock(time.Now)
	require.NoError(t, store.Write(ctx, "fresh", "[]"))

	removed, err := store.PurgeOlderThan(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, ok, err := store.Read(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Read(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_KeysAreTrimmedOnReadAndWrite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupSnapshotPostgresContainer(t)
	defer cleanup()

	store := NewStore(db)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "  cart ", `[{"id":5,"amount":1}]`))

	for _, key := range []string{"cart", " cart", "cart  "} {
		value, ok, err := store.Read(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok, key)
		assert.Equal(t, `[{"id":5,"amount":1}]`, value)
	}

	_, _, err := store.Read(ctx, "   ")
	require.Error(t, err)
}
