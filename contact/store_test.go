package contact

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/vetbuddy/db"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	ctx := context.Background()
	sqlDB, err := db.Open(ctx, filepath.Join(t.TempDir(), "contacts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	store, err := NewSQLStore(ctx, sqlDB)
	require.NoError(t, err)
	return store
}

func TestSQLStoreInsertAndList(t *testing.T) {
	store := newTestStore(t)
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.FixedZone("CET", 3600))
	store.now = func() time.Time { return fixed }
	ctx := context.Background()

	first, err := store.Insert(ctx, Submission{Name: "Ana", Email: "ana@clinic.vet", Message: "We'd love a demo."})
	require.NoError(t, err)
	second, err := store.Insert(ctx, Submission{Name: "Ben", Email: "ben@clinic.vet", Message: "Pricing for two sites?"})
	require.NoError(t, err)

	assert.Positive(t, first.ID)
	assert.Greater(t, second.ID, first.ID)
	assert.Equal(t, time.UTC, first.CreatedAt.Location())
	assert.Equal(t, fixed.UTC().Truncate(time.Millisecond), first.CreatedAt)

	list, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.Equal(t, "Ana", list[1].Name)
	assert.True(t, list[1].CreatedAt.Equal(first.CreatedAt))

	list, err = store.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSQLStoreRejectsInvalid(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Insert(context.Background(), Submission{Name: "Ana", Email: "ana@clinic.vet", Message: "short"})
	assert.True(t, errors.Is(err, ErrInvalid))

	list, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}
