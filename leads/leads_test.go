package leads

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

func newTestCollection(t *testing.T) *SQLiteCollection {
	t.Helper()
	ctx := context.Background()
	sqlDB, err := db.Open(ctx, filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	coll, err := NewSQLiteCollection(ctx, sqlDB, "leads")
	require.NoError(t, err)
	return coll
}

type memCollection struct {
	docs []Lead
	err  error
}

func (m *memCollection) Add(_ context.Context, doc Lead) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.docs = append(m.docs, doc)
	return "doc-1", nil
}

func TestSubmitStoresLead(t *testing.T) {
	coll := &memCollection{}
	svc := NewService(coll)
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.FixedZone("PDT", -7*3600))
	svc.now = func() time.Time { return fixed }

	id, err := svc.Submit(context.Background(), Request{Email: "ana@clinic.vet", ClinicName: "Paws & Co"})
	require.NoError(t, err)
	assert.Equal(t, "doc-1", id)
	require.Len(t, coll.docs, 1)
	assert.Equal(t, Lead{Email: "ana@clinic.vet", ClinicName: "Paws & Co", Timestamp: fixed.UTC()}, coll.docs[0])
}

func TestSubmitRequiresEmail(t *testing.T) {
	coll := &memCollection{}
	svc := NewService(coll)
	for _, email := range []string{"", "   "} {
		_, err := svc.Submit(context.Background(), Request{Email: email, ClinicName: "Paws"})
		assert.ErrorIs(t, err, ErrEmailRequired)
	}
	assert.Empty(t, coll.docs)
}

func TestSubmitWrapsStoreErrors(t *testing.T) {
	boom := errors.New("unavailable")
	svc := NewService(&memCollection{err: boom})
	_, err := svc.Submit(context.Background(), Request{Email: "ana@clinic.vet"})
	assert.ErrorIs(t, err, boom)
}

func TestSQLiteCollectionRoundTrip(t *testing.T) {
	coll := newTestCollection(t)
	ctx := context.Background()
	assert.Equal(t, "leads", coll.Name())

	ts := time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC)
	id, err := coll.Add(ctx, Lead{Email: "ana@clinic.vet", ClinicName: "Paws & Co", Timestamp: ts})
	require.NoError(t, err)
	assert.Len(t, id, 36)

	got, err := coll.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Paws & Co", got.ClinicName)
	assert.True(t, got.Timestamp.Equal(ts))

	n, err := coll.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = coll.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteCollectionsAreSeparate(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := db.Open(ctx, filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	a, err := NewSQLiteCollection(ctx, sqlDB, "leads")
	require.NoError(t, err)
	b, err := NewSQLiteCollection(ctx, sqlDB, "waitlist")
	require.NoError(t, err)

	id, err := a.Add(ctx, Lead{Email: "ana@clinic.vet"})
	require.NoError(t, err)
	_, err = b.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := b.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = NewSQLiteCollection(ctx, sqlDB, "")
	assert.Error(t, err)
}
