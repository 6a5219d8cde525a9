package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upaylabs/fraudwatch/internal/common"
	"github.com/upaylabs/fraudwatch/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestInsertAndGetByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, model.SourceApp, "verify your otp now", true)
	require.NoError(t, err)
	require.Positive(t, id)

	record, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.SourceApp, record.Source)
	assert.Equal(t, "verify your otp now", record.Message)
	assert.True(t, record.AfterHours)
	assert.Equal(t, model.StatusNew, record.Status)
	assert.False(t, record.Result.IsSet())
	assert.Empty(t, record.Error)
	assert.WithinDuration(t, time.Now().UTC(), record.CreatedAt, time.Minute)
}

func TestInsertRejectsEmptyMessage(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Insert(context.Background(), model.SourceWebsite, "   ", false)
	assert.Error(t, err)
}

func TestGetByIDNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetByID(context.Background(), 9999)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestUpdateResult(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, model.SourceWebsite, "some message", false)
	require.NoError(t, err)

	meta := map[string]any{"origin": "offline", "after_hours": false}
	found, err := store.UpdateResult(ctx, id, model.LabelNotFraud, meta)
	require.NoError(t, err)
	assert.True(t, found)

	record, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessed, record.Status)
	assert.Equal(t, model.LabelNotFraud, record.Result)
	assert.Equal(t, "offline", record.Meta["origin"])

	// Updating an id that does not exist reports not found, not an error.
	found, err = store.UpdateResult(ctx, 9999, model.LabelFraud, nil)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMarkError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, model.SourceDatabase, "broken message", false)
	require.NoError(t, err)

	store.MarkError(ctx, id, "store unavailable downstream")

	record, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusError, record.Status)
	assert.Equal(t, "store unavailable downstream", record.Error)
}

func TestFindUnprocessed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Insert(ctx, model.SourceApp, "first", false)
	require.NoError(t, err)
	second, err := store.Insert(ctx, model.SourceApp, "second", false)
	require.NoError(t, err)
	third, err := store.Insert(ctx, model.SourceApp, "third", false)
	require.NoError(t, err)

	// Processed records drop out of the pending set.
	_, err = store.UpdateResult(ctx, second, model.LabelFraud, nil)
	require.NoError(t, err)

	records, err := store.FindUnprocessed(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	// Ascending creation order.
	assert.Equal(t, first, records[0].ID)
	assert.Equal(t, third, records[1].ID)

	// Batch limit is honored.
	records, err = store.FindUnprocessed(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, first, records[0].ID)
}
