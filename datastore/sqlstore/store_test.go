package sqlstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/smartcontractkit/chainlink-user-manager/datastore"
	"github.com/smartcontractkit/chainlink-user-manager/pkg/logger"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := New(t.Context(), logger.Test(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return store
}

func TestStore_Add(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)
	ctx := t.Context()

	user1, err := store.Add(ctx, "John Doe", "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, datastore.User{ID: 1, Name: "John Doe", Email: "john@example.com"}, user1)

	user2, err := store.Add(ctx, "Jane", "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(2), user2.ID)
}

func TestStore_FindByID(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)
	ctx := t.Context()

	added, err := store.Add(ctx, "John", "john@example.com")
	require.NoError(t, err)

	found, ok, err := store.FindByID(ctx, added.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, added, found)

	_, ok, err = store.FindByID(ctx, 999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_DeleteByID(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)
	ctx := t.Context()

	added, err := store.Add(ctx, "John", "john@example.com")
	require.NoError(t, err)

	deleted, err := store.DeleteByID(ctx, added.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, ok, err := store.FindByID(ctx, added.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	deleted, err = store.DeleteByID(ctx, added.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = store.DeleteByID(ctx, 999)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestStore_List(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)
	ctx := t.Context()

	users, err := store.List(ctx)
	require.NoError(t, err)
	require.NotNil(t, users)
	assert.Empty(t, users)

	john, err := store.Add(ctx, "John", "john@example.com")
	require.NoError(t, err)
	jane, err := store.Add(ctx, "Jane", "jane@example.com")
	require.NoError(t, err)
	jim, err := store.Add(ctx, "Jim", "jim@example.com")
	require.NoError(t, err)

	deleted, err := store.DeleteByID(ctx, jane.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	users, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []datastore.User{john, jim}, users)
}

func TestStore_IDsNeverReused(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)
	ctx := t.Context()

	first, err := store.Add(ctx, "John", "john@example.com")
	require.NoError(t, err)
	_, err = store.DeleteByID(ctx, first.ID)
	require.NoError(t, err)

	second, err := store.Add(ctx, "Jane", "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)
}

func TestStore_SeparateDatabases(t *testing.T) {
	t.Parallel()

	storeA := setupTestStore(t)
	storeB := setupTestStore(t)
	ctx := t.Context()

	_, err := storeA.Add(ctx, "John", "john@example.com")
	require.NoError(t, err)

	users, err := storeB.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestStore_CancelledContext(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := store.Add(ctx, "John", "john@example.com")
	require.ErrorIs(t, err, context.Canceled)

	// a failed insert does not consume an id
	added, err := store.Add(t.Context(), "John", "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), added.ID)
}

func TestStore_Closed(t *testing.T) {
	t.Parallel()

	store, err := New(t.Context(), logger.Nop())
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	ctx := t.Context()

	_, err = store.Add(ctx, "John", "john@example.com")
	require.ErrorIs(t, err, ErrClosed)
	_, _, err = store.FindByID(ctx, 1)
	require.ErrorIs(t, err, ErrClosed)
	_, err = store.DeleteByID(ctx, 1)
	require.ErrorIs(t, err, ErrClosed)
	_, err = store.List(ctx)
	require.ErrorIs(t, err, ErrClosed)
}

func TestStore_LogsStatements(t *testing.T) {
	t.Parallel()

	lggr, logs := logger.TestObserved(t, zapcore.DebugLevel)
	store, err := New(t.Context(), lggr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.Add(t.Context(), "John", "john@example.com")
	require.NoError(t, err)

	statements := logs.FilterMessage("Executing statement").All()
	require.Len(t, statements, 2) // schema + insert
	assert.Equal(t, "sqlstore", statements[1].LoggerName)
}
