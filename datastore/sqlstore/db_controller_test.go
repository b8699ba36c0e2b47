package sqlstore

import (
	"database/sql"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/smartcontractkit/chainlink-user-manager/pkg/logger"
)

func openMemDbForTest(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open(DriverName, "test_"+ksuid.New().String())
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, db.Close())
	})

	return db
}

func TestDbController(t *testing.T) {
	t.Parallel()

	lggr, logs := logger.TestObserved(t, zapcore.DebugLevel)
	ctrl := newDbController(openMemDbForTest(t), lggr)

	require.NoError(t, ctrl.Fixture(t.Context(), "CREATE TABLE IF NOT EXISTS test(a int)"))
	_, err := ctrl.ExecContext(t.Context(), "INSERT INTO test (a) VALUES ($1)", 7)
	require.NoError(t, err)

	t.Run("Check inserted values", func(t *testing.T) {
		rows, err2 := ctrl.QueryContext(t.Context(), "SELECT a FROM test")
		require.NoError(t, err2)
		defer func(rows *sql.Rows) {
			assert.NoError(t, rows.Close())
		}(rows)

		var got []int
		for rows.Next() {
			var a int
			require.NoError(t, rows.Scan(&a))
			got = append(got, a)
		}
		require.NoError(t, rows.Err())
		assert.Equal(t, []int{7}, got)
	})

	assert.Equal(t, 2, logs.FilterMessage("Executing statement").Len())
	assert.Equal(t, 1, logs.FilterMessage("Executing query").Len())
}

func TestDbController_Closed(t *testing.T) {
	t.Parallel()

	db, err := sql.Open(DriverName, "test_"+ksuid.New().String())
	require.NoError(t, err)

	ctrl := newDbController(db, logger.Nop())
	require.NoError(t, ctrl.Close())

	err = ctrl.Fixture(t.Context(), "CREATE TABLE IF NOT EXISTS test(a int)")
	require.Error(t, err)
}
