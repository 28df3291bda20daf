package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestLoad_MissingKey_ReturnsAbsent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t), "Mindeducation")

	v, ok, err := r.Load(context.Background(), KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSaveThenLoad(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t), "Mindeducation")
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, KeyToken, `"tkn-1"`))

	v, ok, err := r.Load(ctx, KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"tkn-1"`, v)
}

func TestSave_UpsertOverwrites(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t), "Mindeducation")
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, KeyToken, `"old"`))
	require.NoError(t, r.Save(ctx, KeyToken, `"new"`))

	v, _, err := r.Load(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, `"new"`, v)

	keys, err := r.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{KeyToken}, keys)
}

func TestNamespacesAreIsolated(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	a := NewSQLiteRepository(db, "Mindeducation")
	b := NewSQLiteRepository(db, "Other")

	require.NoError(t, a.Save(ctx, KeyToken, `"a"`))

	_, ok, err := b.Load(ctx, KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Remove(ctx, KeyToken))
	v, ok, err := a.Load(ctx, KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"a"`, v)
	assert.Equal(t, "Mindeducation", a.Namespace())
}

func TestRemove_SeveralKeysAndIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t), "Mindeducation")
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, KeyToken, `"t"`))
	require.NoError(t, r.Save(ctx, KeyUser, `{"id":"1"}`))

	require.NoError(t, r.Remove(ctx, KeyToken, KeyUser))
	keys, err := r.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	// повторное удаление не должно падать
	require.NoError(t, r.Remove(ctx, KeyToken, KeyUser))
	require.NoError(t, r.Remove(ctx))
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "client.db")

	db, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, NewSQLiteRepository(db, "Mindeducation").Save(ctx, KeyToken, `"abc123"`))
	require.NoError(t, db.Close())

	db, err = InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	v, ok, err := NewSQLiteRepository(db, "Mindeducation").Load(ctx, KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"abc123"`, v)
}

func TestClosedDB_ErrorsWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db, "Mindeducation")
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, _, err := r.Load(ctx, KeyToken)
	require.ErrorContains(t, err, "failed to load credential[token]")

	err = r.Save(ctx, KeyUser, "{}")
	require.ErrorContains(t, err, "failed to save credential[user]")

	_, err = r.Keys(ctx)
	require.ErrorContains(t, err, "failed to list credentials")

	require.Error(t, r.Remove(ctx, KeyToken))
}

func TestRemove_RollsBackWhenSecondDeleteFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM credentials`).
		WithArgs("Mindeducation", KeyToken).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM credentials`).
		WithArgs("Mindeducation", KeyUser).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	r := NewSQLiteRepository(db, "Mindeducation")
	err = r.Remove(context.Background(), KeyToken, KeyUser)
	require.ErrorContains(t, err, "failed to remove credential[user]")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, RunMigrations(context.Background(), db))

	var n int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='credentials'`).Scan(&n))
	assert.Equal(t, 1, n)
}
