package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresStoreMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return NewPostgresStore(sqlxDB), mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestPostgresStoreGet(t *testing.T) {
	s, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"startIndex":2}`))
	mock.ExpectQuery("SELECT value FROM planner_records").
		WithArgs("lessonSchedules:12G2").
		WillReturnRows(rows)

	value, ok, err := s.Get(context.Background(), "lessonSchedules:12G2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"startIndex":2}`, string(value))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreGetMissing(t *testing.T) {
	s, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT value FROM planner_records").
		WithArgs("timetable").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, ok, err := s.Get(context.Background(), "timetable")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSet(t *testing.T) {
	s, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO planner_records").
		WithArgs("settings:holidays", []byte(`[]`), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Set(context.Background(), "settings:holidays", []byte(`[]`)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreDelete(t *testing.T) {
	s, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM planner_records").
		WithArgs("lessonContents:12G2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Delete(context.Background(), "lessonContents:12G2"))
	require.NoError(t, mock.ExpectationsWereMet())
}
