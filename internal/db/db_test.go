package db

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// passthroughConverter lets array arguments reach the mock the way the pgx driver accepts them
type passthroughConverter struct{}

func (passthroughConverter) ConvertValue(v any) (driver.Value, error) {
	return v, nil
}

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New(sqlmock.ValueConverterOption(passthroughConverter{}))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return New(sqlDB, zaptest.NewLogger(t).Sugar()), mock
}

func TestIsReadQuery(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"SELECT 1", true},
		{"  \n\tselect * from t", true},
		{"SeLeCt name FROM employees", true},
		{"WITH x AS (SELECT 1) SELECT * FROM x", false},
		{"INSERT INTO t VALUES (1) RETURNING id", false},
		{"UPDATE t SET a = 1", false},
		{"sel", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, IsReadQuery(tt.query))
		})
	}
}

func TestRunQuery_SelectReturnsTable(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT employee_name, final_match_rate FROM results WHERE job = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"employee_name", "final_match_rate"}).
			AddRow("Alice", 91.5).
			AddRow("Bob", 72.0))
	mock.ExpectCommit()

	table, err := db.RunQuery(context.Background(),
		"SELECT employee_name, final_match_rate FROM results WHERE job = $1", int64(7))
	require.NoError(t, err)
	require.NotNil(t, table)

	assert.Equal(t, []string{"employee_name", "final_match_rate"}, table.Columns)
	assert.Equal(t, [][]any{{"Alice", 91.5}, {"Bob", 72.0}}, table.Rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunQuery_SelectWithNoRows(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"employee_name"}))
	mock.ExpectCommit()

	table, err := db.RunQuery(context.Background(), "SELECT employee_name FROM results")
	require.NoError(t, err)
	require.NotNil(t, table)
	assert.True(t, table.Empty())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunQuery_MutatingWithReturning(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO t (a) VALUES ($1) RETURNING id")).
		WithArgs("x").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectCommit()

	table, err := db.RunQuery(context.Background(), "INSERT INTO t (a) VALUES ($1) RETURNING id", "x")
	require.NoError(t, err)
	require.NotNil(t, table)
	assert.Equal(t, [][]any{{int64(3)}}, table.Rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunQuery_MutatingWithoutResultColumns(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE").WillReturnRows(sqlmock.NewRows([]string{}))
	mock.ExpectCommit()

	table, err := db.RunQuery(context.Background(), "UPDATE t SET a = 1")
	require.NoError(t, err)
	assert.Nil(t, table)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunQuery_ErrorRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	dbErr := errors.New("relation \"employees\" does not exist")

	mock.ExpectBegin()
	mock.ExpectQuery("WITH").WillReturnError(dbErr)
	mock.ExpectRollback()

	table, err := db.RunQuery(context.Background(), "WITH x AS (SELECT 1) SELECT * FROM employees")
	assert.Nil(t, table)
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "failed to execute query")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunQuery_BeginFails(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	_, err := db.RunQuery(context.Background(), "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunQuery_CommitFails(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"a"}).AddRow(1))
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	_, err := db.RunQuery(context.Background(), "SELECT a FROM t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to commit transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunQuery_RowErrorRollsBack(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"a"}).
		AddRow(1).
		RowError(0, errors.New("network reset")))
	mock.ExpectRollback()

	_, err := db.RunQuery(context.Background(), "SELECT a FROM t")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPing(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()
	db := New(sqlDB, nil)

	mock.ExpectPing()
	assert.NoError(t, db.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	err = db.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping database")
}
