package db

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-match/internal/types"
)

var insertPattern = regexp.QuoteMeta(
	"INSERT INTO talent_benchmarks (role_name, job_level, role_purpose, selected_talent_ids)")

func sampleRequest() *types.JobRequest {
	return &types.JobRequest{
		RoleName:     "Data Analyst",
		JobLevel:     types.LevelMid,
		RolePurpose:  "Analyze business and operational data.",
		BenchmarkIDs: []int64{1001, 1002},
	}
}

func TestRegisterJob(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(insertPattern).
		WithArgs("Data Analyst", "Mid", "Analyze business and operational data.", []int64{1001, 1002}).
		WillReturnRows(sqlmock.NewRows([]string{"job_vacancy_id"}).AddRow(int64(58)))
	mock.ExpectCommit()

	id, err := db.RegisterJob(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(58), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterJob_UsesBoundParameters(t *testing.T) {
	db, mock := newMockDB(t)
	req := sampleRequest()
	req.RoleName = "x'); DROP TABLE talent_benchmarks; --"

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("VALUES ($1, $2, $3, $4)")).
		WithArgs(req.RoleName, "Mid", req.RolePurpose, []int64{1001, 1002}).
		WillReturnRows(sqlmock.NewRows([]string{"job_vacancy_id"}).AddRow(int64(1)))
	mock.ExpectCommit()

	_, err := db.RegisterJob(context.Background(), req)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterJob_EmptyBenchmarksBindEmptyArray(t *testing.T) {
	db, mock := newMockDB(t)
	req := sampleRequest()
	req.BenchmarkIDs = nil

	mock.ExpectBegin()
	mock.ExpectQuery(insertPattern).
		WithArgs("Data Analyst", "Mid", req.RolePurpose, []int64{}).
		WillReturnRows(sqlmock.NewRows([]string{"job_vacancy_id"}).AddRow(int64(2)))
	mock.ExpectCommit()

	id, err := db.RegisterJob(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
}

func TestRegisterJob_NoRowsReturned(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(insertPattern).
		WillReturnRows(sqlmock.NewRows([]string{"job_vacancy_id"}))
	mock.ExpectCommit()

	_, err := db.RegisterJob(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, ErrNoJobID)
}

func TestRegisterJob_NullID(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(insertPattern).
		WillReturnRows(sqlmock.NewRows([]string{"job_vacancy_id"}).AddRow(nil))
	mock.ExpectCommit()

	_, err := db.RegisterJob(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, ErrNoJobID)
}

func TestRegisterJob_NoResultColumns(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(insertPattern).WillReturnRows(sqlmock.NewRows([]string{}))
	mock.ExpectCommit()

	_, err := db.RegisterJob(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, ErrNoJobID)
}

func TestRegisterJob_DatabaseError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(insertPattern).WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	_, err := db.RegisterJob(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoJobID)
	assert.Contains(t, err.Error(), "failed to register job")
}

func TestToInt64(t *testing.T) {
	tests := []struct {
		in   any
		want int64
		ok   bool
	}{
		{int64(5), 5, true},
		{int32(6), 6, true},
		{7, 7, true},
		{"8", 8, true},
		{[]byte("9"), 9, true},
		{"x", 0, false},
		{nil, 0, false},
		{1.5, 0, false},
	}
	for _, tt := range tests {
		got, ok := toInt64(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got)
		}
	}
}
