package db

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/jonathan/talent-match/internal/sqltemplate"
	"github.com/jonathan/talent-match/internal/types"
)

// ErrNoJobID means the insert succeeded but no job_vacancy_id came back
var ErrNoJobID = errors.New("failed to insert or retrieve job_vacancy_id from database")

// JobIDColumn is the generated identifier returned by the insert
const JobIDColumn = "job_vacancy_id"

const insertJobSQL = `
INSERT INTO talent_benchmarks (role_name, job_level, role_purpose, selected_talent_ids)
VALUES (:role_name, :job_level, :role_purpose, :selected_talent_ids)
RETURNING job_vacancy_id;`

// RegisterJob records a match job and returns the id the database assigned to it.
// An empty result or NULL id yields ErrNoJobID.
func (db *DB) RegisterJob(ctx context.Context, req *types.JobRequest) (int64, error) {
	ids := req.BenchmarkIDs
	if ids == nil {
		ids = []int64{}
	}

	query, args, err := sqltemplate.Bind(insertJobSQL, map[string]any{
		"role_name":           req.RoleName,
		"job_level":           string(req.JobLevel),
		"role_purpose":        req.RolePurpose,
		"selected_talent_ids": ids,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to bind job insert: %w", err)
	}

	table, err := db.RunQuery(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to register job: %w", err)
	}
	if table.Empty() {
		return 0, ErrNoJobID
	}

	col := table.ColumnIndex(JobIDColumn)
	if col < 0 {
		return 0, errors.WithDetailf(ErrNoJobID, "result columns: %v", table.Columns)
	}

	id, ok := toInt64(table.Rows[0][col])
	if !ok {
		return 0, errors.WithDetailf(ErrNoJobID, "unexpected id value %v", table.Rows[0][col])
	}

	db.logger.Infow("Registered match job", "job_id", id, "benchmarks", len(ids))
	return id, nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	case string:
		id, err := strconv.ParseInt(n, 10, 64)
		return id, err == nil
	case []byte:
		id, err := strconv.ParseInt(string(n), 10, 64)
		return id, err == nil
	default:
		return 0, false
	}
}
