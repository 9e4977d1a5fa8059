// Package ranking turns the scoring query's result set into an ordered talent list.
package ranking

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/talent-match/internal/types"
)

// Columns produced by the scoring query
const (
	NameColumn = "employee_name"
	RateColumn = "final_match_rate"
)

// FromTable extracts name and match-rate pairs from a result table.
// Rates may arrive as any numeric driver type or as numeric text; NULL and NaN
// rates are kept with HasRate unset.
func FromTable(table *types.Table, nameCol, rateCol string) ([]types.MatchResult, error) {
	if table == nil {
		return nil, &ColumnError{Column: nameCol}
	}

	nameIdx := table.ColumnIndex(nameCol)
	if nameIdx < 0 {
		return nil, &ColumnError{Column: nameCol, Available: table.Columns}
	}
	rateIdx := table.ColumnIndex(rateCol)
	if rateIdx < 0 {
		return nil, &ColumnError{Column: rateCol, Available: table.Columns}
	}

	results := make([]types.MatchResult, 0, len(table.Rows))
	for i, row := range table.Rows {
		rate, ok, err := toFloat(row[rateIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid %s: %w", i, rateCol, err)
		}
		results = append(results, types.MatchResult{
			EmployeeName: toText(row[nameIdx]),
			MatchRate:    rate,
			HasRate:      ok,
		})
	}

	return results, nil
}

// Rank returns a copy of results ordered by match rate, highest first.
// The sort is stable: equal rates keep their input order. Rows without a
// rate go last.
func Rank(results []types.MatchResult) []types.MatchResult {
	ranked := make([]types.MatchResult, len(results))
	copy(ranked, results)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.HasRate != b.HasRate {
			return a.HasRate
		}
		return a.MatchRate > b.MatchRate
	})

	return ranked
}

// Top returns at most n leading results
func Top(results []types.MatchResult, n int) []types.MatchResult {
	if n < 0 || n >= len(results) {
		return results
	}
	return results[:n]
}

func toFloat(v any) (float64, bool, error) {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0, false, nil
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case int:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false, err
		}
		f = parsed
	case []byte:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
		if err != nil {
			return 0, false, err
		}
		f = parsed
	default:
		return 0, false, fmt.Errorf("unsupported type %T", v)
	}

	// NaN and ±Infinity cannot be ranked, binned or encoded as JSON
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, nil
	}
	return f, true, nil
}

func toText(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(s)
	}
}
