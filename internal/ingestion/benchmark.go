// Package ingestion collects and normalizes the role profile submitted by the analyst.
package ingestion

import (
	"strconv"
	"strings"
)

// ParseBenchmarkIDs parses a comma-separated list of benchmark employee ids.
// Tokens are trimmed; only tokens made entirely of ASCII digits are kept, in
// their original order and with duplicates preserved. Everything else is
// dropped without error, so "1001, abc ,1002," yields [1001 1002].
func ParseBenchmarkIDs(raw string) []int64 {
	ids := []int64{}
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if !isDigits(token) {
			continue
		}
		id, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			// overflows int64
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// FormatBenchmarkIDs joins ids back into the form's comma-separated representation
func FormatBenchmarkIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
