package ranking

import (
	"fmt"
	"strings"
)

// ColumnError reports a column the scoring query did not return
type ColumnError struct {
	Column    string
	Available []string
}

func (e *ColumnError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("result has no column %q", e.Column)
	}
	return fmt.Sprintf("result has no column %q (columns: %s)", e.Column, strings.Join(e.Available, ", "))
}
