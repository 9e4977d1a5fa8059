package types

// Table is a materialized result set: column names plus row values in column order
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// ColumnIndex returns the position of the named column, or -1
func (t *Table) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Empty reports whether the table is absent or has no rows
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}
