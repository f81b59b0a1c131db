// Package schema maps loosely named spreadsheet columns onto the canonical
// performance fields.
package schema

// Field is a canonical column name
type Field string

const (
	FieldName        Field = "name"
	FieldGroup       Field = "group"
	FieldSalesActual Field = "sales_actual"
	FieldSalesTarget Field = "sales_target"
	FieldAppsActual  Field = "apps_actual"
	FieldAppsTarget  Field = "apps_target"
)

// CanonicalFields lists every canonical field in output column order.
var CanonicalFields = []Field{
	FieldName,
	FieldGroup,
	FieldSalesActual,
	FieldSalesTarget,
	FieldAppsActual,
	FieldAppsTarget,
}

// RequiredFields must resolve or normalization fails.
var RequiredFields = []Field{
	FieldName,
	FieldSalesActual,
	FieldSalesTarget,
}

// PlaceholderPrefix starts the generated name of a column whose header
// cell was blank. Placeholder columns never match a heuristic rule.
const PlaceholderPrefix = "unnamed_"

// Table is an already-parsed, row-oriented sheet. Cells hold strings,
// numbers or nil; rows may be shorter than Columns.
type Table struct {
	Source  string // sheet or file identifier, used in diagnostics
	Columns []string
	Rows    [][]any
}

// Cell returns the value at (row, col) or nil when the row is ragged.
func (t Table) Cell(row, col int) any {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return nil
	}
	r := t.Rows[row]
	if col >= len(r) {
		return nil
	}
	return r[col]
}

// ColumnIndex returns the index of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}
