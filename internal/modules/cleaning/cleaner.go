// Package cleaning turns a normalized table into validated records.
package cleaning

import (
	"math"
	"strconv"
	"strings"

	"github.com/salesrace/pitwall/internal/domain"
	"github.com/salesrace/pitwall/internal/modules/schema"
)

// DropReason explains why a row was excluded
type DropReason string

const (
	DropMissingName        DropReason = "missing_name"
	DropInvalidSalesTarget DropReason = "invalid_sales_target"
	DropInvalidSalesActual DropReason = "invalid_sales_actual"
)

// Report summarises a cleaning pass. Rows are never reported one by one.
type Report struct {
	RowsIn  int                `json:"rows_in"`
	RowsOut int                `json:"rows_out"`
	Dropped map[DropReason]int `json:"dropped"`
}

// DroppedTotal returns the number of excluded rows.
func (r Report) DroppedTotal() int {
	return r.RowsIn - r.RowsOut
}

// Clean validates and coerces every row of n. It never fails: invalid rows
// are excluded and counted in the report.
func Clean(n schema.Normalized) ([]domain.Record, Report) {
	t := n.Table
	col := func(f schema.Field) int { return t.ColumnIndex(string(f)) }

	var (
		nameCol        = col(schema.FieldName)
		groupCol       = col(schema.FieldGroup)
		salesActualCol = col(schema.FieldSalesActual)
		salesTargetCol = col(schema.FieldSalesTarget)
		appsActualCol  = col(schema.FieldAppsActual)
		appsTargetCol  = col(schema.FieldAppsTarget)
	)

	report := Report{
		RowsIn:  len(t.Rows),
		Dropped: make(map[DropReason]int),
	}
	records := make([]domain.Record, 0, len(t.Rows))

	for i := range t.Rows {
		name := Text(t.Cell(i, nameCol))
		if name == "" {
			report.Dropped[DropMissingName]++
			continue
		}

		target, ok := Number(t.Cell(i, salesTargetCol))
		if !ok || target <= 0 {
			report.Dropped[DropInvalidSalesTarget]++
			continue
		}

		actual, ok := Number(t.Cell(i, salesActualCol))
		if !ok || actual < 0 {
			report.Dropped[DropInvalidSalesActual]++
			continue
		}

		group := Text(t.Cell(i, groupCol))
		if group == "" {
			group = domain.UnassignedGroup
		}

		records = append(records, domain.Record{
			Name:        name,
			Group:       group,
			Row:         i + 1,
			SalesActual: actual,
			SalesTarget: target,
			AppsActual:  optional(t.Cell(i, appsActualCol)),
			AppsTarget:  optional(t.Cell(i, appsTargetCol)),
		})
	}

	report.RowsOut = len(records)
	return records, report
}

// optional coerces an optional numeric cell; invalid or negative becomes 0.
func optional(v any) float64 {
	f, ok := Number(v)
	if !ok || f < 0 {
		return 0
	}
	return f
}

// Text renders a cell as normalized text. Nil and NaN become "".
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return schema.NormalizeText(x)
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return Text(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// Number coerces a cell to a finite float. Strings may carry surrounding
// whitespace and "," thousands separators. Booleans are not numbers.
func Number(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint64:
		f = float64(x)
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(x), ",", "")
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
