package schema

import "strings"

// KnownSheetNames are tried in order when no sheet is named explicitly.
// "Sales Perfromance" is the misspelled tab name of the historical workbook.
var KnownSheetNames = []string{
	"Sales Perfromance",
	"Sales Performance",
}

// HeaderAlias maps one known header spelling onto a canonical field.
type HeaderAlias struct {
	Header string
	Field  Field
}

// DefaultAliases are the header variants seen in past workbooks and
// exports. Matching compares FoldHeader forms.
var DefaultAliases = []HeaderAlias{
	// Direct Sales Gamification workbook
	{"Consultant Name", FieldName},
	{"Supervisor Name", FieldGroup},
	{"TotalSalesVal", FieldSalesActual},
	{"SalesValTarget", FieldSalesTarget},
	{"TotalRealAppsVol", FieldAppsActual},
	{"TotalRealAppsVal", FieldAppsActual},
	{"RealAppsTarget", FieldAppsTarget},

	// Generic exports
	{"Name", FieldName},
	{"Consultant", FieldName},
	{"Salesperson", FieldName},
	{"Employee", FieldName},
	{"Employee Name", FieldName},
	{"Full Name", FieldName},
	{"Rep Name", FieldName},
	{"Agent Name", FieldName},
	{"Supervisor", FieldGroup},
	{"Manager", FieldGroup},
	{"Manager Name", FieldGroup},
	{"Team Lead", FieldGroup},
	{"Team Leader", FieldGroup},
	{"Current Sales", FieldSalesActual},
	{"Total Sales", FieldSalesActual},
	{"Actual Sales", FieldSalesActual},
	{"Sales Value", FieldSalesActual},
	{"Sales Amount", FieldSalesActual},
	{"Target", FieldSalesTarget},
	{"Sales Target", FieldSalesTarget},
	{"Target Sales", FieldSalesTarget},
	{"Sales Goal", FieldSalesTarget},
	{"Quota", FieldSalesTarget},
	{"Apps Actual", FieldAppsActual},
	{"Real Apps", FieldAppsActual},
	{"Apps Target", FieldAppsTarget},
	{"Real Apps Target", FieldAppsTarget},
}

// Rule is a case-insensitive substring predicate over a folded header.
// A header matches when it contains every AllOf term, at least one AnyOf
// term (if any are given) and none of the NoneOf terms.
type Rule struct {
	Field  Field
	AllOf  []string
	AnyOf  []string
	NoneOf []string
}

// Matches reports whether the folded header satisfies the rule.
func (r Rule) Matches(folded string) bool {
	for _, s := range r.AllOf {
		if !strings.Contains(folded, s) {
			return false
		}
	}
	if len(r.AnyOf) > 0 {
		found := false
		for _, s := range r.AnyOf {
			if strings.Contains(folded, s) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, s := range r.NoneOf {
		if strings.Contains(folded, s) {
			return false
		}
	}
	return true
}

// DefaultRules run in order after the alias pass, each only for a field that
// is still unresolved and only over columns not yet claimed.
var DefaultRules = []Rule{
	{Field: FieldName, AnyOf: []string{"name"}, NoneOf: []string{"supervisor"}},
	{Field: FieldSalesActual, AnyOf: []string{"sales", "val"}, NoneOf: []string{"target"}},
	{Field: FieldSalesTarget, AllOf: []string{"target"}, AnyOf: []string{"sales", "val"}},
	{Field: FieldGroup, AnyOf: []string{"supervisor"}},
	{Field: FieldAppsActual, AllOf: []string{"apps"}, NoneOf: []string{"target", "pct"}},
	{Field: FieldAppsTarget, AllOf: []string{"apps", "target"}, NoneOf: []string{"pct"}},
}
