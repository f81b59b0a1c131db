package schema

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldHeader reduces a header to the key used for dictionary and heuristic
// matching: lower case, accents stripped, "%" spelled "pct", whitespace runs
// joined with "_".
//
//	"Sales Val % to Target" -> "sales_val_pct_to_target"
//	" Consultant  Name "    -> "consultant_name"
func FoldHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))

	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	if folded, _, err := transform.String(t, h); err == nil {
		h = folded
	}

	h = strings.ReplaceAll(h, "%", " pct ")
	return strings.Join(strings.Fields(h), "_")
}

// NormalizeText trims s, applies NFC and collapses internal whitespace to a
// single space. Used for identity and group values.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
