package workbook

import (
	"strings"

	"github.com/salesrace/pitwall/internal/modules/schema"
)

// columnLetters converts a 0-based index to spreadsheet column letters:
// 0 -> a, 25 -> z, 26 -> aa.
func columnLetters(index int) string {
	result := ""
	index++

	for index > 0 {
		index--
		result = string(rune('a'+index%26)) + result
		index /= 26
	}

	return result
}

// NormalizeHeaders replaces blank headers with unnamed_a, unnamed_b, ...
// Non-blank headers are kept as-is; schema resolution folds them later.
//
//	["name", "", "sales", "  "] -> ["name", "unnamed_a", "sales", "unnamed_b"]
func NormalizeHeaders(header []string) []string {
	normalized := make([]string, len(header))
	blank := 0

	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			normalized[i] = schema.PlaceholderPrefix + columnLetters(blank)
			blank++
		} else {
			normalized[i] = h
		}
	}

	return normalized
}
