// Package ranking orders performers by overall score and assigns
// competition ranks.
package ranking

import (
	"sort"

	"github.com/salesrace/pitwall/internal/domain"
	"github.com/salesrace/pitwall/pkg/formulas"
)

// Rank returns a copy of performers sorted by descending overall score, with
// equal scores kept in input order. Equal scores share a rank; every other
// rank is one plus the number of strictly higher scores. TrackPosition is
// each score as a percentage of the best score in the set.
func Rank(performers []domain.Performer) []domain.Performer {
	out := make([]domain.Performer, len(performers))
	copy(out, performers)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OverallScore > out[j].OverallScore
	})

	if len(out) == 0 {
		return out
	}

	best := out[0].OverallScore
	for i := range out {
		if i > 0 && out[i].OverallScore == out[i-1].OverallScore {
			out[i].Rank = out[i-1].Rank
		} else {
			out[i].Rank = i + 1
		}
		out[i].TrackPosition = formulas.Percent(out[i].OverallScore, best)
	}

	return out
}

// Top returns at most n performers from an already ranked slice. A
// non-positive n returns the slice unchanged.
func Top(ranked []domain.Performer, n int) []domain.Performer {
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}
