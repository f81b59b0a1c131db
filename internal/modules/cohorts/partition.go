package cohorts

import (
	"sort"

	"github.com/salesrace/pitwall/internal/domain"
	"github.com/salesrace/pitwall/internal/modules/ranking"
)

// View is one cohort's independently ranked subset of performers.
type View struct {
	Name       string             `json:"name"`
	Performers []domain.Performer `json:"performers"`
}

// Partition returns the performers whose group belongs to cohort, re-ranked
// within that subset. Groups absent from the roster never appear.
func Partition(performers []domain.Performer, roster *Roster, cohort string) []domain.Performer {
	subset := make([]domain.Performer, 0)
	for _, p := range performers {
		if c, ok := roster.CohortOf(p.Group); ok && c == cohort {
			subset = append(subset, p)
		}
	}
	return ranking.Rank(subset)
}

// Views partitions performers into every roster cohort, in roster order.
func Views(performers []domain.Performer, roster *Roster) []View {
	names := roster.Names()
	views := make([]View, len(names))
	for i, name := range names {
		views[i] = View{Name: name, Performers: Partition(performers, roster, name)}
	}
	return views
}

// Unmapped returns the distinct groups present in performers that belong to
// no cohort, sorted.
func Unmapped(performers []domain.Performer, roster *Roster) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range performers {
		if _, ok := roster.CohortOf(p.Group); ok || seen[p.Group] {
			continue
		}
		seen[p.Group] = true
		out = append(out, p.Group)
	}
	sort.Strings(out)
	return out
}

// Split returns, per cohort, the sorted distinct groups that actually occur
// in performers.
func Split(performers []domain.Performer, roster *Roster) map[string][]string {
	split := make(map[string][]string, len(roster.names))
	seen := make(map[string]bool)
	for _, name := range roster.names {
		split[name] = []string{}
	}
	for _, p := range performers {
		c, ok := roster.CohortOf(p.Group)
		if !ok || seen[p.Group] {
			continue
		}
		seen[p.Group] = true
		split[c] = append(split[c], p.Group)
	}
	for _, groups := range split {
		sort.Strings(groups)
	}
	return split
}
