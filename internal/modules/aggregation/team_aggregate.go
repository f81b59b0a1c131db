// Package aggregation builds team and company rollups from scored performers.
package aggregation

import (
	"sort"

	"github.com/salesrace/pitwall/internal/domain"
	"github.com/salesrace/pitwall/internal/modules/scoring"
	"github.com/salesrace/pitwall/pkg/formulas"
)

// CohortLookup resolves the cohort a group belongs to.
type CohortLookup interface {
	CohortOf(group string) (string, bool)
}

type teamTotals struct {
	members     int
	salesActual float64
	salesTarget float64
	appsActual  float64
	appsTarget  float64
	scores      []float64
}

// Aggregate returns one TeamAggregate per distinct group in performers,
// sorted by group name. Team ratios come from the summed totals, never from
// averaging member ratios. cohorts may be nil.
func Aggregate(performers []domain.Performer, cohorts CohortLookup) []domain.TeamAggregate {
	totals := make(map[string]*teamTotals)
	for _, p := range performers {
		t, ok := totals[p.Group]
		if !ok {
			t = &teamTotals{}
			totals[p.Group] = t
		}
		t.members++
		t.salesActual += p.SalesActual
		t.salesTarget += p.SalesTarget
		t.appsActual += p.AppsActual
		t.appsTarget += p.AppsTarget
		t.scores = append(t.scores, p.OverallScore)
	}

	teams := make([]domain.TeamAggregate, 0, len(totals))
	for group, t := range totals {
		rate := formulas.Percent(t.salesActual, t.salesTarget)

		team := domain.TeamAggregate{
			Group:           group,
			Tier:            scoring.ClassifyTier(rate),
			Vehicle:         scoring.AssignVehicle(rate),
			MemberCount:     t.members,
			SalesActual:     t.salesActual,
			SalesTarget:     t.salesTarget,
			AppsActual:      t.appsActual,
			AppsTarget:      t.appsTarget,
			AvgScore:        formulas.Mean(t.scores),
			AchievementRate: rate,
			AppsRate:        formulas.Percent(t.appsActual, t.appsTarget),
			GapToTarget:     t.salesTarget - t.salesActual,
		}
		if cohorts != nil {
			if c, ok := cohorts.CohortOf(group); ok {
				team.Cohort = c
			}
		}
		teams = append(teams, team)
	}

	// Sort by name for consistent output
	sort.Slice(teams, func(i, j int) bool {
		return teams[i].Group < teams[j].Group
	})

	return teams
}

// SortByAchievement returns teams ordered by team achievement rate, highest
// first, ties by group name.
func SortByAchievement(teams []domain.TeamAggregate) []domain.TeamAggregate {
	out := make([]domain.TeamAggregate, len(teams))
	copy(out, teams)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AchievementRate != out[j].AchievementRate {
			return out[i].AchievementRate > out[j].AchievementRate
		}
		return out[i].Group < out[j].Group
	})
	return out
}
