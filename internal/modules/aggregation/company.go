package aggregation

import (
	"errors"

	"github.com/salesrace/pitwall/internal/domain"
	"github.com/salesrace/pitwall/pkg/formulas"
)

// ErrEmptyDataset is returned when a rollup is requested over zero records.
var ErrEmptyDataset = errors.New("dataset contains no valid records")

// Distribution counts performers per tier. Every tier is present, possibly
// with a zero count.
func Distribution(performers []domain.Performer) domain.TierDistribution {
	dist := make(domain.TierDistribution, len(domain.Tiers))
	for _, t := range domain.Tiers {
		dist[t] = 0
	}
	for _, p := range performers {
		dist[p.Tier]++
	}
	return dist
}

// Rollup computes company-wide totals over performers. The top performer is
// the highest overall score, the earliest one in input order on ties.
func Rollup(performers []domain.Performer) (domain.CompanyMetrics, error) {
	if len(performers) == 0 {
		return domain.CompanyMetrics{}, ErrEmptyDataset
	}

	var (
		m      domain.CompanyMetrics
		scores = make([]float64, len(performers))
		groups = make(map[string]bool)
		top    = 0
	)

	for i, p := range performers {
		m.TotalSalesActual += p.SalesActual
		m.TotalSalesTarget += p.SalesTarget
		m.TotalAppsActual += p.AppsActual
		m.TotalAppsTarget += p.AppsTarget
		scores[i] = p.OverallScore
		groups[p.Group] = true
		if p.OverallScore > performers[top].OverallScore {
			top = i
		}
	}

	m.SalesAchievement = formulas.Percent(m.TotalSalesActual, m.TotalSalesTarget)
	m.AppsAchievement = formulas.Percent(m.TotalAppsActual, m.TotalAppsTarget)
	m.AvgScore = formulas.Mean(scores)
	m.RecordCount = len(performers)
	m.TeamCount = len(groups)
	m.TopPerformer = performers[top].Name
	m.TopPerformerGroup = performers[top].Group
	m.Distribution = Distribution(performers)

	return m, nil
}
