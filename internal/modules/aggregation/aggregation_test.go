package aggregation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesrace/pitwall/internal/domain"
	"github.com/salesrace/pitwall/internal/modules/scoring"
)

type lookup map[string]string

func (l lookup) CohortOf(group string) (string, bool) {
	c, ok := l[group]
	return c, ok
}

func scored(records ...domain.Record) []domain.Performer {
	return scoring.NewCalculator(scoring.DefaultWeights).Score(records)
}

func TestAggregate_Scenario(t *testing.T) {
	teams := Aggregate(scored(
		domain.Record{Name: "A", Group: "G1", SalesActual: 120, SalesTarget: 100},
		domain.Record{Name: "B", Group: "G1", SalesActual: 50, SalesTarget: 100},
	), nil)

	require.Len(t, teams, 1)
	g1 := teams[0]
	assert.Equal(t, "G1", g1.Group)
	assert.Equal(t, 2, g1.MemberCount)
	assert.InDelta(t, 85.0, g1.AchievementRate, 1e-9)
	assert.InDelta(t, 59.5, g1.AvgScore, 1e-9)
	assert.InDelta(t, 30.0, g1.GapToTarget, 1e-9)
	assert.Zero(t, g1.AppsRate)
	assert.Equal(t, domain.TierOnTrack, g1.Tier)
	assert.Equal(t, domain.VehicleSUV, g1.Vehicle)
	assert.Empty(t, g1.Cohort)
}

func TestAggregate_RatioFromSumsNotMeanOfRatios(t *testing.T) {
	// Mean of member ratios would be (1000 + 50) / 2 = 525.
	teams := Aggregate(scored(
		domain.Record{Name: "small", Group: "G", SalesActual: 10, SalesTarget: 1},
		domain.Record{Name: "big", Group: "G", SalesActual: 500, SalesTarget: 1000},
	), nil)

	require.Len(t, teams, 1)
	assert.InDelta(t, 510.0/1001.0*100, teams[0].AchievementRate, 1e-9)
}

func TestAggregate_RatioInvariant(t *testing.T) {
	teams := Aggregate(scored(
		domain.Record{Name: "a", Group: "X", SalesActual: 33.3, SalesTarget: 70, AppsActual: 3, AppsTarget: 7},
		domain.Record{Name: "b", Group: "X", SalesActual: 12.9, SalesTarget: 41.1},
		domain.Record{Name: "c", Group: "Y", SalesActual: 1e6, SalesTarget: 3.3e5},
		domain.Record{Name: "d", Group: "Z", SalesActual: 0, SalesTarget: 9},
	), nil)

	require.Len(t, teams, 3)
	for _, team := range teams {
		assert.InDelta(t, team.SalesActual*100, team.AchievementRate*team.SalesTarget, 1e-6, team.Group)
	}
}

func TestAggregate_SortedByGroupWithCohorts(t *testing.T) {
	teams := Aggregate(scored(
		domain.Record{Name: "a", Group: "Zulu", SalesActual: 1, SalesTarget: 1},
		domain.Record{Name: "b", Group: "Alpha", SalesActual: 1, SalesTarget: 1},
		domain.Record{Name: "c", Group: "Mike", SalesActual: 1, SalesTarget: 1},
	), lookup{"Alpha": "Monaco", "Zulu": "Kyalami"})

	require.Len(t, teams, 3)
	assert.Equal(t, "Alpha", teams[0].Group)
	assert.Equal(t, "Monaco", teams[0].Cohort)
	assert.Equal(t, "Mike", teams[1].Group)
	assert.Empty(t, teams[1].Cohort)
	assert.Equal(t, "Kyalami", teams[2].Cohort)
}

func TestAggregate_AppsRate(t *testing.T) {
	teams := Aggregate(scored(
		domain.Record{Name: "a", Group: "G", SalesActual: 1, SalesTarget: 1, AppsActual: 4, AppsTarget: 10},
		domain.Record{Name: "b", Group: "G", SalesActual: 1, SalesTarget: 1, AppsActual: 6},
	), nil)

	require.Len(t, teams, 1)
	assert.InDelta(t, 100.0, teams[0].AppsRate, 1e-9)
	assert.Equal(t, 10.0, teams[0].AppsActual)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil, nil))
}

func TestSortByAchievement(t *testing.T) {
	teams := []domain.TeamAggregate{
		{Group: "b", AchievementRate: 90},
		{Group: "c", AchievementRate: 120},
		{Group: "a", AchievementRate: 90},
	}

	sorted := SortByAchievement(teams)

	assert.Equal(t, "c", sorted[0].Group)
	assert.Equal(t, "a", sorted[1].Group)
	assert.Equal(t, "b", sorted[2].Group)
	assert.Equal(t, "b", teams[0].Group, "input must not be reordered")
}

func TestRollup(t *testing.T) {
	m, err := Rollup(scored(
		domain.Record{Name: "A", Group: "G1", SalesActual: 120, SalesTarget: 100, AppsActual: 5, AppsTarget: 10},
		domain.Record{Name: "B", Group: "G1", SalesActual: 50, SalesTarget: 100},
		domain.Record{Name: "C", Group: "G2", SalesActual: 30, SalesTarget: 200, AppsActual: 5, AppsTarget: 10},
	))
	require.NoError(t, err)

	assert.Equal(t, 200.0, m.TotalSalesActual)
	assert.Equal(t, 400.0, m.TotalSalesTarget)
	assert.InDelta(t, 50.0, m.SalesAchievement, 1e-9)
	assert.InDelta(t, 50.0, m.AppsAchievement, 1e-9)
	assert.Equal(t, 3, m.RecordCount)
	assert.Equal(t, 2, m.TeamCount)
	assert.Equal(t, "A", m.TopPerformer)
	assert.Equal(t, "G1", m.TopPerformerGroup)
	assert.Equal(t, 3, sumDistribution(m.Distribution))
	assert.Equal(t, 1, m.Distribution[domain.TierOnTrack])
}

func TestRollup_TopPerformerTieKeepsFirst(t *testing.T) {
	m, err := Rollup(scored(
		domain.Record{Name: "first", Group: "G", SalesActual: 90, SalesTarget: 100},
		domain.Record{Name: "second", Group: "G", SalesActual: 90, SalesTarget: 100},
	))
	require.NoError(t, err)
	assert.Equal(t, "first", m.TopPerformer)
}

func TestRollup_Empty(t *testing.T) {
	m, err := Rollup(nil)

	assert.True(t, errors.Is(err, ErrEmptyDataset))
	assert.Equal(t, domain.CompanyMetrics{}, m)
}

func TestDistribution_IncludesEveryTier(t *testing.T) {
	dist := Distribution(nil)

	assert.Len(t, dist, len(domain.Tiers))
	for _, tier := range domain.Tiers {
		assert.Zero(t, dist[tier])
	}
}

func sumDistribution(d domain.TierDistribution) int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}
