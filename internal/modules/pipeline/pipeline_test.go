package pipeline

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesrace/pitwall/internal/domain"
	"github.com/salesrace/pitwall/internal/modules/aggregation"
	"github.com/salesrace/pitwall/internal/modules/cleaning"
	"github.com/salesrace/pitwall/internal/modules/cohorts"
	"github.com/salesrace/pitwall/internal/modules/schema"
	"github.com/salesrace/pitwall/internal/modules/scoring"
)

func testRoster(t *testing.T) *cohorts.Roster {
	t.Helper()
	r, err := cohorts.NewRoster([]string{"Monaco", "Kyalami"}, map[string][]string{
		"Monaco":  {"G1"},
		"Kyalami": {"G2"},
	})
	require.NoError(t, err)
	return r
}

func newTestPipeline(t *testing.T, log zerolog.Logger) *Pipeline {
	p := New(schema.DefaultNormalizer(), scoring.DefaultWeights, testRoster(t), log)
	p.now = func() time.Time { return time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC) }
	return p
}

func TestRun_Scenario(t *testing.T) {
	p := newTestPipeline(t, zerolog.New(nil).Level(zerolog.Disabled))

	result, err := p.Run(schema.Table{
		Source:  "Sales Perfromance",
		Columns: []string{"Consultant Name", "Supervisor Name", "TotalSalesVal", "SalesValTarget"},
		Rows: [][]any{
			{"A", "G1", 120.0, 100.0},
			{"B", "G1", 50.0, 100.0},
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Performers, 2)
	a, b := result.Performers[0], result.Performers[1]
	assert.Equal(t, "A", a.Name)
	assert.InDelta(t, 120.0, a.AchievementRate, 1e-9)
	assert.InDelta(t, 50.0, b.AchievementRate, 1e-9)
	assert.InDelta(t, 84.0, a.OverallScore, 1e-9)
	assert.InDelta(t, 35.0, b.OverallScore, 1e-9)
	assert.Equal(t, 1, a.Rank)
	assert.Equal(t, 2, b.Rank)

	require.Len(t, result.Teams, 1)
	assert.InDelta(t, 85.0, result.Teams[0].AchievementRate, 1e-9)
	assert.Equal(t, "Monaco", result.Teams[0].Cohort)

	assert.Equal(t, "A", result.Company.TopPerformer)
	assert.Equal(t, 2, result.Company.RecordCount)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "Sales Perfromance", result.Source)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), result.IngestedAt)
	assert.Equal(t, scoring.DefaultWeights, result.Weights)
	assert.Empty(t, result.UnmappedGroups)
}

func TestRun_CohortsAreRankedIndependently(t *testing.T) {
	p := newTestPipeline(t, zerolog.Nop())

	result, err := p.Run(schema.Table{
		Columns: []string{"Name", "Supervisor", "Sales", "Target"},
		Rows: [][]any{
			{"m1", "G1", 200.0, 100.0},
			{"k1", "G2", 90.0, 100.0},
			{"m2", "G1", 80.0, 100.0},
			{"k2", "G2", 95.0, 100.0},
			{"x", "Stray", 300.0, 100.0},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "x", result.Performers[0].Name)
	assert.Equal(t, 1, result.Performers[0].Rank)

	kyalami, ok := result.Cohort("Kyalami")
	require.True(t, ok)
	require.Len(t, kyalami.Performers, 2)
	assert.Equal(t, "k2", kyalami.Performers[0].Name)
	assert.Equal(t, 1, kyalami.Performers[0].Rank)
	assert.InDelta(t, 100.0, kyalami.Performers[0].TrackPosition, 1e-9)
	require.Len(t, kyalami.Teams, 1)
	assert.Equal(t, "G2", kyalami.Teams[0].Group)

	monaco, ok := result.Cohort("Monaco")
	require.True(t, ok)
	assert.Equal(t, "m1", monaco.Performers[0].Name)
	assert.Equal(t, 1, monaco.Performers[0].Rank)

	_, ok = result.Cohort("Imola")
	assert.False(t, ok)

	assert.Equal(t, []string{"Stray"}, result.UnmappedGroups)
	assert.Len(t, result.Teams, 3)
}

func TestRun_SchemaError(t *testing.T) {
	p := newTestPipeline(t, zerolog.Nop())

	_, err := p.Run(schema.Table{Source: "Sheet1", Columns: []string{"Region", "Quota"}})

	var schemaErr *schema.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []schema.Field{schema.FieldName, schema.FieldSalesActual}, schemaErr.Missing)
}

func TestRun_EmptyAfterCleaning(t *testing.T) {
	p := newTestPipeline(t, zerolog.Nop())

	_, err := p.Run(schema.Table{
		Columns: []string{"Name", "Sales", "Target"},
		Rows:    [][]any{{"A", 10.0, 0.0}, {"", 10.0, 10.0}},
	})

	assert.True(t, errors.Is(err, aggregation.ErrEmptyDataset))
}

func TestRun_ReportsDroppedRows(t *testing.T) {
	p := newTestPipeline(t, zerolog.Nop())

	result, err := p.Run(schema.Table{
		Columns: []string{"Name", "Sales", "Target"},
		Rows:    [][]any{{"A", 10.0, 0.0}, {"B", 10.0, 10.0}},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Cleaning.RowsIn)
	assert.Equal(t, 1, result.Cleaning.RowsOut)
	assert.Equal(t, 1, result.Cleaning.Dropped[cleaning.DropInvalidSalesTarget])
	assert.Equal(t, domain.UnassignedGroup, result.Performers[0].Group)
}

func TestRun_IndependentResults(t *testing.T) {
	p := newTestPipeline(t, zerolog.Nop())
	table := schema.Table{
		Columns: []string{"Name", "Sales", "Target"},
		Rows:    [][]any{{"A", 10.0, 10.0}},
	}

	first, err := p.Run(table)
	require.NoError(t, err)
	second, err := p.Run(table)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	first.Performers[0].Name = "mutated"
	assert.Equal(t, "A", second.Performers[0].Name)
}

func TestRun_LogsUnmappedGroups(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPipeline(t, zerolog.New(&buf))

	_, err := p.Run(schema.Table{
		Columns: []string{"Name", "Supervisor", "Sales", "Target"},
		Rows:    [][]any{{"A", "Nobody", 10.0, 10.0}},
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "excluded from cohort views")
	assert.Contains(t, buf.String(), "Nobody")
	assert.Contains(t, buf.String(), "Dataset ingested")
}

func TestNew_NilRoster(t *testing.T) {
	p := New(schema.DefaultNormalizer(), scoring.DefaultWeights, nil, zerolog.Nop())

	result, err := p.Run(schema.Table{
		Columns: []string{"Name", "Supervisor", "Sales", "Target"},
		Rows:    [][]any{{"A", "G1", 10.0, 10.0}},
	})
	require.NoError(t, err)

	assert.Empty(t, result.Cohorts)
	assert.Equal(t, []string{"G1"}, result.UnmappedGroups)
	assert.Empty(t, p.Roster().Names())
	assert.Equal(t, scoring.DefaultWeights, p.Weights())
}
