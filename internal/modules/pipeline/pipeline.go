// Package pipeline runs one ingestion: normalize, clean, score, rank,
// partition into cohorts and roll up. Each run returns an independent Result.
package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/salesrace/pitwall/internal/domain"
	"github.com/salesrace/pitwall/internal/modules/aggregation"
	"github.com/salesrace/pitwall/internal/modules/cleaning"
	"github.com/salesrace/pitwall/internal/modules/cohorts"
	"github.com/salesrace/pitwall/internal/modules/ranking"
	"github.com/salesrace/pitwall/internal/modules/schema"
	"github.com/salesrace/pitwall/internal/modules/scoring"
	"github.com/salesrace/pitwall/internal/utils"
)

// CohortResult is one cohort's ranked performers and team table.
type CohortResult struct {
	Name       string                 `json:"name"`
	Performers []domain.Performer     `json:"performers"`
	Teams      []domain.TeamAggregate `json:"teams"`
}

// Result is everything derived from a single ingestion. It is never mutated
// after Run returns.
type Result struct {
	ID             string                  `json:"id"`
	Source         string                  `json:"source"`
	IngestedAt     time.Time               `json:"ingested_at"`
	Weights        scoring.Weights         `json:"weights"`
	Mapping        map[schema.Field]string `json:"mapping"`
	Cleaning       cleaning.Report         `json:"cleaning"`
	Performers     []domain.Performer      `json:"performers"`
	Teams          []domain.TeamAggregate  `json:"teams"`
	Cohorts        []CohortResult          `json:"cohorts"`
	Company        domain.CompanyMetrics   `json:"company"`
	UnmappedGroups []string                `json:"unmapped_groups"`
}

// Cohort returns the named cohort result.
func (r *Result) Cohort(name string) (CohortResult, bool) {
	for _, c := range r.Cohorts {
		if c.Name == name {
			return c, true
		}
	}
	return CohortResult{}, false
}

// Pipeline holds the injected configuration shared by every run.
type Pipeline struct {
	normalizer *schema.Normalizer
	calculator *scoring.Calculator
	roster     *cohorts.Roster
	log        zerolog.Logger
	now        func() time.Time
}

// New creates a pipeline. weights must already be validated. A nil roster
// means no cohorts.
func New(normalizer *schema.Normalizer, weights scoring.Weights, roster *cohorts.Roster, log zerolog.Logger) *Pipeline {
	if roster == nil {
		roster, _ = cohorts.NewRoster(nil, nil)
	}
	return &Pipeline{
		normalizer: normalizer,
		calculator: scoring.NewCalculator(weights),
		roster:     roster,
		log:        log.With().Str("component", "pipeline").Logger(),
		now:        time.Now,
	}
}

// Roster returns the cohort roster in use.
func (p *Pipeline) Roster() *cohorts.Roster {
	return p.roster
}

// Weights returns the scoring weights in use.
func (p *Pipeline) Weights() scoring.Weights {
	return p.calculator.Weights()
}

// Run processes one parsed table. It fails with a *schema.SchemaError when
// required columns are missing and with aggregation.ErrEmptyDataset when no
// row survives cleaning. Dropped rows are only counted.
func (p *Pipeline) Run(table schema.Table) (*Result, error) {
	timer := utils.NewTimer("pipeline_run", p.log)

	normalized, err := p.normalizer.Normalize(table)
	if err != nil {
		p.log.Warn().Err(err).Str("source", table.Source).Msg("Schema resolution failed")
		return nil, fmt.Errorf("normalize: %w", err)
	}

	for field, header := range normalized.Mapping {
		p.log.Debug().
			Str("field", string(field)).
			Str("header", header).
			Msg("Resolved column")
	}

	records, report := cleaning.Clean(normalized)

	performers := ranking.Rank(p.calculator.Score(records))

	company, err := aggregation.Rollup(performers)
	if err != nil {
		p.log.Warn().
			Str("source", table.Source).
			Int("rows_in", report.RowsIn).
			Msg("No valid rows after cleaning")
		return nil, fmt.Errorf("rollup: %w", err)
	}

	result := &Result{
		ID:             uuid.New().String(),
		Source:         table.Source,
		IngestedAt:     p.now().UTC(),
		Weights:        p.calculator.Weights(),
		Mapping:        normalized.Mapping,
		Cleaning:       report,
		Performers:     performers,
		Teams:          aggregation.Aggregate(performers, p.roster),
		Company:        company,
		UnmappedGroups: cohorts.Unmapped(performers, p.roster),
	}

	for _, view := range cohorts.Views(performers, p.roster) {
		result.Cohorts = append(result.Cohorts, CohortResult{
			Name:       view.Name,
			Performers: view.Performers,
			Teams:      aggregation.Aggregate(view.Performers, p.roster),
		})
	}

	if len(result.UnmappedGroups) > 0 {
		p.log.Warn().
			Strs("groups", result.UnmappedGroups).
			Msg("Groups belong to no cohort and are excluded from cohort views")
	}

	event := p.log.Info().
		Str("dataset_id", result.ID).
		Str("source", result.Source).
		Int("rows_in", report.RowsIn).
		Int("rows_kept", report.RowsOut)
	for reason, n := range report.Dropped {
		event = event.Int("dropped_"+string(reason), n)
	}
	for _, c := range result.Cohorts {
		event = event.Int("cohort_"+c.Name, len(c.Performers))
	}
	event.Msg("Dataset ingested")

	timer.StopWithContext(map[string]interface{}{
		"dataset_id": result.ID,
		"rows":       report.RowsIn,
	})

	return result, nil
}
