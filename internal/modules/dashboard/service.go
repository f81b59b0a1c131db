package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/salesrace/pitwall/internal/domain"
	"github.com/salesrace/pitwall/internal/modules/aggregation"
	"github.com/salesrace/pitwall/internal/modules/cohorts"
	"github.com/salesrace/pitwall/internal/modules/pipeline"
	"github.com/salesrace/pitwall/internal/modules/ranking"
	"github.com/salesrace/pitwall/internal/modules/workbook"
	"github.com/salesrace/pitwall/internal/utils"
)

// ErrCohortNotFound is returned when a query names a cohort the roster
// does not define.
var ErrCohortNotFound = errors.New("cohort not found")

// AllCohorts selects the full, ungrouped view.
const AllCohorts = "all"

// Filter narrows the consultants query. Zero values match everything.
type Filter struct {
	Group  string
	Cohort string
	Query  string // case-insensitive substring of name or group
	Limit  int
}

// Service ingests workbooks into the store and answers queries over stored
// results.
type Service struct {
	pipeline *pipeline.Pipeline
	store    *Store
	log      zerolog.Logger
}

// NewService creates a dashboard service.
func NewService(p *pipeline.Pipeline, store *Store, log zerolog.Logger) *Service {
	return &Service{
		pipeline: p,
		store:    store,
		log:      log.With().Str("service", "dashboard").Logger(),
	}
}

// Store returns the underlying dataset store.
func (s *Service) Store() *Store {
	return s.store
}

// Ingest parses an uploaded file, runs the pipeline and stores the result.
// Nothing is stored when any step fails.
func (s *Service) Ingest(data []byte, filename, sheet string) (*pipeline.Result, error) {
	table, err := workbook.Read(data, filename, sheet)
	if err != nil {
		return nil, err
	}
	if table.Source == "" {
		table.Source = filename
	}

	result, err := s.pipeline.Run(table)
	if err != nil {
		return nil, err
	}

	s.store.Add(result)
	s.log.Debug().Str("dataset_id", result.ID).Int("stored", s.store.Len()).Msg("Dataset stored")
	return result, nil
}

// Refresh fetches a workbook from src and publishes it as the latest result.
// On failure the previously published result stays in place.
func (s *Service) Refresh(ctx context.Context, src workbook.Source, sheet string) (*pipeline.Result, error) {
	defer utils.OperationTimer("dataset_refresh", s.log)()

	filename, data, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	table, err := workbook.Read(data, filename, sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}

	result, err := s.pipeline.Run(table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}

	s.store.Publish(result)
	return result, nil
}

// Company returns the company rollup of a dataset.
func (s *Service) Company(id string) (domain.CompanyMetrics, error) {
	r, err := s.store.Get(id)
	if err != nil {
		return domain.CompanyMetrics{}, err
	}
	return r.Company, nil
}

// view returns the ranked performers for a cohort, or the full set for "" and
// AllCohorts.
func (s *Service) view(r *pipeline.Result, cohort string) ([]domain.Performer, []domain.TeamAggregate, error) {
	if cohort == "" || strings.EqualFold(cohort, AllCohorts) {
		return r.Performers, r.Teams, nil
	}
	for _, c := range r.Cohorts {
		if strings.EqualFold(c.Name, cohort) {
			return c.Performers, c.Teams, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrCohortNotFound, cohort)
}

// Consultants returns ranked performers matching f.
func (s *Service) Consultants(id string, f Filter) ([]domain.Performer, error) {
	r, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	performers, _, err := s.view(r, f.Cohort)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]domain.Performer, 0, len(performers))
	for _, p := range performers {
		if f.Group != "" && !strings.EqualFold(p.Group, f.Group) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Group), query) {
			continue
		}
		out = append(out, p)
	}

	return ranking.Top(out, f.Limit), nil
}

// Leaderboard returns the top limit performers of a cohort view.
func (s *Service) Leaderboard(id, cohort string, limit int) ([]domain.Performer, error) {
	r, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	performers, _, err := s.view(r, cohort)
	if err != nil {
		return nil, err
	}
	return ranking.Top(performers, limit), nil
}

// Teams returns a cohort's teams ordered by achievement rate.
func (s *Service) Teams(id, cohort string) ([]domain.TeamAggregate, error) {
	r, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	_, teams, err := s.view(r, cohort)
	if err != nil {
		return nil, err
	}
	return aggregation.SortByAchievement(teams), nil
}

// Distribution counts a cohort view's performers per tier.
func (s *Service) Distribution(id, cohort string) (domain.TierDistribution, error) {
	r, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	performers, _, err := s.view(r, cohort)
	if err != nil {
		return nil, err
	}
	return aggregation.Distribution(performers), nil
}

// CohortSplit describes which groups of a dataset fall into which cohort.
type CohortSplit struct {
	Cohorts  map[string][]string `json:"cohorts"`
	Unmapped []string            `json:"unmapped"`
}

// Split returns the groups present in a dataset per cohort, plus the groups
// that belong to none.
func (s *Service) Split(id string) (CohortSplit, error) {
	r, err := s.store.Get(id)
	if err != nil {
		return CohortSplit{}, err
	}
	unmapped := r.UnmappedGroups
	if unmapped == nil {
		unmapped = []string{}
	}
	return CohortSplit{
		Cohorts:  cohorts.Split(r.Performers, s.pipeline.Roster()),
		Unmapped: unmapped,
	}, nil
}

// RosterEntry is one configured cohort and its groups
type RosterEntry struct {
	Name   string   `json:"name"`
	Groups []string `json:"groups"`
}

// Roster returns the configured groups per cohort, in roster order.
func (s *Service) Roster() []RosterEntry {
	roster := s.pipeline.Roster()
	names := roster.Names()
	out := make([]RosterEntry, 0, len(names))
	for _, n := range names {
		out = append(out, RosterEntry{Name: n, Groups: roster.Groups(n)})
	}
	return out
}
