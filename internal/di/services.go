package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/salesrace/pitwall/internal/config"
	"github.com/salesrace/pitwall/internal/modules/cohorts"
	"github.com/salesrace/pitwall/internal/modules/dashboard"
	"github.com/salesrace/pitwall/internal/modules/pipeline"
	"github.com/salesrace/pitwall/internal/modules/schema"
	"github.com/salesrace/pitwall/internal/modules/scoring"
)

// InitializeServices loads reference data and creates the service layer
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	roster, err := cohorts.LoadRoster(cfg.CohortRosterPath)
	if err != nil {
		return fmt.Errorf("failed to load cohort roster: %w", err)
	}
	container.Roster = roster

	log.Info().
		Str("path", cfg.CohortRosterPath).
		Strs("cohorts", roster.Names()).
		Msg("Cohort roster loaded")

	weights := cfg.Weights()
	container.Normalizer = schema.DefaultNormalizer()
	container.Calculator = scoring.NewCalculator(weights)
	container.Pipeline = pipeline.New(container.Normalizer, weights, roster, log)
	container.DatasetStore = dashboard.NewStore(cfg.MaxDatasets)
	container.DashboardService = dashboard.NewService(container.Pipeline, container.DatasetStore, log)

	log.Debug().
		Float64("primary_weight", weights.Primary).
		Float64("secondary_weight", weights.Secondary).
		Int("max_datasets", cfg.MaxDatasets).
		Msg("Services initialized")

	return nil
}
