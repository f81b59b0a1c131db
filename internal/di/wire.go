package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/salesrace/pitwall/internal/config"
)

// Wire initializes all dependencies and returns a fully configured container
// Order of operations:
// 1. Load the cohort roster and create services
// 2. Register jobs
func Wire(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, *JobInstances, error) {
	container := &Container{}

	// Step 1: Initialize services
	if err := InitializeServices(container, cfg, log); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	// Step 2: Register jobs
	jobs, err := RegisterJobs(ctx, container, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to register jobs: %w", err)
	}

	log.Info().Msg("Dependency injection wiring completed successfully")

	return container, jobs, nil
}
