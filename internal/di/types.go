// Package di provides dependency injection wiring and initialization.
package di

import (
	"github.com/salesrace/pitwall/internal/modules/cohorts"
	"github.com/salesrace/pitwall/internal/modules/dashboard"
	"github.com/salesrace/pitwall/internal/modules/pipeline"
	"github.com/salesrace/pitwall/internal/modules/schema"
	"github.com/salesrace/pitwall/internal/modules/scoring"
	"github.com/salesrace/pitwall/internal/scheduler"
)

// Container holds all dependencies for the application.
// It is created by Wire() and passed to the server for access to services.
type Container struct {
	// Reference data
	Roster     *cohorts.Roster
	Normalizer *schema.Normalizer

	// Services
	Calculator       *scoring.Calculator
	Pipeline         *pipeline.Pipeline
	DatasetStore     *dashboard.Store
	DashboardService *dashboard.Service

	// Background work
	Scheduler *scheduler.Scheduler
}

// JobInstances holds references to registered jobs for manual triggering.
// Fields are nil when the corresponding job is disabled.
type JobInstances struct {
	FeedRefresh *scheduler.FeedRefreshJob
}
