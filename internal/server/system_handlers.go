package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/salesrace/pitwall/internal/modules/cohorts"
	"github.com/salesrace/pitwall/internal/modules/dashboard"
	"github.com/salesrace/pitwall/internal/scheduler"
)

// FeedJob is the scheduled feed refresh as seen by the system endpoints
type FeedJob interface {
	scheduler.Job
	Status() scheduler.FeedStatus
}

// SystemHandlers handles system-wide monitoring and operations endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	startupTime time.Time
	store       *dashboard.Store
	roster      *cohorts.Roster
	feed        FeedJob // nil when no feed source is configured
	stats       func() (float64, float64)
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(
	log zerolog.Logger,
	store *dashboard.Store,
	roster *cohorts.Roster,
	feed FeedJob,
) *SystemHandlers {
	h := &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		startupTime: time.Now(),
		store:       store,
		roster:      roster,
		feed:        feed,
	}
	h.stats = h.getSystemStats
	return h
}

// SystemStatusResponse represents the system status payload
type SystemStatusResponse struct {
	Status        string                `json:"status"`
	UptimeSeconds int64                 `json:"uptime_seconds"`
	CPUPercent    float64               `json:"cpu_percent"`
	RAMPercent    float64               `json:"ram_percent"`
	DatasetCount  int                   `json:"dataset_count"`
	Latest        *dashboard.Summary    `json:"latest,omitempty"`
	Cohorts       []string              `json:"cohorts"`
	Feed          *scheduler.FeedStatus `json:"feed,omitempty"`
}

// GetSystemStatusSnapshot returns a snapshot of the current system status.
func (h *SystemHandlers) GetSystemStatusSnapshot() SystemStatusResponse {
	cpuPercent, ramPercent := h.stats()

	response := SystemStatusResponse{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(h.startupTime).Seconds()),
		CPUPercent:    cpuPercent,
		RAMPercent:    ramPercent,
		DatasetCount:  h.store.Len(),
		Cohorts:       h.roster.Names(),
	}

	for _, summary := range h.store.List() {
		if summary.Latest {
			latest := summary
			response.Latest = &latest
			break
		}
	}

	if h.feed != nil {
		status := h.feed.Status()
		response.Feed = &status
		if status.LastError != "" {
			response.Status = "degraded"
		}
	}

	return response
}

// HandleSystemStatus returns system status
// GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")
	h.writeJSON(w, http.StatusOK, h.GetSystemStatusSnapshot())
}

// HandleTriggerFeedRefresh runs the feed refresh job immediately
// POST /api/system/feed/refresh
func (h *SystemHandlers) HandleTriggerFeedRefresh(w http.ResponseWriter, r *http.Request) {
	if h.feed == nil {
		h.log.Warn().Msg("Feed refresh requested but no feed source is configured")
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "error",
			"message": "No feed source configured",
		})
		return
	}

	h.log.Info().Msg("Manual feed refresh triggered")

	if err := h.feed.Run(); err != nil {
		h.writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"status":  "error",
			"message": err.Error(),
			"feed":    h.feed.Status(),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Feed refreshed successfully",
		"feed":    h.feed.Status(),
	})
}

// getSystemStats calculates CPU and RAM usage percentages
// Samples CPU over 100ms to keep the status call responsive
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

// writeJSON writes a JSON response
func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
