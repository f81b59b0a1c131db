// Package handlers provides HTTP handlers for scoring API.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/salesrace/pitwall/internal/domain"
	"github.com/salesrace/pitwall/internal/modules/scoring"
)

// Handlers provides HTTP handlers for scoring module
type Handlers struct {
	calculator *scoring.Calculator
	log        zerolog.Logger
}

// NewHandlers creates a new scoring handlers instance
func NewHandlers(calculator *scoring.Calculator, log zerolog.Logger) *Handlers {
	return &Handlers{
		calculator: calculator,
		log:        log.With().Str("module", "scoring_handlers").Logger(),
	}
}

// ScoreRequest represents a request to score a single consultant
type ScoreRequest struct {
	Weights     *scoring.Weights `json:"weights,omitempty"` // What-if override
	SalesActual float64          `json:"sales_actual"`
	SalesTarget float64          `json:"sales_target"`
	AppsActual  float64          `json:"apps_actual"`
	AppsTarget  float64          `json:"apps_target"`
}

// ScoreResponse represents the response from scoring
type ScoreResponse struct {
	Metrics  domain.Metrics  `json:"metrics"`
	Weights  scoring.Weights `json:"weights"`
	Baseline *domain.Metrics `json:"baseline,omitempty"` // Configured weights, when overridden
	Delta    *float64        `json:"delta,omitempty"`
}

// HandleScore handles POST /api/scoring/score
// Scores one record with the configured weights, or with the supplied
// weights for what-if analysis.
func (h *Handlers) HandleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode score request")
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.SalesTarget <= 0 {
		h.writeError(w, "sales_target must be positive", http.StatusBadRequest)
		return
	}
	if req.SalesActual < 0 || req.AppsActual < 0 || req.AppsTarget < 0 {
		h.writeError(w, "values must be non-negative", http.StatusBadRequest)
		return
	}

	record := domain.Record{
		SalesActual: req.SalesActual,
		SalesTarget: req.SalesTarget,
		AppsActual:  req.AppsActual,
		AppsTarget:  req.AppsTarget,
	}

	baseline := h.calculator.Calculate(record)
	resp := ScoreResponse{Metrics: baseline, Weights: h.calculator.Weights()}

	if req.Weights != nil {
		if err := req.Weights.Validate(); err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		custom := scoring.NewCalculator(*req.Weights).Calculate(record)
		delta := custom.OverallScore - baseline.OverallScore
		resp = ScoreResponse{
			Metrics:  custom,
			Weights:  *req.Weights,
			Baseline: &baseline,
			Delta:    &delta,
		}
	}

	h.writeJSON(w, http.StatusOK, envelope(resp))
}

// HandleGetCurrentWeights handles GET /api/scoring/weights/current
func (h *Handlers) HandleGetCurrentWeights(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, envelope(map[string]interface{}{
		"effective_weights": h.calculator.Weights(),
		"default_weights":   scoring.DefaultWeights,
	}))
}

// HandleGetThresholds handles GET /api/scoring/thresholds
// Returns the shared tier, vehicle and colour bands, highest first.
func (h *Handlers) HandleGetThresholds(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, envelope(scoring.Bands))
}

func envelope(data interface{}) map[string]interface{} {
	return map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
}

// writeJSON writes a JSON response with status code
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handlers) writeError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
