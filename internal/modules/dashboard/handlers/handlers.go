// Package handlers provides HTTP handlers for dataset ingestion and the
// dashboard queries.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/salesrace/pitwall/internal/modules/aggregation"
	"github.com/salesrace/pitwall/internal/modules/dashboard"
	"github.com/salesrace/pitwall/internal/modules/pipeline"
	"github.com/salesrace/pitwall/internal/modules/schema"
	"github.com/salesrace/pitwall/internal/modules/workbook"
)

// Handler handles dataset HTTP requests
type Handler struct {
	service        *dashboard.Service
	maxUploadBytes int64
	log            zerolog.Logger
}

// NewHandler creates a new dataset handler
func NewHandler(service *dashboard.Service, maxUploadBytes int64, log zerolog.Logger) *Handler {
	return &Handler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		log:            log.With().Str("handler", "datasets").Logger(),
	}
}

// IngestResponse describes a freshly ingested dataset
type IngestResponse struct {
	ID             string                  `json:"id"`
	Source         string                  `json:"source"`
	IngestedAt     time.Time               `json:"ingested_at"`
	Mapping        map[schema.Field]string `json:"mapping"`
	RowsIn         int                     `json:"rows_in"`
	RowsKept       int                     `json:"rows_kept"`
	RowsDropped    int                     `json:"rows_dropped"`
	UnmappedGroups []string                `json:"unmapped_groups"`
}

func newIngestResponse(r *pipeline.Result) IngestResponse {
	unmapped := r.UnmappedGroups
	if unmapped == nil {
		unmapped = []string{}
	}
	return IngestResponse{
		ID:             r.ID,
		Source:         r.Source,
		IngestedAt:     r.IngestedAt,
		Mapping:        r.Mapping,
		RowsIn:         r.Cleaning.RowsIn,
		RowsKept:       r.Cleaning.RowsOut,
		RowsDropped:    r.Cleaning.DroppedTotal(),
		UnmappedGroups: unmapped,
	}
}

// HandleUpload handles POST /api/datasets
// Accepts a multipart form with a "file" part (xlsx or csv) and an optional
// "sheet" field.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		h.writeError(w, http.StatusBadRequest, "expected multipart form with a file field")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	result, err := h.service.Ingest(data, header.Filename, r.FormValue("sheet"))
	if err != nil {
		h.log.Warn().Err(err).Str("filename", header.Filename).Msg("Ingestion failed")
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, envelope(newIngestResponse(result)))
}

// HandleList handles GET /api/datasets
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, envelope(h.service.Store().List()))
}

// HandleGet handles GET /api/datasets/{id}
// Returns the full enriched result.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Store().Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope(result))
}

// HandleDelete handles DELETE /api/datasets/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Store().Delete(chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetCompany handles GET /api/datasets/{id}/company
func (h *Handler) HandleGetCompany(w http.ResponseWriter, r *http.Request) {
	company, err := h.service.Company(chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope(company))
}

// HandleGetConsultants handles GET /api/datasets/{id}/consultants
// Query: group, cohort, q, limit.
func (h *Handler) HandleGetConsultants(w http.ResponseWriter, r *http.Request) {
	limit, _, ok := h.parseLimit(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	performers, err := h.service.Consultants(chi.URLParam(r, "id"), dashboard.Filter{
		Group:  q.Get("group"),
		Cohort: q.Get("cohort"),
		Query:  q.Get("q"),
		Limit:  limit,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope(performers))
}

// HandleGetLeaderboard handles GET /api/datasets/{id}/leaderboard
// Query: cohort (default all), limit (default 10, 0 for everyone).
func (h *Handler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, set, ok := h.parseLimit(w, r)
	if !ok {
		return
	}
	if !set {
		limit = 10
	}

	performers, err := h.service.Leaderboard(chi.URLParam(r, "id"), r.URL.Query().Get("cohort"), limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope(performers))
}

// HandleGetTeams handles GET /api/datasets/{id}/teams
func (h *Handler) HandleGetTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.service.Teams(chi.URLParam(r, "id"), r.URL.Query().Get("cohort"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope(teams))
}

// HandleGetDistribution handles GET /api/datasets/{id}/distribution
func (h *Handler) HandleGetDistribution(w http.ResponseWriter, r *http.Request) {
	dist, err := h.service.Distribution(chi.URLParam(r, "id"), r.URL.Query().Get("cohort"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope(dist))
}

// HandleGetSplit handles GET /api/datasets/{id}/cohorts
func (h *Handler) HandleGetSplit(w http.ResponseWriter, r *http.Request) {
	split, err := h.service.Split(chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope(split))
}

// HandleGetRoster handles GET /api/cohorts
func (h *Handler) HandleGetRoster(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, envelope(h.service.Roster()))
}

// parseLimit reads ?limit. set reports whether the parameter was given;
// 0 means no limit.
func (h *Handler) parseLimit(w http.ResponseWriter, r *http.Request) (limit int, set, ok bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, false, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		h.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return 0, false, false
	}
	return limit, true, true
}

func envelope(data interface{}) map[string]interface{} {
	return map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var schemaErr *schema.SchemaError
	switch {
	case errors.As(err, &schemaErr), errors.Is(err, aggregation.ErrEmptyDataset):
		return http.StatusUnprocessableEntity
	case errors.Is(err, workbook.ErrUnreadable), errors.Is(err, workbook.ErrSheetNotFound):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrDatasetNotFound), errors.Is(err, dashboard.ErrCohortNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("Request failed")
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
