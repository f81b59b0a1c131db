package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesrace/pitwall/internal/modules/scoring"
)

func setupRouter() *chi.Mux {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	router := chi.NewRouter()
	NewHandlers(scoring.NewCalculator(scoring.DefaultWeights), logger).RegisterRoutes(router)
	return router
}

func postScore(router http.Handler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/scoring/score", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestHandleScore(t *testing.T) {
	router := setupRouter()

	w := postScore(router, `{"sales_actual": 100, "sales_target": 100}`)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data ScoreResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.InDelta(t, 70.0, response.Data.Metrics.OverallScore, 1e-9)
	assert.Equal(t, "Needs Boost", string(response.Data.Metrics.Tier))
	assert.Nil(t, response.Data.Baseline)
	assert.Equal(t, scoring.DefaultWeights, response.Data.Weights)
}

func TestHandleScore_WhatIf(t *testing.T) {
	router := setupRouter()

	w := postScore(router, `{"sales_actual": 100, "sales_target": 100, "weights": {"primary": 1, "secondary": 0}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data ScoreResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.InDelta(t, 100.0, response.Data.Metrics.OverallScore, 1e-9)
	assert.Equal(t, "Target Achieved", string(response.Data.Metrics.Tier))
	require.NotNil(t, response.Data.Baseline)
	require.NotNil(t, response.Data.Delta)
	assert.InDelta(t, 30.0, *response.Data.Delta, 1e-9)
}

func TestHandleScore_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{`},
		{"zero target", `{"sales_actual": 1, "sales_target": 0}`},
		{"negative actual", `{"sales_actual": -1, "sales_target": 10}`},
		{"weights not summing to one", `{"sales_actual": 1, "sales_target": 10, "weights": {"primary": 0.5, "secondary": 0.1}}`},
	}

	router := setupRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postScore(router, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleGetCurrentWeights(t *testing.T) {
	router := setupRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/scoring/weights/current", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	effective := data["effective_weights"].(map[string]interface{})
	assert.Equal(t, 0.7, effective["primary"])
	assert.Equal(t, 0.3, effective["secondary"])
}

func TestHandleGetThresholds(t *testing.T) {
	router := setupRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/scoring/thresholds", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data []scoring.Band `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Data, 5)
	assert.Equal(t, 120.0, response.Data[0].Min)
	assert.Equal(t, "Superstar", string(response.Data[0].Tier))
}
