package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"healthChallengeAPI/internal/apperrors"
	"healthChallengeAPI/internal/types/metrics"
	"healthChallengeAPI/middleware"
	"healthChallengeAPI/services"
)

type HealthDataHandler struct {
	healthService *services.HealthService
}

func NewHealthDataHandler(healthService *services.HealthService) *HealthDataHandler {
	return &HealthDataHandler{
		healthService: healthService,
	}
}

// AddSamples ingests a batch of raw samples synced from a device.
func (h *HealthDataHandler) AddSamples(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithServiceError(w, apperrors.ErrAuthenticationRequired)
		return
	}

	var reqs []metrics.AddSampleRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(reqs) == 0 {
		respondWithError(w, http.StatusBadRequest, "At least one sample required")
		return
	}

	for i := range reqs {
		if !reqs[i].Metric.Valid() {
			respondWithError(w, http.StatusBadRequest, "Unknown metric type: "+string(reqs[i].Metric))
			return
		}
	}

	for i := range reqs {
		if err := h.healthService.AddSample(ctx, userID, &reqs[i]); err != nil {
			respondWithServiceError(w, err)
			return
		}
	}

	respondWithJSON(w, http.StatusCreated, map[string]int{"ingested": len(reqs)})
}

// GetTotal returns the cumulative value of a metric over a date range
// (average for heart rate).
func (h *HealthDataHandler) GetTotal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithServiceError(w, apperrors.ErrAuthenticationRequired)
		return
	}

	metric := metrics.Type(r.URL.Query().Get("metric"))
	start, end, ok := parseRange(w, r)
	if !ok {
		return
	}

	total, err := h.healthService.QueryTotal(ctx, userID, metric, start, end)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"metric": metric,
		"unit":   metric.Unit(),
		"total":  total,
	})
}

// GetSeries returns a zero-filled bucketed series for charting.
func (h *HealthDataHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithServiceError(w, apperrors.ErrAuthenticationRequired)
		return
	}

	metric := metrics.Type(r.URL.Query().Get("metric"))
	granularity := metrics.Granularity(r.URL.Query().Get("granularity"))
	start, end, ok := parseRange(w, r)
	if !ok {
		return
	}

	series, err := h.healthService.QueryBucketed(ctx, userID, metric, start, end, granularity)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"metric": metric,
		"unit":   metric.Unit(),
		"series": series,
	})
}

func parseRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'start' must be RFC3339")
		return time.Time{}, time.Time{}, false
	}

	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'end' must be RFC3339")
		return time.Time{}, time.Time{}, false
	}

	if !end.After(start) {
		respondWithError(w, http.StatusBadRequest, "'end' must be after 'start'")
		return time.Time{}, time.Time{}, false
	}

	return start, end, true
}
