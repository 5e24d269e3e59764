package handlers

import (
	"delivery-planning-session/internal/api/dto"
	"delivery-planning-session/internal/ports"
	"net/http"
	"strconv"
	"time"
)

const maxRunLimit = 500

type RunHandler struct {
	Recorder ports.RunRecorder
}

// List returns recent planning runs, newest first.
func (h *RunHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.Recorder == nil {
		writeError(w, r, http.StatusServiceUnavailable, "run history is not configured")
		return
	}

	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > maxRunLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	runs, err := h.Recorder.ListRuns(r.Context(), limit)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	res := dto.ListRunsResponse{Runs: make([]dto.RunResponse, 0, len(runs))}
	for _, run := range runs {
		res.Runs = append(res.Runs, dto.RunResponse{
			SessionID:       run.SessionID,
			StartedAt:       run.StartedAt.UTC().Format(time.RFC3339Nano),
			DurationMs:      run.FinishedAt.Sub(run.StartedAt).Milliseconds(),
			Algorithm:       run.Algorithm,
			CompareAll:      run.CompareAll,
			ItemCount:       run.ItemCount,
			Capacity:        run.Capacity,
			Outcome:         run.Outcome,
			TotalDistanceKm: run.TotalDistanceKm,
			TotalValue:      run.TotalValue,
			Error:           run.ErrorMessage,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
