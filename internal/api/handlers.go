package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/huangsam/teampulse/internal/contract"
)

// Handler handles HTTP requests for the health endpoints.
type Handler struct {
	svc    contract.HealthService
	logger *zap.Logger
}

// NewHandler creates a new health API handler.
func NewHandler(svc contract.HealthService, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes registers the health API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/engineers/{name}/health", h.GetEngineerHealth)
		r.Get("/team/insights", h.GetTeamInsights)
		r.Get("/team/summary", h.GetDailySummary)
		r.Get("/training", h.GetTraining)
		r.Get("/mentors", h.GetMentors)
	})
}

// Healthz reports liveness.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetEngineerHealth returns one engineer's report.
func (h *Handler) GetEngineerHealth(w http.ResponseWriter, r *http.Request) {
	days, ok := h.windowParam(w, r)
	if !ok {
		return
	}
	report, err := h.svc.EngineerHealth(r.Context(), chi.URLParam(r, "name"), days)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, report)
}

// GetTeamInsights returns the team overview with training and mentoring.
func (h *Handler) GetTeamInsights(w http.ResponseWriter, r *http.Request) {
	days, ok := h.windowParam(w, r)
	if !ok {
		return
	}
	insights, err := h.svc.TeamInsights(r.Context(), days)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, insights)
}

// GetDailySummary returns the daily digest.
func (h *Handler) GetDailySummary(w http.ResponseWriter, r *http.Request) {
	days, ok := h.windowParam(w, r)
	if !ok {
		return
	}
	summary, err := h.svc.DailySummary(r.Context(), days)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, summary)
}

// GetTraining returns training groups, filtered by the urgency query parameter.
func (h *Handler) GetTraining(w http.ResponseWriter, r *http.Request) {
	days, ok := h.windowParam(w, r)
	if !ok {
		return
	}
	recs, err := h.svc.TrainingRecommendations(r.Context(), r.URL.Query().Get("urgency"), days)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"recommendations": recs,
		"count":           len(recs),
	})
}

// GetMentors returns mentoring pairs, filtered by the mentee query parameter.
func (h *Handler) GetMentors(w http.ResponseWriter, r *http.Request) {
	days, ok := h.windowParam(w, r)
	if !ok {
		return
	}
	pairs, err := h.svc.FindMentors(r.Context(), r.URL.Query().Get("mentee"), days)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"pairs": pairs,
		"count": len(pairs),
	})
}

// windowParam parses the optional window query parameter. Zero means the configured window.
func (h *Handler) windowParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("window")
	if raw == "" {
		return 0, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		h.respondError(w, fmt.Errorf("%w: window must be a positive number of days", contract.ErrInvalidInput))
		return 0, false
	}
	return days, true
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("API error", zap.Error(err), zap.Int("status", status))
	} else {
		h.logger.Debug("API request rejected", zap.Error(err), zap.Int("status", status))
	}
	h.respondJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, contract.ErrUnknownEngineer):
		return http.StatusNotFound
	case errors.Is(err, contract.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, contract.ErrEmptyRoster):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
