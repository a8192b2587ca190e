package web

import (
	"context"
	"net/http"
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// Health handles the health check endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.healthCheck == nil {
		h.JSON(w, http.StatusOK, HealthResponse{Status: "healthy", Store: "unchecked"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.healthCheck(ctx); err != nil {
		h.JSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Store: "fail"})
		return
	}

	h.JSON(w, http.StatusOK, HealthResponse{Status: "healthy", Store: "pass"})
}
