package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/oggyb/chuanglan-sms/internal/response"
)

// Pinger is a dependency the health endpoint can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HomeHandler serves the root and health endpoints.
type HomeHandler struct {
	checks map[string]Pinger
}

// NewHomeHandler returns a HomeHandler that reports on the given
// dependencies, keyed by display name.
func NewHomeHandler(checks map[string]Pinger) *HomeHandler {
	return &HomeHandler{checks: checks}
}

// Index godoc
// @Summary     Welcome endpoint
// @Description Simple root endpoint that returns a welcome message.
// @Tags        home
// @Produce     json
// @Success     200 {object} response.WelcomeResponse
// @Router      / [get]
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	payload := response.WelcomePayload{
		Message: "Welcome to the Chuanglan SMS gateway service",
	}

	response.RespondJSON(w, http.StatusOK, payload)
}

// Health godoc
// @Summary     Health check
// @Description Reports "ok" when every dependency answers, "degraded" otherwise.
// @Tags        home
// @Produce     json
// @Success     200 {object} response.HealthResponse
// @Failure     503 {object} response.HealthResponse
// @Router      /health [get]
func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	payload := response.HealthPayload{Status: "ok"}

	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			log.Printf("[Handler] Health check %s failed: %v", name, err)
			status = http.StatusServiceUnavailable
			payload.Status = "degraded"
			if payload.Failing == nil {
				payload.Failing = map[string]string{}
			}
			payload.Failing[name] = err.Error()
		}
	}

	response.RespondJSON(w, status, payload)
}
