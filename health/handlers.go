// Package health reports process liveness and credential-store reachability.
package health

import (
	"context"
	"net/http"

	"github.com/user/marketdash-go/apperror"
	"github.com/user/marketdash-go/auth"
)

// Pinger is the slice of the database pool the health check needs.
// *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers provides the health endpoint. A nil db means no credential store
// is configured.
type Handlers struct {
	db Pinger
}

// NewHandlers creates health handlers over a database handle, which may be nil.
func NewHandlers(db Pinger) *Handlers {
	return &Handlers{db: db}
}

// statusResponse is the health payload.
type statusResponse struct {
	Status string `json:"status" example:"ok"`
	DB     string `json:"db" example:"connected"`
}

// HandleHealth godoc
// @Summary Liveness and database status
// @Description Reports whether the service is up and whether the database is reachable.
// @Tags Health
// @Produce json
// @Success 200 {object} auth.DataEnvelope{data=health.statusResponse} "Healthy"
// @Failure 503 {object} apperror.ErrorResponse "Database not configured or unreachable"
// @Router /health [get]
func (h *Handlers) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.db == nil {
			// Degraded, not failed: the process is alive, the store was
			// simply never configured. No error field in this envelope.
			auth.WriteData(w, http.StatusServiceUnavailable, statusResponse{
				Status: "degraded",
				DB:     "not_configured",
			})
			return
		}

		if err := h.db.Ping(r.Context()); err != nil {
			auth.WriteError(w, r, apperror.NewUnavailableError("Service unavailable", err).
				WithData(map[string]any{"db": "disconnected"}))
			return
		}

		auth.WriteData(w, http.StatusOK, statusResponse{Status: "ok", DB: "connected"})
	}
}
