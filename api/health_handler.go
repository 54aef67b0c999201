package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rpupo63/chantier-backend/database"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	db          database.Database
	startupTime time.Time
}

func newHealthHandler(db database.Database, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		db:          db,
		startupTime: startupTime,
	}
}

type healthResponse struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// health reports whether the database answers
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 503 {object} healthResponse
// @Router /health [get]
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		response := healthResponse{
			Status:        "ok",
			Database:      "ok",
			UptimeSeconds: int64(time.Since(h.startupTime).Seconds()),
		}
		if err := h.db.Ping(ctx); err != nil {
			h.logger.Error().Err(err).Msg("Database ping failed")
			response.Status = "degraded"
			response.Database = "unreachable"
			h.responder.WriteStatusJSON(w, http.StatusServiceUnavailable, response)
			return
		}
		h.responder.WriteJSON(w, response)
	}
}
