package api

import (
	"net/http"

	"github.com/rpupo63/chantier-backend/usecases"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	auth      *usecases.AuthUseCase
}

func newAuthHandler(auth *usecases.AuthUseCase) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		auth:      auth,
	}
}

// login exchanges an email and password for a bearer token
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body usecases.LoginInput true "Email and password"
// @Success 200 {object} usecases.LoginResult
// @Failure 401 {object} ErrorResponse "Unauthorized - Bad credentials"
// @Router /auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in usecases.LoginInput
		if err := decodeJSON(w, r, "credentials", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result, err := h.auth.Login(r.Context(), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("userID", result.User.ID.String()).Msg("User logged in")
		h.responder.WriteJSON(w, result)
	}
}
