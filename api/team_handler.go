package api

import (
	"net/http"

	"github.com/rpupo63/chantier-backend/usecases"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type teamHandler struct {
	responder Responder
	logger    zerolog.Logger
	team      *usecases.TeamUseCase
}

func newTeamHandler(team *usecases.TeamUseCase) teamHandler {
	logger := log.With().Str("handlerName", "teamHandler").Logger()

	return teamHandler{
		responder: NewResponder(logger),
		logger:    logger,
		team:      team,
	}
}

type roleUpdate struct {
	Role string `json:"role"`
}

func (h teamHandler) getMembers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		members, err := h.team.ListMembers(r.Context(), actorFrom(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, members)
	}
}

// inviteMember adds someone to the account and mails them
// @Summary Invite team member
// @Tags Team
// @Accept json
// @Produce json
// @Param invite body usecases.InviteInput true "Invitation"
// @Success 201 {object} models.Membership
// @Failure 403 {object} ErrorResponse "Forbidden - Owner role required"
// @Failure 409 {object} ErrorResponse "Conflict - Already a member"
// @Router /team [post]
func (h teamHandler) inviteMember() http.HandlerFunc {
	return serveCreate(h.responder, "invitation", h.team.Invite)
}

// updateRole changes a member's role
// @Summary Update member role
// @Tags Team
// @Accept json
// @Produce json
// @Param userID path string true "User ID" format(uuid)
// @Success 200 {object} models.Membership
// @Failure 422 {object} ErrorResponse "Unprocessable Entity - Self demotion or last owner"
// @Router /team/{userID}/role [put]
func (h teamHandler) updateRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuidParam(r, "userID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in roleUpdate
		if err := decodeJSON(w, r, "role", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		membership, err := h.team.UpdateRole(r.Context(), actorFrom(r.Context()), userID, in.Role)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, membership)
	}
}
