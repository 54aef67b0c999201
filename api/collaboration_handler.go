package api

import (
	"net/http"

	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/usecases"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// collaborationHandler serves comments, project messages and the user's
// notification inbox.
type collaborationHandler struct {
	responder     Responder
	logger        zerolog.Logger
	comments      *usecases.CommentUseCase
	messages      *usecases.MessageUseCase
	notifications *usecases.NotificationUseCase
}

func newCollaborationHandler(uc *usecases.UseCases) collaborationHandler {
	logger := log.With().Str("handlerName", "collaborationHandler").Logger()

	return collaborationHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		comments:      uc.Comments,
		messages:      uc.Messages,
		notifications: uc.Notifications,
	}
}

func (h collaborationHandler) getComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentableType := r.URL.Query().Get("commentable_type")
		if commentableType == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("commentable_type"))
			return
		}
		commentableID, err := uuidQuery(r, "commentable_id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if commentableID == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("commentable_id"))
			return
		}

		comments, err := h.comments.List(r.Context(), actorFrom(r.Context()), commentableType, *commentableID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, comments)
	}
}

// createComment comments a task, milestone, decision or budget item
// @Summary Add comment
// @Tags Collaboration
// @Accept json
// @Produce json
// @Param comment body usecases.CommentInput true "Comment"
// @Success 201 {object} models.Comment
// @Failure 422 {object} ErrorResponse "Unprocessable Entity - Unknown commentable type"
// @Router /comments [post]
func (h collaborationHandler) createComment() http.HandlerFunc {
	return serveCreate(h.responder, "comment", h.comments.Create)
}

func (h collaborationHandler) getMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidQuery(r, "project_id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if projectID == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("project_id"))
			return
		}

		messages, err := h.messages.List(r.Context(), actorFrom(r.Context()), *projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, messages)
	}
}

func (h collaborationHandler) createMessage() http.HandlerFunc {
	return serveCreate(h.responder, "project message", h.messages.Create)
}

// getNotifications returns the user's inbox, newest first
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} usecases.NotificationPage
// @Router /notifications [get]
func (h collaborationHandler) getNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := h.notifications.List(r.Context(), actorFrom(r.Context()), pageQuery(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, page)
	}
}

func (h collaborationHandler) markNotificationRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notificationID, err := uuidParam(r, "notificationID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.notifications.MarkRead(r.Context(), actorFrom(r.Context()), notificationID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteNoContent(w)
	}
}

func (h collaborationHandler) markAllNotificationsRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := h.notifications.MarkAllRead(r.Context(), actorFrom(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]int64{"marked": n})
	}
}
