package api

import (
	"net/http"

	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/usecases"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  *usecases.ProjectUseCase
}

func newProjectHandler(projects *usecases.ProjectUseCase) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
	}
}

// getProjects lists the account's projects
// @Summary List projects
// @Description Newest first, 12 per page, filtered by status, city, client and a free-text search
// @Tags Projects
// @Produce json
// @Param status query string false "Project status"
// @Param city query string false "City"
// @Param client query string false "Client name (substring)"
// @Param search query string false "Name, client or address (substring)"
// @Param page query int false "Page number"
// @Success 200 {object} usecases.ProjectPage
// @Router /projects [get]
func (h projectHandler) getProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, err := h.projects.List(r.Context(), actorFrom(r.Context()), database.ProjectFilter{
			Status: q.Get("status"),
			City:   q.Get("city"),
			Client: q.Get("client"),
			Search: q.Get("search"),
			Page:   pageQuery(r),
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, page)
	}
}

// getProject returns a project with its phases, tasks, milestones,
// contractors, recent activities and messages
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.Detail(r.Context(), actorFrom(r.Context()), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a new project
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body usecases.ProjectInput true "Project data"
// @Success 201 {object} models.Project
// @Failure 422 {object} ErrorResponse "Unprocessable Entity - Validation failed"
// @Router /projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in usecases.ProjectInput
		if err := decodeJSON(w, r, "project", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.Create(r.Context(), actorFrom(r.Context()), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteStatusJSON(w, http.StatusCreated, project)
	}
}

// updateProject updates a project. Omitted progress, budget and alert
// settings keep their current values.
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param project body usecases.ProjectInput true "Project data"
// @Success 200 {object} models.Project
// @Router /projects/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in usecases.ProjectInput
		if err := decodeJSON(w, r, "project", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.Update(r.Context(), actorFrom(r.Context()), projectID, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

// deleteProject deletes a project and everything attached to it
// @Summary Delete project
// @Tags Projects
// @Param projectID path string true "Project ID" format(uuid)
// @Success 204 "No Content"
// @Router /projects/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projects.Delete(r.Context(), actorFrom(r.Context()), projectID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("projectID", projectID.String()).Msg("Project deleted")
		h.responder.WriteNoContent(w)
	}
}

func (h projectHandler) assignContractor() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in usecases.ContractorAssignment
		if err := decodeJSON(w, r, "contractor assignment", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		link, err := h.projects.AssignContractor(r.Context(), actorFrom(r.Context()), projectID, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteStatusJSON(w, http.StatusCreated, link)
	}
}

func (h projectHandler) removeContractor() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		contractorID, err := uuidParam(r, "contractorID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projects.RemoveContractor(r.Context(), actorFrom(r.Context()), projectID, contractorID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteNoContent(w)
	}
}
