package api

import (
	"net/http"

	"github.com/rpupo63/chantier-backend/usecases"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// siteRecordHandler serves the day-to-day site journal: incidents,
// validations, decisions and photos.
type siteRecordHandler struct {
	responder   Responder
	logger      zerolog.Logger
	incidents   *usecases.IncidentUseCase
	validations *usecases.ValidationUseCase
	decisions   *usecases.DecisionUseCase
	photos      *usecases.PhotoUseCase
}

func newSiteRecordHandler(uc *usecases.UseCases) siteRecordHandler {
	logger := log.With().Str("handlerName", "siteRecordHandler").Logger()

	return siteRecordHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		incidents:   uc.Incidents,
		validations: uc.Validations,
		decisions:   uc.Decisions,
		photos:      uc.Photos,
	}
}

func (h siteRecordHandler) getIncidents() http.HandlerFunc {
	return serveListByProject(h.responder, h.incidents.List)
}

func (h siteRecordHandler) getIncident() http.HandlerFunc {
	return serveGet(h.responder, "incidentID", h.incidents.Get)
}

// createIncident records an incident and notifies the account
// @Summary Report incident
// @Tags Site
// @Accept json
// @Produce json
// @Param incident body usecases.IncidentInput true "Incident data"
// @Success 201 {object} models.Incident
// @Router /incidents [post]
func (h siteRecordHandler) createIncident() http.HandlerFunc {
	return serveCreate(h.responder, "incident", h.incidents.Create)
}

func (h siteRecordHandler) updateIncident() http.HandlerFunc {
	return serveUpdate(h.responder, "incidentID", "incident", h.incidents.Update)
}

func (h siteRecordHandler) deleteIncident() http.HandlerFunc {
	return serveDelete(h.responder, "incidentID", h.incidents.Delete)
}

// getValidations lists validation requests, optionally by status
// @Summary List validations
// @Tags Site
// @Produce json
// @Param project_id query string false "Project ID" format(uuid)
// @Param status query string false "pending, approved or rejected"
// @Success 200 {array} models.Validation
// @Router /validations [get]
func (h siteRecordHandler) getValidations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidQuery(r, "project_id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		validations, err := h.validations.List(r.Context(), actorFrom(r.Context()), projectID, r.URL.Query().Get("status"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, validations)
	}
}

func (h siteRecordHandler) getValidation() http.HandlerFunc {
	return serveGet(h.responder, "validationID", h.validations.Get)
}

func (h siteRecordHandler) createValidation() http.HandlerFunc {
	return serveCreate(h.responder, "validation", h.validations.Create)
}

func (h siteRecordHandler) updateValidation() http.HandlerFunc {
	return serveUpdate(h.responder, "validationID", "validation", h.validations.Update)
}

func (h siteRecordHandler) deleteValidation() http.HandlerFunc {
	return serveDelete(h.responder, "validationID", h.validations.Delete)
}

func (h siteRecordHandler) getDecisions() http.HandlerFunc {
	return serveListByProject(h.responder, h.decisions.List)
}

func (h siteRecordHandler) getDecision() http.HandlerFunc {
	return serveGet(h.responder, "decisionID", h.decisions.Get)
}

func (h siteRecordHandler) createDecision() http.HandlerFunc {
	return serveCreate(h.responder, "decision", h.decisions.Create)
}

func (h siteRecordHandler) updateDecision() http.HandlerFunc {
	return serveUpdate(h.responder, "decisionID", "decision", h.decisions.Update)
}

func (h siteRecordHandler) deleteDecision() http.HandlerFunc {
	return serveDelete(h.responder, "decisionID", h.decisions.Delete)
}

func (h siteRecordHandler) getPhotos() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidQuery(r, "project_id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		taskID, err := uuidQuery(r, "project_task_id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		photos, err := h.photos.List(r.Context(), actorFrom(r.Context()), projectID, taskID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, photos)
	}
}

func (h siteRecordHandler) getPhoto() http.HandlerFunc {
	return serveGet(h.responder, "photoID", h.photos.Get)
}

// createPhoto uploads a site photo
// @Summary Upload photo
// @Tags Site
// @Accept multipart/form-data
// @Produce json
// @Param photo formData file true "Image"
// @Param data formData string true "JSON encoded usecases.PhotoInput"
// @Success 201 {object} models.Photo
// @Failure 422 {object} ErrorResponse "Unprocessable Entity - Missing photo or task of another project"
// @Router /photos [post]
func (h siteRecordHandler) createPhoto() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, closeFile, err := readUpload(w, r, "photo")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer closeFile()

		var in usecases.PhotoInput
		if err := decodeJSON(w, r, "photo", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		photo, err := h.photos.Create(r.Context(), actorFrom(r.Context()), in, file)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteStatusJSON(w, http.StatusCreated, photo)
	}
}

func (h siteRecordHandler) updatePhoto() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		photoID, err := uuidParam(r, "photoID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		file, closeFile, err := readUpload(w, r, "photo")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer closeFile()

		var in usecases.PhotoInput
		if err := decodeJSON(w, r, "photo", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		photo, err := h.photos.Update(r.Context(), actorFrom(r.Context()), photoID, in, file)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, photo)
	}
}

func (h siteRecordHandler) deletePhoto() http.HandlerFunc {
	return serveDelete(h.responder, "photoID", h.photos.Delete)
}
