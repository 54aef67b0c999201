package api

import (
	"net/http"

	"github.com/rpupo63/chantier-backend/usecases"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type documentHandler struct {
	responder Responder
	logger    zerolog.Logger
	documents *usecases.DocumentUseCase
}

func newDocumentHandler(documents *usecases.DocumentUseCase) documentHandler {
	logger := log.With().Str("handlerName", "documentHandler").Logger()

	return documentHandler{
		responder: NewResponder(logger),
		logger:    logger,
		documents: documents,
	}
}

func (h documentHandler) getDocuments() http.HandlerFunc {
	return serveListByProject(h.responder, h.documents.List)
}

func (h documentHandler) getDocument() http.HandlerFunc {
	return serveGet(h.responder, "documentID", h.documents.Get)
}

// createDocument accepts JSON, or a multipart form with an optional "file"
// and the JSON payload in "data"
// @Summary Create document
// @Tags Documents
// @Accept json,multipart/form-data
// @Produce json
// @Param file formData file false "Document file"
// @Success 201 {object} models.Document
// @Failure 500 {object} ErrorResponse "Internal Server Error - Storage not configured"
// @Router /documents [post]
func (h documentHandler) createDocument() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, closeFile, err := readUpload(w, r, "file")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer closeFile()

		var in usecases.DocumentInput
		if err := decodeJSON(w, r, "document", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		document, err := h.documents.Create(r.Context(), actorFrom(r.Context()), in, file)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteStatusJSON(w, http.StatusCreated, document)
	}
}

func (h documentHandler) updateDocument() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		documentID, err := uuidParam(r, "documentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		file, closeFile, err := readUpload(w, r, "file")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer closeFile()

		var in usecases.DocumentInput
		if err := decodeJSON(w, r, "document", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		document, err := h.documents.Update(r.Context(), actorFrom(r.Context()), documentID, in, file)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, document)
	}
}

func (h documentHandler) deleteDocument() http.HandlerFunc {
	return serveDelete(h.responder, "documentID", h.documents.Delete)
}
