package api

import (
	"net/http"

	"github.com/rpupo63/chantier-backend/usecases"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contractorHandler struct {
	responder   Responder
	logger      zerolog.Logger
	contractors *usecases.ContractorUseCase
}

func newContractorHandler(contractors *usecases.ContractorUseCase) contractorHandler {
	logger := log.With().Str("handlerName", "contractorHandler").Logger()

	return contractorHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		contractors: contractors,
	}
}

func (h contractorHandler) getContractors() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contractors, err := h.contractors.List(r.Context(), actorFrom(r.Context()), r.URL.Query().Get("search"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, contractors)
	}
}

func (h contractorHandler) getContractor() http.HandlerFunc {
	return serveGet(h.responder, "contractorID", h.contractors.Get)
}

func (h contractorHandler) createContractor() http.HandlerFunc {
	return serveCreate(h.responder, "contractor", h.contractors.Create)
}

func (h contractorHandler) updateContractor() http.HandlerFunc {
	return serveUpdate(h.responder, "contractorID", "contractor", h.contractors.Update)
}

func (h contractorHandler) deleteContractor() http.HandlerFunc {
	return serveDelete(h.responder, "contractorID", h.contractors.Delete)
}
