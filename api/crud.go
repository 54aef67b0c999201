package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/usecases"
)

// The helpers below serve the plain tenant-scoped CRUD endpoints. Resources
// with uploads or extra filters write their handlers out in full.

func serveCreate[In, Out any](resp Responder, payloadName string, create func(context.Context, usecases.Actor, In) (Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in In
		if err := decodeJSON(w, r, payloadName, &in); err != nil {
			resp.WriteError(w, err)
			return
		}

		out, err := create(r.Context(), actorFrom(r.Context()), in)
		if err != nil {
			resp.WriteError(w, err)
			return
		}
		resp.WriteStatusJSON(w, http.StatusCreated, out)
	}
}

func serveGet[Out any](resp Responder, param string, get func(context.Context, usecases.Actor, uuid.UUID) (Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, param)
		if err != nil {
			resp.WriteError(w, err)
			return
		}

		out, err := get(r.Context(), actorFrom(r.Context()), id)
		if err != nil {
			resp.WriteError(w, err)
			return
		}
		resp.WriteJSON(w, out)
	}
}

func serveUpdate[In, Out any](resp Responder, param, payloadName string, update func(context.Context, usecases.Actor, uuid.UUID, In) (Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, param)
		if err != nil {
			resp.WriteError(w, err)
			return
		}

		var in In
		if err := decodeJSON(w, r, payloadName, &in); err != nil {
			resp.WriteError(w, err)
			return
		}

		out, err := update(r.Context(), actorFrom(r.Context()), id, in)
		if err != nil {
			resp.WriteError(w, err)
			return
		}
		resp.WriteJSON(w, out)
	}
}

func serveDelete(resp Responder, param string, del func(context.Context, usecases.Actor, uuid.UUID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, param)
		if err != nil {
			resp.WriteError(w, err)
			return
		}

		if err := del(r.Context(), actorFrom(r.Context()), id); err != nil {
			resp.WriteError(w, err)
			return
		}
		resp.WriteNoContent(w)
	}
}

// serveListByProject serves list endpoints filtered by an optional
// ?project_id= parameter.
func serveListByProject[Out any](resp Responder, list func(context.Context, usecases.Actor, *uuid.UUID) (Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidQuery(r, "project_id")
		if err != nil {
			resp.WriteError(w, err)
			return
		}

		out, err := list(r.Context(), actorFrom(r.Context()), projectID)
		if err != nil {
			resp.WriteError(w, err)
			return
		}
		resp.WriteJSON(w, out)
	}
}
