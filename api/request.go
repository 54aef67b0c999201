package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/usecases"
)

const (
	maxJSONBodySize   = 1 << 20  // 1MB
	maxUploadBodySize = 25 << 20 // 25MB
)

// decodeJSON reads a JSON body into v. Bodies sent as multipart forms carry
// their JSON in the "data" field.
func decodeJSON(w http.ResponseWriter, r *http.Request, payloadName string, v any) error {
	if isMultipart(r) {
		raw := r.FormValue("data")
		if raw == "" {
			return nil
		}
		if err := json.Unmarshal([]byte(raw), v); err != nil {
			return errs.NewMalformedPayloadError(payloadName, err)
		}
		return nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return errs.NewMalformedPayloadError(payloadName, err)
	}
	return nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// readUpload parses a multipart request and returns the file sent as field,
// or nil when the request carries none. The caller closes the returned closer.
func readUpload(w http.ResponseWriter, r *http.Request, field string) (*usecases.Upload, func(), error) {
	if !isMultipart(r) {
		return nil, func() {}, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBodySize)
	if err := r.ParseMultipartForm(maxUploadBodySize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, func() {}, errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return nil, func() {}, errs.NewMalformedPayloadError("multipart form", err)
	}

	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, errs.NewMalformedPayloadError(field, err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	upload := &usecases.Upload{Filename: header.Filename, ContentType: contentType, Body: file}
	return upload, func() { file.Close() }, nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, errs.NewBadRequestError("missing " + name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid " + name)
	}
	return id, nil
}

// uuidQuery returns nil when the query parameter is absent.
func uuidQuery(r *http.Request, name string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, errs.NewInvalidFieldError(name, "not a valid id")
	}
	return &id, nil
}

// dateQuery accepts YYYY-MM-DD.
func dateQuery(r *http.Request, name string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, errs.NewInvalidFieldError(name, "expected YYYY-MM-DD")
	}
	return &t, nil
}

func pageQuery(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
