package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/application/usecase"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/model"
)

// Messages returned in the "detail" field.
const (
	detailEmailTaken         = "Email already registered"
	detailInvalidCredentials = "Incorrect email or password"
	detailNotFound           = "Not found"
	detailInternal           = "Internal server error"
)

type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

// writeError maps application errors to HTTP responses. Unclassified errors
// are logged and reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var formatErr *model.StatementFormatError
	switch {
	case errors.As(err, &formatErr):
		writeDetail(w, http.StatusBadRequest, "Error reading file: "+formatErr.Error())
	case errors.Is(err, model.ErrEmailTaken):
		writeDetail(w, http.StatusBadRequest, detailEmailTaken)
	case errors.Is(err, model.ErrValidation):
		writeDetail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, usecase.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeDetail(w, http.StatusUnauthorized, detailInvalidCredentials)
	case errors.Is(err, model.ErrNotFound):
		writeDetail(w, http.StatusNotFound, detailNotFound)
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeDetail(w, http.StatusInternalServerError, detailInternal)
	}
}
