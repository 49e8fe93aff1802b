package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/application/dto"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/model"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := validate(h.validate, req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.uc.Register.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// login accepts the OAuth2 password form (username, password) used by
// browser clients, or a JSON body with email and password.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			writeError(w, r, h.logger, fmt.Errorf("%w: invalid form body", model.ErrValidation))
			return
		}
		req.Email = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
	default:
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
	}
	if err := validate(h.validate, req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	token, err := h.uc.Login.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, token)
}

// decodeJSON reads a single JSON object of at most 1 MiB. Unknown fields
// are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", model.ErrValidation, err)
	}
	return nil
}
