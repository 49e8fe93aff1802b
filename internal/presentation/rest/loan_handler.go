package rest

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/application/dto"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/model"
)

func (h *Handler) apply(w http.ResponseWriter, r *http.Request) {
	var req dto.LoanApplicationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := validate(h.validate, req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp, err := h.uc.SubmitApplication.Execute(r.Context(), req, userID(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) listApplications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryInt(q.Get("limit"), "limit")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	offset, err := queryInt(q.Get("offset"), "offset")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	apps, err := h.uc.ListApplications.Execute(r.Context(), dto.ListApplicationsRequest{
		Status: q.Get("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (h *Handler) loanHistory(w http.ResponseWriter, r *http.Request) {
	id := userID(r)
	if id == nil {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	apps, err := h.uc.ListLoanHistory.Execute(r.Context(), *id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// queryInt parses an optional integer query parameter; empty means zero.
func queryInt(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", model.ErrValidation, name)
	}
	return v, nil
}
