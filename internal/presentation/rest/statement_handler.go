package rest

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/application/dto"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/model"
)

// multipartMemory is how much of an upload is held in memory before the
// rest spills to a temporary file.
const multipartMemory = 4 << 20

func (h *Handler) verifyIncome(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("claimed_salary")
	if raw == "" {
		writeError(w, r, h.logger, fmt.Errorf("%w: claimed_salary is required", model.ErrValidation))
		return
	}
	salary, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeError(w, r, h.logger, fmt.Errorf("%w: claimed_salary must be a number", model.ErrValidation))
		return
	}

	summary, err := h.uc.VerifyIncome.Execute(r.Context(), salary)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) analyzeStatementFile(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUploadBytes {
		writeDetail(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Error reading file: upload exceeds %d bytes", h.maxUploadBytes))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeDetail(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Error reading file: upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeDetail(w, http.StatusBadRequest, "Error reading file: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }() //nolint:errcheck

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, h.logger, fmt.Errorf("%w: file is required", model.ErrValidation))
		return
	}
	defer file.Close()

	summary, err := h.uc.AnalyzeStatement.Execute(r.Context(), dto.AnalyzeStatementRequest{
		Filename: filepath.Base(header.Filename),
		Body:     file,
		UserID:   userID(r),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	id := userID(r)
	if id == nil {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	entries, err := h.uc.ListHistory.Execute(r.Context(), *id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
