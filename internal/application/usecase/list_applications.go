package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/application/dto"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/model"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/port"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/valueobject"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// ListApplicationsUseCase lists applications, optionally filtered by status.
type ListApplicationsUseCase struct {
	appRepo port.LoanApplicationRepository
}

// NewListApplicationsUseCase wires dependencies.
func NewListApplicationsUseCase(appRepo port.LoanApplicationRepository) *ListApplicationsUseCase {
	return &ListApplicationsUseCase{appRepo: appRepo}
}

// Execute returns applications newest first. Limit defaults to 100 and is
// capped at 500.
func (uc *ListApplicationsUseCase) Execute(
	ctx context.Context,
	req dto.ListApplicationsRequest,
) ([]dto.LoanApplicationResponse, error) {
	filter := port.ApplicationFilter{Limit: req.Limit, Offset: req.Offset}

	if s := strings.TrimSpace(req.Status); s != "" {
		status, err := valueobject.NewDecisionStatus(strings.ToUpper(s))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrValidation, err)
		}
		filter.Status = status
	}
	if filter.Offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", model.ErrValidation)
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = DefaultListLimit
	case filter.Limit > MaxListLimit:
		filter.Limit = MaxListLimit
	}

	apps, err := uc.appRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return toApplicationResponses(apps), nil
}

// ListLoanHistoryUseCase lists the applications owned by one user.
type ListLoanHistoryUseCase struct {
	appRepo port.LoanApplicationRepository
}

// NewListLoanHistoryUseCase wires dependencies.
func NewListLoanHistoryUseCase(appRepo port.LoanApplicationRepository) *ListLoanHistoryUseCase {
	return &ListLoanHistoryUseCase{appRepo: appRepo}
}

// Execute returns the user's applications newest first.
func (uc *ListLoanHistoryUseCase) Execute(ctx context.Context, userID int64) ([]dto.LoanApplicationResponse, error) {
	apps, err := uc.appRepo.List(ctx, port.ApplicationFilter{UserID: &userID})
	if err != nil {
		return nil, fmt.Errorf("list loan history: %w", err)
	}
	return toApplicationResponses(apps), nil
}
