package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/application/dto"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/application/usecase"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/model"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/port"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/valueobject"
)

func TestListApplications_Filter(t *testing.T) {
	tests := []struct {
		name       string
		req        dto.ListApplicationsRequest
		wantStatus valueobject.DecisionStatus
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", req: dto.ListApplicationsRequest{}, wantLimit: 100},
		{name: "status is case-insensitive", req: dto.ListApplicationsRequest{Status: "approved"}, wantStatus: valueobject.DecisionStatusApproved, wantLimit: 100},
		{name: "limit capped", req: dto.ListApplicationsRequest{Limit: 10_000, Offset: 20}, wantLimit: 500, wantOffset: 20},
		{name: "explicit limit", req: dto.ListApplicationsRequest{Status: "REJECTED", Limit: 5}, wantStatus: valueobject.DecisionStatusRejected, wantLimit: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockLoanApplicationRepository{}
			_, err := usecase.NewListApplicationsUseCase(repo).Execute(context.Background(), tt.req)
			require.NoError(t, err)
			require.Len(t, repo.filters, 1)
			f := repo.filters[0]
			assert.Equal(t, tt.wantStatus, f.Status)
			assert.Equal(t, tt.wantLimit, f.Limit)
			assert.Equal(t, tt.wantOffset, f.Offset)
			assert.Nil(t, f.UserID)
		})
	}
}

func TestListApplications_InvalidInput(t *testing.T) {
	uc := usecase.NewListApplicationsUseCase(&mockLoanApplicationRepository{})

	_, err := uc.Execute(context.Background(), dto.ListApplicationsRequest{Status: "MAYBE"})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = uc.Execute(context.Background(), dto.ListApplicationsRequest{Offset: -1})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestListApplications_RepoError(t *testing.T) {
	repo := &mockLoanApplicationRepository{}
	repo.listFunc = func(context.Context, port.ApplicationFilter) ([]model.LoanApplication, error) {
		return nil, errors.New("timeout")
	}
	_, err := usecase.NewListApplicationsUseCase(repo).Execute(context.Background(), dto.ListApplicationsRequest{})
	assert.Error(t, err)
}

func TestListLoanHistory_ScopesToUser(t *testing.T) {
	repo := &mockLoanApplicationRepository{}
	_, err := usecase.NewListLoanHistoryUseCase(repo).Execute(context.Background(), 42)
	require.NoError(t, err)

	require.Len(t, repo.filters, 1)
	require.NotNil(t, repo.filters[0].UserID)
	assert.Equal(t, int64(42), *repo.filters[0].UserID)
}
