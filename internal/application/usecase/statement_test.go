package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/application/dto"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/application/usecase"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/model"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/service"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/valueobject"
)

func salaryStatement() []model.Transaction {
	return []model.Transaction{
		{Amount: 50000, Type: valueobject.TransactionCredit, Narration: "SALARY TRANSFER"},
		{Amount: 200, Type: valueobject.TransactionDebit, Narration: "FOOD"},
	}
}

func TestAnalyzeStatementFile_Anonymous(t *testing.T) {
	history := &mockHistoryRepository{}
	parser := &mockStatementParser{parseFunc: func(io.Reader) ([]model.Transaction, error) {
		return salaryStatement(), nil
	}}
	uc := usecase.NewAnalyzeStatementFileUseCase(parser, service.NewStatementAnalyzer(), history, discardLogger())

	resp, err := uc.Execute(context.Background(), dto.AnalyzeStatementRequest{
		Filename: "jan.csv",
		Body:     strings.NewReader("ignored"),
	})
	require.NoError(t, err)
	assert.Equal(t, 50000.0, resp.EstimatedSalary)
	assert.True(t, resp.IsVerified)
	assert.Empty(t, history.savedItems)
}

func TestAnalyzeStatementFile_SignedInRecordsHistory(t *testing.T) {
	history := &mockHistoryRepository{}
	parser := &mockStatementParser{parseFunc: func(io.Reader) ([]model.Transaction, error) {
		return salaryStatement(), nil
	}}
	uc := usecase.NewAnalyzeStatementFileUseCase(parser, service.NewStatementAnalyzer(), history, discardLogger())
	uid := int64(4)

	resp, err := uc.Execute(context.Background(), dto.AnalyzeStatementRequest{
		Filename: "jan.csv",
		Body:     strings.NewReader("ignored"),
		UserID:   &uid,
	})
	require.NoError(t, err)

	require.Len(t, history.savedItems, 1)
	entry := history.savedItems[0]
	assert.Equal(t, int64(4), entry.UserID())
	assert.Equal(t, "jan.csv", entry.Filename())

	var stored dto.StatementSummaryResponse
	require.NoError(t, json.Unmarshal([]byte(entry.Result()), &stored))
	assert.Equal(t, resp, stored)
}

func TestAnalyzeStatementFile_ParseErrorStoresNothing(t *testing.T) {
	history := &mockHistoryRepository{}
	parseErr := errors.New("CSV missing columns: [amount]. Found: [date narration]")
	parser := &mockStatementParser{parseFunc: func(io.Reader) ([]model.Transaction, error) {
		return nil, parseErr
	}}
	uc := usecase.NewAnalyzeStatementFileUseCase(parser, service.NewStatementAnalyzer(), history, discardLogger())
	uid := int64(4)

	_, err := uc.Execute(context.Background(), dto.AnalyzeStatementRequest{Body: strings.NewReader(""), UserID: &uid})
	assert.Equal(t, parseErr, err)
	assert.Empty(t, history.savedItems)
}

func TestListHistory(t *testing.T) {
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var gotUser int64
	history := &mockHistoryRepository{listFunc: func(_ context.Context, userID int64) ([]model.RiskAnalysisHistory, error) {
		gotUser = userID
		return []model.RiskAnalysisHistory{
			model.ReconstructRiskAnalysisHistory(2, userID, "feb.csv", `{"is_verified":true}`, at),
		}, nil
	}}

	resp, err := usecase.NewListHistoryUseCase(history).Execute(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, int64(11), gotUser)
	assert.Equal(t, []dto.HistoryResponse{{ID: 2, Filename: "feb.csv", Result: `{"is_verified":true}`, CreatedAt: at}}, resp)
}

func TestVerifyIncome(t *testing.T) {
	var claimed float64
	source := &mockStatementSource{fetchFunc: func(_ context.Context, salary float64) ([]model.Transaction, error) {
		claimed = salary
		return salaryStatement(), nil
	}}
	uc := usecase.NewVerifyIncomeUseCase(source, service.NewStatementAnalyzer())

	resp, err := uc.Execute(context.Background(), 50000)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, claimed)
	assert.Equal(t, 50000.0, resp.EstimatedSalary)

	_, err = uc.Execute(context.Background(), -1)
	assert.ErrorIs(t, err, model.ErrValidation)
}
