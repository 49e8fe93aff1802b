package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/application/dto"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/model"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/port"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/service"
)

// VerifyIncomeUseCase checks a claimed salary against a fetched statement.
type VerifyIncomeUseCase struct {
	source   port.StatementSource
	analyzer *service.StatementAnalyzer
}

// NewVerifyIncomeUseCase wires dependencies.
func NewVerifyIncomeUseCase(source port.StatementSource, analyzer *service.StatementAnalyzer) *VerifyIncomeUseCase {
	return &VerifyIncomeUseCase{source: source, analyzer: analyzer}
}

// Execute fetches a statement for claimedSalary and summarises it.
func (uc *VerifyIncomeUseCase) Execute(ctx context.Context, claimedSalary float64) (dto.StatementSummaryResponse, error) {
	if claimedSalary < 0 || math.IsNaN(claimedSalary) || math.IsInf(claimedSalary, 0) {
		return dto.StatementSummaryResponse{}, fmt.Errorf("%w: claimed salary must be a non-negative number", model.ErrValidation)
	}

	txns, err := uc.source.FetchStatement(ctx, claimedSalary)
	if err != nil {
		return dto.StatementSummaryResponse{}, fmt.Errorf("fetch statement: %w", err)
	}
	return toSummaryResponse(uc.analyzer.Analyze(txns)), nil
}
