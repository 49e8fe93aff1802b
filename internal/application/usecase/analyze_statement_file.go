package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/application/dto"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/model"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/port"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/service"
)

// AnalyzeStatementFileUseCase summarises an uploaded statement and, for
// signed-in users, records the result in their history.
type AnalyzeStatementFileUseCase struct {
	parser   port.StatementParser
	analyzer *service.StatementAnalyzer
	history  port.HistoryRepository
	logger   *slog.Logger
}

// NewAnalyzeStatementFileUseCase wires dependencies.
func NewAnalyzeStatementFileUseCase(
	parser port.StatementParser,
	analyzer *service.StatementAnalyzer,
	history port.HistoryRepository,
	logger *slog.Logger,
) *AnalyzeStatementFileUseCase {
	return &AnalyzeStatementFileUseCase{
		parser:   parser,
		analyzer: analyzer,
		history:  history,
		logger:   logger,
	}
}

// Execute returns parser errors unwrapped so their message can be shown to
// the uploader as is. Nothing is stored when parsing fails.
func (uc *AnalyzeStatementFileUseCase) Execute(
	ctx context.Context,
	req dto.AnalyzeStatementRequest,
) (dto.StatementSummaryResponse, error) {
	txns, err := uc.parser.Parse(req.Body)
	if err != nil {
		return dto.StatementSummaryResponse{}, err
	}

	summary := toSummaryResponse(uc.analyzer.Analyze(txns))
	if req.UserID == nil {
		return summary, nil
	}

	result, err := json.Marshal(summary)
	if err != nil {
		return dto.StatementSummaryResponse{}, fmt.Errorf("encode summary: %w", err)
	}
	entry, err := model.NewRiskAnalysisHistory(*req.UserID, req.Filename, string(result), time.Now().UTC())
	if err != nil {
		return dto.StatementSummaryResponse{}, fmt.Errorf("create history entry: %w", err)
	}
	entry, err = uc.history.Save(ctx, entry)
	if err != nil {
		return dto.StatementSummaryResponse{}, fmt.Errorf("save history entry: %w", err)
	}

	uc.logger.InfoContext(ctx, "statement analysed",
		"history_id", entry.ID(),
		"user_id", entry.UserID(),
		"transactions", len(txns),
	)
	return summary, nil
}

// ListHistoryUseCase lists a user's statement analysis history.
type ListHistoryUseCase struct {
	history port.HistoryRepository
}

// NewListHistoryUseCase wires dependencies.
func NewListHistoryUseCase(history port.HistoryRepository) *ListHistoryUseCase {
	return &ListHistoryUseCase{history: history}
}

// Execute returns the user's entries newest first.
func (uc *ListHistoryUseCase) Execute(ctx context.Context, userID int64) ([]dto.HistoryResponse, error) {
	entries, err := uc.history.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	out := make([]dto.HistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.HistoryResponse{
			ID:        e.ID(),
			Filename:  e.Filename(),
			Result:    e.Result(),
			CreatedAt: e.CreatedAt(),
		})
	}
	return out, nil
}
