package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/model"
	pkgpg "github.com/the-lost-phoenix/credit-risk-engine/pkg/postgres"
)

// HistoryRepo implements port.HistoryRepository.
type HistoryRepo struct {
	db pkgpg.Querier
}

// NewHistoryRepo creates a new repository backed by PostgreSQL.
func NewHistoryRepo(db pkgpg.Querier) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// Save inserts a history entry.
func (r *HistoryRepo) Save(ctx context.Context, entry model.RiskAnalysisHistory) (model.RiskAnalysisHistory, error) {
	query := `
		INSERT INTO risk_analysis_history (user_id, filename, result, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	var (
		id        int64
		createdAt time.Time
	)
	err := r.db.QueryRow(ctx, query,
		entry.UserID(), entry.Filename(), entry.Result(), entry.CreatedAt(),
	).Scan(&id, &createdAt)
	if err != nil {
		return model.RiskAnalysisHistory{}, fmt.Errorf("insert history entry: %w", err)
	}
	return model.ReconstructRiskAnalysisHistory(id, entry.UserID(), entry.Filename(), entry.Result(), createdAt), nil
}

// ListByUser returns the user's entries newest first.
func (r *HistoryRepo) ListByUser(ctx context.Context, userID int64) ([]model.RiskAnalysisHistory, error) {
	query := `
		SELECT id, user_id, filename, result, created_at
		FROM risk_analysis_history
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	result := []model.RiskAnalysisHistory{}
	for rows.Next() {
		var (
			id, uid          int64
			filename, output string
			createdAt        time.Time
		)
		if err := rows.Scan(&id, &uid, &filename, &output, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		result = append(result, model.ReconstructRiskAnalysisHistory(id, uid, filename, output, createdAt))
	}
	return result, rows.Err()
}
