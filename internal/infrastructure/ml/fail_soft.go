package ml

import (
	"context"
	"log/slog"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/port"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/valueobject"
)

var _ port.RiskModel = (*FailSoftModel)(nil)

// fallbackRecorder is satisfied by port.DecisionMetrics.
type fallbackRecorder interface {
	RecordModelFallback(ctx context.Context)
}

// FailSoftModel serves a neutral prediction (score 0, no factors) when the
// wrapped model is missing or fails, so scoring outages never block a
// decision.
type FailSoftModel struct {
	next    port.RiskModel
	metrics fallbackRecorder
	logger  *slog.Logger
}

// NewFailSoftModel wraps next, which may be nil when no model could be loaded.
func NewFailSoftModel(next port.RiskModel, metrics fallbackRecorder, logger *slog.Logger) *FailSoftModel {
	return &FailSoftModel{next: next, metrics: metrics, logger: logger}
}

// Predict never returns an error.
func (m *FailSoftModel) Predict(ctx context.Context, f port.RiskFeatures) (port.RiskPrediction, error) {
	if m.next == nil {
		m.fallback(ctx, "risk model unavailable, serving neutral score")
		return neutral(), nil
	}
	p, err := m.next.Predict(ctx, f)
	if err != nil {
		m.fallback(ctx, "risk model failed, serving neutral score", "error", err)
		return neutral(), nil
	}
	return p, nil
}

func (m *FailSoftModel) fallback(ctx context.Context, msg string, args ...any) {
	if m.metrics != nil {
		m.metrics.RecordModelFallback(ctx)
	}
	m.logger.WarnContext(ctx, msg, args...)
}

func neutral() port.RiskPrediction {
	return port.RiskPrediction{Score: 0, Factors: []valueobject.RiskFactor{}}
}
