package port

import "context"

// DecisionMetrics records decision pipeline measurements.
type DecisionMetrics interface {
	RecordDecision(ctx context.Context, status, stage string, riskScore float64)
	RecordPublishFailure(ctx context.Context)
	RecordModelFallback(ctx context.Context)
}
