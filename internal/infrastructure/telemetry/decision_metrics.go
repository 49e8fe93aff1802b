package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DecisionMetrics implements port.DecisionMetrics with OpenTelemetry
// instruments. Any MeterProvider works; production uses the Prometheus
// exporter installed by observability.InitMetrics.
type DecisionMetrics struct {
	decisions       metric.Int64Counter
	riskScore       metric.Float64Histogram
	publishFailures metric.Int64Counter
	modelFallbacks  metric.Int64Counter
}

// NewDecisionMetrics creates the instruments on meter.
func NewDecisionMetrics(meter metric.Meter) (*DecisionMetrics, error) {
	decisions, err := meter.Int64Counter("credit_risk_decisions_total",
		metric.WithDescription("Loan application decisions by status and stage."))
	if err != nil {
		return nil, fmt.Errorf("decisions counter: %w", err)
	}
	riskScore, err := meter.Float64Histogram("credit_risk_score",
		metric.WithDescription("Risk score of decided applications (0-100)."),
		metric.WithExplicitBucketBoundaries(10, 20, 30, 40, 50, 60, 70, 80, 90, 100))
	if err != nil {
		return nil, fmt.Errorf("risk score histogram: %w", err)
	}
	publishFailures, err := meter.Int64Counter("credit_risk_event_publish_failures_total",
		metric.WithDescription("Decision events that could not be published."))
	if err != nil {
		return nil, fmt.Errorf("publish failures counter: %w", err)
	}
	modelFallbacks, err := meter.Int64Counter("credit_risk_model_fallbacks_total",
		metric.WithDescription("Predictions served as neutral scores because the model was unavailable."))
	if err != nil {
		return nil, fmt.Errorf("model fallbacks counter: %w", err)
	}

	return &DecisionMetrics{
		decisions:       decisions,
		riskScore:       riskScore,
		publishFailures: publishFailures,
		modelFallbacks:  modelFallbacks,
	}, nil
}

func (m *DecisionMetrics) RecordDecision(ctx context.Context, status, stage string, riskScore float64) {
	attrs := metric.WithAttributes(
		attribute.String("status", status),
		attribute.String("stage", stage),
	)
	m.decisions.Add(ctx, 1, attrs)
	// Policy rejections carry a fixed score and would skew the distribution.
	if stage != "policy" {
		m.riskScore.Record(ctx, riskScore, metric.WithAttributes(attribute.String("status", status)))
	}
}

func (m *DecisionMetrics) RecordPublishFailure(ctx context.Context) {
	m.publishFailures.Add(ctx, 1)
}

func (m *DecisionMetrics) RecordModelFallback(ctx context.Context) {
	m.modelFallbacks.Add(ctx, 1)
}
