package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestDecisionMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewDecisionMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordDecision(ctx, "APPROVED", "model", 12)
	m.RecordDecision(ctx, "REJECTED", "model", 80)
	m.RecordDecision(ctx, "REJECTED", "policy", 100)
	m.RecordPublishFailure(ctx)
	m.RecordModelFallback(ctx)
	m.RecordModelFallback(ctx)

	data := collect(t, reader)

	decisions, ok := data["credit_risk_decisions_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range decisions.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(3), total)
	assert.Len(t, decisions.DataPoints, 3)

	hist, ok := data["credit_risk_score"].(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count, "policy decisions are not scored")

	fallbacks, ok := data["credit_risk_model_fallbacks_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, fallbacks.DataPoints, 1)
	assert.Equal(t, int64(2), fallbacks.DataPoints[0].Value)

	failures, ok := data["credit_risk_event_publish_failures_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(1), failures.DataPoints[0].Value)
}
