package ml

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/port"
)

var _ port.RiskModel = (*BreakerModel)(nil)

// BreakerConfig tunes the circuit breaker around a remote model.
type BreakerConfig struct {
	Name string
	// MaxFailures consecutive failures open the breaker.
	MaxFailures uint32
	// Cooldown is how long the breaker stays open before probing again.
	Cooldown time.Duration
}

// BreakerModel stops calling a failing model until Cooldown has passed, so a
// dead scoring service costs one fast error per request instead of a
// timeout.
type BreakerModel struct {
	next port.RiskModel
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerModel wraps next with a circuit breaker.
func NewBreakerModel(next port.RiskModel, cfg BreakerConfig, logger *slog.Logger) *BreakerModel {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	if cfg.Name == "" {
		cfg.Name = "risk-model"
	}
	maxFailures := cfg.MaxFailures
	return &BreakerModel{
		next: next,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        cfg.Name,
			MaxRequests: 1,
			Timeout:     cfg.Cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("risk model breaker state changed",
					"breaker", name,
					"from", from.String(),
					"to", to.String(),
				)
			},
		}),
	}
}

// Predict implements port.RiskModel. Context cancellation by the caller is
// not counted as a model failure.
func (m *BreakerModel) Predict(ctx context.Context, f port.RiskFeatures) (port.RiskPrediction, error) {
	var cancelled error
	out, err := m.cb.Execute(func() (interface{}, error) {
		p, err := m.next.Predict(ctx, f)
		if err != nil && ctx.Err() != nil {
			cancelled = err
			return p, nil
		}
		return p, err
	})
	if cancelled != nil {
		return port.RiskPrediction{}, cancelled
	}
	if err != nil {
		return port.RiskPrediction{}, fmt.Errorf("risk model: %w", err)
	}
	return out.(port.RiskPrediction), nil
}

// State reports the breaker state, for logging and tests.
func (m *BreakerModel) State() gobreaker.State {
	return m.cb.State()
}
