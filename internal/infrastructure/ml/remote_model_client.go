package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/port"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/valueobject"
)

// Compile-time interface check.
var _ port.RiskModel = (*RemoteModelClient)(nil)

// RemoteModelClient implements port.RiskModel by calling an external scoring
// service that hosts the trained classifier.
type RemoteModelClient struct {
	baseURL string
	client  *http.Client
}

// NewRemoteModelClient creates a client for the service at baseURL.
func NewRemoteModelClient(baseURL string, timeout time.Duration) *RemoteModelClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RemoteModelClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// predictRequest is one feature row keyed by training feature name.
type predictRequest struct {
	Features map[string]any `json:"features"`
}

// predictResponse carries the default probability and signed per-feature
// contributions in log-odds space.
type predictResponse struct {
	Probability   float64            `json:"probability"`
	Contributions map[string]float64 `json:"contributions"`
}

// Predict posts the feature row to /predict.
func (c *RemoteModelClient) Predict(ctx context.Context, f port.RiskFeatures) (port.RiskPrediction, error) {
	row := make(map[string]any, len(port.FeatureOrder))
	for k, v := range f.Numeric() {
		row[k] = v
	}
	for k, v := range f.Categorical() {
		row[k] = v
	}
	payload, err := json.Marshal(predictRequest{Features: row})
	if err != nil {
		return port.RiskPrediction{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return port.RiskPrediction{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return port.RiskPrediction{}, fmt.Errorf("model service request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return port.RiskPrediction{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return port.RiskPrediction{}, fmt.Errorf("model service error (status %d): %s", resp.StatusCode, string(body))
	}

	var result predictResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return port.RiskPrediction{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if result.Probability < 0 || result.Probability > 1 {
		return port.RiskPrediction{}, fmt.Errorf("model service returned probability %v outside [0,1]", result.Probability)
	}

	factors := make([]valueobject.RiskFactor, 0, len(port.FeatureOrder))
	for _, name := range port.FeatureOrder {
		factors = append(factors, valueobject.RiskFactor{Feature: name, SHAPScore: result.Contributions[name]})
	}
	return port.RiskPrediction{
		Score:   result.Probability * 100,
		Factors: valueobject.RankFactors(factors, TopFactors),
	}, nil
}
