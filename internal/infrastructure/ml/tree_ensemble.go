package ml

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/port"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/valueobject"
)

var _ port.RiskModel = (*TreeEnsemble)(nil)

// ArtifactFormat identifies the JSON layout read by LoadTreeEnsemble.
const ArtifactFormat = "oblivious_trees/v1"

const (
	maxTreeDepth = 16
	// TopFactors is the number of ranked factors returned with a prediction.
	TopFactors = 5
)

// ErrInvalidArtifact is returned when a model artifact cannot be evaluated.
var ErrInvalidArtifact = errors.New("invalid model artifact")

// Split is one level of an oblivious tree. A numeric split goes right when
// the feature value is strictly greater than Border; a categorical split
// (one-hot) goes right when the feature equals Value.
type Split struct {
	Feature string   `json:"feature"`
	Border  *float64 `json:"border,omitempty"`
	Value   *string  `json:"value,omitempty"`
}

// Tree is an oblivious (symmetric) decision tree: every node on a level
// shares the same split. Split i contributes bit i of the leaf index.
type Tree struct {
	Splits      []Split   `json:"splits"`
	LeafValues  []float64 `json:"leaf_values"`
	LeafWeights []float64 `json:"leaf_weights,omitempty"`
}

// Artifact is the serialised form of a trained ensemble.
type Artifact struct {
	Format   string   `json:"format"`
	Features []string `json:"features"`
	Bias     float64  `json:"bias"`
	Scale    float64  `json:"scale"`
	Trees    []Tree   `json:"trees"`
}

// TreeEnsemble evaluates a gradient-boosted ensemble of oblivious trees for
// binary classification. It is immutable after loading and safe for
// concurrent use.
type TreeEnsemble struct {
	features []string
	bias     float64
	scale    float64
	trees    []Tree
	// expected[i] is the weighted mean leaf value of tree i.
	expected []float64
}

// LoadTreeEnsemble reads an artifact from path.
func LoadTreeEnsemble(path string) (*TreeEnsemble, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model artifact: %w", err)
	}
	defer f.Close()
	return DecodeTreeEnsemble(f)
}

// DecodeTreeEnsemble reads and validates an artifact from r.
func DecodeTreeEnsemble(r io.Reader) (*TreeEnsemble, error) {
	var a Artifact
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidArtifact, err)
	}
	return NewTreeEnsemble(a)
}

// NewTreeEnsemble validates a and precomputes per-tree expected values.
func NewTreeEnsemble(a Artifact) (*TreeEnsemble, error) {
	if a.Format != ArtifactFormat {
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidArtifact, a.Format)
	}
	if len(a.Trees) == 0 {
		return nil, fmt.Errorf("%w: no trees", ErrInvalidArtifact)
	}
	features := a.Features
	if len(features) == 0 {
		features = port.FeatureOrder
	}
	known := make(map[string]bool, len(features))
	for _, f := range features {
		known[f] = true
	}
	scale := a.Scale
	if scale == 0 {
		scale = 1
	}

	e := &TreeEnsemble{
		features: append([]string(nil), features...),
		bias:     a.Bias,
		scale:    scale,
		trees:    make([]Tree, len(a.Trees)),
		expected: make([]float64, len(a.Trees)),
	}
	for i, t := range a.Trees {
		if err := validateTree(t, known); err != nil {
			return nil, fmt.Errorf("%w: tree %d: %v", ErrInvalidArtifact, i, err)
		}
		e.trees[i] = t
		e.expected[i] = subtreeMean(t, 0, 0)
	}
	return e, nil
}

func validateTree(t Tree, known map[string]bool) error {
	depth := len(t.Splits)
	if depth > maxTreeDepth {
		return fmt.Errorf("depth %d exceeds %d", depth, maxTreeDepth)
	}
	if want := 1 << depth; len(t.LeafValues) != want {
		return fmt.Errorf("has %d leaf values, want %d", len(t.LeafValues), want)
	}
	if len(t.LeafWeights) != 0 && len(t.LeafWeights) != len(t.LeafValues) {
		return fmt.Errorf("has %d leaf weights, want %d", len(t.LeafWeights), len(t.LeafValues))
	}
	for _, w := range t.LeafWeights {
		if w < 0 {
			return errors.New("negative leaf weight")
		}
	}
	for j, s := range t.Splits {
		if !known[s.Feature] {
			return fmt.Errorf("split %d uses unknown feature %q", j, s.Feature)
		}
		if (s.Border == nil) == (s.Value == nil) {
			return fmt.Errorf("split %d must set exactly one of border or value", j)
		}
	}
	return nil
}

// Predict implements port.RiskModel.
func (e *TreeEnsemble) Predict(_ context.Context, f port.RiskFeatures) (port.RiskPrediction, error) {
	margin, contributions := e.Explain(f)
	factors := make([]valueobject.RiskFactor, 0, len(e.features))
	for _, name := range e.features {
		factors = append(factors, valueobject.RiskFactor{Feature: name, SHAPScore: contributions[name]})
	}
	return port.RiskPrediction{
		Score:   sigmoid(margin) * 100,
		Factors: valueobject.RankFactors(factors, TopFactors),
	}, nil
}

// ExpectedValue is the margin of an average applicant: the bias plus the
// scaled weighted mean of every tree.
func (e *TreeEnsemble) ExpectedValue() float64 {
	sum := 0.0
	for _, v := range e.expected {
		sum += v
	}
	return e.bias + e.scale*sum
}

// Explain returns the raw margin for f and each feature's path-based
// contribution. At every level of a tree the feature tested there is
// credited with the change in the subtree's weighted mean leaf value caused
// by taking the branch, so ExpectedValue() plus all contributions equals
// the margin.
func (e *TreeEnsemble) Explain(f port.RiskFeatures) (float64, map[string]float64) {
	numeric := f.Numeric()
	categorical := f.Categorical()
	contributions := make(map[string]float64, len(e.features))

	margin := e.bias
	for i, t := range e.trees {
		prefix := 0
		prev := e.expected[i]
		for level, s := range t.Splits {
			if goesRight(s, numeric, categorical) {
				prefix |= 1 << level
			}
			next := subtreeMean(t, level+1, prefix)
			contributions[s.Feature] += e.scale * (next - prev)
			prev = next
		}
		margin += e.scale * t.LeafValues[prefix]
	}
	return margin, contributions
}

func goesRight(s Split, numeric map[string]float64, categorical map[string]string) bool {
	if s.Value != nil {
		return categorical[s.Feature] == *s.Value
	}
	v, ok := numeric[s.Feature]
	if !ok || math.IsNaN(v) {
		// Missing numeric values go left, matching the "Min" NaN mode.
		return false
	}
	return v > *s.Border
}

// subtreeMean is the weighted mean of the leaves whose low `fixed` bits
// equal prefix. Leaves without weights, or a subtree whose weights sum to
// zero, are averaged uniformly.
func subtreeMean(t Tree, fixed, prefix int) float64 {
	mask := (1 << fixed) - 1
	var sum, weight, plain float64
	var n int
	for leaf, v := range t.LeafValues {
		if leaf&mask != prefix {
			continue
		}
		plain += v
		n++
		if len(t.LeafWeights) > 0 {
			sum += v * t.LeafWeights[leaf]
			weight += t.LeafWeights[leaf]
		}
	}
	if weight > 0 {
		return sum / weight
	}
	if n == 0 {
		return 0
	}
	return plain / float64(n)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
