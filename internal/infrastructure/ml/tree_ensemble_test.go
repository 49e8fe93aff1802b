package ml

import (
	"context"
	"math"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/port"
)

func border(v float64) *float64 { return &v }
func value(v string) *string    { return &v }

// testArtifact has two depth-2 trees and one stump; leaf values are chosen
// so every split matters.
func testArtifact() Artifact {
	return Artifact{
		Format: ArtifactFormat,
		Bias:   -1.5,
		Scale:  1,
		Trees: []Tree{
			{
				Splits: []Split{
					{Feature: port.FeatureCredit, Border: border(500000)},
					{Feature: port.FeatureAgeYears, Border: border(30)},
				},
				// index = credit_bit | age_bit<<1
				LeafValues:  []float64{0.2, 0.9, -0.3, 0.4},
				LeafWeights: []float64{40, 10, 40, 10},
			},
			{
				Splits: []Split{
					{Feature: port.FeatureGender, Value: value("M")},
					{Feature: port.FeatureYearsEmployed, Border: border(2)},
				},
				LeafValues: []float64{0.1, 0.3, -0.2, -0.1},
			},
			{
				Splits:      []Split{{Feature: port.FeatureIncomeTotal, Border: border(40000)}},
				LeafValues:  []float64{0.25, -0.25},
				LeafWeights: []float64{0, 0},
			},
		},
	}
}

func sampleFeatures() port.RiskFeatures {
	return port.RiskFeatures{
		ContractType:  port.ContractTypeCashLoans,
		Gender:        "M",
		Income:        30000,
		LoanAmount:    600000,
		Annuity:       50000,
		AgeYears:      25,
		YearsEmployed: 1,
	}
}

func TestTreeEnsemble_MarginAndScore(t *testing.T) {
	e, err := NewTreeEnsemble(testArtifact())
	require.NoError(t, err)

	margin, _ := e.Explain(sampleFeatures())
	// tree1: credit>500000 (bit0=1), age<=30 (bit1=0) -> leaf 1 = 0.9
	// tree2: gender M (bit0=1), employed<=2 (bit1=0) -> leaf 1 = 0.3
	// tree3: income<=40000 -> leaf 0 = 0.25
	assert.InDelta(t, -1.5+0.9+0.3+0.25, margin, 1e-12)

	p, err := e.Predict(context.Background(), sampleFeatures())
	require.NoError(t, err)
	want := 100 / (1 + math.Exp(-margin))
	assert.InDelta(t, want, p.Score, 1e-9)
	assert.LessOrEqual(t, len(p.Factors), TopFactors)
}

func TestTreeEnsemble_AttributionsSumToMargin(t *testing.T) {
	e, err := NewTreeEnsemble(testArtifact())
	require.NoError(t, err)

	inputs := []port.RiskFeatures{
		sampleFeatures(),
		{Gender: "F", Income: 90000, LoanAmount: 100000, AgeYears: 45, YearsEmployed: 12},
		{Gender: "M", Income: 40000, LoanAmount: 500000, AgeYears: 30, YearsEmployed: 2},
		{},
	}
	for _, in := range inputs {
		margin, contributions := e.Explain(in)
		total := e.ExpectedValue()
		for _, c := range contributions {
			total += c
		}
		assert.InDelta(t, margin, total, 1e-12)
	}
}

func TestTreeEnsemble_WeightedExpectation(t *testing.T) {
	e, err := NewTreeEnsemble(testArtifact())
	require.NoError(t, err)

	// tree1 weighted: (0.2*40 + 0.9*10 - 0.3*40 + 0.4*10) / 100 = 0.09
	// tree2 uniform: (0.1 + 0.3 - 0.2 - 0.1) / 4 = 0.025
	// tree3 zero weights fall back to uniform: 0
	assert.InDelta(t, -1.5+0.09+0.025, e.ExpectedValue(), 1e-12)

	_, contributions := e.Explain(sampleFeatures())
	// tree1 level0: mean of leaves {1,3} = (0.9*10+0.4*10)/20 = 0.65; 0.65-0.09
	// tree1 level1: leaf 1 = 0.9; 0.9-0.65
	assert.InDelta(t, 0.56, contributions[port.FeatureCredit], 1e-12)
	assert.InDelta(t, 0.25, contributions[port.FeatureAgeYears], 1e-12)
	assert.InDelta(t, 0.25, contributions[port.FeatureIncomeTotal], 1e-12)
}

func TestTreeEnsemble_FactorsRankedByMagnitude(t *testing.T) {
	e, err := NewTreeEnsemble(testArtifact())
	require.NoError(t, err)

	p, err := e.Predict(context.Background(), sampleFeatures())
	require.NoError(t, err)
	require.Len(t, p.Factors, TopFactors)
	for i := 1; i < len(p.Factors); i++ {
		assert.GreaterOrEqual(t, math.Abs(p.Factors[i-1].SHAPScore), math.Abs(p.Factors[i].SHAPScore))
	}
	assert.Equal(t, port.FeatureCredit, p.Factors[0].Feature)
}

func TestDecodeTreeEnsemble_Invalid(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"not json", `{`},
		{"wrong format", `{"format":"catboost_cbm","trees":[{"splits":[],"leaf_values":[0]}]}`},
		{"no trees", `{"format":"oblivious_trees/v1","trees":[]}`},
		{"leaf count", `{"format":"oblivious_trees/v1","trees":[{"splits":[{"feature":"AGE_YEARS","border":30}],"leaf_values":[0]}]}`},
		{"unknown feature", `{"format":"oblivious_trees/v1","trees":[{"splits":[{"feature":"SHOE_SIZE","border":9}],"leaf_values":[0,1]}]}`},
		{"split kind ambiguous", `{"format":"oblivious_trees/v1","trees":[{"splits":[{"feature":"CODE_GENDER","border":1,"value":"M"}],"leaf_values":[0,1]}]}`},
		{"unknown field", `{"format":"oblivious_trees/v1","extra":1,"trees":[{"splits":[],"leaf_values":[0]}]}`},
		{"weight count", `{"format":"oblivious_trees/v1","trees":[{"splits":[],"leaf_values":[0],"leaf_weights":[1,2]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTreeEnsemble(strings.NewReader(tt.json))
			assert.ErrorIs(t, err, ErrInvalidArtifact)
		})
	}
}

func TestLoadTreeEnsemble_BundledArtifact(t *testing.T) {
	_, filename, _, _ := runtime.Caller(0)
	path := filepath.Join(filepath.Dir(filename), "..", "..", "..", "models", "risk_model.json")

	e, err := LoadTreeEnsemble(path)
	require.NoError(t, err)

	safe, err := e.Predict(context.Background(), port.RiskFeatures{
		ContractType: port.ContractTypeCashLoans, Gender: "F",
		Income: 120000, LoanAmount: 200000, Annuity: 200000.0 / 12, AgeYears: 45, YearsEmployed: 15,
	})
	require.NoError(t, err)
	risky, err := e.Predict(context.Background(), port.RiskFeatures{
		ContractType: port.ContractTypeCashLoans, Gender: "M",
		Income: 20000, LoanAmount: 900000, Annuity: 75000, AgeYears: 21, YearsEmployed: 0,
	})
	require.NoError(t, err)

	assert.Less(t, safe.Score, risky.Score)
	assert.True(t, safe.Score >= 0 && safe.Score <= 100)
	assert.True(t, risky.Score >= 0 && risky.Score <= 100)
}

func TestLoadTreeEnsemble_MissingFile(t *testing.T) {
	_, err := LoadTreeEnsemble(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
