package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDecisionStatus(t *testing.T) {
	for _, raw := range []string{"PENDING", "APPROVED", "REJECTED"} {
		s, err := NewDecisionStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, s.String())
	}

	_, err := NewDecisionStatus("MANUAL_REVIEW")
	assert.Error(t, err)
}

func TestDecisionStatus_IsTerminal(t *testing.T) {
	assert.False(t, DecisionStatusPending.IsTerminal())
	assert.True(t, DecisionStatusApproved.IsTerminal())
	assert.True(t, DecisionStatusRejected.IsTerminal())
	assert.True(t, DecisionStatus{}.IsZero())
}

func TestNewGender(t *testing.T) {
	g, err := NewGender("F")
	require.NoError(t, err)
	assert.Equal(t, GenderFemale, g)

	_, err = NewGender("female")
	assert.Error(t, err)
}

func TestParseTransactionType(t *testing.T) {
	tests := []struct {
		raw  string
		want TransactionType
	}{
		{"CREDIT", TransactionCredit},
		{"credit", TransactionCredit},
		{"CR", TransactionCredit},
		{" c ", TransactionCredit},
		{"DEBIT", TransactionDebit},
		{"Dr", TransactionDebit},
		{"D", TransactionDebit},
		{"", TransactionUnknown},
		{"transfer", TransactionType("TRANSFER")},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTransactionType(tt.raw))
		})
	}
}

func TestRankFactors(t *testing.T) {
	in := []RiskFactor{
		{Feature: "A", SHAPScore: 0.1},
		{Feature: "B", SHAPScore: -0.9},
		{Feature: "C", SHAPScore: 0.5},
		{Feature: "D", SHAPScore: -0.05},
		{Feature: "E", SHAPScore: 0.3},
		{Feature: "F", SHAPScore: 0.0},
	}

	got := RankFactors(in, 5)
	require.Len(t, got, 5)
	assert.Equal(t, []string{"B", "C", "E", "A", "D"}, []string{
		got[0].Feature, got[1].Feature, got[2].Feature, got[3].Feature, got[4].Feature,
	})
	assert.Equal(t, "A", in[0].Feature, "input must not be reordered")

	assert.Len(t, RankFactors(in, 0), len(in))
	assert.Empty(t, RankFactors(nil, 5))
}
