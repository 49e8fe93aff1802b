package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// PolicyEngine – deterministic eligibility rules applied before scoring
// ---------------------------------------------------------------------------

// PolicyConfig holds the policy thresholds.
type PolicyConfig struct {
	MinCreditScore  int
	MaxLoanToIncome decimal.Decimal
}

// DefaultPolicyConfig returns the production thresholds: a 650 credit score
// floor and a loan cap of 10x monthly income.
func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		MinCreditScore:  650,
		MaxLoanToIncome: decimal.NewFromInt(10),
	}
}

// PolicyResult holds the outcome of the policy evaluation.
type PolicyResult struct {
	Status valueobject.DecisionStatus
	Reason string
}

// Approved reports whether every rule passed.
func (r PolicyResult) Approved() bool {
	return r.Status.Equal(valueobject.DecisionStatusApproved)
}

// PolicyEngine encapsulates rule-based eligibility checks.
type PolicyEngine struct {
	cfg PolicyConfig
}

// NewPolicyEngine returns an engine using cfg.
func NewPolicyEngine(cfg PolicyConfig) *PolicyEngine {
	return &PolicyEngine{cfg: cfg}
}

// Evaluate applies the rules in order; the first failing rule decides.
//
//	creditScore < MinCreditScore              -> rejected
//	loanAmount  > income * MaxLoanToIncome    -> rejected
//	otherwise                                 -> approved
func (e *PolicyEngine) Evaluate(income, loanAmount decimal.Decimal, creditScore int) PolicyResult {
	if creditScore < e.cfg.MinCreditScore {
		return PolicyResult{
			Status: valueobject.DecisionStatusRejected,
			Reason: fmt.Sprintf("Credit Score below policy threshold (%d).", e.cfg.MinCreditScore),
		}
	}

	limit := income.Mul(e.cfg.MaxLoanToIncome)
	if loanAmount.GreaterThan(limit) {
		return PolicyResult{
			Status: valueobject.DecisionStatusRejected,
			Reason: fmt.Sprintf("Loan amount exceeds %sx monthly income limit. Max allowed: %s",
				e.cfg.MaxLoanToIncome.String(), limit.StringFixed(2)),
		}
	}

	return PolicyResult{
		Status: valueobject.DecisionStatusApproved,
		Reason: "Passed all preliminary policy checks.",
	}
}
