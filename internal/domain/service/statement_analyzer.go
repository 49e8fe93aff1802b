package service

import (
	"strings"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/model"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/valueobject"
)

// Salary credits must exceed this amount.
const salaryMinAmount = 10000

var (
	salaryKeywords   = []string{"SALARY", "ACH"}
	bounceKeywords   = []string{"BOUNCE", "RETURN"}
	gamblingKeywords = []string{"DREAM11", "RUMMY", "BET365"}
)

// StatementAnalyzer summarises bank statement transactions.
type StatementAnalyzer struct{}

// NewStatementAnalyzer returns a new analyzer.
func NewStatementAnalyzer() *StatementAnalyzer {
	return &StatementAnalyzer{}
}

// Analyze makes a single pass over txns. Keyword matching is case-insensitive.
// Averages are zero when nothing contributes to them.
func (a *StatementAnalyzer) Analyze(txns []model.Transaction) model.StatementSummary {
	var (
		salaryTotal  float64
		salaryCount  int
		balanceTotal float64
		balanceCount int
		summary      = model.StatementSummary{IsVerified: true}
	)

	for _, txn := range txns {
		narration := strings.ToUpper(txn.Narration)

		if txn.Type == valueobject.TransactionCredit && txn.Amount > salaryMinAmount && containsAny(narration, salaryKeywords) {
			salaryTotal += txn.Amount
			salaryCount++
		}
		if containsAny(narration, bounceKeywords) {
			summary.ChequeBounces++
		}
		if containsAny(narration, gamblingKeywords) {
			summary.GamblingCount++
		}
		if txn.ClosingBalance != nil {
			balanceTotal += *txn.ClosingBalance
			balanceCount++
		}
	}

	if salaryCount > 0 {
		summary.EstimatedSalary = salaryTotal / float64(salaryCount)
	}
	if balanceCount > 0 {
		summary.AverageBalance = balanceTotal / float64(balanceCount)
	}
	return summary
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
