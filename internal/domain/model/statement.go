package model

import "github.com/the-lost-phoenix/credit-risk-engine/internal/domain/valueobject"

// Transaction is a single bank statement line. It is never persisted.
type Transaction struct {
	Date           string
	Amount         float64
	Type           valueobject.TransactionType
	Narration      string
	ClosingBalance *float64
}

// StatementSummary holds the signals extracted from a bank statement.
type StatementSummary struct {
	EstimatedSalary float64 `json:"estimated_salary"`
	ChequeBounces   int     `json:"cheque_bounces"`
	GamblingCount   int     `json:"gambling_count"`
	AverageBalance  float64 `json:"average_balance"`
	IsVerified      bool    `json:"is_verified"`
}
