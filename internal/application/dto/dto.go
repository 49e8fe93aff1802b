package dto

import (
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// LoanApplicationRequest carries the applicant data submitted to /apply.
type LoanApplicationRequest struct {
	FullName      string          `json:"full_name" validate:"required,max=255"`
	Income        decimal.Decimal `json:"income" validate:"gt=0"`
	LoanAmount    decimal.Decimal `json:"loan_amount" validate:"gt=0"`
	CreditScore   int             `json:"credit_score" validate:"gte=300,lte=900"`
	Age           int             `json:"age" validate:"gte=18,lte=100"`
	YearsEmployed int             `json:"years_employed" validate:"gte=0"`
	Gender        string          `json:"gender" validate:"required,oneof=M F"`
}

// ListApplicationsRequest filters the application listing.
type ListApplicationsRequest struct {
	Status string
	Limit  int
	Offset int
}

// RegisterRequest carries the data needed to create a user.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,max=320,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,max=255"`
}

// LoginRequest carries user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AnalyzeStatementRequest carries an uploaded statement file. UserID is set
// when the caller is signed in.
type AnalyzeStatementRequest struct {
	Filename string
	Body     io.Reader
	UserID   *int64
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// LoanApplicationResponse is the external representation of a loan application.
type LoanApplicationResponse struct {
	ID             int64                    `json:"id"`
	FullName       string                   `json:"full_name"`
	Income         float64                  `json:"income"`
	LoanAmount     float64                  `json:"loan_amount"`
	CreditScore    int                      `json:"credit_score"`
	Age            int                      `json:"age"`
	YearsEmployed  int                      `json:"years_employed"`
	Gender         string                   `json:"gender"`
	Status         string                   `json:"status"`
	RiskScore      float64                  `json:"risk_score"`
	RiskFactors    []valueobject.RiskFactor `json:"risk_factors"`
	DecisionReason string                   `json:"decision_reason"`
	UserID         *int64                   `json:"user_id"`
	CreatedAt      time.Time                `json:"created_at"`
}

// UserResponse is the external representation of a user.
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// HistoryResponse is one statement analysis history entry. Result is the
// JSON-encoded summary as stored.
type HistoryResponse struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	Result    string    `json:"result"`
	CreatedAt time.Time `json:"created_at"`
}

// StatementSummaryResponse is the outcome of a statement analysis.
type StatementSummaryResponse struct {
	EstimatedSalary float64 `json:"estimated_salary"`
	ChequeBounces   int     `json:"cheque_bounces"`
	GamblingCount   int     `json:"gambling_count"`
	AverageBalance  float64 `json:"average_balance"`
	IsVerified      bool    `json:"is_verified"`
}
