package event

import (
	"strconv"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/valueobject"
	"github.com/the-lost-phoenix/credit-risk-engine/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const (
	// LoanApplicationDecidedType is the event type for final decisions.
	LoanApplicationDecidedType = "loan_application.decided"

	aggregateLoanApplication = "LoanApplication"
)

// LoanApplicationDecided is raised once an application reaches a terminal status.
type LoanApplicationDecided struct {
	events.BaseEvent
	ApplicationID  int64                    `json:"application_id"`
	UserID         *int64                   `json:"user_id,omitempty"`
	Status         string                   `json:"status"`
	Stage          string                   `json:"stage"`
	RiskScore      float64                  `json:"risk_score"`
	DecisionReason string                   `json:"decision_reason"`
	RiskFactors    []valueobject.RiskFactor `json:"risk_factors"`
}

// NewLoanApplicationDecided builds the event. Stage is "policy" when the
// policy engine made the decision and "model" otherwise.
func NewLoanApplicationDecided(
	applicationID int64,
	userID *int64,
	status valueobject.DecisionStatus,
	stage string,
	riskScore float64,
	reason string,
	factors []valueobject.RiskFactor,
) LoanApplicationDecided {
	return LoanApplicationDecided{
		BaseEvent:      events.NewBaseEvent(LoanApplicationDecidedType, strconv.FormatInt(applicationID, 10), aggregateLoanApplication),
		ApplicationID:  applicationID,
		UserID:         userID,
		Status:         status.String(),
		Stage:          stage,
		RiskScore:      riskScore,
		DecisionReason: reason,
		RiskFactors:    factors,
	}
}
