package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/valueobject"
)

// MaxRiskScore is stored on applications rejected by policy before scoring.
const MaxRiskScore = 100.0

// Applicant carries the applicant attributes submitted with an application.
type Applicant struct {
	FullName      string
	Income        decimal.Decimal
	LoanAmount    decimal.Decimal
	CreditScore   int
	Age           int
	YearsEmployed int
	Gender        valueobject.Gender
}

func (a Applicant) validate() error {
	switch {
	case strings.TrimSpace(a.FullName) == "":
		return fmt.Errorf("%w: full name is required", ErrValidation)
	case exceedsRunes(strings.TrimSpace(a.FullName), MaxNameLength):
		return fmt.Errorf("%w: full name must be at most %d characters", ErrValidation, MaxNameLength)
	case !a.Income.IsPositive():
		return fmt.Errorf("%w: income must be positive", ErrValidation)
	case !a.LoanAmount.IsPositive():
		return fmt.Errorf("%w: loan amount must be positive", ErrValidation)
	case !hasMoneyScale(a.Income):
		return fmt.Errorf("%w: income must have at most %d decimal places", ErrValidation, MoneyScale)
	case !hasMoneyScale(a.LoanAmount):
		return fmt.Errorf("%w: loan amount must have at most %d decimal places", ErrValidation, MoneyScale)
	case !fitsMoney(a.Income):
		return fmt.Errorf("%w: income must be below %s", ErrValidation, maxMoney)
	case !fitsMoney(a.LoanAmount):
		return fmt.Errorf("%w: loan amount must be below %s", ErrValidation, maxMoney)
	case a.Age <= 0:
		return fmt.Errorf("%w: age must be positive", ErrValidation)
	case a.YearsEmployed < 0:
		return fmt.Errorf("%w: years employed must not be negative", ErrValidation)
	case a.Gender.IsZero():
		return fmt.Errorf("%w: gender is required", ErrValidation)
	}
	return nil
}

// LoanApplication is an immutable aggregate. Every mutation returns a new copy.
// The id is zero until the application has been persisted.
type LoanApplication struct {
	id             int64
	userID         *int64
	applicant      Applicant
	status         valueobject.DecisionStatus
	riskScore      float64
	riskFactors    []valueobject.RiskFactor
	decisionReason string
	createdAt      time.Time
}

// NewLoanApplication creates a PENDING application, optionally owned by userID.
func NewLoanApplication(applicant Applicant, userID *int64, now time.Time) (LoanApplication, error) {
	if err := applicant.validate(); err != nil {
		return LoanApplication{}, err
	}
	applicant.FullName = strings.TrimSpace(applicant.FullName)
	return LoanApplication{
		userID:    copyID(userID),
		applicant: applicant,
		status:    valueobject.DecisionStatusPending,
		createdAt: now,
	}, nil
}

// ReconstructLoanApplication rebuilds an aggregate from persistence without side-effects.
func ReconstructLoanApplication(
	id int64,
	userID *int64,
	applicant Applicant,
	status valueobject.DecisionStatus,
	riskScore float64,
	riskFactors []valueobject.RiskFactor,
	decisionReason string,
	createdAt time.Time,
) LoanApplication {
	return LoanApplication{
		id:             id,
		userID:         copyID(userID),
		applicant:      applicant,
		status:         status,
		riskScore:      riskScore,
		riskFactors:    copyFactors(riskFactors),
		decisionReason: decisionReason,
		createdAt:      createdAt,
	}
}

// Approve transitions PENDING -> APPROVED.
func (a LoanApplication) Approve(score float64, factors []valueobject.RiskFactor, reason string) (LoanApplication, error) {
	return a.decide(valueobject.DecisionStatusApproved, score, factors, reason)
}

// Reject transitions PENDING -> REJECTED.
func (a LoanApplication) Reject(score float64, factors []valueobject.RiskFactor, reason string) (LoanApplication, error) {
	return a.decide(valueobject.DecisionStatusRejected, score, factors, reason)
}

// RejectByPolicy transitions PENDING -> REJECTED with the maximum score. The
// policy reason doubles as the sole risk factor.
func (a LoanApplication) RejectByPolicy(reason string) (LoanApplication, error) {
	return a.Reject(MaxRiskScore, []valueobject.RiskFactor{{Feature: reason}}, reason)
}

func (a LoanApplication) decide(
	status valueobject.DecisionStatus,
	score float64,
	factors []valueobject.RiskFactor,
	reason string,
) (LoanApplication, error) {
	if !a.status.Equal(valueobject.DecisionStatusPending) {
		return a, valueobject.ErrInvalidStatusTransition
	}
	next := a
	next.status = status
	next.riskScore = score
	next.riskFactors = copyFactors(factors)
	next.decisionReason = reason
	return next, nil
}

// WithID returns a copy carrying the identity and timestamp assigned by the store.
func (a LoanApplication) WithID(id int64, createdAt time.Time) LoanApplication {
	next := a
	next.id = id
	next.createdAt = createdAt
	return next
}

func (a LoanApplication) ID() int64                             { return a.id }
func (a LoanApplication) UserID() *int64                        { return copyID(a.userID) }
func (a LoanApplication) Applicant() Applicant                  { return a.applicant }
func (a LoanApplication) FullName() string                      { return a.applicant.FullName }
func (a LoanApplication) Income() decimal.Decimal               { return a.applicant.Income }
func (a LoanApplication) LoanAmount() decimal.Decimal           { return a.applicant.LoanAmount }
func (a LoanApplication) CreditScore() int                      { return a.applicant.CreditScore }
func (a LoanApplication) Age() int                              { return a.applicant.Age }
func (a LoanApplication) YearsEmployed() int                    { return a.applicant.YearsEmployed }
func (a LoanApplication) Gender() valueobject.Gender            { return a.applicant.Gender }
func (a LoanApplication) Status() valueobject.DecisionStatus    { return a.status }
func (a LoanApplication) RiskScore() float64                    { return a.riskScore }
func (a LoanApplication) RiskFactors() []valueobject.RiskFactor { return copyFactors(a.riskFactors) }
func (a LoanApplication) DecisionReason() string                { return a.decisionReason }
func (a LoanApplication) CreatedAt() time.Time                  { return a.createdAt }

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func copyFactors(src []valueobject.RiskFactor) []valueobject.RiskFactor {
	dst := make([]valueobject.RiskFactor, len(src))
	copy(dst, src)
	return dst
}
