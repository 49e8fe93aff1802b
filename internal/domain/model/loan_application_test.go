package model_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/model"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/valueobject"
)

func validApplicant() model.Applicant {
	return model.Applicant{
		FullName:      "  Asha Rao ",
		Income:        decimal.NewFromInt(60000),
		LoanAmount:    decimal.NewFromInt(300000),
		CreditScore:   720,
		Age:           31,
		YearsEmployed: 6,
		Gender:        valueobject.GenderFemale,
	}
}

func TestNewLoanApplication(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	uid := int64(9)

	app, err := model.NewLoanApplication(validApplicant(), &uid, now)
	require.NoError(t, err)

	assert.Zero(t, app.ID())
	assert.Equal(t, "Asha Rao", app.FullName())
	assert.Equal(t, valueobject.DecisionStatusPending, app.Status())
	require.NotNil(t, app.UserID())
	assert.Equal(t, int64(9), *app.UserID())
	assert.Equal(t, now, app.CreatedAt())

	uid = 10
	assert.Equal(t, int64(9), *app.UserID(), "aggregate must not alias caller's pointer")
}

func TestNewLoanApplication_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Applicant)
	}{
		{"blank name", func(a *model.Applicant) { a.FullName = "   " }},
		{"zero income", func(a *model.Applicant) { a.Income = decimal.Zero }},
		{"negative loan", func(a *model.Applicant) { a.LoanAmount = decimal.NewFromInt(-1) }},
		{"zero age", func(a *model.Applicant) { a.Age = 0 }},
		{"negative employment", func(a *model.Applicant) { a.YearsEmployed = -1 }},
		{"missing gender", func(a *model.Applicant) { a.Gender = valueobject.Gender{} }},
		{"name too long", func(a *model.Applicant) { a.FullName = strings.Repeat("a", model.MaxNameLength+1) }},
		{"sub-paisa income", func(a *model.Applicant) { a.Income = decimal.RequireFromString("0.004") }},
		{"sub-paisa loan", func(a *model.Applicant) { a.LoanAmount = decimal.RequireFromString("1000.125") }},
		{"income overflow", func(a *model.Applicant) { a.Income = decimal.New(1, 17) }},
		{"loan overflow", func(a *model.Applicant) { a.LoanAmount = decimal.RequireFromString("10000000000000000") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validApplicant()
			tt.mutate(&a)
			_, err := model.NewLoanApplication(a, nil, time.Now())
			assert.True(t, errors.Is(err, model.ErrValidation), "got %v", err)
		})
	}
}

func TestLoanApplication_Decide(t *testing.T) {
	app, err := model.NewLoanApplication(validApplicant(), nil, time.Now())
	require.NoError(t, err)

	factors := []valueobject.RiskFactor{{Feature: "AMT_CREDIT", SHAPScore: 0.4}}
	approved, err := app.Approve(12.5, factors, "Passed all preliminary policy checks.")
	require.NoError(t, err)
	assert.Equal(t, valueobject.DecisionStatusApproved, approved.Status())
	assert.Equal(t, 12.5, approved.RiskScore())
	assert.Equal(t, factors, approved.RiskFactors())
	assert.Equal(t, valueobject.DecisionStatusPending, app.Status(), "original copy must be unchanged")

	factors[0].SHAPScore = 99
	assert.Equal(t, 0.4, approved.RiskFactors()[0].SHAPScore)

	_, err = approved.Reject(80, nil, "again")
	assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
}

func TestLoanApplication_RejectByPolicy(t *testing.T) {
	app, err := model.NewLoanApplication(validApplicant(), nil, time.Now())
	require.NoError(t, err)

	rejected, err := app.RejectByPolicy("Credit Score below policy threshold (650).")
	require.NoError(t, err)
	assert.Equal(t, valueobject.DecisionStatusRejected, rejected.Status())
	assert.Equal(t, model.MaxRiskScore, rejected.RiskScore())
	assert.Equal(t, []valueobject.RiskFactor{{Feature: "Credit Score below policy threshold (650).", SHAPScore: 0}}, rejected.RiskFactors())
	assert.Equal(t, "Credit Score below policy threshold (650).", rejected.DecisionReason())
}

func TestLoanApplication_WithID(t *testing.T) {
	app, err := model.NewLoanApplication(validApplicant(), nil, time.Now())
	require.NoError(t, err)

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	saved := app.WithID(42, at)
	assert.Equal(t, int64(42), saved.ID())
	assert.Equal(t, at, saved.CreatedAt())
	assert.Zero(t, app.ID())
}

func TestNewUser(t *testing.T) {
	u, err := model.NewUser("  Asha@Example.COM ", "$2a$hash", "Asha", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", u.Email())

	_, err = model.NewUser("not-an-email", "$2a$hash", "Asha", time.Now())
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = model.NewUser("a@b.co", "", "Asha", time.Now())
	assert.ErrorIs(t, err, model.ErrValidation)

	longEmail := strings.Repeat("a", model.MaxEmailLength) + "@b.co"
	_, err = model.NewUser(longEmail, "$2a$hash", "Asha", time.Now())
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = model.NewUser("a@b.co", "$2a$hash", strings.Repeat("é", model.MaxNameLength+1), time.Now())
	assert.ErrorIs(t, err, model.ErrValidation)

	u, err = model.NewUser("a@b.co", "$2a$hash", strings.Repeat("é", model.MaxNameLength), time.Now())
	require.NoError(t, err)
	assert.Len(t, []rune(u.FullName()), model.MaxNameLength)
}

func TestNewLoanApplication_MoneyAtColumnLimits(t *testing.T) {
	a := validApplicant()
	a.Income = decimal.RequireFromString("9999999999999999.99")
	a.LoanAmount = decimal.RequireFromString("0.01")
	_, err := model.NewLoanApplication(a, nil, time.Now())
	require.NoError(t, err)

	a.Income = decimal.RequireFromString("50000.500")
	_, err = model.NewLoanApplication(a, nil, time.Now())
	assert.NoError(t, err, "trailing zeros do not add precision")
}

func TestNewRiskAnalysisHistory(t *testing.T) {
	h, err := model.NewRiskAnalysisHistory(3, "statement.csv", `{"is_verified":true}`, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), h.UserID())
	assert.Equal(t, "statement.csv", h.Filename())

	_, err = model.NewRiskAnalysisHistory(0, "statement.csv", "{}", time.Now())
	assert.ErrorIs(t, err, model.ErrValidation)

	long := strings.Repeat("ß", model.MaxFilenameLength+40) + ".csv"
	h, err = model.NewRiskAnalysisHistory(3, long, "{}", time.Now())
	require.NoError(t, err)
	assert.Len(t, []rune(h.Filename()), model.MaxFilenameLength)
	assert.True(t, strings.HasPrefix(long, h.Filename()))
}
