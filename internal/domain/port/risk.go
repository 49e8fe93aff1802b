package port

import (
	"context"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/valueobject"
)

// ContractTypeCashLoans is the only contract type the service offers.
const ContractTypeCashLoans = "Cash loans"

// Feature names in the order the classifier was trained on.
const (
	FeatureContractType  = "NAME_CONTRACT_TYPE"
	FeatureGender        = "CODE_GENDER"
	FeatureIncomeTotal   = "AMT_INCOME_TOTAL"
	FeatureCredit        = "AMT_CREDIT"
	FeatureAnnuity       = "AMT_ANNUITY"
	FeatureAgeYears      = "AGE_YEARS"
	FeatureYearsEmployed = "YEARS_EMPLOYED"
)

// FeatureOrder lists every model feature in training order.
var FeatureOrder = []string{
	FeatureContractType,
	FeatureGender,
	FeatureIncomeTotal,
	FeatureCredit,
	FeatureAnnuity,
	FeatureAgeYears,
	FeatureYearsEmployed,
}

// RiskFeatures is the normalised feature row passed to a RiskModel.
type RiskFeatures struct {
	ContractType  string
	Gender        string
	Income        float64
	LoanAmount    float64
	Annuity       float64
	AgeYears      float64
	YearsEmployed float64
}

// Numeric returns the numeric features keyed by feature name.
func (f RiskFeatures) Numeric() map[string]float64 {
	return map[string]float64{
		FeatureIncomeTotal:   f.Income,
		FeatureCredit:        f.LoanAmount,
		FeatureAnnuity:       f.Annuity,
		FeatureAgeYears:      f.AgeYears,
		FeatureYearsEmployed: f.YearsEmployed,
	}
}

// Categorical returns the categorical features keyed by feature name.
func (f RiskFeatures) Categorical() map[string]string {
	return map[string]string{
		FeatureContractType: f.ContractType,
		FeatureGender:       f.Gender,
	}
}

// RiskPrediction is a model's default-risk estimate. Score is the default
// probability scaled to 0-100; Factors are ranked by absolute contribution.
type RiskPrediction struct {
	Score   float64
	Factors []valueobject.RiskFactor
}

// RiskModel scores an applicant's default risk.
type RiskModel interface {
	Predict(ctx context.Context, features RiskFeatures) (RiskPrediction, error)
}
