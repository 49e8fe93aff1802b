package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/model"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/port"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/valueobject"
	pkgpg "github.com/the-lost-phoenix/credit-risk-engine/pkg/postgres"
)

const applicationColumns = `id, user_id, full_name, income, loan_amount, credit_score, age,
		       years_employed, gender, status, risk_score, risk_factors,
		       decision_reason, created_at`

// LoanApplicationRepo implements port.LoanApplicationRepository.
type LoanApplicationRepo struct {
	db pkgpg.Querier
}

// NewLoanApplicationRepo creates a new repository backed by PostgreSQL.
func NewLoanApplicationRepo(db pkgpg.Querier) *LoanApplicationRepo {
	return &LoanApplicationRepo{db: db}
}

// Save inserts a decided application. The store assigns id and created_at.
func (r *LoanApplicationRepo) Save(ctx context.Context, app model.LoanApplication) (model.LoanApplication, error) {
	factors, err := json.Marshal(app.RiskFactors())
	if err != nil {
		return model.LoanApplication{}, fmt.Errorf("encode risk factors: %w", err)
	}

	query := `
		INSERT INTO loan_applications (
			user_id, full_name, income, loan_amount, credit_score, age,
			years_employed, gender, status, risk_score, risk_factors,
			decision_reason, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING id, created_at
	`
	var (
		id        int64
		createdAt time.Time
	)
	err = r.db.QueryRow(ctx, query,
		app.UserID(), app.FullName(), app.Income(), app.LoanAmount(),
		app.CreditScore(), app.Age(), app.YearsEmployed(), app.Gender().String(),
		app.Status().String(), app.RiskScore(), factors,
		app.DecisionReason(), app.CreatedAt(),
	).Scan(&id, &createdAt)
	if err != nil {
		return model.LoanApplication{}, fmt.Errorf("insert loan application: %w", err)
	}
	return app.WithID(id, createdAt), nil
}

// List returns matching applications newest first. A non-positive limit
// returns every match.
func (r *LoanApplicationRepo) List(ctx context.Context, filter port.ApplicationFilter) ([]model.LoanApplication, error) {
	var (
		where []string
		args  []any
	)
	if !filter.Status.IsZero() {
		args = append(args, filter.Status.String())
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}

	var b strings.Builder
	b.WriteString("SELECT " + applicationColumns + " FROM loan_applications")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY created_at DESC, id DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}

	return r.scanMany(ctx, b.String(), args...)
}

// ---------------------------------------------------------------------------
// scan helpers
// ---------------------------------------------------------------------------

type scannable interface {
	Scan(dest ...any) error
}

func (r *LoanApplicationRepo) scanMany(ctx context.Context, query string, args ...any) ([]model.LoanApplication, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query loan applications: %w", err)
	}
	defer rows.Close()

	result := []model.LoanApplication{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, app)
	}
	return result, rows.Err()
}

func scanApplication(s scannable) (model.LoanApplication, error) {
	var (
		id                         int64
		userID                     *int64
		fullName                   string
		income, loanAmount         decimal.Decimal
		creditScore, age, yearsEmp int
		genderStr, statusStr       string
		riskScore                  float64
		factorsRaw                 []byte
		decisionReason             string
		createdAt                  time.Time
	)

	err := s.Scan(
		&id, &userID, &fullName, &income, &loanAmount, &creditScore, &age,
		&yearsEmp, &genderStr, &statusStr, &riskScore, &factorsRaw,
		&decisionReason, &createdAt,
	)
	if err != nil {
		return model.LoanApplication{}, fmt.Errorf("scan loan application: %w", err)
	}

	status, err := valueobject.NewDecisionStatus(statusStr)
	if err != nil {
		return model.LoanApplication{}, fmt.Errorf("parse status: %w", err)
	}
	gender, err := valueobject.NewGender(genderStr)
	if err != nil {
		return model.LoanApplication{}, fmt.Errorf("parse gender: %w", err)
	}
	var factors []valueobject.RiskFactor
	if len(factorsRaw) > 0 {
		if err := json.Unmarshal(factorsRaw, &factors); err != nil {
			return model.LoanApplication{}, fmt.Errorf("decode risk factors: %w", err)
		}
	}

	return model.ReconstructLoanApplication(
		id, userID,
		model.Applicant{
			FullName:      fullName,
			Income:        income,
			LoanAmount:    loanAmount,
			CreditScore:   creditScore,
			Age:           age,
			YearsEmployed: yearsEmp,
			Gender:        gender,
		},
		status, riskScore, factors, decisionReason, createdAt,
	), nil
}
