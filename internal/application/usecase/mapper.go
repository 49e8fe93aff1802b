package usecase

import (
	"github.com/the-lost-phoenix/credit-risk-engine/internal/application/dto"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/model"
)

func toApplicationResponse(app model.LoanApplication) dto.LoanApplicationResponse {
	return dto.LoanApplicationResponse{
		ID:             app.ID(),
		FullName:       app.FullName(),
		Income:         app.Income().InexactFloat64(),
		LoanAmount:     app.LoanAmount().InexactFloat64(),
		CreditScore:    app.CreditScore(),
		Age:            app.Age(),
		YearsEmployed:  app.YearsEmployed(),
		Gender:         app.Gender().String(),
		Status:         app.Status().String(),
		RiskScore:      app.RiskScore(),
		RiskFactors:    app.RiskFactors(),
		DecisionReason: app.DecisionReason(),
		UserID:         app.UserID(),
		CreatedAt:      app.CreatedAt(),
	}
}

func toApplicationResponses(apps []model.LoanApplication) []dto.LoanApplicationResponse {
	out := make([]dto.LoanApplicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, toApplicationResponse(a))
	}
	return out
}

func toUserResponse(u model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID(),
		Email:     u.Email(),
		FullName:  u.FullName(),
		CreatedAt: u.CreatedAt(),
	}
}

func toSummaryResponse(s model.StatementSummary) dto.StatementSummaryResponse {
	return dto.StatementSummaryResponse{
		EstimatedSalary: s.EstimatedSalary,
		ChequeBounces:   s.ChequeBounces,
		GamblingCount:   s.GamblingCount,
		AverageBalance:  s.AverageBalance,
		IsVerified:      s.IsVerified,
	}
}
