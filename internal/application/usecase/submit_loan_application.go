package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/application/dto"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/event"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/model"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/port"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/service"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/valueobject"
)

const (
	// StagePolicy marks decisions made by the policy engine.
	StagePolicy = "policy"
	// StageModel marks decisions made from the risk score.
	StageModel = "model"

	// DefaultRiskRejectThreshold rejects applications scoring above 40.
	DefaultRiskRejectThreshold = 40.0

	annuityTermMonths = 12
)

var tracer = otel.Tracer("github.com/the-lost-phoenix/credit-risk-engine/internal/application/usecase")

// SubmitLoanApplicationUseCase runs the decision pipeline: policy rules,
// then the risk model, then a single save and a best-effort event publish.
type SubmitLoanApplicationUseCase struct {
	appRepo         port.LoanApplicationRepository
	publisher       port.EventPublisher
	riskModel       port.RiskModel
	policy          *service.PolicyEngine
	metrics         port.DecisionMetrics
	logger          *slog.Logger
	rejectThreshold float64
}

// NewSubmitLoanApplicationUseCase wires dependencies.
func NewSubmitLoanApplicationUseCase(
	appRepo port.LoanApplicationRepository,
	publisher port.EventPublisher,
	riskModel port.RiskModel,
	policy *service.PolicyEngine,
	metrics port.DecisionMetrics,
	logger *slog.Logger,
	rejectThreshold float64,
) *SubmitLoanApplicationUseCase {
	return &SubmitLoanApplicationUseCase{
		appRepo:         appRepo,
		publisher:       publisher,
		riskModel:       riskModel,
		policy:          policy,
		metrics:         metrics,
		logger:          logger,
		rejectThreshold: rejectThreshold,
	}
}

// Execute decides and persists a loan application. userID is nil for
// anonymous submissions.
func (uc *SubmitLoanApplicationUseCase) Execute(
	ctx context.Context,
	req dto.LoanApplicationRequest,
	userID *int64,
) (dto.LoanApplicationResponse, error) {
	ctx, span := tracer.Start(ctx, "SubmitLoanApplication",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.Bool("applicant.signed_in", userID != nil)),
	)
	defer span.End()

	// 1. Build the pending application.
	gender, err := valueobject.NewGender(req.Gender)
	if err != nil {
		return dto.LoanApplicationResponse{}, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	app, err := model.NewLoanApplication(model.Applicant{
		FullName:      req.FullName,
		Income:        req.Income,
		LoanAmount:    req.LoanAmount,
		CreditScore:   req.CreditScore,
		Age:           req.Age,
		YearsEmployed: req.YearsEmployed,
		Gender:        gender,
	}, userID, time.Now().UTC())
	if err != nil {
		return dto.LoanApplicationResponse{}, fmt.Errorf("create application: %w", err)
	}

	// 2-3. Policy, then model.
	stage := StagePolicy
	policy := uc.policy.Evaluate(app.Income(), app.LoanAmount(), app.CreditScore())
	if !policy.Approved() {
		app, err = app.RejectByPolicy(policy.Reason)
	} else {
		stage = StageModel
		app, err = uc.scoreAndDecide(ctx, app, policy.Reason)
	}
	if err != nil {
		return dto.LoanApplicationResponse{}, fmt.Errorf("apply decision: %w", err)
	}
	span.SetAttributes(
		attribute.String("decision.status", app.Status().String()),
		attribute.String("decision.stage", stage),
		attribute.Float64("decision.risk_score", app.RiskScore()),
	)

	// 4. Persist once.
	app, err = uc.appRepo.Save(ctx, app)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save application")
		return dto.LoanApplicationResponse{}, fmt.Errorf("save application: %w", err)
	}

	// 5. Publish; a broker outage must not fail an already-stored decision.
	decided := event.NewLoanApplicationDecided(
		app.ID(), app.UserID(), app.Status(), stage, app.RiskScore(), app.DecisionReason(), app.RiskFactors(),
	)
	if err := uc.publisher.Publish(ctx, decided); err != nil {
		uc.metrics.RecordPublishFailure(ctx)
		uc.logger.WarnContext(ctx, "publish decision event failed",
			"application_id", app.ID(),
			"error", err,
		)
	}

	// 6. Metrics.
	uc.metrics.RecordDecision(ctx, app.Status().String(), stage, app.RiskScore())
	uc.logger.InfoContext(ctx, "loan application decided",
		"application_id", app.ID(),
		"status", app.Status().String(),
		"stage", stage,
		"risk_score", app.RiskScore(),
	)

	return toApplicationResponse(app), nil
}

func (uc *SubmitLoanApplicationUseCase) scoreAndDecide(
	ctx context.Context,
	app model.LoanApplication,
	policyReason string,
) (model.LoanApplication, error) {
	loan := app.LoanAmount().InexactFloat64()
	prediction, err := uc.riskModel.Predict(ctx, port.RiskFeatures{
		ContractType:  port.ContractTypeCashLoans,
		Gender:        app.Gender().String(),
		Income:        app.Income().InexactFloat64(),
		LoanAmount:    loan,
		Annuity:       loan / annuityTermMonths,
		AgeYears:      float64(app.Age()),
		YearsEmployed: float64(app.YearsEmployed()),
	})
	if err != nil {
		return app, fmt.Errorf("predict risk: %w", err)
	}

	if prediction.Score > uc.rejectThreshold {
		reason := fmt.Sprintf("Risk score %.2f exceeds threshold %.2f.", prediction.Score, uc.rejectThreshold)
		return app.Reject(prediction.Score, prediction.Factors, reason)
	}
	return app.Approve(prediction.Score, prediction.Factors, policyReason)
}
