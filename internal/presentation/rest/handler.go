package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/application/dto"
	"github.com/the-lost-phoenix/credit-risk-engine/pkg/auth"
)

// Use case contracts consumed by the handlers.
type (
	LoanSubmitter interface {
		Execute(ctx context.Context, req dto.LoanApplicationRequest, userID *int64) (dto.LoanApplicationResponse, error)
	}
	ApplicationLister interface {
		Execute(ctx context.Context, req dto.ListApplicationsRequest) ([]dto.LoanApplicationResponse, error)
	}
	LoanHistoryLister interface {
		Execute(ctx context.Context, userID int64) ([]dto.LoanApplicationResponse, error)
	}
	UserRegistrar interface {
		Execute(ctx context.Context, req dto.RegisterRequest) (dto.UserResponse, error)
	}
	Authenticator interface {
		Execute(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error)
	}
	IncomeVerifier interface {
		Execute(ctx context.Context, claimedSalary float64) (dto.StatementSummaryResponse, error)
	}
	StatementAnalyzer interface {
		Execute(ctx context.Context, req dto.AnalyzeStatementRequest) (dto.StatementSummaryResponse, error)
	}
	HistoryLister interface {
		Execute(ctx context.Context, userID int64) ([]dto.HistoryResponse, error)
	}
)

// UseCases groups every use case the API exposes.
type UseCases struct {
	SubmitApplication LoanSubmitter
	ListApplications  ApplicationLister
	ListLoanHistory   LoanHistoryLister
	Register          UserRegistrar
	Login             Authenticator
	VerifyIncome      IncomeVerifier
	AnalyzeStatement  StatementAnalyzer
	ListHistory       HistoryLister
}

// Handler serves the credit risk HTTP API.
type Handler struct {
	uc             UseCases
	jwt            *auth.JWTService
	validate       *validator.Validate
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewHandler creates the API handler. maxUploadBytes bounds statement
// uploads.
func NewHandler(uc UseCases, jwt *auth.JWTService, maxUploadBytes int64, logger *slog.Logger) *Handler {
	return &Handler{
		uc:             uc,
		jwt:            jwt,
		validate:       newValidator(),
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// RegisterRoutes attaches the API routes to mux. authLimiter, when non-nil,
// throttles /register and /login per client.
func (h *Handler) RegisterRoutes(mux *http.ServeMux, authLimiter *PerClientRateLimiter) {
	optional := auth.OptionalAuth(h.jwt)
	required := auth.RequireAuth(h.jwt)
	throttle := func(next http.Handler) http.Handler { return next }
	if authLimiter != nil {
		throttle = RateLimitMiddleware(authLimiter)
	}

	mux.Handle("POST /register", throttle(http.HandlerFunc(h.register)))
	mux.Handle("POST /login", throttle(http.HandlerFunc(h.login)))

	mux.Handle("POST /apply", optional(http.HandlerFunc(h.apply)))
	mux.HandleFunc("GET /applications", h.listApplications)
	mux.Handle("GET /loan-history", required(http.HandlerFunc(h.loanHistory)))

	mux.HandleFunc("POST /verify-income", h.verifyIncome)
	mux.Handle("POST /analyze-statement-file", optional(http.HandlerFunc(h.analyzeStatementFile)))
	mux.Handle("GET /history", required(http.HandlerFunc(h.history)))
}

// userID returns the authenticated user's id, or nil for anonymous callers.
func userID(r *http.Request) *int64 {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return nil
	}
	id := claims.UserID
	return &id
}
