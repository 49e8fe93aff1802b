package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/event"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/model"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/port"
)

var errPasswordMismatch = errors.New("password mismatch")

// --- Mock implementations ---

type mockLoanApplicationRepository struct {
	saveFunc  func(ctx context.Context, app model.LoanApplication) (model.LoanApplication, error)
	listFunc  func(ctx context.Context, filter port.ApplicationFilter) ([]model.LoanApplication, error)
	savedApps []model.LoanApplication
	filters   []port.ApplicationFilter
}

func (m *mockLoanApplicationRepository) Save(ctx context.Context, app model.LoanApplication) (model.LoanApplication, error) {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, app)
	}
	saved := app.WithID(int64(len(m.savedApps)+1), app.CreatedAt())
	m.savedApps = append(m.savedApps, saved)
	return saved, nil
}

func (m *mockLoanApplicationRepository) List(ctx context.Context, filter port.ApplicationFilter) ([]model.LoanApplication, error) {
	m.filters = append(m.filters, filter)
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return m.savedApps, nil
}

type mockUserRepository struct {
	createFunc      func(ctx context.Context, user model.User) (model.User, error)
	findByEmailFunc func(ctx context.Context, email string) (model.User, error)
	created         []model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	saved := model.ReconstructUser(int64(len(m.created)+1), user.Email(), user.HashedPassword(), user.FullName(), user.CreatedAt())
	m.created = append(m.created, saved)
	return saved, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	for _, u := range m.created {
		if u.Email() == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

type mockHistoryRepository struct {
	saveFunc   func(ctx context.Context, entry model.RiskAnalysisHistory) (model.RiskAnalysisHistory, error)
	listFunc   func(ctx context.Context, userID int64) ([]model.RiskAnalysisHistory, error)
	savedItems []model.RiskAnalysisHistory
}

func (m *mockHistoryRepository) Save(ctx context.Context, entry model.RiskAnalysisHistory) (model.RiskAnalysisHistory, error) {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, entry)
	}
	saved := model.ReconstructRiskAnalysisHistory(int64(len(m.savedItems)+1), entry.UserID(), entry.Filename(), entry.Result(), entry.CreatedAt())
	m.savedItems = append(m.savedItems, saved)
	return saved, nil
}

func (m *mockHistoryRepository) ListByUser(ctx context.Context, userID int64) ([]model.RiskAnalysisHistory, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID)
	}
	return m.savedItems, nil
}

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

type mockRiskModel struct {
	predictFunc func(ctx context.Context, f port.RiskFeatures) (port.RiskPrediction, error)
	calls       []port.RiskFeatures
}

func (m *mockRiskModel) Predict(ctx context.Context, f port.RiskFeatures) (port.RiskPrediction, error) {
	m.calls = append(m.calls, f)
	if m.predictFunc != nil {
		return m.predictFunc(ctx, f)
	}
	return port.RiskPrediction{}, nil
}

type decisionRecord struct {
	status, stage string
	score         float64
}

type mockDecisionMetrics struct {
	mu              sync.Mutex
	decisions       []decisionRecord
	publishFailures int
	fallbacks       int
}

func (m *mockDecisionMetrics) RecordDecision(_ context.Context, status, stage string, score float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions = append(m.decisions, decisionRecord{status: status, stage: stage, score: score})
}

func (m *mockDecisionMetrics) RecordPublishFailure(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishFailures++
}

func (m *mockDecisionMetrics) RecordModelFallback(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbacks++
}

type mockPasswordHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash, password string) error
}

func (m *mockPasswordHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockPasswordHasher) Compare(hash, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	if hash != "hashed:"+password {
		return errPasswordMismatch
	}
	return nil
}

type mockTokenIssuer struct {
	generateFunc func(userID int64, email string) (string, error)
}

func (m *mockTokenIssuer) GenerateToken(userID int64, email string) (string, error) {
	if m.generateFunc != nil {
		return m.generateFunc(userID, email)
	}
	return "token-for-" + email, nil
}

type mockStatementParser struct {
	parseFunc func(r io.Reader) ([]model.Transaction, error)
}

func (m *mockStatementParser) Parse(r io.Reader) ([]model.Transaction, error) {
	return m.parseFunc(r)
}

type mockStatementSource struct {
	fetchFunc func(ctx context.Context, salary float64) ([]model.Transaction, error)
}

func (m *mockStatementSource) FetchStatement(ctx context.Context, salary float64) ([]model.Transaction, error) {
	return m.fetchFunc(ctx, salary)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
