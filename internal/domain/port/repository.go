package port

import (
	"context"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/event"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/model"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// ApplicationFilter narrows a listing of loan applications. A zero Status
// matches every status.
type ApplicationFilter struct {
	Status valueobject.DecisionStatus
	UserID *int64
	Limit  int
	Offset int
}

// LoanApplicationRepository persists and retrieves loan applications.
type LoanApplicationRepository interface {
	// Save inserts app and returns it with the id and created_at assigned by the store.
	Save(ctx context.Context, app model.LoanApplication) (model.LoanApplication, error)
	// List returns matching applications newest first.
	List(ctx context.Context, filter ApplicationFilter) ([]model.LoanApplication, error)
}

// UserRepository persists and retrieves users.
type UserRepository interface {
	// Create returns model.ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, user model.User) (model.User, error)
	// FindByEmail returns model.ErrNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (model.User, error)
}

// HistoryRepository persists and retrieves statement analysis history.
type HistoryRepository interface {
	Save(ctx context.Context, entry model.RiskAnalysisHistory) (model.RiskAnalysisHistory, error)
	// ListByUser returns the user's entries newest first.
	ListByUser(ctx context.Context, userID int64) ([]model.RiskAnalysisHistory, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
