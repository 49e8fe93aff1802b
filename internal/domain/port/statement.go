package port

import (
	"context"
	"io"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/model"
)

// StatementParser turns an uploaded statement file into transactions.
type StatementParser interface {
	Parse(r io.Reader) ([]model.Transaction, error)
}

// StatementSource produces a statement for income verification. The
// production source is a simulated bank feed.
type StatementSource interface {
	FetchStatement(ctx context.Context, claimedSalary float64) ([]model.Transaction, error)
}
