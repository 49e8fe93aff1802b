package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/model"
	pkgpg "github.com/the-lost-phoenix/credit-risk-engine/pkg/postgres"
)

// UserRepo implements port.UserRepository.
type UserRepo struct {
	db pkgpg.Querier
}

// NewUserRepo creates a new repository backed by PostgreSQL.
func NewUserRepo(db pkgpg.Querier) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a user, mapping the unique email index to model.ErrEmailTaken.
func (r *UserRepo) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `
		INSERT INTO users (email, hashed_password, full_name, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	var (
		id        int64
		createdAt time.Time
	)
	err := r.db.QueryRow(ctx, query,
		user.Email(), user.HashedPassword(), user.FullName(), user.CreatedAt(),
	).Scan(&id, &createdAt)
	if pkgpg.IsUniqueViolation(err) {
		return model.User{}, model.ErrEmailTaken
	}
	if err != nil {
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}
	return model.ReconstructUser(id, user.Email(), user.HashedPassword(), user.FullName(), createdAt), nil
}

// FindByEmail looks a user up by normalised email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	query := `
		SELECT id, email, hashed_password, full_name, created_at
		FROM users
		WHERE email = $1
	`
	var (
		id                   int64
		mail, hash, fullName string
		createdAt            time.Time
	)
	err := r.db.QueryRow(ctx, query, email).Scan(&id, &mail, &hash, &fullName, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, fmt.Errorf("user %q: %w", email, model.ErrNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user: %w", err)
	}
	return model.ReconstructUser(id, mail, hash, fullName, createdAt), nil
}
