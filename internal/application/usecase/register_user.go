package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/application/dto"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/model"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/port"
)

// RegisterUserUseCase creates user accounts.
type RegisterUserUseCase struct {
	users  port.UserRepository
	hasher port.PasswordHasher
}

// NewRegisterUserUseCase wires dependencies.
func NewRegisterUserUseCase(users port.UserRepository, hasher port.PasswordHasher) *RegisterUserUseCase {
	return &RegisterUserUseCase{users: users, hasher: hasher}
}

// Execute returns model.ErrEmailTaken when the email is already registered.
func (uc *RegisterUserUseCase) Execute(ctx context.Context, req dto.RegisterRequest) (dto.UserResponse, error) {
	_, err := uc.users.FindByEmail(ctx, model.NormalizeEmail(req.Email))
	switch {
	case err == nil:
		return dto.UserResponse{}, model.ErrEmailTaken
	case !errors.Is(err, model.ErrNotFound):
		return dto.UserResponse{}, fmt.Errorf("find user: %w", err)
	}

	hash, err := uc.hasher.Hash(req.Password)
	if err != nil {
		return dto.UserResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := model.NewUser(req.Email, hash, req.FullName, time.Now().UTC())
	if err != nil {
		return dto.UserResponse{}, fmt.Errorf("create user: %w", err)
	}

	// The unique index still guards against a concurrent registration.
	user, err = uc.users.Create(ctx, user)
	if err != nil {
		return dto.UserResponse{}, fmt.Errorf("save user: %w", err)
	}
	return toUserResponse(user), nil
}
