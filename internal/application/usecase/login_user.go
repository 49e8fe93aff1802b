package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/application/dto"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/model"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/port"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenTypeBearer is the OAuth2 token type returned on login.
const TokenTypeBearer = "bearer"

// LoginUserUseCase exchanges credentials for an access token.
type LoginUserUseCase struct {
	users  port.UserRepository
	hasher port.PasswordHasher
	tokens port.TokenIssuer
}

// NewLoginUserUseCase wires dependencies.
func NewLoginUserUseCase(users port.UserRepository, hasher port.PasswordHasher, tokens port.TokenIssuer) *LoginUserUseCase {
	return &LoginUserUseCase{users: users, hasher: hasher, tokens: tokens}
}

// Execute returns ErrInvalidCredentials without saying which part was wrong.
func (uc *LoginUserUseCase) Execute(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error) {
	user, err := uc.users.FindByEmail(ctx, model.NormalizeEmail(req.Email))
	if errors.Is(err, model.ErrNotFound) {
		return dto.TokenResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		return dto.TokenResponse{}, fmt.Errorf("find user: %w", err)
	}

	if err := uc.hasher.Compare(user.HashedPassword(), req.Password); err != nil {
		return dto.TokenResponse{}, ErrInvalidCredentials
	}

	token, err := uc.tokens.GenerateToken(user.ID(), user.Email())
	if err != nil {
		return dto.TokenResponse{}, fmt.Errorf("issue token: %w", err)
	}
	return dto.TokenResponse{AccessToken: token, TokenType: TokenTypeBearer}, nil
}
