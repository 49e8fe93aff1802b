package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for every token that fails validation. Callers
// must not distinguish between expired, malformed or forged tokens.
var ErrInvalidToken = errors.New("invalid token")

// JWTConfig selects the signing key. The first non-empty of PrivateKeyPEM,
// PrivateKeyFile and Secret wins: an RSA key signs with RS256, a secret
// with HS256.
type JWTConfig struct {
	PrivateKeyPEM  string
	PrivateKeyFile string
	Secret         string

	Issuer     string
	Expiration time.Duration
	// Leeway tolerates clock skew on exp/nbf/iat.
	Leeway time.Duration
}

// JWTService issues and validates access tokens for logged-in users.
type JWTService struct {
	issuer     string
	expiration time.Duration
	method     jwt.SigningMethod
	signKey    any
	verifyKey  any
	parser     *jwt.Parser
	now        func() time.Time
}

// NewJWTService loads the configured key material.
func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	svc := &JWTService{
		issuer:     cfg.Issuer,
		expiration: cfg.Expiration,
		now:        time.Now,
	}

	pemData := cfg.PrivateKeyPEM
	if pemData == "" && cfg.PrivateKeyFile != "" {
		data, err := os.ReadFile(cfg.PrivateKeyFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt key file %q: %w", cfg.PrivateKeyFile, err)
		}
		pemData = string(data)
	}

	switch {
	case pemData != "":
		key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(pemData))
		if err != nil {
			return nil, fmt.Errorf("parse jwt RSA private key: %w", err)
		}
		svc.method = jwt.SigningMethodRS256
		svc.signKey = key
		svc.verifyKey = &key.PublicKey
	case cfg.Secret != "":
		svc.method = jwt.SigningMethodHS256
		svc.signKey = []byte(cfg.Secret)
		svc.verifyKey = svc.signKey
	default:
		return nil, errors.New("jwt configuration requires a private key or a secret")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{svc.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(cfg.Leeway),
		jwt.WithTimeFunc(func() time.Time { return svc.now() }),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	svc.parser = jwt.NewParser(opts...)
	return svc, nil
}

// GenerateToken issues a token whose subject is the user's email, the
// username the login form submits.
func (s *JWTService) GenerateToken(userID int64, email string) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		UserID: userID,
		Email:  email,
	}
	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.signKey)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", s.method.Alg(), err)
	}
	return signed, nil
}

// ValidateToken parses tokenString and checks signature, algorithm, expiry
// and issuer. Every failure wraps ErrInvalidToken.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.verifyKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.UserID <= 0 {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}
