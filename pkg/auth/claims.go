package auth

import "github.com/golang-jwt/jwt/v5"

// Claims are the access-token claims. Subject carries the user's email.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"uid"`
	Email  string `json:"email"`
}
