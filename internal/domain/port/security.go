package port

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues bearer access tokens.
type TokenIssuer interface {
	GenerateToken(userID int64, email string) (string, error)
}
