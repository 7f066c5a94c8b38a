package auth

import (
	"codegen/internal/domain"
	"codegen/internal/domain/models"
)

// JWTVerifier defines the interface for JWT token verification.
// Middleware depends only on this, so the signing scheme is a deployment choice.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Every failure is reported as domain.ErrUnauthorized.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases any resources held by the verifier (e.g., HTTP connections for JWKS).
	Close() error
}

// Token types carried in the token_type claim
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// checkClaims applies the rules shared by every verifier: a subject is
// required and refresh tokens never authorize API calls.
func checkClaims(claims *models.Claims) error {
	if claims.Subject == "" {
		return domain.ErrUnauthorized
	}
	if claims.TokenType == TokenTypeRefresh {
		return domain.ErrUnauthorized
	}
	return nil
}
