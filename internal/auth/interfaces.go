package auth

import (
	"context"

	"github.com/avukatajanda/ajanda/internal/database/models"
	"github.com/google/uuid"
)

// Authenticator defines the interface for user authentication operations.
type Authenticator interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResponse, error)
	Login(ctx context.Context, input LoginInput) (*AuthResponse, error)
	Resolve(ctx context.Context, claims *Claims) (*Context, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Memberships(ctx context.Context, userID uuid.UUID) ([]models.Membership, error)
}

// TokenService defines the interface for JWT token operations.
type TokenService interface {
	GenerateToken(userID, orgID uuid.UUID, role string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Compile-time interface satisfaction checks
var (
	_ Authenticator = (*Service)(nil)
	_ TokenService  = (*JWTService)(nil)
)
