package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/avukatajanda/ajanda/internal/database/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoMembership       = errors.New("user has no organization membership")
)

type Service struct {
	db  *gorm.DB
	jwt *JWTService
}

func NewService(db *gorm.DB, jwt *JWTService) *Service {
	return &Service{db: db, jwt: jwt}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type LoginInput struct {
	Email    string
	Password string
	OrgID    *uuid.UUID // optional: which org to act in; defaults to the earliest membership
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
	Org         *models.Org  `json:"org"`
	Role        models.Role  `json:"role"`
}

// Register creates the user, their default org ("<name>'s Organization") and
// an owner membership in one transaction. Either all three rows exist
// afterwards or none do.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return nil, ErrUserExists
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	orgName := input.Name
	if orgName == "" {
		// Fall back to the local part of the email address.
		orgName = strings.SplitN(input.Email, "@", 2)[0]
	}
	orgName += "'s Organization"

	var (
		user models.User
		org  models.Org
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user = models.User{
			Email:        input.Email,
			PasswordHash: hash,
			Name:         input.Name,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		org = models.Org{Name: orgName}
		if err := tx.Create(&org).Error; err != nil {
			return err
		}

		membership := models.Membership{
			UserID: user.ID,
			OrgID:  org.ID,
			Role:   models.RoleOwner,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user.ID, org.ID, string(models.RoleOwner))
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        &user,
		Org:         &org,
		Role:        models.RoleOwner,
	}, nil
}

// Login verifies credentials and issues a token scoped to one org. When the
// input names an org, the user must hold a membership there; otherwise the
// earliest-created membership is chosen.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	query := s.db.WithContext(ctx).Preload("Org").Where("user_id = ?", user.ID)
	if input.OrgID != nil {
		query = query.Where("org_id = ?", *input.OrgID)
	}

	var membership models.Membership
	if err := query.Order("created_at ASC, id ASC").First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoMembership
		}
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user.ID, membership.OrgID, string(membership.Role))
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        &user,
		Org:         membership.Org,
		Role:        membership.Role,
	}, nil
}

// Resolve turns validated token claims into a request Context. The user must
// still exist, and when the token names an org the membership is re-read so a
// revoked membership (or changed role) takes effect immediately rather than at
// token expiry.
func (s *Service) Resolve(ctx context.Context, claims *Claims) (*Context, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if claims.OrgID == uuid.Nil {
		return &Context{User: &user}, nil
	}

	var membership models.Membership
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND org_id = ?", user.ID, claims.OrgID).
		First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoMembership
		}
		return nil, err
	}

	return &Context{
		User:  &user,
		OrgID: membership.OrgID,
		Role:  membership.Role,
	}, nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Memberships lists a user's memberships with their orgs, oldest first. The
// ordering matches the login default so "first membership" means the same
// thing everywhere.
func (s *Service) Memberships(ctx context.Context, userID uuid.UUID) ([]models.Membership, error) {
	var memberships []models.Membership
	if err := s.db.WithContext(ctx).
		Preload("Org").
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}
