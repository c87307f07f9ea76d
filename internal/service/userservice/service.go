package userservice

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"animeapi/internal/domain"
	apperror "animeapi/internal/errors"
	"animeapi/internal/pkg/logger"
)

// UserRepository stores and resolves credential records.
type UserRepository interface {
	Save(ctx context.Context, user domain.User) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
}

// TokenGenerator issues signed tokens for authenticated identities.
type TokenGenerator interface {
	GenerateToken(userID string, roles []string) (string, error)
}

// Service is the authentication provider: it resolves credentials to an
// identity with roles and issues the token the authorization gate consumes.
type Service struct {
	repo   UserRepository
	tokens TokenGenerator
	log    logger.Logger
}

// NewService creates the user service.
func NewService(repo UserRepository, tokens TokenGenerator, log logger.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, log: log}
}

// Register creates a new account with the default USER role.
func (s *Service) Register(ctx context.Context, username, password string) (domain.User, error) {
	if username == "" || password == "" {
		return domain.User{}, apperror.NewValidationError("username and password are required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("failed to hash password", err)
	}

	user, err := s.repo.Save(ctx, domain.User{
		Username:     username,
		PasswordHash: string(hashed),
		Roles:        []string{domain.RoleUser},
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return domain.User{}, apperror.NewValidationError("username already in use")
		}
		return domain.User{}, apperror.NewInternalError("failed to save user", err)
	}

	s.log.Info("user registered", map[string]interface{}{"user_id": user.ID})
	return user, nil
}

// Login verifies the credentials and returns a signed token. Unknown users
// and wrong passwords produce the same failure so the endpoint leaks nothing
// about which usernames exist.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", apperror.NewUnauthorizedError("username and password are required")
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", apperror.NewUnauthorizedError("invalid credentials")
		}
		return "", apperror.NewInternalError("failed to resolve user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperror.NewUnauthorizedError("invalid credentials")
	}

	signed, err := s.tokens.GenerateToken(user.ID, user.Roles)
	if err != nil {
		return "", apperror.NewInternalError("failed to issue token", err)
	}

	s.log.Info("user authenticated", map[string]interface{}{"user_id": user.ID})
	return signed, nil
}
