package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"movieapi/internal/auth"
	apperrors "movieapi/internal/errors"
	"movieapi/internal/metrics"
	"movieapi/internal/model"
	"movieapi/internal/repository"
)

// TokenIssuer seals claims into a token.
type TokenIssuer interface {
	Issue(claims auth.Claims) (string, error)
}

// RegisterInput carries the fields of a new user.
type RegisterInput struct {
	Email    string
	Password string
	Gender   string
	Role     string
}

// AuthService handles credential checks and token issuance.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, err error)
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
}

type authService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	hasher auth.PasswordHasher
	logger *zap.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, tokens TokenIssuer, hasher auth.PasswordHasher, logger *zap.Logger) AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &authService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		logger: logger,
	}
}

// Login looks the user up with a single query, checks the password and issues a
// token carrying the user's email and role. No token is issued on any failure.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Info("login: user not found", zap.String("email", email))
			metrics.LoginAttempts.WithLabelValues("user_not_found").Inc()
			return "", apperrors.ErrUserNotFound
		}
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return "", fmt.Errorf("find user: %w", err)
	}

	if err := s.hasher.Compare(user.Password, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Error("login: stored password unreadable", zap.String("email", email), zap.Error(err))
		} else {
			s.logger.Info("login: password mismatch", zap.String("email", email))
		}
		metrics.LoginAttempts.WithLabelValues("invalid_password").Inc()
		return "", apperrors.ErrInvalidPassword
	}

	token, err := s.tokens.Issue(auth.Claims{Email: user.Email, Role: user.Role})
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return "", fmt.Errorf("issue token: %w", err)
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return token, nil
}

// Register creates a user unless the email is taken. Two concurrent
// registrations can both pass the existence check; the unique index on email
// then fails the second insert.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrEmailExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	stored, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperrors.ErrPasswordTooLong
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:    in.Email,
		Password: stored,
		Gender:   in.Gender,
		Role:     in.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}
