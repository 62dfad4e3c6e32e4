package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
)

// RegisterInput is the payload of an email registration.
type RegisterInput struct {
	Email    string
	Nickname string
	Password string
}

// AuthService coordinates registration, login and token rotation.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Tokens   *auth.TokenManager
	Logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	tokens := deps.Tokens
	if tokens == nil {
		tokens = auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTTL(), cfg.RefreshTTL())
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   tokens,
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
	}
}

// Authenticate checks an email/password pair against the stored hash.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, err
	}
	return user, nil
}

// LoginWithEmail authenticates and returns a fresh token pair.
func (s *AuthService) LoginWithEmail(ctx context.Context, email, password string) (auth.TokenPair, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Info("login rejected", zap.String("email", email), zap.Error(err))
		return auth.TokenPair{}, err
	}
	return s.LoginUser(user)
}

// LoginUser issues the token pair for an already authenticated user.
func (s *AuthService) LoginUser(user *domain.User) (auth.TokenPair, error) {
	return s.tokenMgr.IssuePair(auth.IdentityOf(user))
}

// RegisterWithEmail hashes the password, stores the user and logs them in.
func (s *AuthService) RegisterWithEmail(ctx context.Context, input RegisterInput) (auth.TokenPair, error) {
	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return auth.TokenPair{}, err
	}

	user := &domain.User{
		Email:        input.Email,
		Nickname:     input.Nickname,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return auth.TokenPair{}, err
	}
	s.logger.Info("user registered", zap.Int64("user_id", user.ID))
	return s.LoginUser(user)
}

// RotateToken exchanges a refresh token for a new access or refresh token.
func (s *AuthService) RotateToken(token string, wantRefresh bool) (string, error) {
	return s.tokenMgr.Rotate(token, wantRefresh)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
