package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/service"
)

// Authenticator is what the auth endpoints need from the auth service.
type Authenticator interface {
	LoginWithEmail(ctx context.Context, email, password string) (auth.TokenPair, error)
	RegisterWithEmail(ctx context.Context, input service.RegisterInput) (auth.TokenPair, error)
	RotateToken(token string, wantRefresh bool) (string, error)
}

// AuthHandler exposes login, registration and token rotation.
type AuthHandler struct {
	auth Authenticator
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authenticator Authenticator) *AuthHandler {
	return &AuthHandler{auth: authenticator}
}

// TokenAccess handles POST /auth/token/access.
func (h *AuthHandler) TokenAccess(c *fiber.Ctx) error {
	token, err := auth.ExtractToken(c.Get(fiber.HeaderAuthorization), true)
	if err != nil {
		return err
	}
	access, err := h.auth.RotateToken(token, false)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.AccessTokenResponse{AccessToken: access})
}

// TokenRefresh handles POST /auth/token/refresh.
func (h *AuthHandler) TokenRefresh(c *fiber.Ctx) error {
	token, err := auth.ExtractToken(c.Get(fiber.HeaderAuthorization), true)
	if err != nil {
		return err
	}
	refresh, err := h.auth.RotateToken(token, true)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.RefreshTokenResponse{Refresh: refresh})
}

// LoginEmail handles POST /auth/login/email with a Basic credential.
func (h *AuthHandler) LoginEmail(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return auth.ErrMissingToken
	}
	token, err := auth.ExtractToken(header, false)
	if err != nil {
		return err
	}
	cred, err := auth.DecodeBasicCredential(token)
	if err != nil {
		return err
	}

	pair, err := h.auth.LoginWithEmail(c.UserContext(), cred.Email, cred.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.TokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// RegisterEmail handles POST /auth/register/email.
func (h *AuthHandler) RegisterEmail(c *fiber.Ctx) error {
	var req dto.RegisterEmailRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	pair, err := h.auth.RegisterWithEmail(c.UserContext(), service.RegisterInput{
		Email:    req.Email,
		Nickname: req.Nickname,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.TokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}
