package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// headerAuthn accepts "Bearer good" and records what it was given.
type headerAuthn struct {
	seen []string
}

func (a *headerAuthn) Authenticate(_ context.Context, header string, kind auth.TokenKind) (*auth.Principal, error) {
	a.seen = append(a.seen, header)
	if header == "" {
		return nil, auth.ErrMissingToken
	}
	if header != "Bearer good" || kind != auth.TokenAccess {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Principal{User: &domain.User{ID: 1}, TokenKind: kind}, nil
}

func newUpgradeApp(authn Authenticator) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
	}})
	gateway := NewGateway(NewHub(nil), nil, authn, nil)
	app.Get("/ws", gateway.Upgrade, func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return app
}

func upgradeRequest(target, authorization string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	return req
}

func TestGateway_UpgradeCredentials(t *testing.T) {
	cases := []struct {
		name          string
		target        string
		authorization string
		status        int
		seen          string
	}{
		{"header", "/ws", "Bearer good", http.StatusNoContent, "Bearer good"},
		{"query token", "/ws?token=good", "", http.StatusNoContent, "Bearer good"},
		{"header wins over query", "/ws?token=bad", "Bearer good", http.StatusNoContent, "Bearer good"},
		{"bad query token", "/ws?token=bad", "", http.StatusUnauthorized, "Bearer bad"},
		{"no credentials", "/ws", "", http.StatusUnauthorized, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			authn := &headerAuthn{}
			resp, err := newUpgradeApp(authn).Test(upgradeRequest(tc.target, tc.authorization), -1)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, []string{tc.seen}, authn.seen)
		})
	}
}

func TestGateway_UpgradeRequiresWebsocket(t *testing.T) {
	authn := &headerAuthn{}
	req := httptest.NewRequest(http.MethodGet, "/ws?token=good", nil)
	resp, err := newUpgradeApp(authn).Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
	assert.Empty(t, authn.seen)
}
