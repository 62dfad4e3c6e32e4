package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-service/internal/domain"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

type memoryUsers struct {
	byEmail map[string]*domain.User
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

var (
	aliceUser = &domain.User{ID: 7, Email: "alice@example.com", Nickname: "alice", Role: domain.RoleUser}
	bobUser   = &domain.User{ID: 8, Email: "bob@example.com", Nickname: "bob", Role: domain.RoleUser}
	rootUser  = &domain.User{ID: 1, Email: "root@example.com", Nickname: "root", Role: domain.RoleAdmin}
)

type pipelineFixture struct {
	app    *fiber.App
	tokens *TokenManager
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()

	tokens := newTestManager(newFakeClock())
	users := &memoryUsers{byEmail: map[string]*domain.User{
		aliceUser.Email: aliceUser,
		bobUser.Email:   bobUser,
		rootUser.Email:  rootUser,
	}}
	mw := NewMiddleware(tokens, users)

	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		de := apperrors.ToDomainError(err)
		return c.Status(de.HTTPStatus).JSON(fiber.Map{"code": de.Code})
	}})

	// post 100 belongs to alice
	postIsMine := func(_ context.Context, userID, postID int64) (bool, error) {
		return postID == 100 && userID == aliceUser.ID, nil
	}

	echo := func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		body := fiber.Map{"public": principal.Public}
		if principal.User != nil {
			body["email"] = principal.User.Email
			body["kind"] = principal.TokenKind
		}
		return c.JSON(body)
	}

	app.Get("/private", mw.Require(Rule{}), echo)
	app.Get("/refresh-only", mw.Require(Rule{Kind: TokenRefresh}), echo)
	app.Get("/public", mw.Require(Rule{Public: true}), echo)
	app.Get("/admin", mw.Require(Rule{Roles: []domain.Role{domain.RoleAdmin}}), echo)
	app.Get("/posts/:postId", mw.Require(Rule{Ownership: &Ownership{Param: "postId", IsMine: postIsMine}}), echo)
	app.Get("/public-posts/:postId", mw.Require(Rule{Public: true, Ownership: &Ownership{Param: "postId", IsMine: postIsMine}}), echo)
	app.Get("/composed/:postId", mw.Require(Rule{}), RequireOwnerOrAdmin("postId", postIsMine), echo)
	app.Get("/composed-admin", mw.Require(Rule{}), RequireRole(domain.RoleAdmin), echo)

	return &pipelineFixture{app: app, tokens: tokens}
}

func (f *pipelineFixture) token(t *testing.T, user *domain.User, kind TokenKind) string {
	t.Helper()
	token, err := f.tokens.Sign(IdentityOf(user), kind)
	require.NoError(t, err)
	return token
}

func (f *pipelineFixture) do(t *testing.T, path, authorization string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return resp.StatusCode, body
}

func TestRequire_AccessToken(t *testing.T) {
	f := newPipelineFixture(t)

	status, body := f.do(t, "/private", "Bearer "+f.token(t, aliceUser, TokenAccess))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, aliceUser.Email, body["email"])
	assert.Equal(t, "access", body["kind"])
	assert.Equal(t, false, body["public"])
}

func TestRequire_Failures(t *testing.T) {
	f := newPipelineFixture(t)

	cases := []struct {
		name   string
		path   string
		header string
		status int
		code   string
	}{
		{"missing header", "/private", "", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"basic scheme", "/private", "Basic " + EncodeBasicCredential("a", "b"), http.StatusUnauthorized, "MALFORMED_HEADER"},
		{"no space", "/private", "BearerNoSpace", http.StatusUnauthorized, "MALFORMED_HEADER"},
		{"garbage token", "/private", "Bearer abc.def.ghi", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"refresh on access route", "/private", "Bearer " + f.token(t, aliceUser, TokenRefresh), http.StatusUnauthorized, "WRONG_TOKEN_KIND"},
		{"access on refresh route", "/refresh-only", "Bearer " + f.token(t, aliceUser, TokenAccess), http.StatusUnauthorized, "WRONG_TOKEN_KIND"},
		{"unknown user", "/private", "Bearer " + f.token(t, &domain.User{ID: 99, Email: "ghost@example.com"}, TokenAccess), http.StatusUnauthorized, "USER_NOT_FOUND"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := f.do(t, tc.path, tc.header)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body["code"])
		})
	}
}

func TestRequire_RefreshRoute(t *testing.T) {
	f := newPipelineFixture(t)

	status, body := f.do(t, "/refresh-only", "Bearer "+f.token(t, bobUser, TokenRefresh))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "refresh", body["kind"])
}

func TestRequire_PublicRouteSkipsToken(t *testing.T) {
	f := newPipelineFixture(t)

	status, body := f.do(t, "/public", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["public"])

	// a bad header is ignored on public routes
	status, _ = f.do(t, "/public", "Bearer garbage")
	assert.Equal(t, http.StatusOK, status)
}

func TestRequire_PublicRouteStillRunsOwnershipGate(t *testing.T) {
	f := newPipelineFixture(t)

	status, body := f.do(t, "/public-posts/100", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", body["code"])
}

func TestRequire_Roles(t *testing.T) {
	f := newPipelineFixture(t)

	status, body := f.do(t, "/admin", "Bearer "+f.token(t, aliceUser, TokenAccess))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["code"])

	status, _ = f.do(t, "/admin", "Bearer "+f.token(t, rootUser, TokenAccess))
	assert.Equal(t, http.StatusOK, status)

	status, _ = f.do(t, "/composed-admin", "Bearer "+f.token(t, bobUser, TokenAccess))
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRequire_Ownership(t *testing.T) {
	f := newPipelineFixture(t)

	for _, path := range []string{"/posts/100", "/composed/100"} {
		status, _ := f.do(t, path, "Bearer "+f.token(t, aliceUser, TokenAccess))
		assert.Equal(t, http.StatusOK, status, path)

		status, body := f.do(t, path, "Bearer "+f.token(t, bobUser, TokenAccess))
		assert.Equal(t, http.StatusForbidden, status, path)
		assert.Equal(t, "FORBIDDEN", body["code"])

		status, _ = f.do(t, path, "Bearer "+f.token(t, rootUser, TokenAccess))
		assert.Equal(t, http.StatusOK, status, path)
	}

	status, body := f.do(t, "/posts/abc", "Bearer "+f.token(t, bobUser, TokenAccess))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "BAD_REQUEST", body["code"])
}

func TestRequire_OwnershipPredicateError(t *testing.T) {
	tokens := newTestManager(newFakeClock())
	mw := NewMiddleware(tokens, &memoryUsers{byEmail: map[string]*domain.User{bobUser.Email: bobUser}})
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
	}})
	failing := func(context.Context, int64, int64) (bool, error) { return false, errors.New("db down") }
	app.Get("/posts/:postId", mw.Require(Rule{Ownership: &Ownership{Param: "postId", IsMine: failing}}), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	token, err := tokens.Sign(IdentityOf(bobUser), TokenAccess)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/posts/5", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestRequire_ConcurrentRequestsKeepOwnIdentity(t *testing.T) {
	f := newPipelineFixture(t)
	aliceToken := "Bearer " + f.token(t, aliceUser, TokenAccess)
	bobToken := "Bearer " + f.token(t, bobUser, TokenAccess)

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 32; i++ {
		for _, pair := range [][2]string{{aliceToken, aliceUser.Email}, {bobToken, bobUser.Email}} {
			wg.Add(1)
			go func(header, want string) {
				defer wg.Done()
				req := httptest.NewRequest(http.MethodGet, "/private", nil)
				req.Header.Set("Authorization", header)
				resp, err := f.app.Test(req, -1)
				if err != nil {
					errs <- err
					return
				}
				defer resp.Body.Close()
				var body map[string]any
				if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
					errs <- err
					return
				}
				if body["email"] != want {
					errs <- fmt.Errorf("got identity %v, want %s", body["email"], want)
				}
			}(pair[0], pair[1])
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestCurrentUser(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		_, err := CurrentUser(c)
		assert.ErrorIs(t, err, ErrMissingToken)

		c.Locals(PrincipalLocalsKey, &Principal{User: aliceUser, TokenKind: TokenAccess})
		user, err := CurrentUser(c)
		assert.NoError(t, err)
		assert.Equal(t, aliceUser, user)
		return c.SendStatus(http.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
