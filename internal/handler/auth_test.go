package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/student-registry/internal/apperr"
	"github.com/iliyamo/student-registry/internal/config"
	"github.com/iliyamo/student-registry/internal/handler"
	"github.com/iliyamo/student-registry/internal/model"
	"github.com/iliyamo/student-registry/internal/repository"
	"github.com/iliyamo/student-registry/internal/router"
	"github.com/iliyamo/student-registry/internal/service"
	"github.com/iliyamo/student-registry/internal/token"
	"github.com/iliyamo/student-registry/internal/utils"
)

type testEnv struct {
	e     *echo.Echo
	store *repository.MemUserStore
	codec *token.Codec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repository.NewMemUserStore()
	codec := token.NewCodec("test-secret")
	issuer := token.NewIssuer(codec)
	rev := token.NewRevocations(store)
	verifier := token.NewVerifier(codec, rev, store)
	events := service.NewPublisher("") // drops events

	a := handler.NewAuthHandler(store, codec, issuer, verifier, rev, events, bcrypt.MinCost)

	e := echo.New()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler
	router.RegisterRoutes(e)
	router.RegisterAuth(e, a, verifier, config.RateLimitConfig{}, nil)
	return &testEnv{e: e, store: store, codec: codec}
}

func (env *testEnv) seedUser(t *testing.T, username, password string, role model.Role) model.User {
	t.Helper()
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	u, err := env.store.Create(context.Background(), username, username+"@example.com", hash, role)
	require.NoError(t, err)
	return u
}

func (env *testEnv) do(method, path string, body any, bearer string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) login(t *testing.T, username, password string) (string, string) {
	t.Helper()
	rec := env.do(http.MethodPost, "/v1/auth/login", map[string]string{
		"username": username, "password": password,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.AccessToken, resp.RefreshToken
}

func TestLoginReturnsTokenPair(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin", "hunter2", model.RoleAdmin)

	rec := env.do(http.MethodPost, "/v1/auth/login", map[string]string{
		"username": "admin", "password": "hunter2",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User struct {
			ID       uint64 `json:"id"`
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, "admin", resp.User.Username)
	require.Equal(t, "ADMIN", resp.User.Role)
	require.NotContains(t, rec.Body.String(), "password")
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin", "hunter2", model.RoleAdmin)

	wrongPassword := env.do(http.MethodPost, "/v1/auth/login", map[string]string{
		"username": "admin", "password": "wrong",
	}, "")
	unknownUser := env.do(http.MethodPost, "/v1/auth/login", map[string]string{
		"username": "nobody", "password": "wrong",
	}, "")

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	require.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestRegisterIsAdminGated(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin", "hunter2", model.RoleAdmin)
	student := env.seedUser(t, "jdoe", "hunter2", model.RoleStudent)

	body := map[string]string{
		"username": "newbie", "email": "newbie@example.com", "password": "s3cret",
	}

	// Unauthenticated: 401.
	rec := env.do(http.MethodPost, "/v1/auth/register", body, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Student access token on the admin-only route: 403.
	studentAccess, _ := env.login(t, student.Username, "hunter2")
	rec = env.do(http.MethodPost, "/v1/auth/register", body, studentAccess)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Admin: 201 with tokens for the new account.
	adminAccess, _ := env.login(t, "admin", "hunter2")
	rec = env.do(http.MethodPost, "/v1/auth/register", body, adminAccess)
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		User struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "newbie", resp.User.Username)
	require.Equal(t, "STUDENT", resp.User.Role)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)

	// The new account's tokens work.
	cl, err := env.codec.Decode(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, token.KindAccess, cl.Kind)

	// Duplicate username: conflict.
	rec = env.do(http.MethodPost, "/v1/auth/register", body, adminAccess)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestRefreshTokenMintsAccessOnly(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "jdoe", "hunter2", model.RoleStudent)
	access, refresh := env.login(t, "jdoe", "hunter2")

	rec := env.do(http.MethodPost, "/v1/auth/refresh-token", map[string]string{
		"refreshToken": refresh,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)

	cl, err := env.codec.Decode(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, token.KindAccess, cl.Kind)

	// The same refresh token stays valid: no rotation on this flow.
	rec = env.do(http.MethodPost, "/v1/auth/refresh-token", map[string]string{
		"refreshToken": refresh,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// An access token presented to the refresh endpoint is rejected.
	rec = env.do(http.MethodPost, "/v1/auth/refresh-token", map[string]string{
		"refreshToken": access,
	}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Missing field is a validation error, not an auth one.
	rec = env.do(http.MethodPost, "/v1/auth/refresh-token", map[string]string{}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutKillsTheSession(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "jdoe", "hunter2", model.RoleStudent)
	access, refresh := env.login(t, "jdoe", "hunter2")

	// A live session can hit /me.
	rec := env.do(http.MethodGet, "/v1/me", nil, access)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodPost, "/v1/logout", map[string]string{
		"refreshToken": refresh,
	}, access)
	require.Equal(t, http.StatusOK, rec.Code)

	// Replaying the same access token fails.
	rec = env.do(http.MethodGet, "/v1/me", nil, access)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// The refresh token died too (denylisted and version-bumped).
	rec = env.do(http.MethodPost, "/v1/auth/refresh-token", map[string]string{
		"refreshToken": refresh,
	}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Logging out without any session at all is a plain 401.
	rec = env.do(http.MethodPost, "/v1/logout", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Logging in again works: the version bump only killed old tokens.
	access2, _ := env.login(t, "jdoe", "hunter2")
	rec = env.do(http.MethodGet, "/v1/me", nil, access2)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLogoutBumpsEveryOutstandingToken(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "jdoe", "hunter2", model.RoleStudent)

	// Two independent sessions for the same account.
	accessA, _ := env.login(t, "jdoe", "hunter2")
	accessB, refreshB := env.login(t, "jdoe", "hunter2")

	// Logging out session A invalidates session B as well: the version bump
	// covers every outstanding token, not just the ones presented.
	rec := env.do(http.MethodPost, "/v1/logout", nil, accessA)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/v1/me", nil, accessB)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = env.do(http.MethodPost, "/v1/auth/refresh-token", map[string]string{
		"refreshToken": refreshB,
	}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFailureEnvelopeShape(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/v1/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Success)
	require.NotEmpty(t, body.Message)
	require.Equal(t, "UNAUTHORIZED", body.Error.Code)
}
