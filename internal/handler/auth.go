package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/student-registry/internal/apperr"
	"github.com/iliyamo/student-registry/internal/middleware"
	"github.com/iliyamo/student-registry/internal/model"
	"github.com/iliyamo/student-registry/internal/queue"
	"github.com/iliyamo/student-registry/internal/repository"
	"github.com/iliyamo/student-registry/internal/service"
	"github.com/iliyamo/student-registry/internal/token"
	"github.com/iliyamo/student-registry/internal/utils"
)

// AuthHandler bundles the dependencies of the auth endpoints.
type AuthHandler struct {
	Users       repository.UserStore
	Codec       *token.Codec
	Issuer      *token.Issuer
	Verifier    *token.Verifier
	Revocations *token.Revocations
	Events      *service.Publisher
	BcryptCost  int
}

func NewAuthHandler(users repository.UserStore, codec *token.Codec, issuer *token.Issuer, verifier *token.Verifier, rev *token.Revocations, events *service.Publisher, bcryptCost int) *AuthHandler {
	return &AuthHandler{
		Users:       users,
		Codec:       codec,
		Issuer:      issuer,
		Verifier:    verifier,
		Revocations: rev,
		Events:      events,
		BcryptCost:  bcryptCost,
	}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

type userPart struct {
	ID       uint64     `json:"id"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
}

type authResp struct {
	User         userPart `json:"user"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
}

func userView(u model.User) userPart {
	return userPart{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

// Login verifies a username/password pair and returns a fresh token pair.
// An unknown username and a wrong password fail with the exact same
// response, so login cannot be used to enumerate accounts.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return apperr.Validation("username and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.InvalidCredentials()
		}
		return apperr.Internal(err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return apperr.InvalidCredentials()
	}

	pair, err := h.Issuer.IssuePair(u)
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusOK, authResp{
		User:         userView(u),
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
	})
}

// Register creates an account and returns tokens for it immediately. The
// route is admin-gated; the issued pair belongs to the new account, not to
// the admin performing the call.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return apperr.Validation("username, email and password are required")
	}
	role := model.RoleStudent
	if req.Role != "" {
		parsed, ok := model.ParseRole(strings.ToUpper(strings.TrimSpace(req.Role)))
		if !ok {
			return apperr.Validation("unknown role")
		}
		role = parsed
	}

	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return apperr.Internal(err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Username, req.Email, hash, role)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperr.Conflict("username or email already exists")
		}
		return apperr.Internal(err)
	}

	pair, err := h.Issuer.IssuePair(u)
	if err != nil {
		return apperr.Internal(err)
	}

	_ = h.Events.Publish(ctx, queue.QueueUserRegistered, queue.UserRegisteredEvent{
		UserID:       u.ID,
		Username:     u.Username,
		Role:         string(u.Role),
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, authResp{
		User:         userView(u),
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
	})
}

// RefreshToken exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated: it stays valid until its own expiry
// or revocation. A stolen refresh token therefore keeps working across
// renewals, which is the accepted trade-off of this flow.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return apperr.Validation("refreshToken is required")
	}
	raw := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	// Same gate as the bearer middleware, run against the refresh flavor.
	// An access token presented here fails the kind check.
	u, _, err := h.Verifier.Verify(ctx, raw, token.KindRefresh)
	if err != nil {
		return apperr.Unauthorized(err)
	}

	access, _, err := h.Issuer.IssueAccess(u)
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"accessToken": access})
}

// Logout closes the presented session. It denylists the presented access
// token, denylists the body's refresh token when one is supplied, and bumps
// the account's token version so every other outstanding token dies with
// them. Runs behind the bearer middleware; without a valid session there is
// nothing to close and the gate already answered 401.
func (h *AuthHandler) Logout(c echo.Context) error {
	uid, _, ok := middleware.Identity(c)
	if !ok {
		return apperr.Unauthorized(errors.New("logout without authenticated identity"))
	}
	raw, _ := c.Get(middleware.CtxAccessToken).(string)
	claims, _ := c.Get(middleware.CtxClaims).(token.Claims)
	h.Revocations.Deny(raw, claims.ExpiresAt)

	var req refreshReq
	_ = c.Bind(&req)
	if refresh := strings.TrimSpace(req.RefreshToken); refresh != "" {
		// Best effort: a garbage refresh token is simply ignored, the
		// version bump below kills it anyway.
		if cl, err := h.Codec.Decode(refresh); err == nil && cl.Kind == token.KindRefresh {
			h.Revocations.Deny(refresh, cl.ExpiresAt)
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Revocations.BumpVersion(ctx, uid); err != nil {
		return apperr.Internal(err)
	}

	_ = h.Events.Publish(ctx, queue.QueueUserLoggedOut, queue.UserLoggedOutEvent{
		UserID:      uid,
		LoggedOutAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "logged out"})
}

// Me returns the authenticated identity attached by the bearer middleware.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, role, ok := middleware.Identity(c)
	if !ok {
		return apperr.Unauthorized(errors.New("me without authenticated identity"))
	}
	return c.JSON(http.StatusOK, echo.Map{"userId": uid, "role": role})
}
