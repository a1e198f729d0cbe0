package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nanum-market/nanum/internal/models"
	"github.com/nanum-market/nanum/internal/service"
	"github.com/nanum-market/nanum/internal/transport"
	"github.com/nanum-market/nanum/pkg/logging"
	"github.com/nanum-market/nanum/pkg/tokens"
)

type AuthHTTP struct {
	Auth  *service.AuthService
	Users *service.UserService
}

func setSessionCookies(c echo.Context, pair *tokens.Pair) {
	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, pair.AccessToken, "/", pair.AccessExp))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, pair.RefreshToken, "/", pair.RefreshExp))
}

func clearSessionCookies(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/"))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/"))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil || req.Code == "" {
		return badRequest(l, "login_error", "code required", err)
	}

	res, err := h.Auth.Login(ctx, req.Code)
	if err != nil {
		return httpError(l, "login_error", err)
	}

	if !res.Registered {
		return c.JSON(http.StatusOK, transport.LoginResponse{
			Registered:  false,
			SignupToken: res.SignupToken,
			SignupExp:   &res.SignupExp,
		})
	}
	setSessionCookies(c, res.Tokens)
	return c.JSON(http.StatusOK, transport.LoginResponse{
		Registered: true,
		User:       transport.NewUserResponse(res.User),
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	ck, err := c.Cookie(tokens.RefreshCookie)
	if err != nil || ck.Value == "" {
		l.Warn("refresh_error", "status", 401, "reason", "refresh token missing")
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	pair, err := h.Auth.RefreshTokens(ctx, ck.Value)
	if err != nil {
		clearSessionCookies(c)
		return httpError(l, "refresh_error", err)
	}
	setSessionCookies(c, pair)
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if ck, err := c.Cookie(tokens.RefreshCookie); err == nil && ck.Value != "" {
		if err := h.Auth.LogOut(ctx, ck.Value); err != nil {
			clearSessionCookies(c)
			l.Error("logout_failed", "status", 500, "reason", "cannot revoke refreshToken", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}
	clearSessionCookies(c)
	l.Info("successful_logout")
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHTTP) RegisterHost(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.register_host")

	var req transport.RegisterHostRequest
	if err := c.Bind(&req); err != nil || req.SignupToken == "" {
		return badRequest(l, "register_host_error", "signup_token required", err)
	}
	id, err := h.Auth.SignupIdentity(req.SignupToken)
	if err != nil {
		return httpError(l, "register_host_error", err)
	}

	user, err := h.Users.CreateHost(ctx, id)
	if err != nil {
		return httpError(l, "register_host_error", err)
	}
	return h.startSession(c, user)
}

func (h *AuthHTTP) JoinGroup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.join_group")

	var req transport.JoinGroupRequest
	if err := c.Bind(&req); err != nil || req.SignupToken == "" {
		return badRequest(l, "join_group_error", "signup_token required", err)
	}
	id, err := h.Auth.SignupIdentity(req.SignupToken)
	if err != nil {
		return httpError(l, "join_group_error", err)
	}

	user, err := h.Users.JoinAsParticipant(ctx, id, req.InviteCode)
	if err != nil {
		return httpError(l, "join_group_error", err)
	}
	return h.startSession(c, user)
}

func (h *AuthHTTP) startSession(c echo.Context, user *models.User) error {
	ctx := c.Request().Context()
	pair, err := h.Auth.IssueTokens(ctx, user.ID.String(), user.Role)
	if err != nil {
		return httpError(logging.FromContext(ctx), "issue_tokens_error", err)
	}
	setSessionCookies(c, pair)
	return c.JSON(http.StatusCreated, transport.NewUserResponse(user))
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.me")

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	user, err := h.Users.GetUser(ctx, userID)
	if err != nil {
		return httpError(l, "me_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewUserResponse(user))
}

func (h *AuthHTTP) Points(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.points")

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	user, err := h.Users.GetUser(ctx, userID)
	if err != nil {
		return httpError(l, "points_error", err)
	}
	points, err := h.Users.GetGroupPoints(ctx, userID)
	if err != nil {
		return httpError(l, "points_error", err)
	}
	return c.JSON(http.StatusOK, transport.PointsResponse{UserGroupID: user.UserGroupID, Point: points})
}
