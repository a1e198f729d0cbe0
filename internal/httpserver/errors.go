package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nanum-market/nanum/internal/domain"
	"github.com/nanum-market/nanum/internal/service"
	middleware "github.com/nanum-market/nanum/pkg/middleware/auth"
	"github.com/nanum-market/nanum/pkg/oauth"
)

var errorStatus = []struct {
	target error
	code   int
}{
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrInvalidStateTransition, http.StatusConflict},
	{domain.ErrPrecondition, http.StatusPreconditionFailed},
	{oauth.ErrIdentityProvider, http.StatusBadGateway},
	{service.ErrUnauthorized, http.StatusUnauthorized},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
}

func statusOf(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.target) {
			return e.code
		}
	}
	return http.StatusInternalServerError
}

// httpError logs err under event and converts it into the matching echo error.
// Server side failures are reported without detail.
func httpError(l *slog.Logger, event string, err error) error {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		l.Error(event, "status", code, "reason", "internal error", "error", err)
		return echo.NewHTTPError(code, "internal error")
	}
	l.Warn(event, "status", code, "error", err)
	return echo.NewHTTPError(code, err.Error())
}

func badRequest(l *slog.Logger, event, reason string, err error) error {
	l.Warn(event, "status", 400, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}

func currentUserID(c echo.Context) (uuid.UUID, error) {
	s, ok := c.Get(middleware.ContextUserID).(string)
	if !ok || s == "" {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return id, nil
}

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
