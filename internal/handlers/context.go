package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/hjo3-cse40/SlugConnect/internal/middleware"
	"github.com/hjo3-cse40/SlugConnect/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// getUserIDFromContext returns the viewer set by the auth middleware, or "".
func getUserIDFromContext(c echo.Context) string {
	id, _ := c.Get(middleware.ContextKeyUserID).(string)
	return id
}

func getSessionIDFromContext(c echo.Context) string {
	id, _ := c.Get(middleware.ContextKeySessionID).(string)
	return id
}

func parseUintParam(c echo.Context, name, label string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+label)
	}
	return uint(v), nil
}

// bindAndValidate binds the body into req and runs the echo validator on it.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

// httpError maps a service error to an echo.HTTPError. Store failures are
// logged here and the client gets a plain message.
func httpError(log *zap.Logger, err error) error {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Message)
	case errors.Is(err, services.ErrAuthRequired):
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	case errors.Is(err, services.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "You are not allowed to do that")
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrDuplicateAccount):
		return echo.NewHTTPError(http.StatusConflict, "An account with this email already exists")
	case errors.Is(err, services.ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotApplicable):
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot connect with yourself")
	case errors.Is(err, services.ErrFeatureDisabled):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "This feature is not configured")
	case errors.Is(err, services.ErrBackendUnavailable):
		log.Error("backend unavailable", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadGateway, "Service temporarily unavailable, please try again")
	default:
		log.Error("request failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Request failed")
	}
}
