package handlers

import (
	"net/http"
	"strconv"

	"github.com/hjo3-cse40/SlugConnect/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ActivityHandler serves the viewer's connection activity log
type ActivityHandler struct {
	activityRepository repositories.ActivityRepository // nil without MONGO_URI
	log                *zap.Logger
}

// NewActivityHandler creates a new ActivityHandler. activityRepo may be nil.
func NewActivityHandler(activityRepo repositories.ActivityRepository, log *zap.Logger) *ActivityHandler {
	return &ActivityHandler{activityRepository: activityRepo, log: log}
}

func (h *ActivityHandler) RegisterActivityRoutes(g *echo.Group) {
	g.GET("/activity", h.GetActivity)
}

// GetActivity returns the viewer's most recent connection events
func (h *ActivityHandler) GetActivity(c echo.Context) error {
	if h.activityRepository == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Activity log is not configured")
	}
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 1 || limit > 100 {
		limit = 50
	}

	events, err := h.activityRepository.GetEventsForUser(c.Request().Context(), currentUserID, limit)
	if err != nil {
		h.log.Error("failed to load activity", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadGateway, "Activity log unavailable")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"events": events}})
}
