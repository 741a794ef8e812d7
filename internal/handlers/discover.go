package handlers

import (
	"net/http"

	"github.com/hjo3-cse40/SlugConnect/internal/models"
	"github.com/hjo3-cse40/SlugConnect/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// DiscoverHandler serves the filtered list of other students
type DiscoverHandler struct {
	profileService    *services.ProfileService
	connectionService *services.ConnectionService
	log               *zap.Logger
}

// NewDiscoverHandler creates a new DiscoverHandler
func NewDiscoverHandler(profileService *services.ProfileService, connectionService *services.ConnectionService, log *zap.Logger) *DiscoverHandler {
	return &DiscoverHandler{
		profileService:    profileService,
		connectionService: connectionService,
		log:               log,
	}
}

// RegisterDiscoverRoutes registers discover routes
func (h *DiscoverHandler) RegisterDiscoverRoutes(g *echo.Group) {
	g.GET("/discover", h.Discover)
}

// ProfileCard is one entry of the discover list
type ProfileCard struct {
	models.ProfileCompact
	College    *string         `json:"college"`
	Status     services.Status `json:"status"`
	CanRequest bool            `json:"can_request"`
}

// Discover returns every other profile matching the query filters, each with
// the viewer's connection status.
func (h *DiscoverHandler) Discover(c echo.Context) error {
	ctx := c.Request().Context()
	viewerID := getUserIDFromContext(c)

	var criteria services.FilterCriteria
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &criteria); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid filter")
	}

	profiles, err := h.profileService.Discover(ctx, viewerID, criteria)
	if err != nil {
		return httpError(h.log, err)
	}

	ids := make([]string, len(profiles))
	for i := range profiles {
		ids[i] = profiles[i].ID
	}
	statuses, err := h.connectionService.StatusesFor(ctx, viewerID, ids)
	if err != nil {
		h.log.Warn("connection statuses unavailable", zap.Error(err))
	}

	cards := make([]ProfileCard, len(profiles))
	for i := range profiles {
		status, ok := statuses[profiles[i].ID]
		if !ok {
			status = services.StatusUnknown
		}
		cards[i] = ProfileCard{
			ProfileCompact: profiles[i].ToCompact(),
			College:        profiles[i].College,
			Status:         status,
			CanRequest:     status.CanRequest(),
		}
	}

	viewerInterests := []string{}
	if own, err := h.profileService.GetProfile(ctx, viewerID); err == nil {
		viewerInterests = own.Interests
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"profiles":         cards,
			"viewer_interests": viewerInterests,
		},
		"meta": echo.Map{
			"totalItems": len(cards),
		},
	})
}
