package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/hjo3-cse40/SlugConnect/internal/models"
	"github.com/hjo3-cse40/SlugConnect/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProfileHandler handles HTTP requests related to profiles
type ProfileHandler struct {
	profileService    *services.ProfileService
	connectionService *services.ConnectionService
	log               *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *services.ProfileService, connectionService *services.ConnectionService, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService:    profileService,
		connectionService: connectionService,
		log:               log,
	}
}

// RegisterProfileRoutes registers profile-related routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)    // Get own profile
	g.POST("/profile", h.Onboard)      // First save during onboarding
	g.PUT("/profile", h.UpdateProfile) // Edit own profile
	g.POST("/profile/interests", h.AddInterest)
	g.DELETE("/profile/interests/:interest", h.RemoveInterest)
	g.GET("/users/:id", h.GetUser) // Another student's profile with connection status
}

// GetProfile retrieves the authenticated user's profile
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	p, err := h.profileService.GetProfile(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
		}
		return httpError(h.log, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Onboard saves the first profile
func (h *ProfileHandler) Onboard(c echo.Context) error {
	var req models.OnboardingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.profileService.Onboard(c.Request().Context(), getUserIDFromContext(c), services.ProfileInput{
		FullName:  req.FullName,
		Major:     req.Major,
		College:   req.College,
		Year:      req.Year,
		Interests: req.Interests,
	})
	if err != nil {
		return httpError(h.log, err)
	}
	return c.JSON(http.StatusOK, p)
}

// UpdateProfile updates the authenticated user's profile
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.profileService.Update(c.Request().Context(), getUserIDFromContext(c), services.ProfileInput{
		FullName:  req.FullName,
		Major:     req.Major,
		College:   req.College,
		Year:      req.Year,
		Interests: req.Interests,
	})
	if err != nil {
		return httpError(h.log, err)
	}
	return c.JSON(http.StatusOK, p)
}

// AddInterest adds one interest to the authenticated user's profile
func (h *ProfileHandler) AddInterest(c echo.Context) error {
	var req models.AddInterestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.profileService.AddInterest(c.Request().Context(), getUserIDFromContext(c), req.Interest)
	if err != nil {
		return httpError(h.log, err)
	}
	return c.JSON(http.StatusOK, p)
}

// RemoveInterest removes one interest from the authenticated user's profile
func (h *ProfileHandler) RemoveInterest(c echo.Context) error {
	// echo decodes params unless the request carried a raw path (e.g. %2F)
	interest := c.Param("interest")
	if c.Request().URL.RawPath != "" {
		unescaped, err := url.PathUnescape(interest)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid interest")
		}
		interest = unescaped
	}

	p, err := h.profileService.RemoveInterest(c.Request().Context(), getUserIDFromContext(c), interest)
	if err != nil {
		return httpError(h.log, err)
	}
	return c.JSON(http.StatusOK, p)
}

// ProfileView is another student's profile as seen by the viewer
type ProfileView struct {
	*models.Profile
	Status     services.Status `json:"status"`
	CanRequest bool            `json:"can_request"`
}

// GetUser returns another student's profile with the viewer's connection status
func (h *ProfileHandler) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	viewerID := getUserIDFromContext(c)
	targetID := c.Param("id")

	p, err := h.profileService.GetProfile(ctx, targetID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return httpError(h.log, err)
	}
	if targetID == viewerID {
		return c.JSON(http.StatusOK, p)
	}

	status, err := h.connectionService.Status(ctx, viewerID, targetID)
	if err != nil {
		h.log.Warn("connection status unavailable", zap.String("target_id", targetID), zap.Error(err))
		status = services.StatusUnknown
	}
	return c.JSON(http.StatusOK, ProfileView{Profile: p, Status: status, CanRequest: status.CanRequest()})
}
