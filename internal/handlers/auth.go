package handlers

import (
	"net/http"

	"github.com/hjo3-cse40/SlugConnect/internal/models"
	"github.com/hjo3-cse40/SlugConnect/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *services.AuthService
	log         *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// RegisterAuthRoutes registers the routes that open a session
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// RegisterSessionRoutes registers routes that need an open session
func (h *AuthHandler) RegisterSessionRoutes(g *echo.Group) {
	g.POST("/auth/signout", h.SignOut)
	g.GET("/auth/me", h.Me)
}

// Signup handles local user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.SignUp(c.Request().Context(), req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		return httpError(h.log, err)
	}
	h.log.Info("user signed up", zap.String("user_id", resp.UserID))
	return c.JSON(http.StatusCreated, resp)
}

// SignIn handles local user authentication with email and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(h.log, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// FirebaseLogin handles Firebase ID token verification and issues a local session
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.FirebaseSignIn(c.Request().Context(), req.IDToken)
	if err != nil {
		return httpError(h.log, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// SignOut ends the current session
func (h *AuthHandler) SignOut(c echo.Context) error {
	if err := h.authService.SignOut(c.Request().Context(), getSessionIDFromContext(c)); err != nil {
		return httpError(h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the signed-in identity and whether onboarding is complete
func (h *AuthHandler) Me(c echo.Context) error {
	me, err := h.authService.CurrentUser(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return httpError(h.log, err)
	}
	return c.JSON(http.StatusOK, me)
}
