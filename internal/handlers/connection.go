package handlers

import (
	"net/http"

	"github.com/hjo3-cse40/SlugConnect/internal/models"
	"github.com/hjo3-cse40/SlugConnect/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ConnectionHandler handles HTTP requests related to connection requests
type ConnectionHandler struct {
	connectionService *services.ConnectionService
	log               *zap.Logger
}

// NewConnectionHandler creates a new ConnectionHandler
func NewConnectionHandler(connectionService *services.ConnectionService, log *zap.Logger) *ConnectionHandler {
	return &ConnectionHandler{connectionService: connectionService, log: log}
}

// RegisterConnectionRoutes registers connection-related routes
func (h *ConnectionHandler) RegisterConnectionRoutes(g *echo.Group) {
	g.GET("/connections", h.GetConnections)
	g.GET("/connections/pending", h.GetPendingRequests)
	g.GET("/connections/status/:id", h.GetStatus)
	g.POST("/connections/requests", h.SendRequest)
	g.PUT("/connections/requests/:id", h.RespondToRequest)
	g.DELETE("/connections/:userId", h.RemoveConnection) // Unfriend
}

// GetStatus returns the viewer's connection status toward another user
func (h *ConnectionHandler) GetStatus(c echo.Context) error {
	status, err := h.connectionService.Status(c.Request().Context(), getUserIDFromContext(c), c.Param("id"))
	if err != nil {
		return httpError(h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":      status,
		"can_request": status.CanRequest(),
	})
}

// SendRequest handles sending a connection request
func (h *ConnectionHandler) SendRequest(c echo.Context) error {
	var req models.CreateConnectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.connectionService.Submit(c.Request().Context(), getUserIDFromContext(c), req.ReceiverID)
	if err != nil {
		return httpError(h.log, err)
	}

	code := http.StatusOK
	if result.Created {
		code = http.StatusCreated
	}
	return c.JSON(code, result)
}

// RespondToRequest accepts or rejects a pending request addressed to the viewer
func (h *ConnectionHandler) RespondToRequest(c echo.Context) error {
	requestID, err := parseUintParam(c, "id", "request ID")
	if err != nil {
		return err
	}

	var req models.RespondConnectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.connectionService.Respond(c.Request().Context(), getUserIDFromContext(c), requestID, req.Status)
	if err != nil {
		return httpError(h.log, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// GetPendingRequests lists requests waiting on the viewer, newest first
func (h *ConnectionHandler) GetPendingRequests(c echo.Context) error {
	pending, err := h.connectionService.PendingRequests(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return httpError(h.log, err)
	}
	return c.JSON(http.StatusOK, pending)
}

// GetConnections lists the viewer's accepted connections
func (h *ConnectionHandler) GetConnections(c echo.Context) error {
	conns, err := h.connectionService.Connections(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return httpError(h.log, err)
	}
	return c.JSON(http.StatusOK, conns)
}

// RemoveConnection deletes an accepted connection with another user
func (h *ConnectionHandler) RemoveConnection(c echo.Context) error {
	if err := h.connectionService.RemoveConnection(c.Request().Context(), getUserIDFromContext(c), c.Param("userId")); err != nil {
		return httpError(h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
