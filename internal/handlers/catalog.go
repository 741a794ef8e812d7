package handlers

import (
	"net/http"

	"github.com/hjo3-cse40/SlugConnect/internal/services"
	"github.com/labstack/echo/v4"
)

// CatalogHandler serves the fixed option lists
type CatalogHandler struct {
	catalog      services.Catalog
	maxInterests int
}

func NewCatalogHandler(catalog services.Catalog, maxInterests int) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, maxInterests: maxInterests}
}

func (h *CatalogHandler) RegisterCatalogRoutes(g *echo.Group) {
	g.GET("/catalog", h.GetCatalog)
}

func (h *CatalogHandler) GetCatalog(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"majors":             h.catalog.Majors,
		"years":              h.catalog.Years,
		"colleges":           h.catalog.Colleges,
		"popular_interests":  h.catalog.PopularInterests,
		"discover_interests": h.catalog.DiscoverInterests,
		"max_interests":      h.maxInterests,
	})
}
