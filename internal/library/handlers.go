package library

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/spinwheel/spinwheel/internal/media"
	"github.com/spinwheel/spinwheel/internal/wheel"
)

// Handlers provides HTTP handlers for catalog and spin operations.
type Handlers struct {
	service    *Service
	extraTurns int
}

// NewHandlers creates a new library handlers instance. extraTurns is the
// configured default revolution count for spins that do not specify one;
// a negative value falls back to DefaultExtraTurns.
func NewHandlers(service *Service, extraTurns int) *Handlers {
	if extraTurns < 0 {
		extraTurns = DefaultExtraTurns
	}
	return &Handlers{service: service, extraTurns: extraTurns}
}

// RegisterRoutes registers library routes on an Echo group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/items", h.List)
	g.POST("/items", h.Create)
	g.DELETE("/items", h.DeleteByQuery)
	g.GET("/items/:id", h.Get)
	g.PATCH("/items/:id", h.Update)
	g.DELETE("/items/:id", h.Delete)
	g.GET("/spin", h.Spin)
	g.GET("/statistics", h.Statistics)
}

// List returns the filtered catalog.
// GET /api/v1/items
func (h *Handlers) List(c echo.Context) error {
	opts := ListOptions{
		Type:            media.Type(c.QueryParam("type")),
		Tags:            media.ParseTagList(c.QueryParam("tags")),
		IncludeArchived: parseIncludeArchived(c),
		Status:          media.Status(c.QueryParam("status")),
		Search:          c.QueryParam("search"),
	}

	items, err := h.service.List(c.Request().Context(), opts)
	if err != nil {
		return httpError(err)
	}

	if items == nil {
		items = []*media.Item{}
	}
	return c.JSON(http.StatusOK, items)
}

// Create adds a new media item.
// POST /api/v1/items
func (h *Handlers) Create(c echo.Context) error {
	var in media.CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	item, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, item)
}

// Get returns a single media item.
// GET /api/v1/items/:id
func (h *Handlers) Get(c echo.Context) error {
	item, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}

// Update applies a partial update to a media item.
// PATCH /api/v1/items/:id
func (h *Handlers) Update(c echo.Context) error {
	var in media.UpdateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	item, err := h.service.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}

// Delete soft-deletes a media item.
// DELETE /api/v1/items/:id
func (h *Handlers) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteByQuery soft-deletes a media item identified by query parameter.
// Kept for clients that predate the path-parameter form.
// DELETE /api/v1/items?id=
func (h *Handlers) DeleteByQuery(c echo.Context) error {
	id := c.QueryParam("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing id parameter")
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Spin filters the catalog and draws a random winner.
// GET /api/v1/spin
func (h *Handlers) Spin(c echo.Context) error {
	opts := SpinOptions{
		Type:            media.Type(c.QueryParam("type")),
		Tags:            media.ParseTagList(c.QueryParam("tags")),
		IncludeArchived: parseIncludeArchived(c),
		Status:          media.Status(c.QueryParam("status")),
		ExtraTurns:      h.extraTurns,
	}
	if raw := c.QueryParam("extraTurns"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			opts.ExtraTurns = v
		}
	}

	result, err := h.service.Spin(c.Request().Context(), opts)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// Statistics returns catalog counts.
// GET /api/v1/statistics
func (h *Handlers) Statistics(c echo.Context) error {
	stats, err := h.service.Statistics(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// parseIncludeArchived accepts both the current and the legacy parameter
// name used by older clients.
func parseIncludeArchived(c echo.Context) bool {
	for _, name := range []string{"includeArchived", "include_archived"} {
		if raw := c.QueryParam(name); raw != "" {
			if v, err := strconv.ParseBool(raw); err == nil {
				return v
			}
		}
	}
	return false
}

// httpError maps service errors to HTTP status codes.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrItemNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	case errors.Is(err, wheel.ErrInvalidCriteria),
		errors.Is(err, media.ErrInvalidType),
		errors.Is(err, media.ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, media.ErrEmptyTitle),
		errors.Is(err, media.ErrTitleTooLong),
		errors.Is(err, media.ErrInvalidURL),
		errors.Is(err, ErrEmptyUpdate):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
