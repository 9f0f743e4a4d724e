package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/spaceapp/space-api/internal/api/metrics"
	"github.com/spaceapp/space-api/internal/core/ports"
)

// PlanetHandler handles HTTP requests for planet operations.
type PlanetHandler struct {
	service ports.PlanetService
}

func NewPlanetHandler(service ports.PlanetService) *PlanetHandler {
	return &PlanetHandler{service: service}
}

// List handles GET /api/planets.
//
// @Summary      List planets
// @Tags         planets
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        type  query     string  false  "Case-insensitive planet type filter"
// @Success      200   {array}   ports.PlanetRecord
// @Failure      401   {object}  errorResponse
// @Router       /api/planets [get]
func (h *PlanetHandler) List(c echo.Context) error {
	planets, err := h.service.List(c.Request().Context(), c.QueryParam("type"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, planets)
}

// Get handles GET /api/planets/:id.
//
// @Summary      Get a planet
// @Tags         planets
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        id   path      int  true  "Planet id"
// @Success      200  {object}  ports.PlanetRecord
// @Failure      404  {object}  errorResponse
// @Router       /api/planets/{id} [get]
func (h *PlanetHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	planet, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, planet)
}

// Create handles POST /api/planets.
//
// @Summary      Create a planet
// @Tags         planets
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string         false  "Replays the planet created under the same key"
// @Param        body             body      planetRequest  true   "Planet fields"
// @Success      201              {object}  ports.PlanetRecord
// @Failure      400              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Router       /api/planets [post]
func (h *PlanetHandler) Create(c echo.Context) error {
	var req planetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	planet, err := h.service.Create(c.Request().Context(), req.toInput(c.Request().Header.Get(idempotencyHeader)))
	if err != nil {
		return err
	}

	metrics.EntityMutationsTotal.WithLabelValues("planet", "create").Inc()
	return c.JSON(http.StatusCreated, planet)
}

// Update handles PUT /api/planets/:id.
//
// @Summary      Replace a planet's fields
// @Tags         planets
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        id    path      int            true  "Planet id"
// @Param        body  body      planetRequest  true  "Planet fields"
// @Success      200   {object}  ports.PlanetRecord
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/planets/{id} [put]
func (h *PlanetHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req planetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	planet, err := h.service.Update(c.Request().Context(), id, req.toInput(""))
	if err != nil {
		return err
	}

	metrics.EntityMutationsTotal.WithLabelValues("planet", "update").Inc()
	return c.JSON(http.StatusOK, planet)
}

// Delete handles DELETE /api/planets/:id. Owned moons are deleted with it.
//
// @Summary      Delete a planet and its moons
// @Tags         planets
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        id   path  int  true  "Planet id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/planets/{id} [delete]
func (h *PlanetHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	metrics.EntityMutationsTotal.WithLabelValues("planet", "delete").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Names handles GET /api/planets/names.
//
// @Summary      List planet names
// @Tags         planets
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Success      200  {array}  string
// @Router       /api/planets/names [get]
func (h *PlanetHandler) Names(c echo.Context) error {
	names, err := h.service.Names(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, names)
}

// NameMass handles GET /api/planets/fields/name-mass.
//
// @Summary      List planet names with their mass
// @Tags         planets
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Success      200  {array}  ports.PlanetNameMassRecord
// @Router       /api/planets/fields/name-mass [get]
func (h *PlanetHandler) NameMass(c echo.Context) error {
	out, err := h.service.NameMass(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Moons handles GET /api/planets/:id/moons.
//
// @Summary      List the moons of a planet
// @Tags         planets
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        id   path      int  true  "Planet id"
// @Success      200  {array}   ports.MoonRecord
// @Failure      404  {object}  errorResponse
// @Router       /api/planets/{id}/moons [get]
func (h *PlanetHandler) Moons(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	moons, err := h.service.Moons(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, moons)
}
