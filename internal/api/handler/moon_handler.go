package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/spaceapp/space-api/internal/api/metrics"
	"github.com/spaceapp/space-api/internal/core/ports"
)

// MoonHandler handles HTTP requests for moon operations.
type MoonHandler struct {
	service ports.MoonService
}

func NewMoonHandler(service ports.MoonService) *MoonHandler {
	return &MoonHandler{service: service}
}

// List handles GET /api/moons.
//
// @Summary      List moons
// @Tags         moons
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        planetName  query     string  false  "Case-insensitive owning planet name"
// @Success      200         {array}   ports.MoonRecord
// @Router       /api/moons [get]
func (h *MoonHandler) List(c echo.Context) error {
	moons, err := h.service.List(c.Request().Context(), c.QueryParam("planetName"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, moons)
}

// Count handles GET /api/moons/count?planetId=.
//
// @Summary      Count the moons of a planet
// @Tags         moons
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        planetId  query     int  true  "Planet id"
// @Success      200       {integer}  int
// @Failure      400       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /api/moons/count [get]
func (h *MoonHandler) Count(c echo.Context) error {
	planetID, err := queryID(c, "planetId")
	if err != nil {
		return err
	}
	n, err := h.service.CountByPlanet(c.Request().Context(), planetID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, n)
}

// Get handles GET /api/moons/:id.
//
// @Summary      Get a moon
// @Tags         moons
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        id   path      int  true  "Moon id"
// @Success      200  {object}  ports.MoonRecord
// @Failure      404  {object}  errorResponse
// @Router       /api/moons/{id} [get]
func (h *MoonHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	moon, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, moon)
}

// Create handles POST /api/moons. The planet must already exist.
//
// @Summary      Create a moon
// @Tags         moons
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string       false  "Replays the moon created under the same key"
// @Param        body             body      moonRequest  true   "Moon fields"
// @Success      201              {object}  ports.MoonRecord
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Router       /api/moons [post]
func (h *MoonHandler) Create(c echo.Context) error {
	var req moonRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	moon, err := h.service.Create(c.Request().Context(), req.toInput(c.Request().Header.Get(idempotencyHeader)))
	if err != nil {
		return err
	}

	metrics.EntityMutationsTotal.WithLabelValues("moon", "create").Inc()
	return c.JSON(http.StatusCreated, moon)
}

// Update handles PUT /api/moons/:id.
//
// @Summary      Replace a moon's fields
// @Tags         moons
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        id    path      int          true  "Moon id"
// @Param        body  body      moonRequest  true  "Moon fields"
// @Success      200   {object}  ports.MoonRecord
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/moons/{id} [put]
func (h *MoonHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req moonRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	moon, err := h.service.Update(c.Request().Context(), id, req.toInput(""))
	if err != nil {
		return err
	}

	metrics.EntityMutationsTotal.WithLabelValues("moon", "update").Inc()
	return c.JSON(http.StatusOK, moon)
}

// Delete handles DELETE /api/moons/:id.
//
// @Summary      Delete a moon
// @Tags         moons
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        id   path  int  true  "Moon id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/moons/{id} [delete]
func (h *MoonHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	metrics.EntityMutationsTotal.WithLabelValues("moon", "delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
