package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	executor *Executor
}

func NewHandler(executor *Executor) *Handler {
	return &Handler{executor: executor}
}

// Serve godoc
// @Summary      Execute a GraphQL document
// @Description  Query userById (any role) or mutation createUser (ADMIN only). Field-level failures are reported in errors with extensions.classification.
// @Tags         graphql
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        body  body      Request  true  "GraphQL request"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]interface{}
// @Router       /graphql [post]
func (h *Handler) Serve(c echo.Context) error {
	var req Request
	dec := json.NewDecoder(c.Request().Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	return c.JSON(http.StatusOK, h.executor.Execute(c.Request().Context(), req))
}
