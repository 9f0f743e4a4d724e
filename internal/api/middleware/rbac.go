package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/spaceapp/space-api/internal/api/metrics"
	"github.com/spaceapp/space-api/internal/core/authz"
	"github.com/spaceapp/space-api/internal/core/domain"
)

// RBAC enforces the authorization policy for REST routes. The operation
// comes from the HTTP method and the resource from the path, so a denied
// request never reaches a handler.
func RBAC(policy *authz.Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			op := authz.OperationForMethod(c.Request().Method)
			res := authz.ResourceForPath(c.Request().URL.Path)

			if err := policy.Authorize(CurrentUser(c), op, res); err != nil {
				decision := "forbidden"
				if errors.Is(err, domain.ErrUnauthorized) {
					decision = "unauthorized"
				}
				metrics.AuthzDecisionsTotal.WithLabelValues(string(op), string(res), decision).Inc()
				return err
			}

			metrics.AuthzDecisionsTotal.WithLabelValues(string(op), string(res), "allowed").Inc()
			return next(c)
		}
	}
}
