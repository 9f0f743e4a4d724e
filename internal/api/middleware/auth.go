package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/spaceapp/space-api/internal/api/metrics"
	"github.com/spaceapp/space-api/internal/core/domain"
	"github.com/spaceapp/space-api/internal/core/ports"
)

// Context keys set by Auth.
const (
	UserKey = "user"
	RoleKey = "role"
)

// Auth resolves the caller from HTTP Basic credentials or a Bearer token
// and injects the stored user, so the role in effect is the one persisted
// right now. Requests without valid credentials stop here with 401.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			authHeader := req.Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.AuthFailuresTotal.WithLabelValues("none").Inc()
				return challenge(c, domain.ErrUnauthorized)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 {
				metrics.AuthFailuresTotal.WithLabelValues("none").Inc()
				return challenge(c, domain.ErrUnauthorized)
			}

			var (
				user   *domain.User
				err    error
				scheme = strings.ToLower(parts[0])
			)
			switch scheme {
			case "bearer":
				user, err = auth.ResolveToken(req.Context(), strings.TrimSpace(parts[1]))
			case "basic":
				username, password, ok := req.BasicAuth()
				if !ok {
					err = domain.ErrUnauthorized
					break
				}
				user, err = auth.Authenticate(req.Context(), username, password)
			default:
				scheme, err = "none", domain.ErrUnauthorized
			}
			if err != nil {
				if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrUnauthorized) {
					metrics.AuthFailuresTotal.WithLabelValues(scheme).Inc()
					return challenge(c, domain.ErrUnauthorized)
				}
				return err
			}

			c.Set(UserKey, user)
			c.Set(RoleKey, string(user.Role))
			c.SetRequest(req.WithContext(ports.WithActor(req.Context(), user)))

			return next(c)
		}
	}
}

// CurrentUser returns the user injected by Auth, if any.
func CurrentUser(c echo.Context) *domain.User {
	u, _ := c.Get(UserKey).(*domain.User)
	return u
}

func challenge(c echo.Context, err error) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Basic realm="space-api", Bearer`)
	return err
}
