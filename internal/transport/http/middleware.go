package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/service"
	"github.com/batuwa-travels/travel-api/internal/util"
)

const (
	contextAdminKey = "auth.admin"
	contextTokenKey = "auth.token"
)

// Authenticator resolves a bearer token to the acting admin.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Actor, *domain.Admin, error)
}

// RequestMeta stores the client address and user agent on the request
// context so audit entries can record them.
func RequestMeta() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := domain.WithRequestMeta(req.Context(), domain.RequestMeta{
				IP:        clientIP(c),
				UserAgent: req.UserAgent(),
			})
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

func clientIP(c echo.Context) string {
	header := c.Request().Header
	if forwarded := header.Get(echo.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	for _, name := range []string{echo.HeaderXRealIP, "CF-Connecting-IP"} {
		if ip := strings.TrimSpace(header.Get(name)); ip != "" {
			return ip
		}
	}
	return c.RealIP()
}

func RequireAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, util.Error(err.Error()))
			}
			if err := authenticate(c, auth, token); err != nil {
				if errors.Is(err, service.ErrAccountInactive) {
					return c.JSON(http.StatusUnauthorized, util.Error(err.Error()))
				}
				if errors.Is(err, service.ErrUnauthorized) {
					return c.JSON(http.StatusUnauthorized, util.Error("invalid or expired token"))
				}
				return c.JSON(http.StatusInternalServerError, util.Error("unable to verify token"))
			}
			return next(c)
		}
	}
}

// OptionalAuth attaches the admin when a valid bearer token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization)) == "" {
				return next(c)
			}
			token, err := bearerToken(c)
			if err != nil {
				return next(c)
			}
			_ = authenticate(c, auth, token)
			return next(c)
		}
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(min domain.AdminRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := CurrentActor(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
			}
			if !actor.Role.AtLeast(min) {
				return c.JSON(http.StatusForbidden, util.Error(service.ErrForbidden.Error()))
			}
			return next(c)
		}
	}
}

func CurrentActor(c echo.Context) (domain.Actor, bool) {
	return domain.ActorFromContext(c.Request().Context())
}

func CurrentAdmin(c echo.Context) (*domain.Admin, bool) {
	admin, ok := c.Get(contextAdminKey).(*domain.Admin)
	return admin, ok && admin != nil
}

func authenticate(c echo.Context, auth Authenticator, token string) error {
	req := c.Request()
	actor, admin, err := auth.Authenticate(req.Context(), token)
	if err != nil {
		return err
	}
	c.SetRequest(req.WithContext(domain.WithActor(req.Context(), actor)))
	c.Set(contextAdminKey, admin)
	c.Set(contextTokenKey, token)
	return nil
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.TrimSpace(authHeader) == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errors.New("invalid authorization header")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization header")
	}
	return token, nil
}
