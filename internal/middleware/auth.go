package middleware

import (
	"context"
	"net/http"
	"strings"

	"employee/backend/foundation/web"
	"employee/backend/internal/auth"

	"github.com/pkg/errors"
)

// Authenticate validates the bearer token of the request and stores its
// claims in the request context under auth.Key.
func Authenticate(a *auth.Auth) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(c *web.Context) error {
			// Expecting: Bearer <token>
			authStr := c.Request.Header.Get("Authorization")

			parts := strings.Fields(authStr)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				err := errors.New("expected authorization header format: Bearer <token>")
				return c.RespondError(web.NewRequestError(err, http.StatusUnauthorized))
			}

			claims, err := a.ValidateToken(parts[1])
			if err != nil {
				return c.RespondError(web.NewRequestError(err, http.StatusUnauthorized))
			}

			c.Ctx = context.WithValue(c.Ctx, auth.Key, claims)

			return handler(c)
		}

		return h
	}

	return m
}

// Optional returns mw when enabled is true and nil otherwise. Nil
// middlewares are skipped by web.App.
func Optional(enabled bool, mw web.Middleware) web.Middleware {
	if !enabled {
		return nil
	}

	return mw
}
