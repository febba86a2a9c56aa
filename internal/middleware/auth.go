package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("layer", "middleware")

// UserIDKey is the echo context key holding the authenticated user id (uint)
const UserIDKey = "userID"

//go:generate mockgen -destination=./mock/auth.go -package=mock -source=auth.go

// TokenVerifier resolves a bearer token to a local user id
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (uint, error)
}

// Authenticator turns the Authorization header into a user id on the echo
// context. Handlers read it back with UserID.
type Authenticator struct {
	verifier TokenVerifier
}

// NewAuthenticator creates an Authenticator backed by verifier
func NewAuthenticator(verifier TokenVerifier) *Authenticator {
	return &Authenticator{verifier: verifier}
}

// RequireAuth rejects requests without a valid bearer token
func (a *Authenticator) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := bearerToken(c)
		if err != nil {
			return err
		}
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
		}
		return a.authenticate(c, token, next)
	}
}

// OptionalAuth lets anonymous requests through. A token that is present but
// invalid is still rejected.
func (a *Authenticator) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := bearerToken(c)
		if err != nil {
			return err
		}
		if token == "" {
			return next(c)
		}
		return a.authenticate(c, token, next)
	}
}

func (a *Authenticator) authenticate(c echo.Context, token string, next echo.HandlerFunc) error {
	userID, err := a.verifier.Verify(c.Request().Context(), token)
	if err != nil || userID == 0 {
		log.WithError(err).Debug("token rejected")
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}
	c.Set(UserIDKey, userID)
	return next(c)
}

// UserID returns the authenticated user id, or 0 for anonymous requests
func UserID(c echo.Context) uint {
	id, _ := c.Get(UserIDKey).(uint)
	return id
}

// bearerToken returns "" when there is no Authorization header at all
func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", nil
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
	}
	return parts[1], nil
}
