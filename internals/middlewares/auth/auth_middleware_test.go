package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"
)

var issuer = helperAuth.TokenIssuer{Secret: "secret", AccessTTL: time.Minute, RefreshTTL: time.Hour}

func newApp(opts AuthJWTOpts, guard ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	handlers := append([]fiber.Handler{AuthJWT(opts)}, guard...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":   c.Locals(helperAuth.LocUserID),
			"school_id": c.Locals(helperAuth.LocSchoolID),
			"role":      helperAuth.GetRole(c),
		})
	})
	app.Get("/me", handlers...)
	return app
}

func token(t *testing.T, role string) string {
	t.Helper()
	school := uuid.New()
	raw, _, err := issuer.IssueAccess(helperAuth.Identity{UserID: uuid.New(), SchoolID: &school, Role: role, Roles: []string{role}})
	require.NoError(t, err)
	return raw
}

func get(t *testing.T, app *fiber.App, header, cookie string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set(fiber.HeaderAuthorization, header)
	}
	if cookie != "" {
		req.Header.Set(fiber.HeaderCookie, "access_token="+cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthJWT(t *testing.T) {
	tok := token(t, "admin")

	app := newApp(AuthJWTOpts{Issuer: issuer})
	assert.Equal(t, fiber.StatusOK, get(t, app, "Bearer "+tok, ""))
	assert.Equal(t, fiber.StatusOK, get(t, app, "bearer "+tok, ""))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "", ""))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "Bearer garbage", ""))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "", tok), "cookie ignored without fallback")

	withCookie := newApp(AuthJWTOpts{Issuer: issuer, AllowCookieFallback: true})
	assert.Equal(t, fiber.StatusOK, get(t, withCookie, "", tok))
}

func TestAuthJWTBlacklist(t *testing.T) {
	revoked := token(t, "admin")
	app := newApp(AuthJWTOpts{
		Issuer: issuer,
		BlacklistChecker: func(_ context.Context, raw string) (bool, error) {
			return raw == revoked, nil
		},
	})
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "Bearer "+revoked, ""))
	assert.Equal(t, fiber.StatusOK, get(t, app, "Bearer "+token(t, "admin"), ""))

	broken := newApp(AuthJWTOpts{
		Issuer: issuer,
		BlacklistChecker: func(context.Context, string) (bool, error) {
			return false, errors.New("db down")
		},
	})
	assert.Equal(t, fiber.StatusInternalServerError, get(t, broken, "Bearer "+revoked, ""))
}

func TestOnlyRoles(t *testing.T) {
	app := newApp(AuthJWTOpts{Issuer: issuer}, OnlyRoles("", "admin", "owner"))
	assert.Equal(t, fiber.StatusOK, get(t, app, "Bearer "+token(t, "admin"), ""))
	assert.Equal(t, fiber.StatusForbidden, get(t, app, "Bearer "+token(t, "teacher"), ""))
}
