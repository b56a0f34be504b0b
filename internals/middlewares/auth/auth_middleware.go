package auth

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"
)

type AuthJWTOpts struct {
	Issuer helperAuth.TokenIssuer
	// BlacklistChecker reports whether a raw access token was revoked. Nil
	// skips the lookup.
	BlacklistChecker    func(ctx context.Context, rawToken string) (bool, error)
	AllowCookieFallback bool
}

// AuthJWT verifies the access token and stores the caller in Locals
// (user_id, school_id, role, roles, claims, raw_token).
func AuthJWT(opts AuthJWTOpts) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := helper.BearerOrCookie(c, opts.AllowCookieFallback)
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - no token provided")
		}

		claims, err := opts.Issuer.ParseAccess(raw)
		if err != nil {
			log.Printf("[WARN] auth: %s %s: %v", c.Method(), c.Path(), err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - invalid or expired token")
		}

		if opts.BlacklistChecker != nil {
			revoked, err := opts.BlacklistChecker(c.UserContext(), raw)
			if err != nil {
				log.Printf("[ERROR] blacklist lookup: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
			}
			if revoked {
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - token has been revoked")
			}
		}

		c.Locals(helperAuth.LocUserID, claims.Subject)
		c.Locals(helperAuth.LocSchoolID, claims.SchoolID)
		c.Locals(helperAuth.LocRole, claims.Role)
		c.Locals(helperAuth.LocRoles, claims.Roles)
		c.Locals(helperAuth.LocClaims, claims)
		c.Locals(helper.LocRawToken, raw)
		return c.Next()
	}
}
