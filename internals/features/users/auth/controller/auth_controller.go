package controller

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/users/auth/dto"
	authModel "schoolku_backend/internals/features/users/auth/model"
	authRepo "schoolku_backend/internals/features/users/auth/repository"
	"schoolku_backend/internals/features/users/auth/service"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"
)

type AuthController struct {
	DB        *gorm.DB
	Validate  *validator.Validate
	Sessions  service.SessionService
	Blacklist helperAuth.Blacklist
	// SecureCookies marks auth cookies Secure (off for local http).
	SecureCookies bool
}

func NewAuthController(db *gorm.DB, v *validator.Validate, issuer helperAuth.TokenIssuer) *AuthController {
	return &AuthController{
		DB:            db,
		Validate:      v,
		Sessions:      service.SessionService{DB: db, Issuer: issuer},
		Blacklist:     helperAuth.Blacklist{DB: db, Secret: issuer.Secret},
		SecureCookies: true,
	}
}

func (ac *AuthController) setAuthCookies(c *fiber.Ctx, s *dto.SessionResponse) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    s.AccessToken,
		Path:     "/",
		Expires:  s.AccessExpiresAt,
		HTTPOnly: true,
		Secure:   ac.SecureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	if s.RefreshToken != "" && s.RefreshExpiresAt != nil {
		c.Cookie(&fiber.Cookie{
			Name:     "refresh_token",
			Value:    s.RefreshToken,
			Path:     "/api/auth",
			Expires:  *s.RefreshExpiresAt,
			HTTPOnly: true,
			Secure:   ac.SecureCookies,
			SameSite: fiber.CookieSameSiteStrictMode,
		})
	}
}

func clearAuthCookies(c *fiber.Ctx) {
	c.ClearCookie("access_token", "refresh_token")
}

// POST /api/auth/register
// With school_name the user becomes owner/admin of a new school.
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ac.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	hash, err := service.HashPassword(req.Password)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to hash password")
	}
	user := authModel.UserModel{
		FullName:   req.FullName,
		Email:      req.Email,
		Password:   hash,
		Roles:      []string{authModel.RoleUser},
		ActiveRole: authModel.RoleUser,
		IsActive:   true,
	}

	err = ac.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if req.SchoolName != "" {
			school, err := createSchool(c.UserContext(), tx, req.SchoolName)
			if err != nil {
				return err
			}
			user.SchoolID = &school.ID
			user.Roles = append([]string(nil), constants.RegistrationRoles...)
			user.ActiveRole = authModel.RoleAdmin
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Email is already registered")
		}
		log.Printf("[ERROR] register: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to register")
	}

	session, err := ac.Sessions.Issue(c.UserContext(), &user, c.Get(fiber.HeaderUserAgent), c.IP())
	if err != nil {
		log.Printf("[ERROR] issue session: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create session")
	}
	ac.setAuthCookies(c, session)
	return helper.JsonCreated(c, "Registration successful", session)
}

func createSchool(ctx context.Context, tx *gorm.DB, name string) (*authModel.SchoolModel, error) {
	slug, err := helper.EnsureUniqueSlugCI(ctx, tx, "schools", "school_slug", helper.Slugify(name, 150), nil, 160)
	if err != nil {
		return nil, err
	}
	school := authModel.SchoolModel{Name: name, Slug: slug}
	if err := tx.Create(&school).Error; err != nil {
		return nil, err
	}
	return &school, nil
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ac.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	user, err := authRepo.FindUserByEmail(c.UserContext(), ac.DB, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		log.Printf("[ERROR] login lookup: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to log in")
	}
	if !service.CheckPassword(user.Password, req.Password) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Your account has been disabled")
	}

	session, err := ac.Sessions.Issue(c.UserContext(), user, c.Get(fiber.HeaderUserAgent), c.IP())
	if err != nil {
		log.Printf("[ERROR] issue session: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create session")
	}
	ac.setAuthCookies(c, session)
	return helper.JsonOK(c, "Login successful", session)
}

func refreshTokenFrom(c *fiber.Ctx) string {
	var req dto.RefreshRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			log.Println("[WARN] refresh BodyParser error (will fallback to cookie):", err)
		}
	}
	if t := strings.TrimSpace(req.RefreshToken); t != "" {
		return t
	}
	return strings.TrimSpace(c.Cookies("refresh_token"))
}

// POST /api/auth/refresh
func (ac *AuthController) Refresh(c *fiber.Ctx) error {
	raw := refreshTokenFrom(c)
	if raw == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token is missing")
	}
	session, err := ac.Sessions.Rotate(c.UserContext(), raw, c.Get(fiber.HeaderUserAgent), c.IP())
	switch {
	case errors.Is(err, service.ErrInvalidRefresh):
		clearAuthCookies(c)
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUserInactive):
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	case err != nil:
		log.Printf("[ERROR] refresh: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to refresh session")
	}
	ac.setAuthCookies(c, session)
	return helper.JsonOK(c, "Token refreshed", session)
}

// POST /api/auth/logout (authenticated)
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	raw := helper.GetRawAccessToken(c)
	exp := time.Now().Add(24 * time.Hour)
	if cl := helperAuth.GetClaims(c); cl != nil && cl.ExpiresAt != nil {
		exp = cl.ExpiresAt.Time
	}
	if err := ac.Blacklist.Add(c.UserContext(), raw, exp); err != nil {
		log.Printf("[ERROR] blacklist add: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to log out")
	}
	if err := ac.Sessions.Revoke(c.UserContext(), refreshTokenFrom(c)); err != nil {
		log.Printf("[ERROR] revoke refresh: %v", err)
	}
	clearAuthCookies(c)
	return helper.JsonOK(c, "Logged out", nil)
}
