package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/users/auth/dto"
	authModel "schoolku_backend/internals/features/users/auth/model"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"
)

func (ac *AuthController) currentUser(c *fiber.Ctx) (*authModel.UserModel, error) {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return nil, err
	}
	user, err := ac.Sessions.UserFromAccess(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "User not found")
		}
		log.Printf("[ERROR] load user: %v", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load user")
	}
	return user, nil
}

// GET /api/u/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	user, err := ac.currentUser(c)
	if err != nil {
		return err
	}
	out := fiber.Map{"user": dto.FromUserModel(user)}
	if user.SchoolID != nil {
		var school authModel.SchoolModel
		if err := ac.DB.WithContext(c.UserContext()).First(&school, "school_id = ?", *user.SchoolID).Error; err == nil {
			out["school"] = school
		}
	}
	return helper.JsonOK(c, "ok", out)
}

// PATCH /api/u/me/role
// Switches the active role among the roles the user holds and returns a new
// access token carrying it.
func (ac *AuthController) SwitchRole(c *fiber.Ctx) error {
	var req dto.SwitchRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ac.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	user, err := ac.currentUser(c)
	if err != nil {
		return err
	}
	if !user.HasRole(req.Role) {
		return helper.JsonError(c, fiber.StatusForbidden, "You do not have the role "+req.Role)
	}
	if user.ActiveRole != req.Role {
		if err := ac.DB.WithContext(c.UserContext()).Model(user).Update("active_role", req.Role).Error; err != nil {
			log.Printf("[ERROR] switch role: %v", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to switch role")
		}
		user.ActiveRole = req.Role
	}

	session, err := ac.Sessions.IssueAccess(user)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to issue token")
	}
	ac.setAuthCookies(c, session)
	return helper.JsonUpdated(c, "Active role switched to "+req.Role, session)
}
