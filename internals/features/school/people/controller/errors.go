package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	helper "schoolku_backend/internals/helpers"
)

func writeSaveError(c *fiber.Ctx, what string, err error) error {
	var re *refError
	switch {
	case errors.As(err, &re):
		return helper.JsonValidationError(c, map[string][]string{re.Field: {"references an unknown record"}})
	case errors.Is(err, errDuplicateNumber), helper.IsUniqueViolation(err):
		return helper.JsonError(c, fiber.StatusConflict, what+" number is already used")
	case helper.IsForeignKeyViolation(err):
		return helper.JsonError(c, fiber.StatusBadRequest, "Referenced record does not exist")
	}
	log.Printf("[ERROR] save %s: %v", what, err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save "+what)
}
