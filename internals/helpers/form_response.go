package helper

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/helpers/formbind"
	"schoolku_backend/internals/helpers/formdata"
)

// JsonBindError answers a failed body bind. Field conversion errors become a
// 422 keyed by the form path.
func JsonBindError(c *fiber.Ctx, err error) error {
	var fe *formbind.FieldError
	switch {
	case errors.As(err, &fe):
		return JsonValidationError(c, map[string][]string{fe.Path: {"has an invalid value"}})
	case errors.Is(err, formdata.ErrUnsupportedContentType):
		return JsonError(c, fiber.StatusUnsupportedMediaType, "Expected multipart/form-data or application/x-www-form-urlencoded")
	}
	return JsonError(c, fiber.StatusBadRequest, "Invalid request body")
}

// JsonStepResult validates one section of form and writes the result:
// 200 {valid:true}, 422 with field errors, or 400 for an unknown step.
func JsonStepResult(c *fiber.Ctx, v *validator.Validate, form Sectioned, step string) error {
	fields, err := ValidateSection(v, form, step)
	if err != nil {
		if errors.Is(err, ErrUnknownStep) {
			return JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return JsonError(c, fiber.StatusInternalServerError, "Validation failed")
	}
	if fields != nil {
		return JsonValidationError(c, fields)
	}
	return JsonOK(c, "Step is valid", fiber.Map{"valid": true, "step": step})
}
