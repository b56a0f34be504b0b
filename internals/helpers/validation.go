package helper

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrUnknownStep is returned by ValidateSection for a section the form does
// not have.
var ErrUnknownStep = errors.New("unknown form step")

// NewValidator reports field paths using the same names the form and JSON
// bodies use, so "personal.first_name" in a response matches the posted key.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	_ = v.RegisterValidation("past", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && t.Before(time.Now())
	})
	return v
}

// ValidationErrorMap converts validator errors into field path → messages.
// The root struct name is dropped from each namespace. Other errors yield
// nil.
func ValidationErrorMap(err error) map[string][]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string][]string, len(ve))
	for _, fe := range ve {
		key := fe.Namespace()
		if _, rest, ok := strings.Cut(key, "."); ok {
			key = rest
		}
		out[key] = append(out[key], validationMessage(fe))
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if", "required_without":
		return "is required"
	case "email":
		return "must be a valid email"
	case "uuid", "uuid4":
		return "must be a valid id"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "past":
		return "must be in the past"
	case "e164":
		return "must be a phone number in international format"
	default:
		return "failed on " + fe.Tag()
	}
}

// Sectioned is implemented by multi-step forms. Section returns a pointer to
// the named section struct.
type Sectioned interface {
	Section(name string) (any, bool)
}

// ValidateSection validates one section of a multi-step form. Keys in the
// returned map are prefixed with the section name; nil means the section is
// valid.
func ValidateSection(v *validator.Validate, form Sectioned, step string) (map[string][]string, error) {
	section, ok := form.Section(step)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStep, step)
	}
	err := v.Struct(section)
	if err == nil {
		return nil, nil
	}
	fields := ValidationErrorMap(err)
	if fields == nil {
		return nil, err
	}
	out := make(map[string][]string, len(fields))
	for k, msgs := range fields {
		out[step+"."+k] = msgs
	}
	return out, nil
}
