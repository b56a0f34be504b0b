package formbind

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/helpers/formdata"
)

// BindRequest parses a multipart or url-encoded body with one level of
// dotted keys and binds it into dst.
func BindRequest(c *fiber.Ctx, dst any) error {
	src, err := formdata.ParseForm(c)
	if err != nil {
		return err
	}
	return Bind(src, dst)
}
