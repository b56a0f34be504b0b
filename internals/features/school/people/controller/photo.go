package controller

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"path"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/blob"
)

// Photos uploads profile photos under <Prefix>/schools/<id>/<kind>.
type Photos struct {
	Storage blob.Service
	Prefix  string
	Options blob.WebPOptions
}

func (p Photos) storage() blob.Service {
	if p.Storage == nil {
		return blob.Disabled{}
	}
	return p.Storage
}

func (p Photos) Upload(ctx context.Context, schoolID uuid.UUID, kind string, fh *multipart.FileHeader) (*string, error) {
	if fh == nil {
		return nil, nil
	}
	dir := path.Join(p.Prefix, "schools", schoolID.String(), kind)
	url, err := blob.UploadImage(ctx, p.storage(), dir, fh, p.Options)
	if err != nil {
		return nil, err
	}
	return &url, nil
}

// Discard removes a replaced photo. Failures are only logged.
func (p Photos) Discard(ctx context.Context, url *string) {
	if url == nil || *url == "" {
		return
	}
	if err := p.storage().DeleteByURL(ctx, *url); err != nil {
		log.Printf("[WARN] delete photo %s: %v", *url, err)
	}
}

// writePhotoError maps an upload failure onto the response for field.
func writePhotoError(c *fiber.Ctx, field string, err error) error {
	switch {
	case errors.Is(err, blob.ErrFileTooBig):
		return helper.JsonValidationError(c, map[string][]string{field: {"file is too large"}})
	case errors.Is(err, blob.ErrUnsupported):
		return helper.JsonValidationError(c, map[string][]string{field: {"must be a jpg, png or webp image"}})
	case errors.Is(err, blob.ErrDisabled):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "File storage is not configured")
	}
	log.Printf("[ERROR] upload photo: %v", err)
	return helper.JsonError(c, fiber.StatusBadGateway, "Failed to upload photo")
}
