// Package blob stores uploaded files (profile photos) in object storage.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/configs"
)

var (
	ErrDisabled    = errors.New("file storage is not configured")
	ErrEmptyKey    = errors.New("empty object key")
	ErrNotOurs     = errors.New("url does not belong to this storage")
	ErrFileTooBig  = errors.New("file too large")
	ErrUnsupported = errors.New("unsupported image format, use jpg, png or webp")
)

// Service uploads objects and removes them again by public URL.
type Service interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (publicURL string, err error)
	DeleteByURL(ctx context.Context, publicURL string) error
}

// New picks the backend named by cfg.StorageDriver.
func New(cfg configs.Config) (Service, error) {
	switch cfg.StorageDriver {
	case "supabase":
		return NewSupabase(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket)
	case "oss":
		return NewOSS(OSSConfig{
			Endpoint:   cfg.OSSEndpoint,
			AccessKey:  cfg.OSSAccessKey,
			SecretKey:  cfg.OSSSecretKey,
			Bucket:     cfg.OSSBucket,
			PublicBase: cfg.OSSPublicBase,
		})
	case "", "none":
		log.Println("[INFO] STORAGE_DRIVER=none, photo uploads are disabled")
		return Disabled{}, nil
	}
	return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
}

// Disabled rejects uploads.
type Disabled struct{}

func (Disabled) Put(context.Context, string, io.Reader, int64, string) (string, error) {
	return "", ErrDisabled
}

func (Disabled) DeleteByURL(context.Context, string) error { return nil }

var reUnsafe = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

func sanitizeFilename(name string) string {
	name = reUnsafe.ReplaceAllString(path.Base(strings.TrimSpace(name)), "_")
	if name == "" || name == "." || name == "_" {
		return "file"
	}
	return name
}

// ObjectKey builds "<dir>/<yyyymmdd>-<uuid>-<name><ext>". An empty ext keeps
// the original extension.
func ObjectKey(dir, filename, ext string) string {
	name := sanitizeFilename(filename)
	if ext != "" {
		name = strings.TrimSuffix(name, path.Ext(name)) + ext
	}
	key := fmt.Sprintf("%s-%s-%s", time.Now().UTC().Format("20060102"), uuid.NewString(), name)
	if dir = strings.Trim(dir, "/"); dir != "" {
		key = dir + "/" + key
	}
	return key
}

// UploadImage converts fh to WebP and stores it under dir.
func UploadImage(ctx context.Context, svc Service, dir string, fh *multipart.FileHeader, opt WebPOptions) (string, error) {
	if fh == nil {
		return "", nil
	}
	if opt.MaxBytes > 0 && fh.Size > opt.MaxBytes {
		return "", fmt.Errorf("%w (max %d bytes)", ErrFileTooBig, opt.MaxBytes)
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	data, err := ConvertToWebP(src, opt)
	if err != nil {
		return "", err
	}
	key := ObjectKey(dir, fh.Filename, ".webp")
	return svc.Put(ctx, key, bytes.NewReader(data), int64(len(data)), "image/webp")
}
