package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// SupabaseStore writes to a public Supabase storage bucket over its REST API.
type SupabaseStore struct {
	projectURL string
	serviceKey string
	bucket     string
	timeout    time.Duration
}

func NewSupabase(projectURL, serviceKey, bucket string) (*SupabaseStore, error) {
	if projectURL == "" || serviceKey == "" || bucket == "" {
		return nil, fmt.Errorf("missing env: SUPABASE_PROJECT_URL/SUPABASE_SERVICE_ROLE_KEY/SUPABASE_BUCKET")
	}
	return &SupabaseStore{
		projectURL: strings.TrimRight(projectURL, "/"),
		serviceKey: serviceKey,
		bucket:     bucket,
		timeout:    30 * time.Second,
	}, nil
}

func (s *SupabaseStore) objectURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", s.projectURL, s.bucket, escapeKey(key))
}

func (s *SupabaseStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.projectURL, s.bucket, escapeKey(key))
}

func (s *SupabaseStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	a := fiber.Put(s.objectURL(key))
	a.Set(fiber.HeaderAuthorization, "Bearer "+s.serviceKey)
	a.Set("x-upsert", "true")
	a.ContentType(contentType)
	a.Body(data)
	if err := s.send(ctx, a); err != nil {
		return "", fmt.Errorf("supabase upload %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

func (s *SupabaseStore) DeleteByURL(ctx context.Context, publicURL string) error {
	prefix := s.PublicURL("")
	if !strings.HasPrefix(publicURL, prefix) || len(publicURL) == len(prefix) {
		return fmt.Errorf("%w: %s", ErrNotOurs, publicURL)
	}
	key, err := url.PathUnescape(strings.TrimPrefix(publicURL, prefix))
	if err != nil {
		return err
	}

	a := fiber.Delete(s.objectURL(key))
	a.Set(fiber.HeaderAuthorization, "Bearer "+s.serviceKey)
	if err := s.send(ctx, a); err != nil {
		return fmt.Errorf("supabase delete %s: %w", key, err)
	}
	return nil
}

func (s *SupabaseStore) send(ctx context.Context, a *fiber.Agent) error {
	timeout := s.timeout
	if dl, ok := ctx.Deadline(); ok {
		timeout = time.Until(dl)
	}
	a.Timeout(timeout)
	if err := a.Parse(); err != nil {
		return err
	}
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return errs[0]
	}
	if code < 200 || code >= 300 {
		return fmt.Errorf("status %d: %s", code, strings.TrimSpace(string(body)))
	}
	return nil
}

// escapeKey escapes each path segment and keeps the slashes.
func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
