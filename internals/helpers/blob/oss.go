package blob

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

type OSSConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	PublicBase string // optional CDN base, e.g. https://cdn.example.com
}

// OSSStore writes to an Aliyun OSS bucket.
type OSSStore struct {
	bucket *oss.Bucket
	cfg    OSSConfig
}

func NewOSS(cfg OSSConfig) (*OSSStore, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}
	client, err := oss.New(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bkt, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}
	log.Printf("[OSS] using bucket %s", cfg.Bucket)
	return &OSSStore{bucket: bkt, cfg: cfg}, nil
}

func (s *OSSStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	err := s.bucket.PutObject(key, r,
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentLength(size),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	)
	if err != nil {
		return "", fmt.Errorf("oss put %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

func (s *OSSStore) DeleteByURL(ctx context.Context, publicURL string) error {
	key, err := s.KeyFromURL(publicURL)
	if err != nil {
		return err
	}
	return s.bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (s *OSSStore) PublicURL(key string) string {
	if base := strings.TrimRight(s.cfg.PublicBase, "/"); base != "" {
		return base + "/" + key
	}
	end := strings.TrimPrefix(strings.TrimPrefix(s.cfg.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.cfg.Bucket, end, key)
}

func (s *OSSStore) KeyFromURL(publicURL string) (string, error) {
	prefix := s.PublicURL("")
	if !strings.HasPrefix(publicURL, prefix) || len(publicURL) == len(prefix) {
		return "", fmt.Errorf("%w: %s", ErrNotOurs, publicURL)
	}
	return strings.TrimPrefix(publicURL, prefix), nil
}
