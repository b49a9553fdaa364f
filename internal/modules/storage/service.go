package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appcfg "github.com/pindrop/core/internal/config"
	"go.uber.org/zap"
)

// MaxUploadBytes is the upload size ceiling, enforced before any network call.
const MaxUploadBytes = 5 << 20 // 5 MiB

const objectCacheControl = "public, max-age=31536000"

var (
	// ErrDisabled is returned when no object storage is configured.
	ErrDisabled = errors.New("object storage is not configured")
	// ErrFileTooLarge is returned for uploads above MaxUploadBytes.
	ErrFileTooLarge = fmt.Errorf("file exceeds %d bytes", MaxUploadBytes)
	// ErrNotAnImage is returned for non-image content types.
	ErrNotAnImage = errors.New("only image uploads are accepted")
)

// Service talks to S3-compatible object storage. A Service built from an
// incomplete config is disabled: every call returns ErrDisabled instead of
// panicking, which handlers surface as 503.
type Service struct {
	client *s3.Client
	opts   appcfg.S3Options
	logger *zap.Logger
}

// New builds the storage service. Missing credentials yield a disabled service.
func New(opts appcfg.S3Options, logger *zap.Logger) *Service {
	svc := &Service{opts: opts, logger: logger}
	if !opts.Configured() {
		if logger != nil {
			logger.Warn("object storage disabled: incomplete s3 config")
		}
		return svc
	}

	s3opts := s3.Options{
		Region:       opts.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		UsePathStyle: opts.PathStyleAccess,
	}
	if endpoint := normalizeEndpoint(opts.Endpoint); endpoint != "" {
		s3opts.BaseEndpoint = aws.String(endpoint)
		// Most S3-compatible providers only route path-style requests.
		s3opts.UsePathStyle = true
	}
	svc.client = s3.New(s3opts)
	return svc
}

// Enabled reports whether uploads can be served.
func (s *Service) Enabled() bool { return s != nil && s.client != nil }

// ValidateUpload runs the client-side checks: image content type and size
// ceiling. Callers run this before touching the network or the disabled check
// so an oversized file is rejected even in degraded mode.
func ValidateUpload(contentType string, size int64) error {
	if size > MaxUploadBytes {
		return ErrFileTooLarge
	}
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return ErrNotAnImage
	}
	return nil
}

// Upload writes the object and returns its key and public URL. Keys embed
// the owner id, a timestamp and a random suffix; upsert semantics (an
// existing object under the same key is overwritten).
func (s *Service) Upload(ctx context.Context, bucket, ownerID, filename string, data []byte, contentType string) (string, string, error) {
	if !s.Enabled() {
		return "", "", ErrDisabled
	}

	key := BuildObjectKey(ownerID, filename)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(objectCacheControl),
	})
	if err != nil {
		return "", "", fmt.Errorf("s3 upload failed: %w", err)
	}

	return key, s.PublicURL(bucket, key), nil
}

// PublicURL resolves the public URL of an object.
func (s *Service) PublicURL(bucket, key string) string {
	key = normalizeObjectKey(key)
	if domain := strings.TrimRight(strings.TrimSpace(s.opts.CustomDomain), "/"); domain != "" {
		return domain + "/" + key
	}

	endpoint := normalizeEndpoint(s.opts.Endpoint)
	if endpoint == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, s.opts.Region, encodeObjectKey(key))
	}

	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s://%s/%s/%s", parsed.Scheme, parsed.Host, bucket, encodeObjectKey(key))
}

// Delete removes an object. No existence check is performed; deleting a
// missing object succeeds.
func (s *Service) Delete(ctx context.Context, bucket, key string) error {
	if !s.Enabled() {
		return ErrDisabled
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(normalizeObjectKey(key)),
	})
	if err != nil {
		return fmt.Errorf("s3 delete failed: %w", err)
	}
	return nil
}

// DeleteAll removes a batch of objects, logging failures instead of
// stopping. Used for best-effort cleanup when a pin is deleted.
func (s *Service) DeleteAll(ctx context.Context, bucket string, keys []string) {
	if !s.Enabled() {
		return
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.Delete(ctx, bucket, key); err != nil && s.logger != nil {
			s.logger.Warn("storage cleanup failed", zap.String("bucket", bucket), zap.String("key", key), zap.Error(err))
		}
	}
}

func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return ""
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	return strings.TrimSuffix(endpoint, "/")
}

func encodeObjectKey(key string) string {
	parts := strings.Split(normalizeObjectKey(key), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
