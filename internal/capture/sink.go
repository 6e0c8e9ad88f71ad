package capture

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/thesavant42/shotpro/internal/api"
)

// Sink stores a downloaded image and returns where it ended up
type Sink interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// FileSink writes downloads into a local directory
type FileSink struct {
	Dir string
}

func (s FileSink) Save(_ context.Context, name, _ string, data []byte) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	dest := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return dest, nil
}

// MinIOConfig addresses an S3-compatible bucket
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Prefix    string // object key prefix, e.g. "screenshots"
}

// MinIOSink uploads downloads to an S3-compatible bucket
type MinIOSink struct {
	client *minio.Client
	bucket string
	prefix string
	logger *log.Logger
}

// NewMinIOSink creates the client. Call EnsureBucket before the first Save.
func NewMinIOSink(cfg MinIOConfig, logger *log.Logger) (*MinIOSink, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinIOSink{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		logger: logger,
	}, nil
}

// EnsureBucket creates the bucket if it does not exist yet
func (s *MinIOSink) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("Created bucket", "bucket", s.bucket)
	}
	return nil
}

func (s *MinIOSink) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := path.Base(name)
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// DownloadName is the fallback file name for a capture with no server filename:
// <root-domain>_<yyyymmdd_hhmmss>.<format>
func DownloadName(rawURL, format string, at time.Time) string {
	if format == "" {
		format = "png"
	}
	stem, err := api.RootDomain(rawURL)
	if err != nil || stem == "" {
		stem = "screenshot"
	}
	stem = strings.NewReplacer(":", "_", "/", "_").Replace(stem)
	return fmt.Sprintf("%s_%s.%s", stem, at.Format("20060102_150405"), format)
}

// ContentType maps a file name to the image type the backend serves for it
func ContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	}
	return "image/png"
}
