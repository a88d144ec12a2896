// Package resume downloads resume documents and extracts their text.
package resume

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/spigell/linky/internal/httpclient"
	"github.com/spigell/linky/internal/logger"
)

// ErrNotFound is returned when the resume does not exist at the given location.
var ErrNotFound = errors.New("resume not found")

// Source returns the raw bytes of a resume by its caller-supplied location.
type Source interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

type fetcher interface {
	Get(ctx context.Context, url string, header http.Header) (*httpclient.Response, error)
}

// HTTPSource downloads resumes from Prefix+location, or from location itself
// when it is already an absolute http(s) URL.
type HTTPSource struct {
	client fetcher
	prefix string
	logger *zap.Logger
}

func NewHTTPSource(client fetcher, prefix string, log *zap.Logger) *HTTPSource {
	return &HTTPSource{client: client, prefix: prefix, logger: logger.OrNop(log)}
}

// URL resolves location against the configured prefix.
func (s *HTTPSource) URL(location string) string {
	location = strings.TrimSpace(location)
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return location
	}
	return s.prefix + location
}

func (s *HTTPSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	url := s.URL(location)
	if url == "" {
		return nil, errors.New("resume location is empty")
	}

	resp, err := s.client.Get(ctx, url, nil)
	if err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
		}
		return nil, err
	}

	s.logger.Debug("resume downloaded", zap.String("url", url), zap.Int("bytes", len(resp.Body)))

	return resp.Body, nil
}

type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access-key"`
	SecretKey string `mapstructure:"secret-key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use-ssl"`
	Region    string `mapstructure:"region"`
}

// MinIOSource reads resumes as objects of a single bucket.
type MinIOSource struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

func NewMinIOSource(cfg MinIOConfig, log *zap.Logger) (*MinIOSource, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("minio endpoint is required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("minio bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinIOSource{client: client, bucket: cfg.Bucket, logger: logger.OrNop(log)}, nil
}

// ObjectKey strips a leading slash and an optional "<bucket>/" prefix.
func (s *MinIOSource) ObjectKey(location string) string {
	key := strings.TrimPrefix(strings.TrimSpace(location), "/")
	return strings.TrimPrefix(key, s.bucket+"/")
}

func (s *MinIOSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	key := s.ObjectKey(location)
	if key == "" {
		return nil, errors.New("resume location is empty")
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s/%s: %w", s.bucket, key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, s.bucket, key)
		}
		return nil, fmt.Errorf("read object %s/%s: %w", s.bucket, key, err)
	}

	s.logger.Debug("resume downloaded", zap.String("bucket", s.bucket), zap.String("key", key), zap.Int("bytes", len(data)))

	return data, nil
}
