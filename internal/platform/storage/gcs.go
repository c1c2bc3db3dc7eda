package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	apperr "github.com/yungbote/netinv-backend/internal/pkg/errors"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
)

type gcsStore struct {
	log    *logger.Logger
	client *gcs.Client
	bucket string
}

func NewGCS(ctx context.Context, log *logger.Logger, cfg Config) (ArtifactStore, error) {
	client, err := newClientForMode(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	serviceLog := log.With("service", "GCSStore")
	serviceLog.Info("Artifact storage initialized", "mode", cfg.Mode, "bucket", cfg.Bucket, "emulator_host", cfg.EmulatorHost)
	return &gcsStore{log: serviceLog, client: client, bucket: cfg.Bucket}, nil
}

func newClientForMode(ctx context.Context, cfg Config) (*gcs.Client, error) {
	switch cfg.Mode {
	case ModeGCS:
		opts := clientOptions(cfg.CredentialsJSON)
		opts = append(opts, option.WithScopes(gcs.ScopeReadWrite))
		return gcs.NewClient(ctx, opts...)
	case ModeGCSEmulator:
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
		return gcs.NewClient(ctx, option.WithoutAuthentication())
	default:
		return nil, &ConfigError{Code: ConfigErrorInvalidMode, Mode: string(cfg.Mode)}
	}
}

// clientOptions accepts inline service-account JSON or a path to it.
func clientOptions(creds string) []option.ClientOption {
	creds = strings.TrimSpace(creds)
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

func (s *gcsStore) Put(ctx context.Context, key string, body io.Reader) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(k).NewWriter(ctx)
	w.ContentType = contentTypeForKey(k)
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

// readCloserWithCancel ties the download context to Close; cancelling
// earlier would truncate the body.
type readCloserWithCancel struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *readCloserWithCancel) Close() error {
	err := r.ReadCloser.Close()
	if r.cancel != nil {
		r.cancel()
	}
	return err
}

func (s *gcsStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	k, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	r, err := s.client.Bucket(s.bucket).Object(k).NewReader(ctx)
	if err != nil {
		cancel()
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to open GCS object %q: %w", k, err)
	}
	return &readCloserWithCancel{ReadCloser: r, cancel: cancel}, nil
}

func (s *gcsStore) Delete(ctx context.Context, key string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := s.client.Bucket(s.bucket).Object(k).Delete(ctx); err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", k, s.bucket, err)
	}
	return nil
}

func (s *gcsStore) Describe() string { return "gs://" + s.bucket }
