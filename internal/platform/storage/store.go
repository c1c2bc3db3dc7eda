package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yungbote/netinv-backend/internal/pkg/logger"
)

// ArtifactStore keeps import uploads and generated reports.
type ArtifactStore interface {
	Put(ctx context.Context, key string, body io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Describe() string
}

func New(ctx context.Context, log *logger.Logger, cfg Config) (ArtifactStore, error) {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Mode {
	case ModeGCS, ModeGCSEmulator:
		return NewGCS(ctx, log, cfg)
	default:
		return NewLocal(log, cfg.LocalDir)
	}
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	switch {
	case strings.HasSuffix(s, ".xlsx"), strings.HasSuffix(s, ".xlsm"):
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case strings.HasSuffix(s, ".csv"):
		return "text/csv"
	case strings.HasSuffix(s, ".json"):
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// ContentType is exported for handlers serving artifacts.
func ContentType(key string) string { return contentTypeForKey(key) }

func cleanKey(key string) (string, error) {
	k := strings.TrimLeft(strings.TrimSpace(key), "/")
	if k == "" || strings.Contains(k, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return k, nil
}
