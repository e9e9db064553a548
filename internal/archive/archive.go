// Package archive stores the raw payloads returned by metric sources (the
// SonarQube measures response, the Scorecard JSON output) so a scan's inputs
// can be inspected after the fact. Archival is best-effort: collection never
// fails because an archive write failed.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Client abstracts blob storage for raw source payloads.
type Client interface {
	PutPayload(ctx context.Context, project, scanID, source string, data []byte) error
	GetPayload(ctx context.Context, project, scanID, source string) ([]byte, error)
}

// LocalArchive implements Client using the local filesystem.
// Useful for development and testing.
type LocalArchive struct {
	BaseDir string
}

// NewLocalArchive creates a LocalArchive rooted at the given directory.
func NewLocalArchive(baseDir string) *LocalArchive {
	return &LocalArchive{BaseDir: baseDir}
}

func (a *LocalArchive) path(project, scanID, source string) string {
	return filepath.Join(a.BaseDir, project, scanID, source+".json")
}

// PutPayload stores a raw source payload.
func (a *LocalArchive) PutPayload(ctx context.Context, project, scanID, source string, data []byte) error {
	path := a.path(project, scanID, source)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// GetPayload retrieves a raw source payload.
func (a *LocalArchive) GetPayload(ctx context.Context, project, scanID, source string) ([]byte, error) {
	return os.ReadFile(a.path(project, scanID, source))
}

// FromEnv builds an archive Client from ARCHIVE_* environment variables.
// Returns (nil, nil) when ARCHIVE_BACKEND is unset: archival is opt-in.
func FromEnv(ctx context.Context) (Client, error) {
	switch backend := os.Getenv("ARCHIVE_BACKEND"); backend {
	case "":
		return nil, nil
	case "local":
		dir := os.Getenv("ARCHIVE_DIR")
		if dir == "" {
			dir = "/tmp/repohealth-archive"
		}
		return NewLocalArchive(dir), nil
	case "s3":
		return NewS3Archive(ctx, S3Config{
			Bucket:    os.Getenv("ARCHIVE_S3_BUCKET"),
			Region:    os.Getenv("ARCHIVE_S3_REGION"),
			Endpoint:  os.Getenv("ARCHIVE_S3_ENDPOINT"),
			AccessKey: os.Getenv("ARCHIVE_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("ARCHIVE_S3_SECRET_KEY"),
		})
	case "gcs":
		return NewGCSArchive(ctx, os.Getenv("ARCHIVE_GCS_BUCKET"))
	default:
		return nil, fmt.Errorf("unknown archive backend %q", backend)
	}
}
