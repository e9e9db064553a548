package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalArchivePutGet(t *testing.T) {
	dir := t.TempDir()
	a := NewLocalArchive(dir)
	ctx := context.Background()

	data := []byte(`{"score":7.5}`)
	if err := a.PutPayload(ctx, "myrepo", "scan1", "openssf", data); err != nil {
		t.Fatalf("PutPayload: %v", err)
	}

	got, err := a.GetPayload(ctx, "myrepo", "scan1", "openssf")
	if err != nil {
		t.Fatalf("GetPayload: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("GetPayload = %q, want %q", got, data)
	}

	// Verify file path layout
	expectedPath := filepath.Join(dir, "myrepo", "scan1", "openssf.json")
	if _, err := os.Stat(expectedPath); err != nil {
		t.Errorf("expected file at %s: %v", expectedPath, err)
	}
}

func TestLocalArchiveGetNotFound(t *testing.T) {
	a := NewLocalArchive(t.TempDir())
	if _, err := a.GetPayload(context.Background(), "myrepo", "scan1", "sonarqube"); err == nil {
		t.Error("expected error for missing payload")
	}
}

func TestLocalArchiveOverwrite(t *testing.T) {
	a := NewLocalArchive(t.TempDir())
	ctx := context.Background()

	if err := a.PutPayload(ctx, "p", "s", "sonarqube", []byte("first")); err != nil {
		t.Fatalf("PutPayload: %v", err)
	}
	if err := a.PutPayload(ctx, "p", "s", "sonarqube", []byte("second")); err != nil {
		t.Fatalf("PutPayload overwrite: %v", err)
	}

	got, err := a.GetPayload(ctx, "p", "s", "sonarqube")
	if err != nil {
		t.Fatalf("GetPayload: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("GetPayload = %q, want %q", got, "second")
	}
}

func TestFromEnv(t *testing.T) {
	t.Run("unset backend disables archival", func(t *testing.T) {
		t.Setenv("ARCHIVE_BACKEND", "")
		c, err := FromEnv(context.Background())
		if err != nil {
			t.Fatalf("FromEnv: %v", err)
		}
		if c != nil {
			t.Errorf("expected nil client, got %T", c)
		}
	})

	t.Run("local backend", func(t *testing.T) {
		t.Setenv("ARCHIVE_BACKEND", "local")
		t.Setenv("ARCHIVE_DIR", t.TempDir())
		c, err := FromEnv(context.Background())
		if err != nil {
			t.Fatalf("FromEnv: %v", err)
		}
		if _, ok := c.(*LocalArchive); !ok {
			t.Errorf("expected *LocalArchive, got %T", c)
		}
	})

	t.Run("unknown backend errors", func(t *testing.T) {
		t.Setenv("ARCHIVE_BACKEND", "ftp")
		if _, err := FromEnv(context.Background()); err == nil {
			t.Error("expected error for unknown backend")
		}
	})
}
