package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestScanPathsFindsSupportedExtensions(t *testing.T) {
	dir, err := os.MkdirTemp("", "scanner")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	files := []string{"a.mp3", "b.flac", "c.txt", "d.WAV"}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "subdir"), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "subdir", "e.ogg"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	s := NewScanner()
	results := s.ScanPaths(context.Background(), []string{dir})
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}

	result := results[0]
	if result.Error != "" {
		t.Fatalf("unexpected scan error: %s", result.Error)
	}
	if result.TotalFiles != 4 {
		t.Errorf("TotalFiles = %d, want 4 (mp3, flac, WAV, ogg)", result.TotalFiles)
	}

	status := s.GetStatus()
	if status.Status != "complete" || status.Progress != 100 {
		t.Errorf("status = %+v, want complete/100", status)
	}
	if s.IsRunning() {
		t.Error("expected scanner to report not running after completion")
	}
}

func TestScanPathsHandlesMissingDirectory(t *testing.T) {
	s := NewScanner()
	results := s.ScanPaths(context.Background(), []string{"/no/such/path/exists"})
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	if results[0].Error == "" {
		t.Error("expected an error for a missing library path")
	}
}

func TestScanPathsRespectsCancellation(t *testing.T) {
	dir, err := os.MkdirTemp("", "scanner")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewScanner()
	results := s.ScanPaths(ctx, []string{dir})
	if len(results) == 0 {
		t.Fatal("expected at least a partial result set even when canceled upfront")
	}
}
