// Package scanner walks configured library paths and finds audio files
// recognized by their extension, ready for batch loop analysis.
package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// SupportedExtensions are the audio file extensions the scanner recognizes.
var SupportedExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".m4a":  true,
	".aac":  true,
	".ogg":  true,
	".wav":  true,
	".wma":  true,
	".alac": true,
	".opus": true,
}

// FileInfo is basic information about a discovered audio file.
type FileInfo struct {
	Path       string `json:"path"`
	Size       int64  `json:"size"`
	ModifiedAt int64  `json:"modifiedAt"`
}

// ScanResult is the result of scanning one library path.
type ScanResult struct {
	LibraryPath string     `json:"libraryPath"`
	Files       []FileInfo `json:"files"`
	TotalFiles  int        `json:"totalFiles"`
	ScanTimeMs  int64      `json:"scanTimeMs"`
	Error       string     `json:"error,omitempty"`
}

// ScanStatus reports the scanner's current state.
type ScanStatus struct {
	Status   string // "idle", "scanning", "complete", "error"
	Progress int    // 0-100
	Message  string
}

// Scanner walks a set of library paths looking for recognized audio files.
type Scanner struct {
	mu          sync.Mutex
	isRunning   bool
	cancel      context.CancelFunc
	status      ScanStatus
	lastResults []ScanResult
}

// NewScanner creates a new, idle scanner.
func NewScanner() *Scanner {
	return &Scanner{status: ScanStatus{Status: "idle"}}
}

// GetStatus returns the scanner's current status.
func (s *Scanner) GetStatus() ScanStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// GetLastResults returns the results of the most recently completed scan.
func (s *Scanner) GetLastResults() []ScanResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResults
}

// IsRunning reports whether a scan is in progress.
func (s *Scanner) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// Stop cancels an in-progress scan, if any.
func (s *Scanner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// ScanPaths walks each library path synchronously and returns one
// ScanResult per path. Errors walking one path do not stop the others.
func (s *Scanner) ScanPaths(ctx context.Context, paths []string) []ScanResult {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.isRunning = true
	s.cancel = cancel
	s.status = ScanStatus{Status: "scanning", Message: "scanning library paths"}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isRunning = false
		s.cancel = nil
		s.mu.Unlock()
	}()

	results := make([]ScanResult, 0, len(paths))
	for i, p := range paths {
		results = append(results, s.scanPath(ctx, p))
		s.mu.Lock()
		s.status.Progress = (i + 1) * 100 / max(1, len(paths))
		s.mu.Unlock()
		if ctx.Err() != nil {
			break
		}
	}

	s.mu.Lock()
	s.status = ScanStatus{Status: "complete", Progress: 100}
	s.lastResults = results
	s.mu.Unlock()

	return results
}

func (s *Scanner) scanPath(ctx context.Context, libraryPath string) ScanResult {
	start := time.Now()
	result := ScanResult{LibraryPath: libraryPath}

	err := filepath.WalkDir(libraryPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !SupportedExtensions[ext] {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		result.Files = append(result.Files, FileInfo{
			Path:       path,
			Size:       info.Size(),
			ModifiedAt: info.ModTime().Unix(),
		})
		return nil
	})
	if err != nil {
		result.Error = err.Error()
	}

	result.TotalFiles = len(result.Files)
	result.ScanTimeMs = time.Since(start).Milliseconds()
	return result
}
