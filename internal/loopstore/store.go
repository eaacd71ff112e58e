// Package loopstore persists computed loop results keyed by source file
// path, each stored with a hash of the file, so repeat batch runs skip
// files that have not changed since they were last analyzed.
package loopstore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/austinkregel/loopfind/internal/loopfind"
)

// Entry is one cached analysis outcome.
type Entry struct {
	Result     *loopfind.FindLoopResult `json:"result"`
	FileHash   string                   `json:"fileHash"`
	AnalyzedAt int64                    `json:"analyzedAt"`
}

// Store is a JSON-backed, path-keyed cache of loop analysis results.
type Store struct {
	mu       sync.RWMutex
	dataPath string
	entries  map[string]*Entry
}

// Open loads (or initializes) a cache rooted at cachePath.
func Open(cachePath string) (*Store, error) {
	s := &Store{
		dataPath: cachePath,
		entries:  make(map[string]*Entry),
	}
	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loopstore: loading cache: %w", err)
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.dataPath)
	if err != nil {
		return err
	}
	var entries map[string]*Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("loopstore: parsing cache: %w", err)
	}
	s.entries = entries
	if s.entries == nil {
		s.entries = make(map[string]*Entry)
	}
	return nil
}

// Save writes the cache to disk.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("loopstore: marshaling cache: %w", err)
	}
	if dir := filepath.Dir(s.dataPath); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("loopstore: creating cache directory: %w", err)
		}
	}
	if err := os.WriteFile(s.dataPath, data, 0600); err != nil {
		return fmt.Errorf("loopstore: writing cache: %w", err)
	}
	return nil
}

// Get returns the cached entry for path if present and its hash still
// matches currentHash.
func (s *Store) Get(path, currentHash string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[path]
	if !ok || e.FileHash != currentHash {
		return nil, false
	}
	return e, true
}

// Put stores a result for path under the given hash, overwriting any prior
// entry: re-analysis is always idempotent with respect to the cache.
func (s *Store) Put(path, fileHash string, result *loopfind.FindLoopResult, analyzedAt int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[path] = &Entry{
		Result:     result,
		FileHash:   fileHash,
		AnalyzedAt: analyzedAt,
	}
}

// Count returns the number of cached entries.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// FileHash hashes a file's path and size plus its first and last 64KB,
// cheap enough to run on every batch pass without fully reading large audio
// files. It returns the first 16 hex digits of the SHA-256 sum.
func FileHash(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	hasher := sha256.New()
	fmt.Fprintf(hasher, "%s:%d", path, info.Size())

	f, err := os.Open(path)
	if err != nil {
		return hex.EncodeToString(hasher.Sum(nil))[:16], nil
	}
	defer f.Close()

	buf := make([]byte, 65536)
	n, _ := f.Read(buf)
	hasher.Write(buf[:n])

	if info.Size() > 65536 {
		if _, err := f.Seek(-65536, io.SeekEnd); err == nil {
			n, _ = f.Read(buf)
			hasher.Write(buf[:n])
		}
	}

	return hex.EncodeToString(hasher.Sum(nil))[:16], nil
}
