package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigHasNoEstimates(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.HasT1Estimate() || cfg.HasT2Estimate() {
		t.Error("default config should not carry T1/T2 estimates")
	}
	if mode := cfg.LoopMode(); mode != LoopModeAuto {
		t.Errorf("LoopMode() = %v, want LoopModeAuto", mode)
	}
}

func TestLoopModeDerivation(t *testing.T) {
	tests := []struct {
		name       string
		t1, t2     float64
		wantMode   LoopMode
	}{
		{"neither", -1, -1, LoopModeAuto},
		{"t1 only", 5, -1, LoopModeT1Only},
		{"t2 only", -1, 30, LoopModeT2Only},
		{"both", 5, 30, LoopModeBoth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.T1Estimate = tt.t1
			cfg.T2Estimate = tt.t2
			if got := cfg.LoopMode(); got != tt.wantMode {
				t.Errorf("LoopMode() = %v, want %v", got, tt.wantMode)
			}
		})
	}
}

func TestManagerLoadWritesDefaultsWhenMissing(t *testing.T) {
	dir, err := os.MkdirTemp("", "loopfind-config")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	m := NewManager(dir)
	if err := m.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	path := filepath.Join(dir, "loopfind.json")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected config file to be written at %s: %v", path, err)
	}
	if m.Get().NBestDurations != DefaultConfig().NBestDurations {
		t.Error("loaded config does not match defaults")
	}
}

func TestManagerLoadRoundtrip(t *testing.T) {
	dir, err := os.MkdirTemp("", "loopfind-config")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	m := NewManager(dir)
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}
	cfg := m.Get()
	cfg.WorkerPoolSize = 16
	if err := m.Update(cfg); err != nil {
		t.Fatal(err)
	}

	m2 := NewManager(dir)
	if err := m2.Load(); err != nil {
		t.Fatal(err)
	}
	if m2.Get().WorkerPoolSize != 16 {
		t.Errorf("WorkerPoolSize after reload = %d, want 16", m2.Get().WorkerPoolSize)
	}
}

func TestAddRemoveLibraryPath(t *testing.T) {
	dir, err := os.MkdirTemp("", "loopfind-config")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	m := NewManager(dir)
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}

	if err := m.AddLibraryPath("/music"); err != nil {
		t.Fatal(err)
	}
	if err := m.AddLibraryPath("/music"); err != nil {
		t.Fatal(err)
	}
	if len(m.Get().LibraryPaths) != 1 {
		t.Errorf("expected duplicate add to be a no-op, got %v", m.Get().LibraryPaths)
	}

	if err := m.RemoveLibraryPath("/music"); err != nil {
		t.Fatal(err)
	}
	if len(m.Get().LibraryPaths) != 0 {
		t.Errorf("expected path removed, got %v", m.Get().LibraryPaths)
	}
}
