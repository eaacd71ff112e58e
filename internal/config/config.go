// Package config handles loop finder configuration file management.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LoopFinderConfig holds every tunable of the analysis pipeline, plus the
// ambient settings (cache location, worker pool size, library paths) that
// wrap it into a batch-capable tool.
type LoopFinderConfig struct {
	// NBestDurations is the number of base-duration (lag) candidates to
	// return from loop finding.
	NBestDurations int `json:"nBestDurations"`
	// NBestPairs is the number of start-end frame pairs to return per lag.
	NBestPairs int `json:"nBestPairs"`

	// LeftIgnore/RightIgnore are seconds to ignore from the start/end of
	// the autodifferencing curve before searching for lag candidates.
	LeftIgnore  float64 `json:"leftIgnore"`
	RightIgnore float64 `json:"rightIgnore"`

	// SampleDiffTol is a sample-difference tolerance for start-end pairs.
	// It is saved and loaded with the configuration but the analysis does
	// not read it: endpoint pairs are not filtered by sample difference.
	SampleDiffTol float64 `json:"sampleDiffTol"`
	// MinLoopLength is a minimum loop length in seconds. It is saved and
	// loaded with the configuration but the analysis does not read it: no
	// candidate is rejected for a short match length.
	MinLoopLength float64 `json:"minLoopLength"`
	// MinTimeDiff is the minimum spacing, in seconds, used for
	// non-maximum suppression when selecting top lags and start-end pairs.
	MinTimeDiff float64 `json:"minTimeDiff"`

	// FFTLength is the FFT size for each spectrogram window. Must be a
	// power of two.
	FFTLength int `json:"fftLength"`
	// OverlapPercent is the overlap fraction (0..1) for spectrogram
	// windows.
	OverlapPercent float64 `json:"overlapPercent"`

	// T1Estimate/T2Estimate are optional estimates (seconds) of the
	// starting/ending time. -1 means "absent".
	T1Estimate float64 `json:"t1Estimate"`
	T2Estimate float64 `json:"t2Estimate"`

	// TauRadius/T1Radius/T2Radius bound allowed deviation (seconds) from
	// the corresponding estimate.
	TauRadius float64 `json:"tauRadius"`
	T1Radius  float64 `json:"t1Radius"`
	T2Radius  float64 `json:"t2Radius"`

	// TauPenalty/T1Penalty/T2Penalty (in [0,1]) control how strongly
	// deviation from the corresponding estimate is penalized. 0 is a
	// rectangular weighting; 1 forbids deviation entirely.
	TauPenalty float64 `json:"tauPenalty"`
	T1Penalty  float64 `json:"t1Penalty"`
	T2Penalty  float64 `json:"t2Penalty"`

	// UseFadeDetection toggles fade-aware truncation (currently a no-op:
	// fade detection is unimplemented upstream).
	UseFadeDetection bool `json:"useFadeDetection"`
	// UseMonoAudio selects the mono mixdown for differencing in place of
	// averaging the two stereo channels.
	UseMonoAudio bool `json:"useMonoAudio"`
	// FramerateReductionLimit and LengthLimit govern the boxcar framerate
	// reduction applied before analysis (see pcm.PickReductionFactor).
	// FramerateReductionFactor is saved and loaded but not read: the
	// factor is always picked from the limit and the length cap.
	FramerateReductionFactor int `json:"framerateReductionFactor"`
	FramerateReductionLimit  int `json:"framerateReductionLimit"`
	LengthLimit              int `json:"lengthLimit"`

	// NoiseRegularization is epsilon in the noise-weighted MSE
	// denominator.
	NoiseRegularization float64 `json:"noiseRegularization"`
	// ConfidenceRegularization is the regularization term in the
	// loss-to-confidence sigmoid.
	ConfidenceRegularization float64 `json:"confidenceRegularization"`
	// DBLevel is a volume shift in dB for spectrum comparisons. It is saved
	// and loaded but not read: spectrum comparisons use every bin, flooring
	// non-positive power at loopspectra.DBFloor.
	DBLevel float64 `json:"dBLevel"`
	// PowRef is the reference power level used in decibel calculations.
	PowRef float64 `json:"powRef"`

	// WorkerPoolSize is the number of concurrent analysis workers for
	// batch/library scans.
	WorkerPoolSize int `json:"workerPoolSize"`
	// CachePath is where computed loop results are persisted.
	CachePath string `json:"cachePath"`
	// LibraryPaths is a persisted list of library directories, maintained
	// by the Manager's library-path methods. The CLI's batch mode scans only
	// its -library directory and does not read this list.
	LibraryPaths []string `json:"libraryPaths"`
}

// DefaultConfig returns defaults matching the original implementation's
// useDefaultParams: broad lag search, modest pair counts, and regularization
// values that are forgiving rather than strict.
func DefaultConfig() *LoopFinderConfig {
	return &LoopFinderConfig{
		NBestDurations: 5,
		NBestPairs:     3,

		LeftIgnore:  2.0,
		RightIgnore: 2.0,

		SampleDiffTol: 0.01,
		MinLoopLength: 5.0,
		MinTimeDiff:   2.0,

		FFTLength:      4096,
		OverlapPercent: 0.5,

		T1Estimate: -1,
		T2Estimate: -1,

		TauRadius: 2.0,
		T1Radius:  2.0,
		T2Radius:  2.0,

		TauPenalty: 0.5,
		T1Penalty:  0.5,
		T2Penalty:  0.5,

		UseFadeDetection: false,
		UseMonoAudio:     false,

		FramerateReductionFactor: 1,
		FramerateReductionLimit:  10,
		LengthLimit:              2_000_000,

		NoiseRegularization:      1e-3,
		ConfidenceRegularization: 0.1,
		DBLevel:                  0,
		PowRef:                   1e-12,

		WorkerPoolSize: 4,
		CachePath:      "",
		LibraryPaths:   []string{},
	}
}

// HasT1Estimate reports whether an absent-flagged T1Estimate (-1) was
// replaced with a real value.
func (c *LoopFinderConfig) HasT1Estimate() bool { return c.T1Estimate >= 0 }

// HasT2Estimate reports whether an absent-flagged T2Estimate (-1) was
// replaced with a real value.
func (c *LoopFinderConfig) HasT2Estimate() bool { return c.T2Estimate >= 0 }

// LoopMode reports which combination of endpoint estimates is present.
type LoopMode int

const (
	LoopModeAuto LoopMode = iota
	LoopModeBoth
	LoopModeT1Only
	LoopModeT2Only
)

func (c *LoopFinderConfig) LoopMode() LoopMode {
	switch {
	case c.HasT1Estimate() && c.HasT2Estimate():
		return LoopModeBoth
	case c.HasT1Estimate():
		return LoopModeT1Only
	case c.HasT2Estimate():
		return LoopModeT2Only
	default:
		return LoopModeAuto
	}
}

// Manager handles loading and saving the loop finder configuration.
type Manager struct {
	configDir  string
	configPath string
	config     *LoopFinderConfig
}

// NewManager creates a new configuration manager rooted at configDir.
func NewManager(configDir string) *Manager {
	return &Manager{
		configDir:  configDir,
		configPath: filepath.Join(configDir, "loopfind.json"),
		config:     DefaultConfig(),
	}
}

// Load reads the configuration from disk, writing out defaults if no file
// exists yet.
func (m *Manager) Load() error {
	if err := os.MkdirAll(m.configDir, 0700); err != nil {
		return fmt.Errorf("config: creating config directory: %w", err)
	}

	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		m.config = DefaultConfig()
		return m.Save()
	}

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return fmt.Errorf("config: reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parsing config: %w", err)
	}
	m.config = cfg
	return nil
}

// Save writes the configuration to disk.
func (m *Manager) Save() error {
	if err := os.MkdirAll(m.configDir, 0700); err != nil {
		return fmt.Errorf("config: creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshaling config: %w", err)
	}
	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		return fmt.Errorf("config: writing config: %w", err)
	}
	return nil
}

// Get returns the current configuration.
func (m *Manager) Get() *LoopFinderConfig { return m.config }

// GetPath returns the config file path.
func (m *Manager) GetPath() string { return m.configPath }

// Update replaces the configuration and persists it.
func (m *Manager) Update(cfg *LoopFinderConfig) error {
	m.config = cfg
	return m.Save()
}

// SetLibraryPaths updates the library paths and persists them.
func (m *Manager) SetLibraryPaths(paths []string) error {
	m.config.LibraryPaths = paths
	return m.Save()
}

// AddLibraryPath appends a library path if not already present.
func (m *Manager) AddLibraryPath(path string) error {
	for _, p := range m.config.LibraryPaths {
		if p == path {
			return nil
		}
	}
	m.config.LibraryPaths = append(m.config.LibraryPaths, path)
	return m.Save()
}

// RemoveLibraryPath removes a library path if present.
func (m *Manager) RemoveLibraryPath(path string) error {
	paths := make([]string, 0, len(m.config.LibraryPaths))
	for _, p := range m.config.LibraryPaths {
		if p != path {
			paths = append(paths, p)
		}
	}
	m.config.LibraryPaths = paths
	return m.Save()
}
