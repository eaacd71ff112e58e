// Package pcm holds the PCM data model shared by the loop finder: the raw,
// caller-owned sample buffer and the de-interleaved float working copy the
// rest of the analysis operates on.
package pcm

import (
	"fmt"

	"github.com/austinkregel/loopfind/internal/looperr"
)

// Format identifies the sample encoding of an AudioData buffer.
type Format int

const (
	FormatInt16 Format = iota
	FormatInt32
	FormatFloat32
)

func (f Format) String() string {
	switch f {
	case FormatInt16:
		return "int16"
	case FormatInt32:
		return "int32"
	case FormatFloat32:
		return "float32"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// AudioData is interleaved PCM as handed in by a caller. It is never mutated
// by the analysis pipeline.
type AudioData struct {
	// Interleaved samples, in the slice that matches Format (int16, int32,
	// or float32). Decoded numeric slices are kept rather than raw bytes,
	// since the only
	// producers of AudioData in this module (WAV ingestion, tests) already
	// have decoded samples on hand.
	Int16   []int16
	Int32   []int32
	Float32 []float32

	Format     Format
	NumChannels int
	SampleRate  float64
}

// NumSamples returns the total interleaved sample count (frames * channels).
func (a *AudioData) NumSamples() int {
	switch a.Format {
	case FormatInt16:
		return len(a.Int16)
	case FormatInt32:
		return len(a.Int32)
	case FormatFloat32:
		return len(a.Float32)
	default:
		return 0
	}
}

// NumFrames returns the per-channel frame count.
func (a *AudioData) NumFrames() int {
	if a.NumChannels == 0 {
		return 0
	}
	return a.NumSamples() / a.NumChannels
}

// Validate checks the invariants the rest of the pipeline assumes.
func (a *AudioData) Validate() error {
	if a.NumChannels != 1 && a.NumChannels != 2 {
		return looperr.New(looperr.KindBadInput, "pcm: unsupported channel count %d", a.NumChannels)
	}
	if a.NumSamples() == 0 {
		return looperr.New(looperr.KindBadInput, "pcm: zero-length audio")
	}
	if a.NumSamples()%a.NumChannels != 0 {
		return looperr.New(looperr.KindBadInput, "pcm: sample count %d not a multiple of channel count %d", a.NumSamples(), a.NumChannels)
	}
	if a.SampleRate <= 0 {
		return looperr.New(looperr.KindBadInput, "pcm: non-positive sample rate %v", a.SampleRate)
	}
	return nil
}

// AudioDataFloat is the de-interleaved, normalized working copy the rest of
// the pipeline operates on. Values lie in [-1, 1]. NumFrames reflects any
// framerate reduction already applied.
type AudioDataFloat struct {
	NumFrames int
	Channel0  []float32
	Channel1  []float32
	Mono      []float32

	// SampleRate is the effective rate after framerate reduction.
	SampleRate float64
}

// FillMono populates Mono from Channel0/Channel1 as their midpoint.
func (a *AudioDataFloat) FillMono() {
	if len(a.Mono) != a.NumFrames {
		a.Mono = make([]float32, a.NumFrames)
	}
	for i := 0; i < a.NumFrames; i++ {
		a.Mono[i] = 0.5 * (a.Channel0[i] + a.Channel1[i])
	}
}
