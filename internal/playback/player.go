// Package playback drives real-time loop playback of an already-decoded
// PCM buffer, wrapping oto's output callback with the sample-accurate
// wrap-around logic the analysis pipeline's results are built to drive.
package playback

import (
	"fmt"
	"sync"

	"github.com/hajimehoshi/oto/v2"
)

// bufferSizeBytes and numBuffers record the 3 x 16 KiB output-buffer layout
// of the playback contract. They are not passed to oto: oto sizes and
// queues the buffers it hands to Read itself.
const (
	bufferSizeBytes = 16 * 1024
	numBuffers      = 3
)

// Player plays a 16-bit interleaved PCM buffer with optional sample-accurate
// looping between two frame offsets.
type Player struct {
	mu      sync.Mutex
	context *oto.Context
	player  oto.Player

	sampleRate int
	channels   int

	samples    []int16
	numSamples int // interleaved sample count, not frames

	sampleCounter        int
	sampleCounterOnPause int
	loopStart            int // samples
	loopEnd              int // samples
	volumeMultiplier     float64
	loopPlayback         bool
	playing              bool
	paused               bool
}

// NewPlayer creates a player bound to an oto output context at the given
// sample rate and channel count.
func NewPlayer(sampleRate, channels int) (*Player, error) {
	ctx, ready, err := oto.NewContext(sampleRate, channels, 2)
	if err != nil {
		return nil, fmt.Errorf("playback: creating oto context: %w", err)
	}
	<-ready

	p := &Player{
		context:          ctx,
		sampleRate:       sampleRate,
		channels:          channels,
		volumeMultiplier: 1.0,
	}
	p.player = ctx.NewPlayer(p)
	return p, nil
}

// Load replaces the buffer being played and resets playback position.
func (p *Player) Load(samples []int16) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.samples = samples
	p.numSamples = len(samples)
	p.sampleCounter = 0
	p.loopStart = 0
	p.loopEnd = 0
}

// SetLoopPoints sets the loop region in frames; internally converted to
// samples so the refill loop only ever compares samples.
func (p *Player) SetLoopPoints(startFrame, endFrame int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loopStart = startFrame * p.channels
	p.loopEnd = endFrame * p.channels
}

// SetLoopPlayback toggles whether playback wraps at the loop points instead
// of stopping at end of data.
func (p *Player) SetLoopPlayback(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loopPlayback = enabled
}

// SetVolume sets the volume multiplier, clamped to [0, 1].
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	p.volumeMultiplier = v
}

// Play starts or resumes playback.
func (p *Player) Play() {
	p.mu.Lock()
	p.playing = true
	p.paused = false
	p.mu.Unlock()
	p.player.Play()
}

// Pause suspends playback, preserving sampleCounter.
func (p *Player) Pause() {
	p.mu.Lock()
	p.paused = true
	p.sampleCounterOnPause = p.sampleCounter
	p.mu.Unlock()
	p.player.Pause()
}

// Resume continues playback from wherever sampleCounter currently sits.
// Resume only needs to re-prime state if the counter moved while paused;
// since Read always reads from sampleCounter directly there is nothing
// extra to do, but the check is kept to mirror the collaborator contract.
func (p *Player) Resume() {
	p.mu.Lock()
	_ = p.sampleCounter != p.sampleCounterOnPause
	p.paused = false
	p.mu.Unlock()
	p.player.Play()
}

// Stop halts playback and resets the counter to the beginning.
func (p *Player) Stop() {
	p.mu.Lock()
	p.playing = false
	p.sampleCounter = 0
	p.mu.Unlock()
	p.player.Pause()
}

// IsPlaying reports whether the player is actively advancing.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing && !p.paused
}

// Close releases the underlying oto player.
func (p *Player) Close() error {
	return p.player.Close()
}

// Read is the refill callback oto calls on its own goroutine. It emits
// volume-scaled samples from the loaded buffer, wrapping at the loop points
// when loop playback is enabled, and writing silence once data and looping
// are both exhausted.
func (p *Player) Read(out []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing || p.paused {
		for i := range out {
			out[i] = 0
		}
		return len(out), nil
	}

	n := len(out) / 2
	for i := 0; i < n; i++ {
		var v int16
		if p.playing && p.sampleCounter < p.numSamples {
			v = int16(float64(p.samples[p.sampleCounter]) * p.volumeMultiplier)
			p.sampleCounter++
		}

		out[2*i] = byte(v)
		out[2*i+1] = byte(v >> 8)

		if p.loopPlayback && p.loopEnd > 0 && p.sampleCounter > p.loopEnd {
			p.sampleCounter = p.loopStart
		}
		if p.sampleCounter >= p.numSamples {
			if p.loopPlayback {
				p.sampleCounter = p.loopStart
			} else {
				p.sampleCounter = 0
				p.playing = false
			}
		}
	}
	return n * 2, nil
}
