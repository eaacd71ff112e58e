package loopspectra

import "gonum.org/v1/gonum/dsp/fourier"

// FFTCache holds a lazily-built FFT plan per size, reused across the many
// same-sized power-spectrum calls a single spectrogram differencing pass
// makes. Not safe for concurrent use across goroutines; callers doing
// per-lag parallelism should use one cache per goroutine.
type FFTCache struct {
	plans map[int]*fourier.FFT
}

// NewFFTCache returns an empty cache.
func NewFFTCache() *FFTCache {
	return &FFTCache{plans: make(map[int]*fourier.FFT)}
}

func (c *FFTCache) get(n int) *fourier.FFT {
	if c == nil {
		return fourier.NewFFT(n)
	}
	if plan, ok := c.plans[n]; ok {
		return plan
	}
	plan := fourier.NewFFT(n)
	c.plans[n] = plan
	return plan
}
