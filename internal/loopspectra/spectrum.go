// Package loopspectra computes power spectra and spectrogram differencing:
// the frequency-domain half of the loop finder, compared against
// loopsignal's time-domain differencing kernels.
package loopspectra

import (
	"math"

	"github.com/austinkregel/loopfind/internal/loopsignal"
)

// DBFloor is the minimum decibel value substituted for non-positive power
// bins so spectrum comparisons never hit -Inf.
const DBFloor = -120.0

// PowerSpectrum computes the power spectrum of signal up to fmax Hz. The
// signal is zero-padded to the next power of two before the FFT. Returned
// bins are [0, ceil(fmax*N/sampleRate)]. cache may be nil.
func PowerSpectrum(signal []float64, sampleRate, fmax float64, cache *FFTCache) []float64 {
	n := loopsignal.NextPow2(len(signal))
	padded := make([]float64, n)
	copy(padded, signal)

	fft := cache.get(n)
	coeffs := fft.Coefficients(nil, padded)

	nBins := int(math.Ceil(fmax*float64(n)/sampleRate)) + 1
	if nBins > len(coeffs) {
		nBins = len(coeffs)
	}
	if nBins < 0 {
		nBins = 0
	}

	power := make([]float64, nBins)
	for k := 0; k < nBins; k++ {
		re := real(coeffs[k])
		im := imag(coeffs[k])
		power[k] = re*re + im*im
	}
	return power
}

func powToDBFloored(power, ref float64) float64 {
	if power <= 0 {
		return DBFloor
	}
	db := 10 * math.Log10(power/ref)
	if db < DBFloor {
		return DBFloor
	}
	return db
}

// SpectrumMSE computes the decibel-domain MSE between two power spectra of
// equal length, relative to reference power ref.
func SpectrumMSE(a, b []float64, ref float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	for k := 0; k < n; k++ {
		da := powToDBFloored(a[k], ref)
		db := powToDBFloored(b[k], ref)
		diff := da - db
		sum += diff * diff
	}
	return sum / float64(n)
}
