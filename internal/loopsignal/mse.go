package loopsignal

import "github.com/austinkregel/loopfind/internal/pcm"

// XCorr returns the full linear cross-correlation of a and b, length
// len(a)+len(b)-1. result[j] corresponds to lag = j-(len(b)-1).
func XCorr(a, b []float64) []float64 {
	return crossCorrelate(a, b)
}

// SlidingSSE computes the sliding sum-of-squared-errors between a and b at
// every relative shift, unnormalized. Equivalent to the numerator of
// SlidingWeightedMSE before dividing by local energy.
func SlidingSSE(a, b []float64) []float64 {
	nA, nB := len(a), len(b)
	prefixA := prefixSquares(a)
	prefixB := prefixSquares(b)
	xc := crossCorrelate(a, b)

	out := make([]float64, nA+nB-1)
	for j := range out {
		lag := j - (nB - 1)
		// Overlap of a-indices i and b-indices i-lag, both in range.
		aStart := max(0, lag)
		aEnd := min(nA, nB+lag)
		if aEnd <= aStart {
			out[j] = 0
			continue
		}
		sumA := prefixA[aEnd] - prefixA[aStart]
		sumB := prefixB[aEnd-lag] - prefixB[aStart-lag]
		out[j] = sumA + sumB - 2*xc[j]
	}
	return out
}

// SlidingWeightedMSE computes the noise-weighted sliding MSE between a and
// b at every relative shift: (||a_ov||^2 + ||b_ov||^2 - 2*xcorr) / (||a_ov||^2
// + ||b_ov||^2 + eps), where _ov denotes the overlapping region at that
// shift.
func SlidingWeightedMSE(a, b []float64, eps float64) []float64 {
	nA, nB := len(a), len(b)
	prefixA := prefixSquares(a)
	prefixB := prefixSquares(b)
	xc := crossCorrelate(a, b)

	out := make([]float64, nA+nB-1)
	for j := range out {
		lag := j - (nB - 1)
		aStart := max(0, lag)
		aEnd := min(nA, nB+lag)
		if aEnd <= aStart {
			out[j] = 0
			continue
		}
		sumA := prefixA[aEnd] - prefixA[aStart]
		sumB := prefixB[aEnd-lag] - prefixB[aStart-lag]
		numerator := sumA + sumB - 2*xc[j]
		denominator := sumA + sumB + eps
		if denominator <= 0 {
			out[j] = 0
			continue
		}
		out[j] = numerator / denominator
	}
	return out
}

// AutoSlidingWeightedMSE is SlidingWeightedMSE(x, x, eps) restricted to
// nonnegative lags, i.e. result[lag] for lag in [0, len(x)).
func AutoSlidingWeightedMSE(x []float64, eps float64) []float64 {
	full := SlidingWeightedMSE(x, x, eps)
	n := len(x)
	out := make([]float64, n)
	copy(out, full[n-1:])
	return out
}

// AudioAutoMSE runs the noise-weighted sliding MSE of the signal against
// itself, at every nonnegative lag. useMono selects the mono mixdown;
// otherwise the stereo channels are each differenced and averaged.
func AudioAutoMSE(audio *pcm.AudioDataFloat, useMono bool, eps float64) []float64 {
	if useMono {
		return AutoSlidingWeightedMSE(toFloat64(audio.Mono), eps)
	}
	c0 := AutoSlidingWeightedMSE(toFloat64(audio.Channel0), eps)
	c1 := AutoSlidingWeightedMSE(toFloat64(audio.Channel1), eps)
	out := make([]float64, len(c0))
	for i := range out {
		out[i] = (c0[i] + c1[i]) / 2
	}
	return out
}

// AudioMSE performs a noise-weighted sliding MSE between two explicit frame
// subranges of the signal, [startFirst,endFirst) and [startSecond,endSecond).
func AudioMSE(audio *pcm.AudioDataFloat, useMono bool, startFirst, endFirst, startSecond, endSecond int, eps float64) []float64 {
	if useMono {
		return SlidingWeightedMSE(
			toFloat64(audio.Mono[startFirst:endFirst]),
			toFloat64(audio.Mono[startSecond:endSecond]),
			eps,
		)
	}
	c0 := SlidingWeightedMSE(
		toFloat64(audio.Channel0[startFirst:endFirst]),
		toFloat64(audio.Channel0[startSecond:endSecond]),
		eps,
	)
	c1 := SlidingWeightedMSE(
		toFloat64(audio.Channel1[startFirst:endFirst]),
		toFloat64(audio.Channel1[startSecond:endSecond]),
		eps,
	)
	out := make([]float64, len(c0))
	for i := range out {
		out[i] = (c0[i] + c1[i]) / 2
	}
	return out
}
