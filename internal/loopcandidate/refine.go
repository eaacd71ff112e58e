package loopcandidate

import "github.com/austinkregel/loopfind/internal/pcm"

// nwmseAt computes a single noise-weighted MSE between two equal-length
// slices with no relative shift: a direct, non-FFT evaluation used for the
// small local searches lag refinement and endpoint scoring do, where
// building a full cross-correlation curve would be wasted work.
func nwmseAt(a, b []float32, eps float64) float64 {
	n := len(a)
	if n > len(b) {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	var numerator, sumA, sumB float64
	for i := 0; i < n; i++ {
		da := float64(a[i])
		db := float64(b[i])
		diff := da - db
		numerator += diff * diff
		sumA += da * da
		sumB += db * db
	}
	denominator := sumA + sumB + eps
	if denominator <= 0 {
		return 0
	}
	return numerator / denominator
}

// RefineLag searches a small neighborhood of baseLag (bounded by tauRadius
// frames) within [regionStartSample, regionEndSample) and returns the lag
// value minimizing the noise-weighted MSE, correcting sub-window drift left
// by the coarse spectrogram stage.
func RefineLag(audio *pcm.AudioDataFloat, useMono bool, baseLag, regionStartSample, regionEndSample, tauRadius int, eps float64) int {
	n := audio.NumFrames
	bestLag := baseLag
	bestScore := -1.0

	for lag := baseLag - tauRadius; lag <= baseLag+tauRadius; lag++ {
		if lag <= 0 {
			continue
		}
		end := regionEndSample
		if end+lag > n {
			end = n - lag
		}
		if end <= regionStartSample {
			continue
		}
		var score float64
		if useMono {
			score = nwmseAt(audio.Mono[regionStartSample:end], audio.Mono[regionStartSample+lag:end+lag], eps)
		} else {
			s0 := nwmseAt(audio.Channel0[regionStartSample:end], audio.Channel0[regionStartSample+lag:end+lag], eps)
			s1 := nwmseAt(audio.Channel1[regionStartSample:end], audio.Channel1[regionStartSample+lag:end+lag], eps)
			score = (s0 + s1) / 2
		}
		if bestScore < 0 || score < bestScore {
			bestScore = score
			bestLag = lag
		}
	}
	return bestLag
}
