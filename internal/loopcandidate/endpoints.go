package loopcandidate

import (
	"math"

	"github.com/austinkregel/loopfind/internal/pcm"
)

// EndpointPairs holds the ranked starting points for one base lag, each
// with its own refined lag and amplitude sample difference.
type EndpointPairs struct {
	Starts      []int
	Lags        []int
	SampleDiffs []float64
}

// sampleDiff is the amplitude gap (stereo, summed absolute) between the
// proposed start and end frames.
func sampleDiff(audio *pcm.AudioDataFloat, start, lag int) float64 {
	end := start + lag
	if end >= audio.NumFrames {
		return math.Inf(1)
	}
	d0 := float64(audio.Channel0[start]) - float64(audio.Channel0[end])
	d1 := float64(audio.Channel1[start]) - float64(audio.Channel1[end])
	return absF(d0) + absF(d1)
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// FindEndpointPairs evaluates each candidate start against lag (refining it
// locally within tauRadius), scores it by sampleDiff, and returns the
// nBestPairs candidates minimizing sampleDiff, subject to spaced-minima NMS
// on the start position with the given minimum spacing (frames).
func FindEndpointPairs(audio *pcm.AudioDataFloat, lag int, starts []int, tauRadius, nBestPairs, minSpacing int, eps float64) EndpointPairs {
	refinedLags := make([]int, len(starts))
	diffs := make([]float64, len(starts))

	for i, s := range starts {
		local := RefineLag(audio, false, lag, s, min(s+lag, audio.NumFrames), tauRadius, eps)
		refinedLags[i] = local
		diffs[i] = sampleDiff(audio, s, local)
	}

	pickedStarts, pickedDiffs := SpacedMinimaSparse(starts, diffs, nBestPairs, minSpacing)

	out := EndpointPairs{
		Starts:      pickedStarts,
		Lags:        make([]int, len(pickedStarts)),
		SampleDiffs: pickedDiffs,
	}
	for i, s := range pickedStarts {
		for j, orig := range starts {
			if orig == s {
				out.Lags[i] = refinedLags[j]
				break
			}
		}
	}
	return out
}
