package loopfind

import (
	"math"

	"github.com/austinkregel/loopfind/internal/config"
)

// slopeFromPenalty converts a penalty in [0,1] into the linear bias slope
// applied per second of deviation from an estimate: 0 is no bias
// (rectangular weighting within the allowed radius), 1 is an infinite slope
// forbidding any deviation at all.
func slopeFromPenalty(penalty float64) float64 {
	if penalty >= 1 {
		return math.Inf(1)
	}
	if penalty <= 0 {
		return 0
	}
	return penalty / (1 - penalty)
}

// tauLimits returns the legal base-duration (lag) frame range when both
// endpoint estimates are present, bounding the search to
// [estimate-radius, estimate+radius]. has is false when either estimate is
// absent, in which case lo/hi cover every positive lag below numFrames.
func tauLimits(cfg *config.LoopFinderConfig, sampleRate float64, numFrames int) (lo, hi int, has bool) {
	if !cfg.HasT1Estimate() || !cfg.HasT2Estimate() {
		return 1, numFrames - 1, false
	}
	estFrames := (cfg.T2Estimate - cfg.T1Estimate) * sampleRate
	radiusFrames := cfg.TauRadius * sampleRate
	lo = int(math.Max(1, estFrames-radiusFrames))
	hi = int(math.Min(float64(numFrames-1), estFrames+radiusFrames))
	return lo, hi, true
}

// t1Limits returns the legal start-frame range around T1Estimate.
func t1Limits(cfg *config.LoopFinderConfig, sampleRate float64, numFrames int) (lo, hi int, has bool) {
	if !cfg.HasT1Estimate() {
		return 0, numFrames - 1, false
	}
	estFrames := cfg.T1Estimate * sampleRate
	radiusFrames := cfg.T1Radius * sampleRate
	lo = int(math.Max(0, estFrames-radiusFrames))
	hi = int(math.Min(float64(numFrames-1), estFrames+radiusFrames))
	return lo, hi, true
}

// t2Limits returns the legal end-frame range around T2Estimate.
func t2Limits(cfg *config.LoopFinderConfig, sampleRate float64, numFrames int) (lo, hi int, has bool) {
	if !cfg.HasT2Estimate() {
		return 0, numFrames - 1, false
	}
	estFrames := cfg.T2Estimate * sampleRate
	radiusFrames := cfg.T2Radius * sampleRate
	lo = int(math.Max(0, estFrames-radiusFrames))
	hi = int(math.Min(float64(numFrames-1), estFrames+radiusFrames))
	return lo, hi, true
}
