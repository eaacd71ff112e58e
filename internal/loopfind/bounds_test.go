package loopfind

import (
	"math"
	"testing"

	"github.com/austinkregel/loopfind/internal/config"
)

func TestSlopeFromPenalty(t *testing.T) {
	if got := slopeFromPenalty(0); got != 0 {
		t.Errorf("slope(0) = %v, want 0", got)
	}
	if got := slopeFromPenalty(1); !math.IsInf(got, 1) {
		t.Errorf("slope(1) = %v, want +Inf", got)
	}
	if got := slopeFromPenalty(0.5); got != 1 {
		t.Errorf("slope(0.5) = %v, want 1", got)
	}
}

func TestTauLimitsAbsentWithoutBothEstimates(t *testing.T) {
	cfg := config.DefaultConfig()
	_, _, has := tauLimits(cfg, 44100, 1000)
	if has {
		t.Error("expected no tau window without both T1 and T2 estimates")
	}
}

func TestTauLimitsBoundedByRadius(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.T1Estimate = 0
	cfg.T2Estimate = 10
	cfg.TauRadius = 1
	sampleRate := 100.0
	numFrames := 2000

	lo, hi, has := tauLimits(cfg, sampleRate, numFrames)
	if !has {
		t.Fatal("expected tau window to be present")
	}
	estFrames := 10 * sampleRate
	radiusFrames := 1 * sampleRate
	if float64(lo) != estFrames-radiusFrames || float64(hi) != estFrames+radiusFrames {
		t.Errorf("tau window = [%d,%d], want [%v,%v]", lo, hi, estFrames-radiusFrames, estFrames+radiusFrames)
	}
}

func TestT1LimitsClampToZero(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.T1Estimate = 0
	cfg.T1Radius = 5
	lo, _, has := t1Limits(cfg, 100, 2000)
	if !has {
		t.Fatal("expected T1 window present")
	}
	if lo != 0 {
		t.Errorf("lo = %d, want clamped to 0", lo)
	}
}

func TestT2LimitsClampToEnd(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.T2Estimate = 19.9
	cfg.T2Radius = 5
	numFrames := 2000
	_, hi, has := t2Limits(cfg, 100, numFrames)
	if !has {
		t.Fatal("expected T2 window present")
	}
	if hi != numFrames-1 {
		t.Errorf("hi = %d, want clamped to %d", hi, numFrames-1)
	}
}
