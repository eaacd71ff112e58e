package loopcandidate

import (
	"math"
	"testing"

	"github.com/austinkregel/loopfind/internal/pcm"
)

func TestRefineLagFindsExactPeriod(t *testing.T) {
	period := 10
	n := period * 8
	ch := make([]float32, n)
	for i := range ch {
		ch[i] = float32(math.Sin(2 * math.Pi * float64(i%period) / float64(period)))
	}
	audio := &pcm.AudioDataFloat{NumFrames: n, Channel0: ch, Channel1: ch}

	got := RefineLag(audio, false, period+2, 0, n-period-2, 4, 1e-9)
	if got != period {
		t.Errorf("RefineLag = %d, want %d", got, period)
	}
}

func TestNwmseAtIdenticalIsZero(t *testing.T) {
	a := []float32{1, -1, 2, -2}
	if got := nwmseAt(a, a, 1e-9); got > 1e-6 {
		t.Errorf("nwmseAt(a, a) = %v, want ~0", got)
	}
}
