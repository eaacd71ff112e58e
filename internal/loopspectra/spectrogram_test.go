package loopspectra

import (
	"math"
	"testing"
)

func TestDiffSpectrogramIdenticalHalvesIsLowMSE(t *testing.T) {
	period := 64
	n := period * 8
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * float64(i%period) / float64(period))
	}

	info := DiffSpectrogram(signal, period, 32, 0.5, 1000, 500, 1e-12)
	if len(info.MSEs) == 0 {
		t.Fatal("expected nonempty spectrogram diff")
	}
	for i, mse := range info.MSEs {
		if mse > 1.0 {
			t.Errorf("window %d: MSE = %v, expected near-zero for a periodic signal at its own period", i, mse)
		}
	}
}

func TestDiffSpectrogramEffectiveWindowDurations(t *testing.T) {
	signal := make([]float64, 1000)
	info := DiffSpectrogram(signal, 100, 64, 0.5, 1000, 500, 1e-12)
	if len(info.EffectiveWindowDurations) != len(info.StartSamples) {
		t.Fatalf("duration count %d != window count %d", len(info.EffectiveWindowDurations), len(info.StartSamples))
	}
	for i := 0; i < len(info.StartSamples)-1; i++ {
		want := float64(info.StartSamples[i+1]-info.StartSamples[i]) / 1000
		if diff := info.EffectiveWindowDurations[i] - want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("window %d duration = %v, want %v", i, info.EffectiveWindowDurations[i], want)
		}
	}
}

func TestDiffSpectrogramEmptyForBadLag(t *testing.T) {
	signal := make([]float64, 1000)
	info := DiffSpectrogram(signal, 0, 64, 0.5, 1000, 500, 1e-12)
	if len(info.MSEs) != 0 {
		t.Error("expected no windows for a zero lag")
	}
	info = DiffSpectrogram(signal, 2000, 64, 0.5, 1000, 500, 1e-12)
	if len(info.MSEs) != 0 {
		t.Error("expected no windows for a lag exceeding signal length")
	}
}
