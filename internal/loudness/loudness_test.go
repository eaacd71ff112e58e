package loudness

import (
	"math"
	"testing"
)

func TestPowToDB(t *testing.T) {
	if got := PowToDB(DBReferencePower); math.Abs(got) > 1e-9 {
		t.Errorf("PowToDB(ref) = %v, want 0", got)
	}
	if got := PowToDB(DBReferencePower * 10); math.Abs(got-10) > 1e-9 {
		t.Errorf("PowToDB(10*ref) = %v, want 10", got)
	}
}

func TestAvgVolumeDBSilence(t *testing.T) {
	c0 := make([]float32, 100)
	c1 := make([]float32, 100)
	db := AvgVolumeDB(c0, c1)
	if !math.IsInf(db, -1) {
		t.Errorf("AvgVolumeDB(silence) = %v, want -Inf", db)
	}
}

func TestIntegratedLoudnessRejectsBadChannelCount(t *testing.T) {
	data := make([]float32, 100)
	if _, err := IntegratedLoudness(data, 3, 44100); err == nil {
		t.Error("expected error for unsupported channel count")
	}
}

func TestIntegratedLoudnessRejectsEmptyBuffer(t *testing.T) {
	if _, err := IntegratedLoudness(nil, 2, 44100); err == nil {
		t.Error("expected error for empty buffer")
	}
}

func TestIntegratedLoudnessOnSilenceIsGated(t *testing.T) {
	// A silent track never passes the absolute gate, so the result should
	// be very negative rather than a computed value close to 0 LUFS.
	sampleRate := 44100.0
	data := make([]float32, int(sampleRate*2)*2)
	lufs, err := IntegratedLoudness(data, 2, sampleRate)
	if err != nil {
		t.Fatalf("IntegratedLoudness returned error: %v", err)
	}
	if lufs > -60 {
		t.Errorf("IntegratedLoudness(silence) = %v, expected a very low value", lufs)
	}
}

func TestMean(t *testing.T) {
	if got := mean([]float64{1, 2, 3}); got != 2 {
		t.Errorf("mean = %v, want 2", got)
	}
	if got := mean(nil); got != 0 {
		t.Errorf("mean(nil) = %v, want 0", got)
	}
}
