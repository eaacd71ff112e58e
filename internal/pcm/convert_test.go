package pcm

import "testing"

func TestPickReductionFactor(t *testing.T) {
	tests := []struct {
		name              string
		numFrames, limit, lengthCap int
		want              int
	}{
		{"already within cap", 1000, 10, 2000, 1},
		{"needs reduction", 20000, 10, 2000, 10},
		{"exact boundary", 4000, 10, 2000, 2},
		{"no cap configured", 20000, 10, 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PickReductionFactor(tt.numFrames, tt.limit, tt.lengthCap)
			if got != tt.want {
				t.Errorf("PickReductionFactor(%d,%d,%d) = %d, want %d", tt.numFrames, tt.limit, tt.lengthCap, got, tt.want)
			}
		})
	}
}

func TestConvertToFloatStereoMono(t *testing.T) {
	audio := &AudioData{
		Int16:       []int16{16384, -16384, 0, 32767},
		Format:      FormatInt16,
		NumChannels: 1,
		SampleRate:  44100,
	}
	out := ConvertToFloatStereo(audio, 1)
	if out.NumFrames != 4 {
		t.Fatalf("NumFrames = %d, want 4", out.NumFrames)
	}
	for i := range out.Channel0 {
		if out.Channel0[i] != out.Channel1[i] {
			t.Errorf("mono input should duplicate channel0 into channel1 at %d", i)
		}
	}
	if got := out.Channel0[0]; got < 0.49 || got > 0.51 {
		t.Errorf("Channel0[0] = %v, want ~0.5", got)
	}
}

func TestConvertToFloatStereoReduction(t *testing.T) {
	audio := &AudioData{
		Int16:       []int16{0, 0, 32767, 32767, 0, 0, 32767, 32767},
		Format:      FormatInt16,
		NumChannels: 2,
		SampleRate:  44100,
	}
	out := ConvertToFloatStereo(audio, 2)
	if out.NumFrames != 2 {
		t.Fatalf("NumFrames = %d, want 2", out.NumFrames)
	}
	if out.SampleRate != 22050 {
		t.Errorf("SampleRate = %v, want 22050", out.SampleRate)
	}
	want := float32(0.5)
	if diff := out.Channel0[0] - want; diff > 0.01 || diff < -0.01 {
		t.Errorf("Channel0[0] = %v, want ~%v", out.Channel0[0], want)
	}
}
