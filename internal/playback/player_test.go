package playback

import "testing"

func decodeInt16(out []byte) []int16 {
	n := len(out) / 2
	vals := make([]int16, n)
	for i := 0; i < n; i++ {
		vals[i] = int16(uint16(out[2*i]) | uint16(out[2*i+1])<<8)
	}
	return vals
}

func TestReadEmitsSamplesInOrder(t *testing.T) {
	p := &Player{
		samples:          []int16{1, 2, 3, 4, 5, 6},
		numSamples:       6,
		volumeMultiplier: 1.0,
		playing:          true,
		channels:         1,
	}
	out := make([]byte, 6*2)
	n, err := p.Read(out)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if n != len(out) {
		t.Fatalf("Read() n = %d, want %d", n, len(out))
	}
	got := decodeInt16(out)
	want := []int16{1, 2, 3, 4, 5, 6}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestReadWritesSilenceWhenNotPlaying(t *testing.T) {
	p := &Player{
		samples:          []int16{1, 2, 3},
		numSamples:       3,
		volumeMultiplier: 1.0,
		playing:          false,
	}
	out := make([]byte, 6)
	if _, err := p.Read(out); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	for i, b := range out {
		if b != 0 {
			t.Errorf("byte %d = %d, want 0 (silence)", i, b)
		}
	}
}

func TestReadWrapsAtLoopEnd(t *testing.T) {
	p := &Player{
		samples:          []int16{10, 20, 30, 40, 50},
		numSamples:       5,
		volumeMultiplier: 1.0,
		playing:          true,
		channels:         1,
		loopPlayback:     true,
		loopStart:        1,
		loopEnd:          3,
	}
	out := make([]byte, 8*2)
	if _, err := p.Read(out); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	got := decodeInt16(out)
	want := []int16{10, 20, 30, 40, 20, 30, 40, 20}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %d, want %d (full sequence %v)", i, got[i], want[i], got)
		}
	}
}

func TestReadStopsAtEndWithoutLoop(t *testing.T) {
	p := &Player{
		samples:          []int16{1, 2, 3},
		numSamples:       3,
		volumeMultiplier: 1.0,
		playing:          true,
		channels:         1,
		loopPlayback:     false,
	}
	out := make([]byte, 6*2)
	if _, err := p.Read(out); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if p.playing {
		t.Error("expected playback to stop once non-looping buffer is exhausted")
	}
	got := decodeInt16(out)
	want := []int16{1, 2, 3, 0, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSetVolumeClamps(t *testing.T) {
	p := &Player{volumeMultiplier: 1.0}
	p.SetVolume(-1)
	if p.volumeMultiplier != 0 {
		t.Errorf("volume = %v, want clamped to 0", p.volumeMultiplier)
	}
	p.SetVolume(5)
	if p.volumeMultiplier != 1 {
		t.Errorf("volume = %v, want clamped to 1", p.volumeMultiplier)
	}
}

func TestSetLoopPointsConvertsFramesToSamples(t *testing.T) {
	p := &Player{channels: 2}
	p.SetLoopPoints(10, 20)
	if p.loopStart != 20 || p.loopEnd != 40 {
		t.Errorf("loopStart/loopEnd = %d/%d, want 20/40", p.loopStart, p.loopEnd)
	}
}
