package pcm

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/austinkregel/loopfind/internal/looperr"
)

// DecodeWAV reads a RIFF/WAV stream into an AudioData. This is the one
// concrete producer of AudioData in this module: no other container format
// is parsed here, matching the core's "no file-format parsing" boundary.
func DecodeWAV(r io.ReadSeeker) (*AudioData, error) {
	dec := wav.NewDecoder(r)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return nil, looperr.New(looperr.KindBadInput, "pcm: not a valid WAV stream")
	}

	var buf *audio.IntBuffer
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("pcm: reading WAV samples: %w", err)
	}

	audio := &AudioData{
		NumChannels: buf.Format.NumChannels,
		SampleRate:  float64(buf.Format.SampleRate),
	}

	switch dec.BitDepth {
	case 16:
		audio.Format = FormatInt16
		audio.Int16 = make([]int16, len(buf.Data))
		for i, s := range buf.Data {
			audio.Int16[i] = int16(s)
		}
	case 32:
		audio.Format = FormatInt32
		audio.Int32 = make([]int32, len(buf.Data))
		for i, s := range buf.Data {
			audio.Int32[i] = int32(s)
		}
	default:
		return nil, looperr.New(looperr.KindBadInput, "pcm: unsupported WAV bit depth %d", dec.BitDepth)
	}

	if err := audio.Validate(); err != nil {
		return nil, err
	}
	return audio, nil
}
