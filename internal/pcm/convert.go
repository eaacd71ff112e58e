package pcm

// Normalization divisors for integer PCM formats: 1/2^(bits-1).
const (
	int16Scale = 1.0 / 32768.0
	int32Scale = 1.0 / 2147483648.0
)

// PickReductionFactor returns the smallest integer F in [1, limit] such that
// floor(numFrames/F) <= lengthCap. If no such F exists within the limit, it
// returns limit; the caller is then responsible for additionally truncating
// to lengthCap*F frames before reducing.
func PickReductionFactor(numFrames, limit, lengthCap int) int {
	if limit < 1 {
		limit = 1
	}
	if lengthCap <= 0 {
		return limit
	}
	for f := 1; f <= limit; f++ {
		if numFrames/f <= lengthCap {
			return f
		}
	}
	return limit
}

// ConvertToFloatStereo de-interleaves audio into a normalized stereo float
// buffer, applying a boxcar framerate reduction by reductionFactor. Mono
// input is duplicated into both channels. reductionFactor must be >= 1.
func ConvertToFloatStereo(audio *AudioData, reductionFactor int) *AudioDataFloat {
	if reductionFactor < 1 {
		reductionFactor = 1
	}
	numFrames := audio.NumFrames()

	c0 := make([]float32, numFrames)
	c1 := make([]float32, numFrames)

	switch audio.Format {
	case FormatInt16:
		deinterleaveInt16(audio, c0, c1)
	case FormatInt32:
		deinterleaveInt32(audio, c0, c1)
	case FormatFloat32:
		deinterleaveFloat32(audio, c0, c1)
	}

	reducedLen := numFrames / reductionFactor
	out := &AudioDataFloat{
		NumFrames:  reducedLen,
		Channel0:   reduceFramerate(c0, reductionFactor),
		Channel1:   reduceFramerate(c1, reductionFactor),
		SampleRate: audio.SampleRate / float64(reductionFactor),
	}
	return out
}

func deinterleaveInt16(audio *AudioData, c0, c1 []float32) {
	n := audio.NumChannels
	for i := 0; i < len(c0); i++ {
		c0[i] = float32(audio.Int16[i*n]) * int16Scale
		if n == 1 {
			c1[i] = c0[i]
		} else {
			c1[i] = float32(audio.Int16[i*n+1]) * int16Scale
		}
	}
}

func deinterleaveInt32(audio *AudioData, c0, c1 []float32) {
	n := audio.NumChannels
	for i := 0; i < len(c0); i++ {
		c0[i] = float32(audio.Int32[i*n]) * int32Scale
		if n == 1 {
			c1[i] = c0[i]
		} else {
			c1[i] = float32(audio.Int32[i*n+1]) * int32Scale
		}
	}
}

func deinterleaveFloat32(audio *AudioData, c0, c1 []float32) {
	n := audio.NumChannels
	for i := 0; i < len(c0); i++ {
		c0[i] = audio.Float32[i*n]
		if n == 1 {
			c1[i] = c0[i]
		} else {
			c1[i] = audio.Float32[i*n+1]
		}
	}
}

// reduceFramerate performs boxcar averaging: reduced[k] = mean(x[kF:(k+1)F]).
// Output length is floor(len(x)/F).
func reduceFramerate(x []float32, f int) []float32 {
	if f == 1 {
		out := make([]float32, len(x))
		copy(out, x)
		return out
	}
	n := len(x) / f
	out := make([]float32, n)
	inv := float32(1.0 / float64(f))
	for k := 0; k < n; k++ {
		var sum float32
		base := k * f
		for j := 0; j < f; j++ {
			sum += x[base+j]
		}
		out[k] = sum * inv
	}
	return out
}
