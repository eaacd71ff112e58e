// Package loudness implements an EBU R128 / ITU-R BS.1770-4 integrated
// loudness meter and the simpler legacy average-power/dB metric the loop
// finder uses as a fallback. There is no third-party Go loudness library in
// this module's dependency lineage, so this is a from-scratch K-weighting
// meter, matching the shape of the only loudness-meter code observed
// elsewhere in that lineage.
package loudness

import (
	"math"

	"github.com/austinkregel/loopfind/internal/looperr"
)

// DBReferencePower is the reference power level used by powToDB, matching
// the convention the legacy average-volume metric is defined against.
const DBReferencePower = 1e-12

// PowToDB converts a power value to a decibel level relative to
// DBReferencePower.
func PowToDB(power float64) float64 {
	if power <= 0 {
		return math.Inf(-1)
	}
	return 10 * math.Log10(power/DBReferencePower)
}

// AvgPower returns the mean of channel0^2 and channel1^2 averaged over both
// channels.
func AvgPower(channel0, channel1 []float32) float64 {
	var sum0, sum1 float64
	n := len(channel0)
	if n == 0 {
		return 0
	}
	for i := 0; i < n; i++ {
		v0 := float64(channel0[i])
		v1 := float64(channel1[i])
		sum0 += v0 * v0
		sum1 += v1 * v1
	}
	mean0 := sum0 / float64(n)
	mean1 := sum1 / float64(n)
	return (mean0 + mean1) / 2
}

// AvgVolumeDB is the legacy fallback metric: 10*log10(avgPower/reference).
func AvgVolumeDB(channel0, channel1 []float32) float64 {
	return PowToDB(AvgPower(channel0, channel1))
}

// biquad is a direct-form II transposed second-order IIR section.
type biquad struct {
	b0, b1, b2, a1, a2 float64
	z1, z2             float64
}

func (f *biquad) process(x float64) float64 {
	y := f.b0*x + f.z1
	f.z1 = f.b1*x - f.a1*y + f.z2
	f.z2 = f.b2*x - f.a2*y
	return y
}

// kWeightingFilters builds the pre-filter (high shelf) and RLB (high pass)
// biquads from ITU-R BS.1770-4 §5, specialized for sampleRate.
func kWeightingFilters(sampleRate float64) (pre, rlb *biquad) {
	// Coefficients per the standard's reference design at 48kHz, adapted to
	// the actual sample rate via the standard's bilinear-transform formulas.
	db := 3.999843853973347
	f0 := 1681.9744509555319
	q := 0.7071752369554196
	k := math.Tan(math.Pi * f0 / sampleRate)
	vh := math.Pow(10.0, db/20.0)
	vb := math.Pow(vh, 0.4996667741545416)
	a0 := 1.0 + k/q + k*k
	pre = &biquad{
		b0: (vh + vb*k/q + k*k) / a0,
		b1: 2.0 * (k*k - vh) / a0,
		b2: (vh - vb*k/q + k*k) / a0,
		a1: 2.0 * (k*k - 1.0) / a0,
		a2: (1.0 - k/q + k*k) / a0,
	}

	f0 = 38.13547087613982
	q = 0.5003270373238773
	k = math.Tan(math.Pi * f0 / sampleRate)
	rlb = &biquad{
		b0: 1.0,
		b1: -2.0,
		b2: 1.0,
		a1: 2.0 * (k*k - 1.0) / (1.0 + k/q + k*k),
		a2: (1.0 - k/q + k*k) / (1.0 + k/q + k*k),
	}
	return pre, rlb
}

const (
	blockSeconds       = 0.4
	overlap            = 0.75
	absoluteGateLUFS   = -70.0
	relativeGateOffset = -10.0
)

// IntegratedLoudness computes the gated integrated loudness, in LUFS, of an
// interleaved multi-channel float buffer per ITU-R BS.1770-4. channelCount
// must match the interleaving of data.
func IntegratedLoudness(data []float32, channelCount int, sampleRate float64) (float64, error) {
	if channelCount < 1 || channelCount > 2 {
		return 0, looperr.New(looperr.KindLoudnessEngineFailure, "loudness: unsupported channel count %d", channelCount)
	}
	numFrames := len(data) / channelCount
	if numFrames == 0 {
		return 0, looperr.New(looperr.KindLoudnessEngineFailure, "loudness: empty buffer")
	}

	blockSize := int(blockSeconds * sampleRate)
	if blockSize <= 0 {
		return 0, looperr.New(looperr.KindLoudnessEngineFailure, "loudness: sample rate too low for a gating block")
	}
	hop := int(float64(blockSize) * (1 - overlap))
	if hop <= 0 {
		hop = 1
	}

	// K-weight each channel independently, then accumulate mean-square
	// power per gating block per channel.
	weighted := make([][]float64, channelCount)
	for c := 0; c < channelCount; c++ {
		pre, rlb := kWeightingFilters(sampleRate)
		out := make([]float64, numFrames)
		for i := 0; i < numFrames; i++ {
			x := float64(data[i*channelCount+c])
			out[i] = rlb.process(pre.process(x))
		}
		weighted[c] = out
	}

	var blockLoudness []float64
	for start := 0; start+blockSize <= numFrames; start += hop {
		sum := 0.0
		for c := 0; c < channelCount; c++ {
			var chSum float64
			ch := weighted[c]
			for i := start; i < start+blockSize; i++ {
				chSum += ch[i] * ch[i]
			}
			sum += chSum / float64(blockSize)
		}
		if sum <= 0 {
			blockLoudness = append(blockLoudness, math.Inf(-1))
			continue
		}
		blockLoudness = append(blockLoudness, -0.691+10*math.Log10(sum))
	}
	if len(blockLoudness) == 0 {
		return math.Inf(-1), nil
	}

	// Absolute gate.
	var gated []float64
	for _, l := range blockLoudness {
		if l > absoluteGateLUFS {
			gated = append(gated, l)
		}
	}
	if len(gated) == 0 {
		return math.Inf(-1), nil
	}

	// Relative gate: loudness of the mean power of the absolute-gated
	// blocks, minus 10 LU.
	relativeThreshold := powerMeanLoudness(gated) + relativeGateOffset
	var final []float64
	for _, l := range gated {
		if l > relativeThreshold {
			final = append(final, l)
		}
	}
	if len(final) == 0 {
		return math.Inf(-1), nil
	}
	return powerMeanLoudness(final), nil
}

// powerMeanLoudness averages block loudness values in the power domain and
// returns the loudness, in LUFS, of that mean power.
func powerMeanLoudness(blocks []float64) float64 {
	powers := make([]float64, len(blocks))
	for i, l := range blocks {
		powers[i] = math.Pow(10, (l+0.691)/10)
	}
	return -0.691 + 10*math.Log10(mean(powers))
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
