package loopfind

import (
	"math"
	"sort"

	"github.com/austinkregel/loopfind/internal/config"
	"github.com/austinkregel/loopfind/internal/loopcandidate"
	"github.com/austinkregel/loopfind/internal/loopsignal"
	"github.com/austinkregel/loopfind/internal/loopspectra"
	"github.com/austinkregel/loopfind/internal/looperr"
	"github.com/austinkregel/loopfind/internal/pcm"
)

// FindLoopNoEstimate searches the full signal for base-duration candidates
// with no prior knowledge of where the loop starts or ends.
func FindLoopNoEstimate(audio *pcm.AudioDataFloat, cfg *config.LoopFinderConfig) (*FindLoopResult, error) {
	return findLoop(audio, cfg, false)
}

// FindLoopWithEstimate behaves like FindLoopNoEstimate but, when the config
// carries T1/T2 estimates, restricts and biases the search around them.
func FindLoopWithEstimate(audio *pcm.AudioDataFloat, cfg *config.LoopFinderConfig) (*FindLoopResult, error) {
	return findLoop(audio, cfg, true)
}

func monoOrAverageSignal(audio *pcm.AudioDataFloat, useMono bool) []float64 {
	if useMono {
		return toFloat64(audio.Mono)
	}
	out := make([]float64, audio.NumFrames)
	for i := 0; i < audio.NumFrames; i++ {
		out[i] = (float64(audio.Channel0[i]) + float64(audio.Channel1[i])) / 2
	}
	return out
}

func toFloat64(x []float32) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = float64(v)
	}
	return out
}

func filterOutsideWindow(values []float64, lo, hi int) {
	for i := range values {
		if i < lo || i > hi {
			values[i] = math.Inf(1)
		}
	}
}

func findLoop(audio *pcm.AudioDataFloat, cfg *config.LoopFinderConfig, useEstimate bool) (*FindLoopResult, error) {
	if audio == nil || audio.NumFrames == 0 {
		return nil, looperr.New(looperr.KindBadInput, "loopfind: empty audio")
	}
	sampleRate := audio.SampleRate
	n := audio.NumFrames

	autoMSE := loopsignal.AudioAutoMSE(audio, cfg.UseMonoAudio, cfg.NoiseRegularization)

	leftIgnore := int(cfg.LeftIgnore * sampleRate)
	rightIgnore := int(cfg.RightIgnore * sampleRate)
	filterOutsideWindow(autoMSE, leftIgnore, len(autoMSE)-1-rightIgnore)

	var tauSlope, tauEstFrames float64
	var tauLo, tauHi int
	haveTauWindow := false
	if useEstimate {
		lo, hi, has := tauLimits(cfg, sampleRate, len(autoMSE))
		if has {
			filterOutsideWindow(autoMSE, lo, hi)
			haveTauWindow = true
			tauLo, tauHi = lo, hi
			tauSlope = slopeFromPenalty(cfg.TauPenalty)
			tauEstFrames = (cfg.T2Estimate - cfg.T1Estimate) * sampleRate
		}
	}

	minSpacing := int(cfg.MinTimeDiff * sampleRate)
	lagIdx, _ := loopcandidate.SpacedMinima(autoMSE, cfg.NBestDurations, minSpacing)
	if len(lagIdx) == 0 {
		return empty(), looperr.New(looperr.KindNoCandidates, "loopfind: no base duration candidates in search window")
	}

	var t1Lo, t1Hi int
	haveT1Window := false
	var t2Lo, t2Hi int
	haveT2Window := false
	var t1Slope, t2Slope, t1EstFrames, t2EstFrames float64
	if useEstimate {
		if lo, hi, has := t1Limits(cfg, sampleRate, n); has {
			t1Lo, t1Hi, haveT1Window = lo, hi, true
			t1Slope = slopeFromPenalty(cfg.T1Penalty)
			t1EstFrames = cfg.T1Estimate * sampleRate
		}
		if lo, hi, has := t2Limits(cfg, sampleRate, n); has {
			t2Lo, t2Hi, haveT2Window = lo, hi, true
			t2Slope = slopeFromPenalty(cfg.T2Penalty)
			t2EstFrames = cfg.T2Estimate * sampleRate
		}
	}

	signal := monoOrAverageSignal(audio, cfg.UseMonoAudio)
	nyquist := sampleRate / 2
	tauRadiusFrames := int(cfg.TauRadius * sampleRate)
	endpointMinSpacing := int(cfg.MinTimeDiff * sampleRate)

	results := make([]lagAnalysis, 0, len(lagIdx))
	for _, lag := range lagIdx {
		if lag <= 0 || lag >= n {
			continue
		}

		spec := loopspectra.DiffSpectrogram(signal, lag, cfg.FFTLength, cfg.OverlapPercent, sampleRate, nyquist, cfg.PowRef)
		if len(spec.MSEs) == 0 {
			continue
		}

		region := loopcandidate.InferLoopRegion(spec.MSEs, spec.StartSamples, spec.WindowSizes)
		refinedLag := loopcandidate.RefineLag(audio, cfg.UseMonoAudio, lag, region.StartSample, region.EndSample, tauRadiusFrames, cfg.NoiseRegularization)
		if haveTauWindow && (refinedLag < tauLo || refinedLag > tauHi) {
			refinedLag = lag
		}

		starts := make([]int, 0, region.EndWindow-region.StartWindow+1)
		for i := region.StartWindow; i <= region.EndWindow; i++ {
			s := spec.StartSamples[i]
			if haveT1Window && (s < t1Lo || s > t1Hi) {
				continue
			}
			if haveT2Window {
				end := s + refinedLag
				if end < t2Lo || end > t2Hi {
					continue
				}
			}
			starts = append(starts, s)
		}
		if len(starts) == 0 {
			continue
		}

		pairs := loopcandidate.FindEndpointPairs(audio, refinedLag, starts, tauRadiusFrames, cfg.NBestPairs, endpointMinSpacing, cfg.NoiseRegularization)
		if len(pairs.Starts) == 0 {
			continue
		}

		loss := loopcandidate.BiasedMeanSpectrumMSEDefault(spec.MSEs, region.StartWindow, region.EndWindow)
		if haveTauWindow {
			loss += tauSlope * math.Abs(float64(refinedLag)-tauEstFrames) / sampleRate
		}
		if haveT1Window {
			loss += t1Slope * math.Abs(float64(pairs.Starts[0])-t1EstFrames) / sampleRate
		}
		if haveT2Window {
			loss += t2Slope * math.Abs(float64(pairs.Starts[0]+pairs.Lags[0])-t2EstFrames) / sampleRate
		}

		endFrames := make([]int, len(pairs.Starts))
		for i, s := range pairs.Starts {
			endFrames[i] = s + pairs.Lags[i]
		}

		results = append(results, lagAnalysis{
			lag:               refinedLag,
			startFrames:       pairs.Starts,
			endFrames:         endFrames,
			sampleDiffs:       pairs.SampleDiffs,
			biasedSpectrumMSE: loss,
		})
	}

	if len(results) == 0 {
		return empty(), looperr.New(looperr.KindNoCandidates, "loopfind: no base duration candidates survived region inference")
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].lag != results[j].lag {
			return results[i].lag < results[j].lag
		}
		return results[i].startFrames[0] < results[j].startFrames[0]
	})

	losses := make([]float64, len(results))
	for i, r := range results {
		losses[i] = r.biasedSpectrumMSE
	}
	confidences, degenerate := CalcConfidence(losses, cfg.ConfidenceRegularization)

	out := &FindLoopResult{
		BaseDurations:     make([]int, len(results)),
		StartFrames:       make([][]int, len(results)),
		EndFrames:         make([][]int, len(results)),
		Confidences:       confidences,
		SampleDifferences: make([][]float64, len(results)),
		Degenerate:        degenerate,
	}
	for i, r := range results {
		out.BaseDurations[i] = r.lag
		out.StartFrames[i] = r.startFrames
		out.EndFrames[i] = r.endFrames
		out.SampleDifferences[i] = r.sampleDiffs
	}
	return out, nil
}
