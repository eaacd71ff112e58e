package loopcandidate

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Region describes an inferred loop region in window-index terms, along
// with its sample bounds and the cutoff that defines it.
type Region struct {
	StartWindow int
	EndWindow   int
	StartSample int
	EndSample   int
	Cutoff      float64
}

// InferLoopRegion fits a cutoff MSE value such that the contiguous run of
// windows at or under that cutoff is as long as possible, using a 30th
// percentile value as the starting candidate and then tightening to the
// run's own maximum.
func InferLoopRegion(specMSEs []float64, startSamples, windowSizes []int) Region {
	if len(specMSEs) == 0 {
		return Region{}
	}

	sorted := append([]float64(nil), specMSEs...)
	sort.Float64s(sorted)
	initialCutoff := stat.Quantile(0.30, stat.Empirical, sorted, nil)

	bestStart, bestEnd, bestLen := 0, 0, 0
	curStart := -1
	for i, mse := range specMSEs {
		if mse <= initialCutoff {
			if curStart == -1 {
				curStart = i
			}
			if i-curStart+1 > bestLen {
				bestStart, bestEnd, bestLen = curStart, i, i-curStart+1
			}
		} else {
			curStart = -1
		}
	}

	cutoff := 0.0
	for i := bestStart; i <= bestEnd; i++ {
		if specMSEs[i] > cutoff {
			cutoff = specMSEs[i]
		}
	}

	startSample := startSamples[bestStart]
	endSample := startSamples[bestEnd] + windowSizes[bestEnd]
	return Region{
		StartWindow: bestStart,
		EndWindow:   bestEnd,
		StartSample: startSample,
		EndSample:   endSample,
		Cutoff:      cutoff,
	}
}

// MatchLength sums effectiveWindowDurations for windows at or under cutoff.
func MatchLength(specMSEs, effectiveWindowDurations []float64, cutoff float64) float64 {
	var total float64
	for i, mse := range specMSEs {
		if mse <= cutoff {
			total += effectiveWindowDurations[i]
		}
	}
	return total
}

// MismatchLength sums effectiveWindowDurations for windows outside
// [regionStart, regionEnd] that exceed cutoff.
func MismatchLength(specMSEs, effectiveWindowDurations []float64, regionStart, regionEnd int, cutoff float64) float64 {
	var total float64
	for i, mse := range specMSEs {
		if i >= regionStart && i <= regionEnd {
			continue
		}
		if mse > cutoff {
			total += effectiveWindowDurations[i]
		}
	}
	return total
}

// BiasedMeanSpectrumMSE averages the lower (1-alpha) proportion of
// specMSEs[regionStart:regionEnd+1], excluding the top alpha quantile.
func BiasedMeanSpectrumMSE(specMSEs []float64, regionStart, regionEnd int, alpha float64) float64 {
	if regionEnd < regionStart || regionEnd >= len(specMSEs) {
		return 0
	}
	window := append([]float64(nil), specMSEs[regionStart:regionEnd+1]...)
	if len(window) == 0 {
		return 0
	}
	sorted := append([]float64(nil), window...)
	sort.Float64s(sorted)
	cutoff := stat.Quantile(1-alpha, stat.LinInterp, sorted, nil)

	var sum float64
	var count int
	for _, v := range window {
		if v <= cutoff {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// BiasedMeanSpectrumMSEDefault runs BiasedMeanSpectrumMSE with alpha=0.1.
func BiasedMeanSpectrumMSEDefault(specMSEs []float64, regionStart, regionEnd int) float64 {
	return BiasedMeanSpectrumMSE(specMSEs, regionStart, regionEnd, 0.1)
}
