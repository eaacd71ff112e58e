// Package loopcandidate turns differencing/spectrogram curves into ranked
// loop-point candidates: spaced non-maximum suppression, loop-region
// inference, lag refinement, and endpoint-pair selection.
package loopcandidate

import "math"

// SpacedMinima selects up to n smallest values from a dense array, enforcing
// a minimum index spacing of minSpacing between any two chosen positions.
// Selection proceeds greedily: the current global minimum among
// not-yet-suppressed positions is taken, then a radius of minSpacing around
// it is suppressed, repeating until n picks are made or no candidates
// remain. Indices and Values are in selection order (ascending value), not
// sorted by index.
func SpacedMinima(values []float64, n, minSpacing int) (indices []int, picked []float64) {
	if n <= 0 || len(values) == 0 {
		return nil, nil
	}
	work := make([]float64, len(values))
	copy(work, values)
	if minSpacing < 0 {
		minSpacing = 0
	}

	for len(indices) < n {
		best := -1
		for i, v := range work {
			if math.IsInf(v, 1) {
				continue
			}
			if best == -1 || v < work[best] {
				best = i
			}
		}
		if best == -1 {
			break
		}
		indices = append(indices, best)
		picked = append(picked, values[best])

		lo := best - minSpacing
		if lo < 0 {
			lo = 0
		}
		hi := best + minSpacing
		if hi >= len(work) {
			hi = len(work) - 1
		}
		for i := lo; i <= hi; i++ {
			work[i] = math.Inf(1)
		}
	}
	return indices, picked
}

// SpacedMinimaSparse is SpacedMinima for candidates at arbitrary, possibly
// non-contiguous positions (e.g. already-filtered endpoint start candidates)
// rather than a dense array. minSpacing is measured directly in position
// units (typically frames).
func SpacedMinimaSparse(positions []int, values []float64, n, minSpacing int) (pickedPositions []int, pickedValues []float64) {
	if n <= 0 || len(positions) == 0 {
		return nil, nil
	}
	suppressed := make([]bool, len(positions))
	if minSpacing < 0 {
		minSpacing = 0
	}

	for len(pickedPositions) < n {
		best := -1
		for i := range positions {
			if suppressed[i] {
				continue
			}
			if best == -1 || values[i] < values[best] {
				best = i
			}
		}
		if best == -1 {
			break
		}
		pickedPositions = append(pickedPositions, positions[best])
		pickedValues = append(pickedValues, values[best])

		for i := range positions {
			if !suppressed[i] && abs(positions[i]-positions[best]) <= minSpacing {
				suppressed[i] = true
			}
		}
	}
	return pickedPositions, pickedValues
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
