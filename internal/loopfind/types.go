// Package loopfind synthesizes the differencing, spectra, and candidate
// analysis packages into the top-level loop-finding entry points,
// findLoopNoEst and findLoopWithEst from the original design, and the
// loss-to-confidence scoring that ranks their output.
package loopfind

// FindLoopResult is the structured, ranked output of one analysis run.
// Each slice index corresponds to one base-duration candidate; StartFrames,
// EndFrames, and SampleDifferences are themselves per-candidate slices of
// up to NBestPairs entries.
type FindLoopResult struct {
	BaseDurations     []int
	StartFrames       [][]int
	EndFrames         [][]int
	Confidences       []float64
	SampleDifferences [][]float64

	// Degenerate is set when every candidate's loss was exactly zero with
	// zero confidence regularization: Confidences are then NaN and the
	// caller should treat the ranking as uninformative, not as an error.
	Degenerate bool
}

// empty returns a well-formed, zero-length result for the NoCandidates
// error case: not a failure, just nothing found.
func empty() *FindLoopResult {
	return &FindLoopResult{
		BaseDurations:     []int{},
		StartFrames:       [][]int{},
		EndFrames:         [][]int{},
		Confidences:       []float64{},
		SampleDifferences: [][]float64{},
	}
}

type lagAnalysis struct {
	lag               int
	startFrames       []int
	endFrames         []int
	sampleDiffs       []float64
	biasedSpectrumMSE float64
}
