package loopspectra

// DiffSpectrogramInfo holds the per-window result of comparing a signal's
// spectrogram against a lag-shifted copy of itself.
type DiffSpectrogramInfo struct {
	// MSEs holds the dB-domain spectrum MSE for each window.
	MSEs []float64
	// StartSamples holds the starting sample number of each window, in the
	// unlagged signal's original frame numbering.
	StartSamples []int
	// WindowSizes holds the number of samples in each window.
	WindowSizes []int
	// EffectiveWindowDurations holds the overlap-adjusted duration (in
	// seconds) of each window: the difference of consecutive start times,
	// except the last window which uses its own raw duration.
	EffectiveWindowDurations []float64
}

// DiffSpectrogram compares windowed spectra of signal[0:n-lag] against
// signal[lag:n], window by window, returning the dB-domain MSE per window
// along with the bookkeeping needed to integrate downstream metrics in
// seconds rather than window counts.
func DiffSpectrogram(signal []float64, lag int, fftLength int, overlapPercent float64, sampleRate, fmax, powRef float64) *DiffSpectrogramInfo {
	n := len(signal)
	if lag <= 0 || lag >= n || fftLength <= 0 {
		return &DiffSpectrogramInfo{}
	}

	step := int(float64(fftLength) * (1 - overlapPercent))
	if step < 1 {
		step = 1
	}

	cache := NewFFTCache()
	var info DiffSpectrogramInfo
	for start := 0; start+lag+fftLength <= n; start += step {
		windowA := signal[start : start+fftLength]
		windowB := signal[start+lag : start+lag+fftLength]

		specA := PowerSpectrum(windowA, sampleRate, fmax, cache)
		specB := PowerSpectrum(windowB, sampleRate, fmax, cache)
		mse := SpectrumMSE(specA, specB, powRef)

		info.MSEs = append(info.MSEs, mse)
		info.StartSamples = append(info.StartSamples, start)
		info.WindowSizes = append(info.WindowSizes, fftLength)
	}

	info.EffectiveWindowDurations = make([]float64, len(info.StartSamples))
	for i := range info.StartSamples {
		if i == len(info.StartSamples)-1 {
			info.EffectiveWindowDurations[i] = float64(info.WindowSizes[i]) / sampleRate
			continue
		}
		info.EffectiveWindowDurations[i] = float64(info.StartSamples[i+1]-info.StartSamples[i]) / sampleRate
	}
	return &info
}
