// Package loopsignal implements the differencing kernels: noise-weighted
// sliding MSE, cross-correlation, and sliding SSE, the primitives that score
// how well a signal matches a lagged copy of itself.
package loopsignal

import "gonum.org/v1/gonum/dsp/fourier"

// NextPow2 returns the smallest power of two >= n (n >= 1).
func NextPow2(n int) int {
	if n < 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// crossCorrelate computes the full linear cross-correlation of a and b:
// result[j] = sum_i a[i]*b[i-lag] over valid i, where lag = j-(len(b)-1).
// The result has length len(a)+len(b)-1.
func crossCorrelate(a, b []float64) []float64 {
	nA, nB := len(a), len(b)
	outLen := nA + nB - 1
	n := NextPow2(outLen)

	ap := make([]float64, n)
	copy(ap, a)
	bp := make([]float64, n)
	for i := 0; i < nB; i++ {
		bp[i] = b[nB-1-i]
	}

	fft := fourier.NewFFT(n)
	A := fft.Coefficients(nil, ap)
	B := fft.Coefficients(nil, bp)
	prod := make([]complex128, len(A))
	for i := range prod {
		prod[i] = A[i] * B[i]
	}
	conv := fft.Sequence(nil, prod)

	result := make([]float64, outLen)
	copy(result, conv[:outLen])
	return result
}

func toFloat64(x []float32) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = float64(v)
	}
	return out
}

// prefixSquares returns prefix sums of squares: out[k] = sum_{i<k} x[i]^2,
// with len(out) == len(x)+1.
func prefixSquares(x []float64) []float64 {
	out := make([]float64, len(x)+1)
	for i, v := range x {
		out[i+1] = out[i] + v*v
	}
	return out
}
