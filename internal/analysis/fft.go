package analysis

import (
	"errors"
	"math"
	"math/cmplx"
)

func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

func PowerSpectrum(data []float64) []float64 {
	fft := FFT(data)
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

var ErrTooFewSamples = errors.New("analysis: too few samples")

// DominantFrequency returns the strongest non-zero frequency, in cycles per
// unit of dt, of samples taken every dt. The series is truncated to the
// largest power of two and its mean removed first.
func DominantFrequency(samples []float64, dt float64) (float64, error) {
	n := 1
	for n*2 <= len(samples) {
		n *= 2
	}
	if n < 4 {
		return 0, ErrTooFewSamples
	}

	window := make([]float64, n)
	mean := 0.0
	for _, v := range samples[:n] {
		mean += v
	}
	mean /= float64(n)
	for i, v := range samples[:n] {
		window[i] = v - mean
	}

	ps := PowerSpectrum(window)
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	return float64(best) / (float64(n) * dt), nil
}
