package xcorr

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by correlation functions.
var (
	ErrEmptyInput = errors.New("xcorr: empty input")
	ErrShortImage = errors.New("xcorr: image shorter than template")
)

// directThreshold is the template length above which the FFT path is used.
const directThreshold = 64

// NormXCorr computes the normalized cross-correlation of template against
// image. For a template of length m and an image of length n >= m the result
// has length n-m+1; index k holds the correlation coefficient of the template
// with the image window starting at sample k, in [-1, 1].
//
// Windows with zero variance (flat data) correlate to 0 rather than NaN.
func NormXCorr(template, image []float64) ([]float64, error) {
	m := len(template)
	n := len(image)

	if m == 0 || n == 0 {
		return nil, ErrEmptyInput
	}
	if n < m {
		return nil, fmt.Errorf("%w: template %d, image %d", ErrShortImage, m, n)
	}

	lags := n - m + 1
	out := make([]float64, lags)

	// Demean the template once. The per-window mean term of the Pearson
	// numerator then multiplies a zero sum and drops out, leaving a plain
	// sliding dot product against the raw image.
	mean := sum(template) / float64(m)
	demeaned := make([]float64, m)
	for i, v := range template {
		demeaned[i] = v - mean
	}

	normT := math.Sqrt(dot(demeaned, demeaned))
	if normT == 0 {
		// Flat template matches nothing.
		return out, nil
	}

	var (
		dots []float64
		err  error
	)
	if m <= directThreshold {
		dots = slidingDotDirect(demeaned, image, lags)
	} else {
		dots, err = slidingDotFFT(demeaned, image, lags)
		if err != nil {
			return nil, err
		}
	}

	// Prefix sums of the image and its squares give each window's sum and
	// energy in constant time per lag.
	sq := make([]float64, n)
	vecmath.MulBlock(sq, image, image)

	cum1 := prefixSum(image)
	cum2 := prefixSum(sq)

	for k := 0; k < lags; k++ {
		s1 := cum1[k+m] - cum1[k]
		s2 := cum2[k+m] - cum2[k]

		variance := s2 - s1*s1/float64(m)
		if variance <= 0 {
			continue
		}

		cc := dots[k] / (normT * math.Sqrt(variance))

		// Guard against rounding pushing past the mathematical bounds.
		if cc > 1 {
			cc = 1
		} else if cc < -1 {
			cc = -1
		}

		out[k] = cc
	}

	return out, nil
}

// slidingDotDirect computes the dot product of template with every image
// window. O(lags*m), suitable for short templates.
func slidingDotDirect(template, image []float64, lags int) []float64 {
	m := len(template)
	dots := make([]float64, lags)

	for k := 0; k < lags; k++ {
		dots[k] = dot(template, image[k:k+m])
	}

	return dots
}

// slidingDotFFT computes the same sliding dot products in the frequency
// domain: IFFT(FFT(image) * conj(FFT(template))) holds the lag-k dot product
// in bin k once both inputs are zero-padded past linear-correlation length.
func slidingDotFFT(template, image []float64, lags int) ([]float64, error) {
	m := len(template)
	n := len(image)
	fftSize := nextPowerOf2(n + m - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("xcorr: failed to create FFT plan: %w", err)
	}

	imgPadded := make([]complex128, fftSize)
	tplPadded := make([]complex128, fftSize)
	for i, v := range image {
		imgPadded[i] = complex(v, 0)
	}
	for i, v := range template {
		tplPadded[i] = complex(v, 0)
	}

	imgFreq := make([]complex128, fftSize)
	tplFreq := make([]complex128, fftSize)

	if err := plan.Forward(imgFreq, imgPadded); err != nil {
		return nil, fmt.Errorf("xcorr: forward FFT failed: %w", err)
	}
	if err := plan.Forward(tplFreq, tplPadded); err != nil {
		return nil, fmt.Errorf("xcorr: forward FFT failed: %w", err)
	}

	productFreq := make([]complex128, fftSize)
	for i := range productFreq {
		t := tplFreq[i]
		productFreq[i] = imgFreq[i] * complex(real(t), -imag(t))
	}

	productTime := make([]complex128, fftSize)
	if err := plan.Inverse(productTime, productFreq); err != nil {
		return nil, fmt.Errorf("xcorr: inverse FFT failed: %w", err)
	}

	// Positive lags sit in the leading bins; nothing to rearrange.
	dots := make([]float64, lags)
	for k := range dots {
		dots[k] = real(productTime[k])
	}

	return dots, nil
}

// FindPeak finds the index and value of the maximum in a coefficient
// sequence. Returns index -1 for an empty sequence.
func FindPeak(cc []float64) (index int, value float64) {
	if len(cc) == 0 {
		return -1, 0
	}

	index = 0
	value = cc[0]

	for i, v := range cc {
		if v > value {
			index = i
			value = v
		}
	}

	return index, value
}

// sum computes the sum of the samples.
func sum(x []float64) float64 {
	var s float64
	for _, v := range x {
		s += v
	}
	return s
}

// dot computes the dot product of two equal-length slices.
func dot(a, b []float64) float64 {
	var s float64
	for i, v := range a {
		s += v * b[i]
	}
	return s
}

// prefixSum returns cumulative sums with a leading zero, so that
// sum(x[i:j]) == p[j] - p[i].
func prefixSum(x []float64) []float64 {
	p := make([]float64, len(x)+1)
	for i, v := range x {
		p[i+1] = p[i] + v
	}
	return p
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
