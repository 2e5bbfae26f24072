package dsp

import (
	"errors"
	"math"
)

// LPC computes linear prediction coefficients of the given order using the
// autocorrelation method and Levinson-Durbin recursion. The returned slice
// has order+1 entries with a[0] == 1, matching the denominator polynomial
// A(z) of the all-pole model 1/A(z).
func LPC(samples []float64, order int) ([]float64, error) {
	if order < 1 {
		return nil, errors.New("dsp: lpc order must be >= 1")
	}
	if len(samples) <= order {
		return nil, errors.New("dsp: lpc needs more samples than its order")
	}

	// Autocorrelation r[0..order].
	r := make([]float64, order+1)
	for lag := 0; lag <= order; lag++ {
		var sum float64
		for i := lag; i < len(samples); i++ {
			sum += samples[i] * samples[i-lag]
		}
		r[lag] = sum
	}
	if r[0] == 0 {
		return nil, errors.New("dsp: lpc on silent input")
	}

	// Levinson-Durbin.
	a := make([]float64, order+1)
	a[0] = 1
	e := r[0]
	for m := 1; m <= order; m++ {
		var acc float64
		for i := 1; i < m; i++ {
			acc += a[i] * r[m-i]
		}
		k := -(r[m] + acc) / e
		// Update coefficients symmetrically.
		for i := 1; i <= m/2; i++ {
			tmp := a[i] + k*a[m-i]
			a[m-i] += k * a[i]
			a[i] = tmp
		}
		a[m] = k
		e *= 1 - k*k
		if e <= 0 {
			return nil, errors.New("dsp: lpc prediction error vanished")
		}
	}
	return a, nil
}

// LPCSpectrum evaluates the magnitude response |1/A(e^{jw})| of the LPC
// model at n evenly spaced frequencies from 0 to Nyquist. It returns the
// frequencies in Hz and the magnitudes.
func LPCSpectrum(a []float64, n, sampleRate int) (freqs, mag []float64) {
	freqs = make([]float64, n)
	mag = make([]float64, n)
	nyquist := float64(sampleRate) / 2
	for k := 0; k < n; k++ {
		w := math.Pi * float64(k) / float64(n-1)
		freqs[k] = nyquist * float64(k) / float64(n-1)

		// Evaluate A(e^{jw}).
		var re, im float64
		for i, c := range a {
			re += c * math.Cos(w*float64(i))
			im -= c * math.Sin(w*float64(i))
		}
		den := math.Hypot(re, im)
		if den == 0 {
			mag[k] = 0
			continue
		}
		mag[k] = 1 / den
	}
	return freqs, mag
}

// PeakIndices returns the indices of local maxima in x whose value is at
// least height, keeping peaks at least minDist indices apart (taller peaks
// win). Indices are returned in ascending order.
func PeakIndices(x []float64, height float64, minDist int) []int {
	var candidates []int
	for i := 1; i < len(x)-1; i++ {
		if x[i] >= height && x[i] > x[i-1] && x[i] >= x[i+1] {
			candidates = append(candidates, i)
		}
	}
	if minDist <= 1 || len(candidates) < 2 {
		return candidates
	}

	// Greedy suppression: keep taller peaks, drop neighbours within minDist.
	kept := make([]bool, len(candidates))
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	// Sort candidate positions by descending peak height.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && x[candidates[order[j]]] > x[candidates[order[j-1]]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	suppressed := make([]bool, len(candidates))
	for _, oi := range order {
		if suppressed[oi] {
			continue
		}
		kept[oi] = true
		for j := range candidates {
			if j != oi && !kept[j] && abs(candidates[j]-candidates[oi]) < minDist {
				suppressed[j] = true
			}
		}
	}

	var peaks []int
	for i, c := range candidates {
		if kept[i] {
			peaks = append(peaks, c)
		}
	}
	return peaks
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
