package dsp

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean of x, or 0 for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

// Std returns the population standard deviation of x, or 0 for fewer than
// two values.
func Std(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	m := Mean(x)
	var sum float64
	for _, v := range x {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(x)))
}

// Median returns the median of x, or 0 for an empty slice.
func Median(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, x)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Max returns the maximum of x, or 0 for an empty slice.
func Max(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	m := x[0]
	for _, v := range x[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Min returns the minimum of x, or 0 for an empty slice.
func Min(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	m := x[0]
	for _, v := range x[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// LinearSlope returns the least-squares regression slope of y against its
// indices 0..len(y)-1. Returns 0 for fewer than two points.
func LinearSlope(y []float64) float64 {
	n := len(y)
	if n < 2 {
		return 0
	}
	meanX := float64(n-1) / 2
	meanY := Mean(y)
	var num, den float64
	for i, v := range y {
		dx := float64(i) - meanX
		num += dx * (v - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// GaussianSmooth returns x convolved with a truncated Gaussian kernel of the
// given sigma (kernel radius 3*sigma). Edges use renormalised partial kernels.
func GaussianSmooth(x []float64, sigma float64) []float64 {
	n := len(x)
	if n == 0 || sigma <= 0 {
		out := make([]float64, n)
		copy(out, x)
		return out
	}
	radius := int(math.Ceil(3 * sigma))
	kernel := make([]float64, 2*radius+1)
	for i := range kernel {
		d := float64(i - radius)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
	}

	out := make([]float64, n)
	for i := range x {
		var sum, wsum float64
		for k, w := range kernel {
			j := i + k - radius
			if j < 0 || j >= n {
				continue
			}
			sum += w * x[j]
			wsum += w
		}
		if wsum > 0 {
			out[i] = sum / wsum
		}
	}
	return out
}
