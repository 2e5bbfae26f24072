package dsp

import "math"

// HammingWindow multiplies frame by a Hamming window in place.
func HammingWindow(frame []float64) {
	n := len(frame)
	if n < 2 {
		return
	}
	for i := range frame {
		frame[i] *= 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
}

// FFT computes the in-place radix-2 Cooley-Tukey FFT over split
// real/imaginary slices. len(re) must equal len(im) and be a power of 2.
func FFT(re, im []float64) {
	n := len(re)
	if n <= 1 {
		return
	}

	// Bit-reversal permutation.
	bits := 0
	for v := n; v > 1; v >>= 1 {
		bits++
	}
	for i := 0; i < n; i++ {
		j := bitReverse(i, bits)
		if j > i {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}

	// Butterfly stages.
	for size := 2; size <= n; size *= 2 {
		half := size / 2
		angle := -2 * math.Pi / float64(size)
		wRe, wIm := math.Cos(angle), math.Sin(angle)
		for start := 0; start < n; start += size {
			curRe, curIm := 1.0, 0.0
			for k := 0; k < half; k++ {
				i1, i2 := start+k, start+k+half
				tRe := curRe*re[i2] - curIm*im[i2]
				tIm := curRe*im[i2] + curIm*re[i2]
				re[i2] = re[i1] - tRe
				im[i2] = im[i1] - tIm
				re[i1] += tRe
				im[i1] += tIm
				curRe, curIm = curRe*wRe-curIm*wIm, curRe*wIm+curIm*wRe
			}
		}
	}
}

func bitReverse(x, bits int) int {
	var r int
	for i := 0; i < bits; i++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return r
}

// PowerSpectrum returns the one-sided power spectrum of frame after Hamming
// windowing and zero-padding to fftSize (a power of 2). The result has
// fftSize/2+1 bins.
func PowerSpectrum(frame []float64, fftSize int) []float64 {
	re := make([]float64, fftSize)
	im := make([]float64, fftSize)
	n := len(frame)
	if n > fftSize {
		n = fftSize
	}
	copy(re, frame[:n])
	HammingWindow(re[:n])
	FFT(re, im)

	power := make([]float64, fftSize/2+1)
	for k := range power {
		power[k] = re[k]*re[k] + im[k]*im[k]
	}
	return power
}

// BinFrequencies returns the centre frequency in Hz of each one-sided
// spectrum bin for the given FFT size and sample rate.
func BinFrequencies(fftSize, sampleRate int) []float64 {
	freqs := make([]float64, fftSize/2+1)
	for k := range freqs {
		freqs[k] = float64(k) * float64(sampleRate) / float64(fftSize)
	}
	return freqs
}

// NextPow2 returns the smallest power of two >= n (minimum 1).
func NextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
