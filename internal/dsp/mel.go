package dsp

import "math"

// MelFilterbank is a bank of triangular filters on the mel scale, applied to
// one-sided power spectra. Construct once and reuse across frames.
type MelFilterbank struct {
	filters [][]float64 // [numFilters][fftSize/2+1]
}

func hzToMel(hz float64) float64  { return 2595 * math.Log10(1+hz/700) }
func melToHz(mel float64) float64 { return 700 * (math.Pow(10, mel/2595) - 1) }

// NewMelFilterbank builds numFilters triangular filters spanning
// [lowFreq, highFreq] Hz for spectra of fftSize/2+1 bins.
func NewMelFilterbank(numFilters, fftSize, sampleRate int, lowFreq, highFreq float64) *MelFilterbank {
	nBins := fftSize/2 + 1
	lowMel := hzToMel(lowFreq)
	highMel := hzToMel(highFreq)

	// numFilters+2 boundary points, converted back to FFT bin numbers.
	points := make([]int, numFilters+2)
	for i := range points {
		mel := lowMel + (highMel-lowMel)*float64(i)/float64(numFilters+1)
		hz := melToHz(mel)
		points[i] = int(math.Floor((float64(fftSize) + 1) * hz / float64(sampleRate)))
		if points[i] >= nBins {
			points[i] = nBins - 1
		}
	}

	filters := make([][]float64, numFilters)
	for m := 1; m <= numFilters; m++ {
		f := make([]float64, nBins)
		left, centre, right := points[m-1], points[m], points[m+1]
		for k := left; k < centre; k++ {
			if centre > left {
				f[k] = float64(k-left) / float64(centre-left)
			}
		}
		for k := centre; k <= right && k < nBins; k++ {
			if right > centre {
				f[k] = float64(right-k) / float64(right-centre)
			}
		}
		filters[m-1] = f
	}
	return &MelFilterbank{filters: filters}
}

// Apply returns the log mel energies of the power spectrum, one per filter.
func (fb *MelFilterbank) Apply(power []float64) []float64 {
	out := make([]float64, len(fb.filters))
	for m, f := range fb.filters {
		var sum float64
		n := len(power)
		if len(f) < n {
			n = len(f)
		}
		for k := 0; k < n; k++ {
			sum += f[k] * power[k]
		}
		if sum < 1e-10 {
			sum = 1e-10
		}
		out[m] = math.Log(sum)
	}
	return out
}

// DCTII computes the first numCoeffs coefficients of the type-II discrete
// cosine transform of in, the final step of MFCC computation.
func DCTII(in []float64, numCoeffs int) []float64 {
	n := len(in)
	out := make([]float64, numCoeffs)
	if n == 0 {
		return out
	}
	for k := 0; k < numCoeffs; k++ {
		var sum float64
		for i, v := range in {
			sum += v * math.Cos(math.Pi*float64(k)*(float64(i)+0.5)/float64(n))
		}
		out[k] = sum
	}
	return out
}

// ChromaBins is the number of pitch classes in a chroma vector.
const ChromaBins = 12

// Chroma folds a one-sided power spectrum into 12 pitch-class energies
// referenced to A440. Bin 0 (DC) is skipped.
func Chroma(power, freqs []float64) []float64 {
	out := make([]float64, ChromaBins)
	n := len(power)
	if len(freqs) < n {
		n = len(freqs)
	}
	for k := 1; k < n; k++ {
		f := freqs[k]
		if f <= 0 {
			continue
		}
		pc := int(math.Round(12*math.Log2(f/440))) % ChromaBins
		if pc < 0 {
			pc += ChromaBins
		}
		out[pc] += power[k]
	}
	return out
}
