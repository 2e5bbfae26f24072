package dsp

// Yin estimates the fundamental frequency of frame in Hz using the YIN
// algorithm: difference function, cumulative mean normalised difference, and
// an absolute threshold with parabolic interpolation of the selected lag.
//
// The search is bounded to [fMin, fMax]. ok is false when the frame is too
// short for the requested band or no lag dips below threshold (unvoiced).
func Yin(frame []float64, sampleRate int, fMin, fMax, threshold float64) (f0 float64, ok bool) {
	if fMin <= 0 || fMax <= fMin {
		return 0, false
	}
	tauMin := int(float64(sampleRate) / fMax)
	tauMax := int(float64(sampleRate) / fMin)
	if tauMin < 1 {
		tauMin = 1
	}
	// The integration window needs tauMax lagged samples.
	w := len(frame) / 2
	if tauMax >= w {
		tauMax = w - 1
	}
	if tauMax <= tauMin {
		return 0, false
	}

	// Difference function d(tau) over the integration window.
	diff := make([]float64, tauMax+1)
	for tau := 1; tau <= tauMax; tau++ {
		var sum float64
		for i := 0; i < w; i++ {
			d := frame[i] - frame[i+tau]
			sum += d * d
		}
		diff[tau] = sum
	}

	// Cumulative mean normalised difference d'(tau).
	cmndf := make([]float64, tauMax+1)
	cmndf[0] = 1
	var running float64
	for tau := 1; tau <= tauMax; tau++ {
		running += diff[tau]
		if running == 0 {
			cmndf[tau] = 1
		} else {
			cmndf[tau] = diff[tau] * float64(tau) / running
		}
	}

	// First lag below threshold, refined to the local minimum.
	tau := -1
	for t := tauMin; t <= tauMax; t++ {
		if cmndf[t] < threshold {
			for t+1 <= tauMax && cmndf[t+1] < cmndf[t] {
				t++
			}
			tau = t
			break
		}
	}
	if tau < 0 {
		return 0, false
	}

	// Parabolic interpolation around the selected lag.
	better := float64(tau)
	if tau > tauMin && tau < tauMax {
		s0, s1, s2 := cmndf[tau-1], cmndf[tau], cmndf[tau+1]
		den := 2*s1 - s2 - s0
		if den != 0 {
			better += (s2 - s0) / (2 * den)
		}
	}
	if better <= 0 {
		return 0, false
	}
	return float64(sampleRate) / better, true
}
