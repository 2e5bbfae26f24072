// Package dsp provides the signal-processing primitives shared by the
// acoustic feature extractor and the energy-based phoneme aligner: framing,
// windowing, FFT power spectra, linear prediction, YIN pitch estimation, mel
// cepstra, and small statistics helpers.
//
// All functions are pure: they allocate their outputs and never retain
// references to their inputs, so they are safe to call concurrently.
package dsp

// PreEmphasize applies the first-order high-pass filter
// y[n] = x[n] - alpha*x[n-1], boosting the high-frequency content that
// formant and fricative analysis depends on.
func PreEmphasize(samples []float64, alpha float64) []float64 {
	if len(samples) == 0 {
		return nil
	}
	out := make([]float64, len(samples))
	out[0] = samples[0]
	for i := 1; i < len(samples); i++ {
		out[i] = samples[i] - alpha*samples[i-1]
	}
	return out
}

// Frames splits samples into overlapping frames of frameLen samples advancing
// by hop. Returns nil when samples is shorter than one frame.
func Frames(samples []float64, frameLen, hop int) [][]float64 {
	n := len(samples)
	if frameLen <= 0 || hop <= 0 || n < frameLen {
		return nil
	}
	numFrames := 1 + (n-frameLen)/hop
	frames := make([][]float64, numFrames)
	for i := range frames {
		start := i * hop
		frame := make([]float64, frameLen)
		copy(frame, samples[start:start+frameLen])
		frames[i] = frame
	}
	return frames
}
