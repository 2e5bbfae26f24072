// Package feature implements the acoustic feature extractor of the scoring
// pipeline.
//
// Given a mono float buffer and its sample rate, [Extractor.Extract] returns
// a [Vector] of pitch, formant, spectral, and temporal features. Each feature
// family is computed by an independent sub-extractor with a strict failure
// policy: a sub-extractor that fails (or panics) contributes zeroed defaults
// instead of an error, so the extractor as a whole never fails for non-empty
// input. A zero-length buffer yields the zero [Vector].
package feature

import (
	"context"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/arpege-labs/phonoscore/internal/config"
	"github.com/arpege-labs/phonoscore/internal/dsp"
	"github.com/arpege-labs/phonoscore/internal/observe"
)

// Vector is the fixed set of acoustic features describing one audio span.
// Unextractable features hold their zero value rather than being absent, so
// downstream scoring never special-cases missing features.
type Vector struct {
	// --- Pitch (fundamental frequency over voiced frames) ---

	PitchMean   float64
	PitchStd    float64
	PitchMedian float64
	PitchRange  float64

	// PitchSlope is the linear-regression slope of voiced-frame F0 against
	// frame index, in Hz per frame.
	PitchSlope float64

	// VoicingRate is the fraction of analysis frames with detected pitch.
	VoicingRate float64

	// --- Formants (LPC spectral peaks) ---

	F1, F2, F3 float64

	// F1F2Ratio is F2/F1 when F1 is non-zero.
	F1F2Ratio float64

	// FormantSpread is the standard deviation of all detected formant peaks.
	FormantSpread float64

	// --- Spectral (frame statistics) ---

	CentroidMean  float64
	CentroidStd   float64
	BandwidthMean float64
	BandwidthStd  float64
	RolloffMean   float64

	// ContrastMean holds per-band spectral contrast means (octave bands).
	ContrastMean []float64

	// MFCCMean and MFCCStd hold per-coefficient statistics over frames.
	MFCCMean []float64
	MFCCStd  []float64

	// ChromaMean and ChromaStd hold per-pitch-class statistics over frames.
	ChromaMean []float64
	ChromaStd  []float64

	// --- Temporal ---

	RMSMean      float64
	RMSStd       float64
	ZCRMean      float64
	ZCRStd       float64
	EnergyMean   float64
	EnergyStd    float64
	EnergyMax    float64
	SilenceRatio float64
}

// MFCCDispersion returns the standard deviation across the MFCC coefficient
// means, the spectral-stability indicator used by the quality assessor.
func (v Vector) MFCCDispersion() float64 {
	return dsp.Std(v.MFCCMean)
}

// Option configures an [Extractor].
type Option func(*Extractor)

// WithMetrics sets the metrics instance used to count degraded
// sub-extractions. Defaults to [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(e *Extractor) { e.metrics = m }
}

// Extractor computes acoustic [Vector]s from audio buffers. It is read-only
// after construction and safe for concurrent use.
type Extractor struct {
	cfg     config.ExtractorConfig
	metrics *observe.Metrics
}

// New returns an [Extractor] using the given analysis parameters.
func New(cfg config.ExtractorConfig, opts ...Option) *Extractor {
	e := &Extractor{cfg: cfg}
	for _, o := range opts {
		o(e)
	}
	if e.metrics == nil {
		e.metrics = observe.DefaultMetrics()
	}
	return e
}

// Extract computes the acoustic feature vector of samples. It never fails:
// sub-extractor errors degrade to zeroed features, and a zero-length buffer
// returns the zero Vector.
func (e *Extractor) Extract(ctx context.Context, samples []float64, sampleRate int) Vector {
	var v Vector
	if len(samples) == 0 {
		return v
	}

	e.run(ctx, "pitch", func() { e.extractPitch(samples, sampleRate, &v) })
	e.run(ctx, "formant", func() { e.extractFormants(samples, sampleRate, &v) })
	e.run(ctx, "spectral", func() { e.extractSpectral(samples, sampleRate, &v) })
	e.run(ctx, "temporal", func() { e.extractTemporal(samples, &v) })
	return v
}

// run executes one sub-extractor, converting a panic into zeroed output for
// that feature family.
func (e *Extractor) run(ctx context.Context, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			observe.Logger(ctx).Debug("feature sub-extractor degraded",
				"extractor", name, "cause", r)
			e.metrics.DegradedFeatures.Add(ctx, 1,
				metric.WithAttributes(attribute.String("extractor", name)))
		}
	}()
	fn()
}

// analysisFrames returns overlapping frames of frameLen advancing by the
// configured hop. Buffers shorter than one frame yield a single frame
// containing the whole buffer.
func (e *Extractor) analysisFrames(samples []float64, frameLen int) [][]float64 {
	if len(samples) < frameLen {
		frame := make([]float64, len(samples))
		copy(frame, samples)
		return [][]float64{frame}
	}
	return dsp.Frames(samples, frameLen, e.cfg.HopLength)
}

func (e *Extractor) extractPitch(samples []float64, sampleRate int, v *Vector) {
	frames := e.analysisFrames(samples, e.cfg.FFTSize)
	var voiced []float64
	for _, frame := range frames {
		f0, ok := dsp.Yin(frame, sampleRate, e.cfg.PitchMinHz, e.cfg.PitchMaxHz, e.cfg.YinThreshold)
		if ok {
			voiced = append(voiced, f0)
		}
	}
	if len(voiced) == 0 {
		return
	}
	v.PitchMean = dsp.Mean(voiced)
	v.PitchStd = dsp.Std(voiced)
	v.PitchMedian = dsp.Median(voiced)
	v.PitchRange = dsp.Max(voiced) - dsp.Min(voiced)
	v.PitchSlope = dsp.LinearSlope(voiced)
	v.VoicingRate = float64(len(voiced)) / float64(len(frames))
}

func (e *Extractor) extractFormants(samples []float64, sampleRate int, v *Vector) {
	if len(samples) <= e.cfg.LPCOrder {
		return
	}
	emphasized := dsp.PreEmphasize(samples, e.cfg.PreEmphasis)
	coeffs, err := dsp.LPC(emphasized, e.cfg.LPCOrder)
	if err != nil {
		return
	}

	freqs, mag := dsp.LPCSpectrum(coeffs, 512, sampleRate)
	peaks := dsp.PeakIndices(mag, 0.1, 10)

	formants := make([]float64, 0, len(peaks))
	for _, p := range peaks {
		formants = append(formants, freqs[p])
	}
	if len(formants) > 0 {
		v.F1 = formants[0]
	}
	if len(formants) > 1 {
		v.F2 = formants[1]
	}
	if len(formants) > 2 {
		v.F3 = formants[2]
	}
	if v.F1 > 0 {
		v.F1F2Ratio = v.F2 / v.F1
	}
	if len(formants) > 1 {
		v.FormantSpread = dsp.Std(formants)
	}
}

// contrastBandEdges are the octave band boundaries (Hz) for spectral
// contrast, starting at 200 Hz.
var contrastBandEdges = []float64{200, 400, 800, 1600, 3200, 6400, 12800}

func (e *Extractor) extractSpectral(samples []float64, sampleRate int, v *Vector) {
	frames := e.analysisFrames(samples, e.cfg.FFTSize)
	freqs := dsp.BinFrequencies(e.cfg.FFTSize, sampleRate)
	melFB := dsp.NewMelFilterbank(e.cfg.NumMelFilters, e.cfg.FFTSize, sampleRate, 0, float64(sampleRate)/2)

	nFrames := len(frames)
	centroids := make([]float64, 0, nFrames)
	bandwidths := make([]float64, 0, nFrames)
	rolloffs := make([]float64, 0, nFrames)
	contrast := make([][]float64, 0, nFrames)
	mfccs := make([][]float64, 0, nFrames)
	chromas := make([][]float64, 0, nFrames)

	for _, frame := range frames {
		power := dsp.PowerSpectrum(frame, e.cfg.FFTSize)
		mag := make([]float64, len(power))
		for i, p := range power {
			mag[i] = math.Sqrt(p)
		}

		c := spectralCentroid(mag, freqs)
		centroids = append(centroids, c)
		bandwidths = append(bandwidths, spectralBandwidth(mag, freqs, c))
		rolloffs = append(rolloffs, spectralRolloff(power, freqs, 0.85))
		contrast = append(contrast, spectralContrast(mag, freqs))
		mfccs = append(mfccs, dsp.DCTII(melFB.Apply(power), e.cfg.NumMFCC))
		chromas = append(chromas, dsp.Chroma(power, freqs))
	}

	v.CentroidMean = dsp.Mean(centroids)
	v.CentroidStd = dsp.Std(centroids)
	v.BandwidthMean = dsp.Mean(bandwidths)
	v.BandwidthStd = dsp.Std(bandwidths)
	v.RolloffMean = dsp.Mean(rolloffs)
	v.ContrastMean, _ = columnStats(contrast)
	v.MFCCMean, v.MFCCStd = columnStats(mfccs)
	v.ChromaMean, v.ChromaStd = columnStats(chromas)
}

func (e *Extractor) extractTemporal(samples []float64, v *Vector) {
	frames := e.analysisFrames(samples, e.cfg.EnergyFrameLength)

	nFrames := len(frames)
	rms := make([]float64, 0, nFrames)
	zcr := make([]float64, 0, nFrames)
	energy := make([]float64, 0, nFrames)

	for _, frame := range frames {
		var sumSq float64
		crossings := 0
		for i, s := range frame {
			sumSq += s * s
			if i > 0 && (s >= 0) != (frame[i-1] >= 0) {
				crossings++
			}
		}
		n := float64(len(frame))
		if n == 0 {
			continue
		}
		rms = append(rms, math.Sqrt(sumSq/n))
		zcr = append(zcr, float64(crossings)/n)
		energy = append(energy, sumSq)
	}

	v.RMSMean = dsp.Mean(rms)
	v.RMSStd = dsp.Std(rms)
	v.ZCRMean = dsp.Mean(zcr)
	v.ZCRStd = dsp.Std(zcr)
	v.EnergyMean = dsp.Mean(energy)
	v.EnergyStd = dsp.Std(energy)
	v.EnergyMax = dsp.Max(energy)

	if len(energy) > 0 {
		threshold := v.EnergyMean * e.cfg.SilenceEnergyFraction
		silent := 0
		for _, en := range energy {
			if en < threshold {
				silent++
			}
		}
		v.SilenceRatio = float64(silent) / float64(len(energy))
	}
}

// spectralCentroid is the magnitude-weighted mean frequency.
func spectralCentroid(mag, freqs []float64) float64 {
	var num, den float64
	for i, m := range mag {
		num += freqs[i] * m
		den += m
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// spectralBandwidth is the magnitude-weighted standard deviation of
// frequency around the centroid.
func spectralBandwidth(mag, freqs []float64, centroid float64) float64 {
	var num, den float64
	for i, m := range mag {
		d := freqs[i] - centroid
		num += m * d * d
		den += m
	}
	if den == 0 {
		return 0
	}
	return math.Sqrt(num / den)
}

// spectralRolloff is the frequency below which the given fraction of total
// spectral energy lies.
func spectralRolloff(power, freqs []float64, fraction float64) float64 {
	var total float64
	for _, p := range power {
		total += p
	}
	if total == 0 {
		return 0
	}
	target := total * fraction
	var cum float64
	for i, p := range power {
		cum += p
		if cum >= target {
			return freqs[i]
		}
	}
	return freqs[len(freqs)-1]
}

// spectralContrast returns the log peak-to-valley magnitude ratio per octave
// band.
func spectralContrast(mag, freqs []float64) []float64 {
	const eps = 1e-10
	out := make([]float64, len(contrastBandEdges)-1)
	for b := 0; b < len(out); b++ {
		lo, hi := contrastBandEdges[b], contrastBandEdges[b+1]
		peak, valley := 0.0, math.Inf(1)
		found := false
		for i, f := range freqs {
			if f < lo || f >= hi {
				continue
			}
			found = true
			if mag[i] > peak {
				peak = mag[i]
			}
			if mag[i] < valley {
				valley = mag[i]
			}
		}
		if !found {
			continue
		}
		out[b] = math.Log((peak + eps) / (valley + eps))
	}
	return out
}

// columnStats returns the per-column mean and standard deviation of a
// row-major matrix. Rows shorter than the first row are ignored beyond their
// length.
func columnStats(rows [][]float64) (mean, std []float64) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, nil
	}
	cols := len(rows[0])
	mean = make([]float64, cols)
	std = make([]float64, cols)
	col := make([]float64, 0, len(rows))
	for c := 0; c < cols; c++ {
		col = col[:0]
		for _, row := range rows {
			if c < len(row) {
				col = append(col, row[c])
			}
		}
		mean[c] = dsp.Mean(col)
		std[c] = dsp.Std(col)
	}
	return mean, std
}
