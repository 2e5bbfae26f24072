package assess

import (
	"fmt"
	"strings"

	"github.com/arpege-labs/phonoscore/pkg/phoneme"
)

// Issue texts carry stable marker substrings so downstream aggregation and
// suggestion logic can classify an issue without a structured type. Markers:
// "too short"/"too long" (timing), "insufficient energy" (energy),
// "unstable" (stability), "friction"/"burst"/"voicing"/"tongue position"/
// "mouth opening"/"nasal resonance" (articulation).

func durationFarUnderIssue(sym phoneme.Symbol) string {
	return fmt.Sprintf("phoneme '%s' pronounced much too short; give the sound its full length", sym)
}

func durationUnderIssue(sym phoneme.Symbol) string {
	return fmt.Sprintf("phoneme '%s' pronounced too short; hold the sound a little longer", sym)
}

func durationFarOverIssue(sym phoneme.Symbol) string {
	return fmt.Sprintf("phoneme '%s' pronounced much too long; watch the pacing", sym)
}

func durationOverIssue(sym phoneme.Symbol) string {
	return fmt.Sprintf("phoneme '%s' pronounced too long; shorten the sound slightly", sym)
}

func stabilityHighIssue(sym phoneme.Symbol) string {
	return fmt.Sprintf("phoneme '%s' sounds unstable, possibly tense or hesitant", sym)
}

func stabilityLowIssue(sym phoneme.Symbol) string {
	return fmt.Sprintf("phoneme '%s' sounds slightly unstable", sym)
}

func energyLowIssue(sym phoneme.Symbol) string {
	return fmt.Sprintf("phoneme '%s' has insufficient energy; speak louder and more clearly", sym)
}

func energyMidIssue(sym phoneme.Symbol) string {
	return fmt.Sprintf("phoneme '%s' is rather quiet", sym)
}

func centroidFricativeIssue(sym phoneme.Symbol) string {
	return fmt.Sprintf("fricative '%s' lacks high-frequency friction; make the airflow noise sharper", sym)
}

func centroidLowVowelIssue(sym phoneme.Symbol) string {
	return fmt.Sprintf("low vowel '%s' sounds too bright; lower the tongue position", sym)
}

func centroidHighVowelIssue(sym phoneme.Symbol) string {
	return fmt.Sprintf("high vowel '%s' tongue position is off; adjust the mouth shape", sym)
}

func f1LowVowelIssue(sym phoneme.Symbol) string {
	return fmt.Sprintf("low vowel '%s' mouth opening is too small; open wider", sym)
}

func f1HighVowelIssue(sym phoneme.Symbol) string {
	return fmt.Sprintf("high vowel '%s' tongue position is too low; raise the tongue", sym)
}

func zcrSibilantIssue(sym phoneme.Symbol) string {
	return fmt.Sprintf("sibilant '%s' friction is weak; push more air through the constriction", sym)
}

func burstStopIssue(sym phoneme.Symbol) string {
	return fmt.Sprintf("voiceless stop '%s' burst is weak; release the closure more sharply", sym)
}

func voicingStopIssue(sym phoneme.Symbol) string {
	return fmt.Sprintf("voiced stop '%s' lacks voicing; keep the vocal folds vibrating", sym)
}

func nasalResonanceIssue(sym phoneme.Symbol) string {
	return fmt.Sprintf("nasal '%s' lacks nasal resonance; let the air flow through the nose", sym)
}

// IsTimingIssue reports whether the issue concerns segment duration.
func IsTimingIssue(issue string) bool {
	return strings.Contains(issue, "too short") || strings.Contains(issue, "too long")
}

// IsEnergyIssue reports whether the issue concerns insufficient loudness.
func IsEnergyIssue(issue string) bool {
	return strings.Contains(issue, "insufficient energy")
}

// IsStabilityIssue reports whether the issue concerns spectral instability.
func IsStabilityIssue(issue string) bool {
	return strings.Contains(issue, "unstable")
}

// IsClarityIssue reports whether the issue affects intelligibility: unstable
// or underpowered phonemes.
func IsClarityIssue(issue string) bool {
	return IsStabilityIssue(issue) || IsEnergyIssue(issue)
}

// IsArticulationIssue reports whether the issue points at articulator
// placement or manner rather than timing or loudness.
func IsArticulationIssue(issue string) bool {
	for _, marker := range []string{"friction", "burst", "voicing", "tongue position", "mouth opening", "nasal resonance", "mouth shape"} {
		if strings.Contains(issue, marker) {
			return true
		}
	}
	return false
}

// IsSevereIssue reports whether the issue is severe at the utterance level:
// gross duration deviations and insufficient energy.
func IsSevereIssue(issue string) bool {
	return IsTimingIssue(issue) || IsEnergyIssue(issue)
}

// IsSevereWordIssue reports whether the issue is severe at the word level,
// which additionally counts instability.
func IsSevereWordIssue(issue string) bool {
	return IsSevereIssue(issue) || IsStabilityIssue(issue)
}
