// Package phonemize converts reference text into the expected phoneme
// sequence for scoring.
//
// Resolution proceeds in three stages per word:
//
//  1. Lexicon lookup: a closed lexicon of common words maps directly to IPA
//     phoneme sequences.
//  2. Phonetic assist (optional): unknown words are matched against lexicon
//     headwords using Double Metaphone code overlap ranked by Jaro-Winkler
//     similarity, so close misspellings and inflections still resolve to a
//     curated pronunciation.
//  3. Character fallback: each remaining character maps to a single phoneme,
//     or passes through unchanged when no mapping exists.
//
// Conversion is deterministic and total — unknown input degrades to
// pass-through phonemes rather than erroring.
package phonemize

import (
	"sort"
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"

	"github.com/arpege-labs/phonoscore/pkg/phoneme"
)

// defaultFuzzyThreshold is the minimum Jaro-Winkler score for a phonetic
// assist match to be accepted.
const defaultFuzzyThreshold = 0.85

// Word pairs one normalised word token with its phoneme subsequence.
type Word struct {
	Text     string
	Phonemes []phoneme.Symbol
}

// Option is a functional option for configuring a [Converter].
type Option func(*Converter)

// WithPhoneticAssist toggles the Double Metaphone lexicon assist for unknown
// words. Enabled by default.
func WithPhoneticAssist(enabled bool) Option {
	return func(c *Converter) { c.phoneticAssist = enabled }
}

// WithFuzzyThreshold sets the minimum Jaro-Winkler score required for a
// phonetic assist match. Default: 0.85.
func WithFuzzyThreshold(threshold float64) Option {
	return func(c *Converter) { c.fuzzyThreshold = threshold }
}

// Converter maps reference text to phoneme sequences. All methods are safe
// for concurrent use — the Converter is read-only after construction.
type Converter struct {
	phoneticAssist bool
	fuzzyThreshold float64
}

// New returns a [Converter] configured with the supplied options.
func New(opts ...Option) *Converter {
	c := &Converter{
		phoneticAssist: true,
		fuzzyThreshold: defaultFuzzyThreshold,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Convert returns the flat ordered phoneme sequence of text and the per-word
// phoneme subsequences, in word order. Words that normalise to the empty
// string are dropped.
func (c *Converter) Convert(text string) ([]phoneme.Symbol, []Word) {
	var seq []phoneme.Symbol
	var words []Word
	for _, token := range strings.Fields(strings.ToLower(text)) {
		clean := stripPunct(token)
		if clean == "" {
			continue
		}
		phs := c.wordPhonemes(clean)
		words = append(words, Word{Text: clean, Phonemes: phs})
		seq = append(seq, phs...)
	}
	return seq, words
}

// wordPhonemes resolves one normalised word through the three-stage policy.
func (c *Converter) wordPhonemes(word string) []phoneme.Symbol {
	if phs, ok := lexicon[word]; ok {
		return phs
	}
	if c.phoneticAssist {
		if phs, ok := c.nearestHeadword(word); ok {
			return phs
		}
	}

	phs := make([]phoneme.Symbol, 0, len(word))
	for _, r := range word {
		if p, ok := charMap[r]; ok {
			phs = append(phs, p)
		} else {
			phs = append(phs, phoneme.Symbol(r))
		}
	}
	return phs
}

// nearestHeadword finds the lexicon headword phonetically closest to word.
// A headword qualifies when its Double Metaphone codes overlap with the
// word's and its Jaro-Winkler similarity meets the fuzzy threshold. Among
// qualifying headwords the highest similarity wins; ties break towards the
// alphabetically first headword, keeping the assist deterministic.
func (c *Converter) nearestHeadword(word string) ([]phoneme.Symbol, bool) {
	p, s := matchr.DoubleMetaphone(word)

	best := ""
	bestScore := 0.0
	for _, hw := range headwords {
		codes := headwordCodes[hw]
		if p == "" || (codes[0] != p && codes[1] != p) {
			if s == "" || (codes[0] != s && codes[1] != s) {
				continue
			}
		}
		score := matchr.JaroWinkler(word, hw, false)
		if score >= c.fuzzyThreshold && score > bestScore {
			best, bestScore = hw, score
		}
	}
	if best == "" {
		return nil, false
	}
	return lexicon[best], true
}

// stripPunct removes every rune that is not a letter or digit.
func stripPunct(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// headwords is the sorted list of lexicon keys, fixing the iteration order
// of the phonetic assist.
var headwords = func() []string {
	hws := make([]string, 0, len(lexicon))
	for w := range lexicon {
		hws = append(hws, w)
	}
	sort.Strings(hws)
	return hws
}()

// headwordCodes caches the Double Metaphone codes of every headword.
var headwordCodes = func() map[string][2]string {
	codes := make(map[string][2]string, len(lexicon))
	for w := range lexicon {
		p, s := matchr.DoubleMetaphone(w)
		codes[w] = [2]string{p, s}
	}
	return codes
}()
