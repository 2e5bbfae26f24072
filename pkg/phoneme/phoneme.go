// Package phoneme defines the phoneme inventory used throughout phonoscore.
//
// Symbols come from a closed IPA-based alphabet covering the vowels and
// consonants produced by the text-to-phoneme converter. Each symbol belongs to
// exactly one [Category]; classification drives category-specific scoring
// rules and alignment duration weights. All tables in this package are fixed
// linguistic priors — tunable scoring thresholds live in internal/config.
package phoneme

// Symbol is an opaque phoneme identifier from the closed alphabet
// (e.g. "æ", "ð", "tʃ"). Symbols outside the alphabet classify as
// [CategoryUnknown] and are scored with generic rules only.
type Symbol string

// Category is the articulatory class of a phoneme. It is a closed set;
// [Classify] maps every symbol to exactly one variant.
type Category string

const (
	CategoryVowelLow             Category = "vowel-low"
	CategoryVowelMid             Category = "vowel-mid"
	CategoryVowelHigh            Category = "vowel-high"
	CategoryDiphthong            Category = "diphthong"
	CategoryFricativeSibilant    Category = "fricative-sibilant"
	CategoryFricativeNonSibilant Category = "fricative-non-sibilant"
	CategoryStopVoiceless        Category = "stop-voiceless"
	CategoryStopVoiced           Category = "stop-voiced"
	CategoryAffricate            Category = "affricate"
	CategoryNasal                Category = "nasal"
	CategoryLiquid               Category = "liquid"
	CategoryGlide                Category = "glide"
	CategoryUnknown              Category = "unknown"
)

// IsValid reports whether c is a recognised category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryVowelLow, CategoryVowelMid, CategoryVowelHigh, CategoryDiphthong,
		CategoryFricativeSibilant, CategoryFricativeNonSibilant,
		CategoryStopVoiceless, CategoryStopVoiced, CategoryAffricate,
		CategoryNasal, CategoryLiquid, CategoryGlide, CategoryUnknown:
		return true
	}
	return false
}

// IsVowel reports whether c is one of the vowel categories (including diphthongs).
func (c Category) IsVowel() bool {
	switch c {
	case CategoryVowelLow, CategoryVowelMid, CategoryVowelHigh, CategoryDiphthong:
		return true
	}
	return false
}

// categories holds the fixed membership tables. A symbol appears in at most
// one list.
var categories = map[Category][]Symbol{
	CategoryVowelLow:             {"æ", "ɑː", "ɒ"},
	CategoryVowelMid:             {"e", "ɜː", "ʌ", "ə", "ɔː", "ər"},
	CategoryVowelHigh:            {"iː", "ɪ", "uː", "ʊ"},
	CategoryDiphthong:            {"aɪ", "aʊ", "ɔɪ", "eɪ", "əʊ"},
	CategoryFricativeSibilant:    {"s", "z", "ʃ", "ʒ"},
	CategoryFricativeNonSibilant: {"f", "v", "θ", "ð", "h"},
	CategoryStopVoiceless:        {"p", "t", "k"},
	CategoryStopVoiced:           {"b", "d", "g"},
	CategoryAffricate:            {"tʃ", "dʒ"},
	CategoryNasal:                {"m", "n", "ŋ"},
	CategoryLiquid:               {"l", "r"},
	CategoryGlide:                {"w", "j"},
}

var categoryOf = func() map[Symbol]Category {
	m := make(map[Symbol]Category, 48)
	for cat, syms := range categories {
		for _, s := range syms {
			m[s] = cat
		}
	}
	return m
}()

// Classify returns the category of s. Symbols outside the closed alphabet
// return [CategoryUnknown].
func Classify(s Symbol) Category {
	if c, ok := categoryOf[s]; ok {
		return c
	}
	return CategoryUnknown
}

// DurationPrior is the expected [Min, Max] duration range of a phoneme in
// seconds. Durations outside the range indicate rushed or dragged articulation.
type DurationPrior struct {
	Min float64
	Max float64
}

// durationPriors lists expected duration ranges for symbols with known typical
// lengths. Symbols absent here skip the duration scoring rule entirely.
var durationPriors = map[Symbol]DurationPrior{
	"æ":  {0.08, 0.15},
	"ɪ":  {0.06, 0.12},
	"ʊ":  {0.06, 0.12},
	"iː": {0.10, 0.20},
	"uː": {0.10, 0.20},
	"ɜː": {0.12, 0.25},
	"p":  {0.02, 0.08},
	"b":  {0.03, 0.10},
	"t":  {0.02, 0.08},
	"d":  {0.03, 0.10},
	"k":  {0.02, 0.08},
	"g":  {0.03, 0.10},
	"f":  {0.08, 0.15},
	"v":  {0.06, 0.12},
	"s":  {0.08, 0.18},
	"z":  {0.06, 0.15},
	"ʃ":  {0.08, 0.16},
	"ʒ":  {0.06, 0.14},
}

// DurationPriorFor returns the duration prior for s and whether one exists.
func DurationPriorFor(s Symbol) (DurationPrior, bool) {
	p, ok := durationPriors[s]
	return p, ok
}

// durationWeights holds relative duration weights used by the
// duration-weighted aligner. Vowels carry more of the utterance than stops.
// Symbols absent here weigh 1.0.
var durationWeights = map[Symbol]float64{
	"æ": 1.2, "ɪ": 1.0, "ʊ": 1.0, "iː": 1.5, "uː": 1.5, "ɜː": 1.8,
	"ʌ": 1.1, "aɪ": 1.3, "aʊ": 1.3, "ɔɪ": 1.3, "e": 1.1, "ɒ": 1.1,
	"eɪ": 1.3, "əʊ": 1.3, "ɑː": 1.4, "ɔː": 1.4, "ə": 0.8,

	"p": 0.6, "b": 0.7, "t": 0.6, "d": 0.7, "k": 0.6, "g": 0.7,
	"f": 0.9, "v": 0.8, "θ": 0.8, "ð": 0.7, "s": 0.9, "z": 0.8,
	"ʃ": 0.9, "ʒ": 0.8, "tʃ": 0.8, "dʒ": 0.8,
	"m": 0.8, "n": 0.8, "ŋ": 0.8, "l": 0.8, "r": 0.8,
	"w": 0.7, "j": 0.6, "h": 0.5,
}

// DurationWeight returns the relative duration weight of s for
// duration-weighted alignment. Unknown symbols weigh 1.0.
func DurationWeight(s Symbol) float64 {
	if w, ok := durationWeights[s]; ok {
		return w
	}
	return 1.0
}
