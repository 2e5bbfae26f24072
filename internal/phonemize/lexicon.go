package phonemize

import "github.com/arpege-labs/phonoscore/pkg/phoneme"

// lexicon is the closed common-word pronunciation table. Entries use the IPA
// symbols of the [phoneme] alphabet.
var lexicon = map[string][]phoneme.Symbol{
	"the":       {"ð", "ə"},
	"and":       {"æ", "n", "d"},
	"have":      {"h", "æ", "v"},
	"that":      {"ð", "æ", "t"},
	"for":       {"f", "ɔː"},
	"are":       {"ɑː"},
	"with":      {"w", "ɪ", "θ"},
	"his":       {"h", "ɪ", "z"},
	"they":      {"ð", "eɪ"},
	"this":      {"ð", "ɪ", "s"},
	"from":      {"f", "r", "ɒ", "m"},
	"she":       {"ʃ", "iː"},
	"her":       {"h", "ɜː"},
	"been":      {"b", "iː", "n"},
	"than":      {"ð", "æ", "n"},
	"its":       {"ɪ", "t", "s"},
	"now":       {"n", "aʊ"},
	"more":      {"m", "ɔː"},
	"very":      {"v", "e", "r", "ɪ"},
	"what":      {"w", "ɒ", "t"},
	"know":      {"n", "əʊ"},
	"just":      {"dʒ", "ʌ", "s", "t"},
	"first":     {"f", "ɜː", "s", "t"},
	"time":      {"t", "aɪ", "m"},
	"people":    {"p", "iː", "p", "ə", "l"},
	"good":      {"g", "ʊ", "d"},
	"work":      {"w", "ɜː", "k"},
	"school":    {"s", "k", "uː", "l"},
	"world":     {"w", "ɜː", "l", "d"},
	"great":     {"g", "r", "eɪ", "t"},
	"think":     {"θ", "ɪ", "ŋ", "k"},
	"way":       {"w", "eɪ"},
	"make":      {"m", "eɪ", "k"},
	"today":     {"t", "ə", "d", "eɪ"},
	"help":      {"h", "e", "l", "p"},
	"home":      {"h", "əʊ", "m"},
	"nice":      {"n", "aɪ", "s"},
	"happy":     {"h", "æ", "p", "ɪ"},
	"love":      {"l", "ʌ", "v"},
	"like":      {"l", "aɪ", "k"},
	"want":      {"w", "ɒ", "n", "t"},
	"need":      {"n", "iː", "d"},
	"thank":     {"θ", "æ", "ŋ", "k"},
	"you":       {"j", "uː"},
	"hello":     {"h", "ə", "l", "əʊ"},
	"water":     {"w", "ɔː", "t", "ər"},
	"food":      {"f", "uː", "d"},
	"money":     {"m", "ʌ", "n", "ɪ"},
	"house":     {"h", "aʊ", "s"},
	"friend":    {"f", "r", "e", "n", "d"},
	"family":    {"f", "æ", "m", "ɪ", "l", "ɪ"},
	"book":      {"b", "ʊ", "k"},
	"music":     {"m", "j", "uː", "z", "ɪ", "k"},
	"beautiful": {"b", "j", "uː", "t", "ɪ", "f", "ʊ", "l"},
	"important": {"ɪ", "m", "p", "ɔː", "t", "ə", "n", "t"},
	"different": {"d", "ɪ", "f", "ər", "ə", "n", "t"},
	"because":   {"b", "ɪ", "k", "ɒ", "z"},
}

// charMap is the per-character fallback for words outside the lexicon.
// Characters absent here pass through as their own symbol.
var charMap = map[rune]phoneme.Symbol{
	'a': "æ", 'e': "e", 'i': "ɪ", 'o': "ɒ", 'u': "ʊ",
	'p': "p", 'b': "b", 't': "t", 'd': "d", 'k': "k", 'g': "g",
	'f': "f", 'v': "v", 's': "s", 'z': "z",
	'm': "m", 'n': "n", 'l': "l", 'r': "r",
	'w': "w", 'y': "j", 'h': "h", 'j': "dʒ",
	'c': "k", 'q': "k", 'x': "z",
}
