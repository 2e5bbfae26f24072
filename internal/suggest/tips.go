package suggest

import "github.com/arpege-labs/phonoscore/pkg/phoneme"

// wordTips holds word-specific pronunciation advice for words learners
// commonly struggle with. Keys are lower case.
var wordTips = map[string]string{
	"the":     "use the soft 'ð' sound with the tongue between the teeth, not a 'd'",
	"think":   "start with the tongue tip between the teeth for 'θ'",
	"this":    "voice the 'ð' at the start; the tongue position matches 'θ'",
	"world":   "glide from 'w' into a long central vowel, then a dark 'l'",
	"very":    "keep the 'v' voiced with the upper teeth on the lower lip; do not substitute 'w'",
	"right":   "curl the tongue for the 'r' without touching the roof of the mouth",
	"work":    "keep the central vowel long and relaxed; do not let it become 'or'",
	"teacher": "make the 'tʃ' one crisp sound, not a separate 't' and 'ʃ'",
}

// phonemeTips holds articulation advice per phoneme symbol.
var phonemeTips = map[phoneme.Symbol]string{
	"θ":  "place the tongue tip between the teeth and blow air gently",
	"ð":  "place the tongue tip between the teeth and add voicing",
	"r":  "curl the tongue tip back without touching the roof of the mouth",
	"l":  "touch the tongue tip to the ridge behind the upper teeth",
	"s":  "keep the tongue close to the ridge and force air through the narrow gap",
	"z":  "shape the tongue as for 's' and add voicing",
	"ʃ":  "round the lips slightly and pull the tongue back from the 's' position",
	"ʒ":  "shape the tongue as for 'ʃ' and add voicing",
	"v":  "touch the upper teeth to the lower lip and add voicing",
	"f":  "touch the upper teeth to the lower lip and blow",
	"w":  "round the lips tightly and glide quickly into the next vowel",
	"æ":  "open the mouth wide and keep the tongue low and forward",
	"ɪ":  "keep the vowel short and relaxed; do not stretch it into 'iː'",
	"iː": "spread the lips and hold the long vowel steady",
	"uː": "round the lips and keep the vowel long",
	"ʊ":  "keep the lips loosely rounded and the vowel short",
	"ɜː": "relax the tongue in the centre of the mouth and hold the vowel",
	"ŋ":  "let the back of the tongue touch the soft palate; no 'g' release",
}
