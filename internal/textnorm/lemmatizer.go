// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package textnorm

import "strings"

// NounLemmatizer reduces English plural nouns to their singular form using an
// irregular-form table followed by suffix rules. Verbs and adjectives are left
// untouched, matching a noun-only dictionary lemmatizer.
//
// Every output is a fixed point: Lemma(Lemma(w)) == Lemma(w).
type NounLemmatizer struct {
	irregular map[string]string
}

// NewNounLemmatizer returns the English noun lemmatizer.
func NewNounLemmatizer() *NounLemmatizer {
	return &NounLemmatizer{irregular: irregularNouns}
}

// invariantSuffixes end words that look plural but are not.
var invariantSuffixes = []string{"ss", "us", "is"}

// pluralSuffixes are tried in order; the first match wins.
var pluralSuffixes = []struct {
	suffix      string
	replacement string
}{
	{"ies", "y"},
	{"sses", "ss"},
	{"shes", "sh"},
	{"ches", "ch"},
	{"xes", "x"},
	{"zzes", "zz"},
	{"s", ""},
}

// minLemmaLength stops the rules from producing stubs like "ga" from "gas".
const minLemmaLength = 3

// Lemma implements Lemmatizer.
func (l *NounLemmatizer) Lemma(token string) string {
	if base, ok := l.irregular[token]; ok {
		return base
	}
	if len(token) <= minLemmaLength {
		return token
	}
	for _, suffix := range invariantSuffixes {
		if strings.HasSuffix(token, suffix) {
			return token
		}
	}
	for _, rule := range pluralSuffixes {
		if !strings.HasSuffix(token, rule.suffix) {
			continue
		}
		base := token[:len(token)-len(rule.suffix)] + rule.replacement
		if len(base) < minLemmaLength {
			return token
		}
		if _, ok := l.irregular[base]; ok {
			// The stem is itself a table entry with a different base form.
			return token
		}
		return base
	}
	return token
}

// irregularNouns maps irregular plurals to their singular. Words that end in
// "s" but are singular map to themselves so the suffix rules skip them.
var irregularNouns = map[string]string{
	"children":   "child",
	"men":        "man",
	"women":      "woman",
	"people":     "person",
	"feet":       "foot",
	"teeth":      "tooth",
	"geese":      "goose",
	"mice":       "mouse",
	"lice":       "louse",
	"oxen":       "ox",
	"dice":       "die",
	"wolves":     "wolf",
	"knives":     "knife",
	"wives":      "wife",
	"lives":      "life",
	"leaves":     "leaf",
	"thieves":    "thief",
	"selves":     "self",
	"halves":     "half",
	"shelves":    "shelf",
	"elves":      "elf",
	"calves":     "calf",
	"loaves":     "loaf",
	"heroes":     "hero",
	"potatoes":   "potato",
	"tomatoes":   "tomato",
	"echoes":     "echo",
	"vetoes":     "veto",
	"torpedoes":  "torpedo",
	"analyses":   "analysis",
	"crises":     "crisis",
	"theses":     "thesis",
	"oases":      "oasis",
	"diagnoses":  "diagnosis",
	"hypotheses": "hypothesis",
	"criteria":   "criterion",
	"phenomena":  "phenomenon",
	"buses":      "bus",
	"viruses":    "virus",
	"cacti":      "cactus",
	"fungi":      "fungus",
	"alumni":     "alumnus",

	// -ie nouns the "ies" rule would turn into -y.
	"movies":    "movie",
	"cookies":   "cookie",
	"zombies":   "zombie",
	"rookies":   "rookie",
	"hippies":   "hippie",
	"pies":      "pie",
	"ties":      "tie",
	"lies":      "lie",
	"genies":    "genie",
	"prairies":  "prairie",
	"calories":  "calorie",
	"selfies":   "selfie",
	"hoodies":   "hoodie",
	"goalies":   "goalie",
	"groupies":  "groupie",
	"junkies":   "junkie",
	"newbies":   "newbie",
	"indies":    "indie",
	"brownies":  "brownie",
	"aunties":   "auntie",
	"sweeties":  "sweetie",
	"smoothies": "smoothie",

	// Singular words ending in "s".
	"news":        "news",
	"series":      "series",
	"species":     "species",
	"means":       "means",
	"lens":        "lens",
	"chaos":       "chaos",
	"cosmos":      "cosmos",
	"ethos":       "ethos",
	"pathos":      "pathos",
	"kudos":       "kudos",
	"atlas":       "atlas",
	"canvas":      "canvas",
	"alias":       "alias",
	"bias":        "bias",
	"christmas":   "christmas",
	"texas":       "texas",
	"vegas":       "vegas",
	"kansas":      "kansas",
	"arkansas":    "arkansas",
	"physics":     "physics",
	"mathematics": "mathematics",
	"politics":    "politics",
	"economics":   "economics",
	"athletics":   "athletics",
	"gymnastics":  "gymnastics",
	"aerobics":    "aerobics",
	"olympics":    "olympics",
	"pants":       "pants",
	"jeans":       "jeans",
	"scissors":    "scissors",
	"binoculars":  "binoculars",
	"sometimes":   "sometimes",
	"always":      "always",
	"perhaps":     "perhaps",
	"towards":     "towards",
	"afterwards":  "afterwards",
	"whereas":     "whereas",
	"besides":     "besides",
}
