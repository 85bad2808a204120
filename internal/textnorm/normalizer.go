// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// tokenPattern matches word characters plus internal hyphens.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_-]+`)

// Lemmatizer maps a single lowercase token to its dictionary base form.
// Implementations must be safe for concurrent use.
type Lemmatizer interface {
	Lemma(token string) string
}

// Normalizer runs the five normalization stages in order:
// Lower, RemovePunctuation, RemoveNumbers, Lemmatize, RemoveStopWords.
// A Normalizer is immutable and safe for concurrent use.
type Normalizer struct {
	lemmatizer Lemmatizer
	stopWords  map[string]struct{}
}

// New creates a Normalizer. A nil lemmatizer selects the English noun
// lemmatizer and a nil stopWords slice selects the English stop-word set.
func New(lemmatizer Lemmatizer, stopWords []string) *Normalizer {
	if lemmatizer == nil {
		lemmatizer = NewNounLemmatizer()
	}
	if stopWords == nil {
		stopWords = EnglishStopWords()
	}
	set := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		set[w] = struct{}{}
	}
	return &Normalizer{lemmatizer: lemmatizer, stopWords: set}
}

// Default returns a Normalizer with the English lemmatizer and stop words.
func Default() *Normalizer {
	return New(nil, nil)
}

// Normalize applies all five stages. Empty input yields empty output.
func (n *Normalizer) Normalize(s string) string {
	s = Lower(s)
	s = RemovePunctuation(s)
	s = RemoveNumbers(s)
	s = n.Lemmatize(s)
	return n.RemoveStopWords(s)
}

// Lemmatize splits s on whitespace, replaces every token by its base form
// and lowercases the result.
func (n *Normalizer) Lemmatize(s string) string {
	tokens := strings.Fields(s)
	for i, tok := range tokens {
		tokens[i] = Lower(n.lemmatizer.Lemma(Lower(tok)))
	}
	return strings.Join(tokens, " ")
}

// RemoveStopWords drops tokens that exactly match a stop word.
func (n *Normalizer) RemoveStopWords(s string) string {
	tokens := strings.Fields(s)
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, stop := n.stopWords[tok]; !stop {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

// IsStopWord reports whether token is in the normalizer's stop-word set.
func (n *Normalizer) IsStopWord(token string) bool {
	_, ok := n.stopWords[token]
	return ok
}

// Lower lowercases s with Unicode-aware case mapping.
func Lower(s string) string {
	// Casers carry state and are not shared between goroutines.
	return cases.Lower(language.Und).String(s)
}

// RemovePunctuation keeps runs of letters, digits, underscores and hyphens
// and joins them with single spaces.
func RemovePunctuation(s string) string {
	return strings.Join(tokenPattern.FindAllString(s, -1), " ")
}

// RemoveNumbers deletes every ASCII digit in place. "movie123" becomes "movie".
func RemoveNumbers(s string) string {
	if strings.IndexAny(s, "0123456789") < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c < '0' || c > '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
