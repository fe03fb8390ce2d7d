package moderation

import (
	"strings"
	"sync"
	"unicode"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// keywordFilter matches blocked words and phrases on word boundaries in a
// single pass. Both the terms and the input are reduced to space-separated
// lower-case tokens and padded with spaces, so " ass " never hits "class".
type keywordFilter struct {
	// ahocorasick.Matcher mutates internal counters during Match.
	mu      sync.Mutex
	matcher *ahocorasick.Matcher
	terms   []string
}

func newKeywordFilter(words []string) *keywordFilter {
	f := &keywordFilter{}
	seen := make(map[string]bool, len(words))
	padded := make([]string, 0, len(words))

	for _, w := range words {
		norm := strings.Join(tokenize(w), " ")
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		f.terms = append(f.terms, norm)
		padded = append(padded, " "+norm+" ")
	}

	if len(padded) > 0 {
		f.matcher = ahocorasick.NewStringMatcher(padded)
	}
	return f
}

// match returns the first blocked term (in list order) found in text.
func (f *keywordFilter) match(text string) (string, bool) {
	if f.matcher == nil {
		return "", false
	}
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return "", false
	}
	haystack := []byte(" " + strings.Join(tokens, " ") + " ")

	f.mu.Lock()
	hits := f.matcher.Match(haystack)
	f.mu.Unlock()

	if len(hits) == 0 {
		return "", false
	}
	first := hits[0]
	for _, h := range hits[1:] {
		if h < first {
			first = h
		}
	}
	return f.terms[first], true
}

// tokenize lower-cases s and splits it into runs of letters and digits.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
