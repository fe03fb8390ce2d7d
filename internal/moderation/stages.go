package moderation

import (
	"fmt"
	"regexp"
)

// PatternFunc reports whether text matches a prohibited phrase or pattern.
// The returned string names what matched, for diagnostics only.
type PatternFunc func(text string) (string, bool)

// SentimentFunc scores text for toxicity. Higher is worse; 0 means clean.
type SentimentFunc func(text string) int

// NoPatterns is the disabled pattern stage.
func NoPatterns(string) (string, bool) { return "", false }

// NoSentiment is the disabled sentiment stage.
func NoSentiment(string) int { return 0 }

// RegexPatterns compiles patterns into a PatternFunc that reports the first
// pattern matching the text.
func RegexPatterns(patterns []string) (PatternFunc, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return func(text string) (string, bool) {
		for _, re := range compiled {
			if re.MatchString(text) {
				return re.String(), true
			}
		}
		return "", false
	}, nil
}

// WeightedSentiment sums the weight of every token found in weights.
func WeightedSentiment(weights map[string]int) SentimentFunc {
	w := copyWeights(weights)
	return func(text string) int {
		score := 0
		for _, tok := range tokenize(text) {
			score += w[tok]
		}
		return score
	}
}
