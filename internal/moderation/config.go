package moderation

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Sentiment thresholds. The strict one guards posts and comments, the lenient
// one guards everything routed through BasicKeywordCheck.
const (
	StrictSentimentThreshold  = 1
	LenientSentimentThreshold = 2
)

// DefaultRemoteTimeout bounds a single call to the remote classifier.
const DefaultRemoteTimeout = 10 * time.Second

// Config is the static moderation policy. Build it once at startup and treat it
// as read-only afterwards.
type Config struct {
	BlockedKeywords []string       `yaml:"blocked_keywords"`
	Patterns        []string       `yaml:"patterns"`
	NegativeWords   map[string]int `yaml:"negative_words"`

	PatternFilterEnabled    bool `yaml:"pattern_filter_enabled"`
	SentimentScoringEnabled bool `yaml:"sentiment_scoring_enabled"`

	StrictSentimentThreshold  int `yaml:"strict_sentiment_threshold"`
	LenientSentimentThreshold int `yaml:"lenient_sentiment_threshold"`

	RemoteTimeout time.Duration `yaml:"-"`
}

// DefaultConfig returns the built-in policy. The pattern filter and sentiment
// scorer ship disabled.
func DefaultConfig() Config {
	return Config{
		BlockedKeywords:           append([]string(nil), defaultBlockedKeywords...),
		Patterns:                  append([]string(nil), defaultPatterns...),
		NegativeWords:             copyWeights(defaultNegativeWords),
		StrictSentimentThreshold:  StrictSentimentThreshold,
		LenientSentimentThreshold: LenientSentimentThreshold,
		RemoteTimeout:             DefaultRemoteTimeout,
	}
}

// Validate checks thresholds and pattern syntax.
func (c Config) Validate() error {
	var errs []error
	if c.StrictSentimentThreshold < 1 {
		errs = append(errs, fmt.Errorf("strict sentiment threshold must be >= 1, got %d", c.StrictSentimentThreshold))
	}
	if c.LenientSentimentThreshold < 1 {
		errs = append(errs, fmt.Errorf("lenient sentiment threshold must be >= 1, got %d", c.LenientSentimentThreshold))
	}
	for _, p := range c.Patterns {
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, fmt.Errorf("pattern %q: %w", p, err))
		}
	}
	return errors.Join(errs...)
}

// policyFile is the on-disk shape of a policy override. Lists replace the
// defaults, except ExtraBlockedKeywords which is appended.
type policyFile struct {
	BlockedKeywords      []string       `yaml:"blocked_keywords"`
	ExtraBlockedKeywords []string       `yaml:"extra_blocked_keywords"`
	Patterns             []string       `yaml:"patterns"`
	NegativeWords        map[string]int `yaml:"negative_words"`

	PatternFilterEnabled    *bool `yaml:"pattern_filter_enabled"`
	SentimentScoringEnabled *bool `yaml:"sentiment_scoring_enabled"`

	StrictSentimentThreshold  *int `yaml:"strict_sentiment_threshold"`
	LenientSentimentThreshold *int `yaml:"lenient_sentiment_threshold"`
}

// LoadPolicyFile overlays the YAML policy at path onto base.
func LoadPolicyFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read policy file: %w", err)
	}
	return ApplyPolicy(data, base)
}

// ApplyPolicy overlays a YAML policy document onto base.
func ApplyPolicy(data []byte, base Config) (Config, error) {
	var pf policyFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return base, fmt.Errorf("parse policy: %w", err)
	}

	cfg := base
	if len(pf.BlockedKeywords) > 0 {
		cfg.BlockedKeywords = append([]string(nil), pf.BlockedKeywords...)
	} else {
		cfg.BlockedKeywords = append([]string(nil), base.BlockedKeywords...)
	}
	cfg.BlockedKeywords = append(cfg.BlockedKeywords, pf.ExtraBlockedKeywords...)
	if len(pf.Patterns) > 0 {
		cfg.Patterns = append([]string(nil), pf.Patterns...)
	}
	if len(pf.NegativeWords) > 0 {
		cfg.NegativeWords = copyWeights(pf.NegativeWords)
	}
	if pf.PatternFilterEnabled != nil {
		cfg.PatternFilterEnabled = *pf.PatternFilterEnabled
	}
	if pf.SentimentScoringEnabled != nil {
		cfg.SentimentScoringEnabled = *pf.SentimentScoringEnabled
	}
	if pf.StrictSentimentThreshold != nil {
		cfg.StrictSentimentThreshold = *pf.StrictSentimentThreshold
	}
	if pf.LenientSentimentThreshold != nil {
		cfg.LenientSentimentThreshold = *pf.LenientSentimentThreshold
	}

	if err := cfg.Validate(); err != nil {
		return base, fmt.Errorf("invalid policy: %w", err)
	}
	return cfg, nil
}

func copyWeights(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

var defaultBlockedKeywords = []string{
	// profanity
	"fuck", "fucking", "fucker", "motherfucker", "shit", "bullshit", "bitch",
	"ass", "asshole", "bastard", "dick", "cunt", "piss", "wanker",
	// slurs
	"retard", "faggot", "fag", "tranny", "nigger", "nigga", "chink", "spic", "kike",
	// violence
	"kill", "murder", "rape", "shoot up",
	// sexual
	"porn", "nudes",
}

// defaultPatterns catch phrasing the keyword list cannot, such as direct
// threats and spam. Only consulted when PatternFilterEnabled is set.
var defaultPatterns = []string{
	`(?i)\b(i|we)('ll| will| am going to|'m going to| m going to)\s+(hurt|find|beat|stab)\s+you\b`,
	`(?i)\bkys\b`,
	`(?i)\bgo\s+(die|hang yourself)\b`,
	`(?i)\b(buy|cheap)\s+(followers|essays|grades)\b`,
	`(?i)(https?://\S+[\s\S]*){4,}`,
}

var defaultNegativeWords = map[string]int{
	"hate":       1,
	"stupid":     1,
	"dumb":       1,
	"pathetic":   1,
	"disgusting": 1,
	"trash":      1,
	"loser":      1,
	"ugly":       1,
	"idiot":      2,
	"moron":      2,
	"worthless":  2,
	"die":        2,
}
