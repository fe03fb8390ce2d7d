package moderation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.False(t, cfg.PatternFilterEnabled)
	assert.False(t, cfg.SentimentScoringEnabled)
	assert.Equal(t, 1, cfg.StrictSentimentThreshold)
	assert.Equal(t, 2, cfg.LenientSentimentThreshold)
	assert.Contains(t, cfg.BlockedKeywords, "kill")
	assert.Contains(t, cfg.BlockedKeywords, "ass")

	// Each call hands out its own copy.
	cfg.BlockedKeywords[0] = "changed"
	cfg.NegativeWords["hate"] = 99
	fresh := DefaultConfig()
	assert.NotEqual(t, "changed", fresh.BlockedKeywords[0])
	assert.Equal(t, 1, fresh.NegativeWords["hate"])
}

func TestApplyPolicyOverlay(t *testing.T) {
	doc := []byte(`
extra_blocked_keywords: ["plagiarize"]
pattern_filter_enabled: true
lenient_sentiment_threshold: 3
negative_words:
  awful: 2
`)
	cfg, err := ApplyPolicy(doc, DefaultConfig())
	require.NoError(t, err)

	assert.Contains(t, cfg.BlockedKeywords, "kill")
	assert.Contains(t, cfg.BlockedKeywords, "plagiarize")
	assert.True(t, cfg.PatternFilterEnabled)
	assert.False(t, cfg.SentimentScoringEnabled)
	assert.Equal(t, 1, cfg.StrictSentimentThreshold)
	assert.Equal(t, 3, cfg.LenientSentimentThreshold)
	assert.Equal(t, map[string]int{"awful": 2}, cfg.NegativeWords)
}

func TestApplyPolicyReplacesKeywords(t *testing.T) {
	cfg, err := ApplyPolicy([]byte(`blocked_keywords: ["spoiler"]`), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"spoiler"}, cfg.BlockedKeywords)
}

func TestApplyPolicyRejectsInvalid(t *testing.T) {
	base := DefaultConfig()
	for name, doc := range map[string]string{
		"bad yaml":         "blocked_keywords: [",
		"bad pattern":      `patterns: ["(oops"]`,
		"zero strict":      "strict_sentiment_threshold: 0",
		"negative lenient": "lenient_sentiment_threshold: -1",
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := ApplyPolicy([]byte(doc), base)
			assert.Error(t, err)
			assert.Equal(t, base.StrictSentimentThreshold, cfg.StrictSentimentThreshold)
		})
	}
}

func TestLoadPolicyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sentiment_scoring_enabled: true\n"), 0o600))

	cfg, err := LoadPolicyFile(path, DefaultConfig())
	require.NoError(t, err)
	assert.True(t, cfg.SentimentScoringEnabled)

	_, err = LoadPolicyFile(filepath.Join(t.TempDir(), "missing.yaml"), DefaultConfig())
	assert.Error(t, err)
}
