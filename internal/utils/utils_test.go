package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomID(t *testing.T) {
	id := RandomID(8)
	assert.Len(t, id, 8)
	for _, r := range id {
		assert.True(t, strings.ContainsRune(idAlphabet, r), "unexpected rune %q", r)
	}
	assert.NotEqual(t, RandomID(16), RandomID(16))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestStringToInt(t *testing.T) {
	assert.Equal(t, 12, StringToInt("12"))
	assert.Equal(t, 0, StringToInt("twelve"))
	assert.Equal(t, 3, StringToInt(" 3 "))
}

func TestRenderMarkdown_Sanitises(t *testing.T) {
	out := string(RenderMarkdown("**bold** <script>alert(1)</script> [link](https://example.edu)"))
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, `href="https://example.edu"`)
	assert.Contains(t, out, `target="_blank"`)
}
