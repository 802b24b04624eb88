package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextShortInputSingleChunk(t *testing.T) {
	chunks := SplitText("short", 100, 20)
	assert.Equal(t, []string{"short"}, chunks)
}

func TestSplitTextOverlap(t *testing.T) {
	text := "abcdefghij" // 10 runes
	chunks := SplitText(text, 4, 2)

	require.Equal(t, []string{"abcd", "cdef", "efgh", "ghij"}, chunks)
}

func TestSplitTextCoversWholeInput(t *testing.T) {
	text := strings.Repeat("x", 2500) + "END"
	chunks := SplitText(text, 1200, 150)

	last := chunks[len(chunks)-1]
	assert.True(t, strings.HasSuffix(last, "END"))

	// Every rune of the input appears in some chunk.
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	assert.GreaterOrEqual(t, total, len(text))
}

func TestSplitTextDegenerateOverlap(t *testing.T) {
	// overlap >= chunkSize must not loop forever; the step falls back to
	// the chunk size.
	chunks := SplitText("abcdefgh", 3, 5)
	assert.Equal(t, []string{"abc", "def", "gh"}, chunks)
}

func TestSplitTextMultibyte(t *testing.T) {
	text := strings.Repeat("ü", 10)
	chunks := SplitText(text, 4, 1)

	for _, c := range chunks {
		// Chunk boundaries respect rune boundaries.
		assert.True(t, strings.HasPrefix(c, "ü"))
	}
}
