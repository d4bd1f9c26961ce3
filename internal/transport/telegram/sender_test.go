package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitHTMLShortText(t *testing.T) {
	chunks := splitHTML("hello", 100)
	assert.Equal(t, []string{"hello"}, chunks)
}

func TestSplitHTMLPrefersNewlines(t *testing.T) {
	text := strings.Repeat("line one\n", 20)
	chunks := splitHTML(text, 100)

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 100)
	}
	// Reassembled content survives chunking.
	joined := strings.Join(chunks, "\n")
	assert.Equal(t, strings.Count(text, "line one"), strings.Count(joined, "line one"))
}

func TestSplitHTMLHardCut(t *testing.T) {
	text := strings.Repeat("x", 250)
	chunks := splitHTML(text, 100)

	require.Len(t, chunks, 3)
	assert.Equal(t, 100, len(chunks[0]))
	assert.Equal(t, 50, len(chunks[2]))
}
