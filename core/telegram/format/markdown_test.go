package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeMarkdownV1(t *testing.T) {
	got, err := EscapeMarkdown("gold_ring *18k* [new] `x`", MarkdownV1)
	require.NoError(t, err)
	assert.Equal(t, "gold\\_ring \\*18k\\* \\[new] \\`x\\`", got)
	assert.Equal(t, "16.5, 17", MD("16.5, 17"))
}

func TestEscapeMarkdownV2(t *testing.T) {
	got, err := EscapeMarkdown("16.5-17!", MarkdownV2)
	require.NoError(t, err)
	assert.Equal(t, "16\\.5\\-17\\!", got)
}

func TestEscapeMarkdownUnknownVersion(t *testing.T) {
	_, err := EscapeMarkdown("x", 3)
	assert.Error(t, err)
}

func TestDerefString(t *testing.T) {
	s := "18k"
	empty := ""
	assert.Equal(t, "18k", DerefString(&s, "none"))
	assert.Equal(t, "none", DerefString(&empty, "none"))
	assert.Equal(t, "none", DerefString(nil, "none"))
}
