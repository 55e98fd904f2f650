package extraction_engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalghefa/ecologic-backend/internal/core"
)

func TestNormalizeText_CollapsesWhitespace(t *testing.T) {
	raw := "  Grilled   Salmon\t\twith rice  \n\nCaesar Salad   \n"

	lines, err := NormalizeText(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Grilled Salmon with rice", "Caesar Salad"}, lines)
}

func TestNormalizeText_DropsEmptyLines(t *testing.T) {
	raw := "Starters\n\n   \n\t\nMains\n"

	lines, err := NormalizeText(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Starters", "Mains"}, lines)
}

func TestNormalizeText_StripsControlCharacters(t *testing.T) {
	raw := "Caesar\x07 Salad\r\n$12.50\x00\n"

	lines, err := NormalizeText(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Caesar Salad", "$12.50"}, lines)
}

func TestNormalizeText_PreservesOrder(t *testing.T) {
	raw := "one\ntwo\nthree"

	lines, err := NormalizeText(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, lines)
}

func TestNormalizeText_EmptyDocument(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty string", raw: ""},
		{name: "whitespace only", raw: "   \n\t\n  \n"},
		{name: "control characters only", raw: "\x00\x07\x1b\r\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lines, err := NormalizeText(tc.raw)
			assert.ErrorIs(t, err, core.ErrEmptyDocument)
			assert.Nil(t, lines)
		})
	}
}
