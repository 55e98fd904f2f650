package extraction_engine

import (
	"strings"
	"unicode"

	"github.com/aalghefa/ecologic-backend/internal/core"
)

// NormalizeText collapses a raw text blob into an ordered sequence of clean
// lines: control characters stripped, whitespace runs collapsed to a single
// space, leading/trailing whitespace trimmed, empty lines dropped. Line
// order is preserved because adjacency drives the two-line heuristic in the
// candidate extractor.
//
// Returns core.ErrEmptyDocument when nothing survives normalization, which
// is how an image-only or scanned PDF presents after text recovery.
func NormalizeText(raw string) ([]string, error) {
	// Control characters become spaces rather than vanishing, so a tab
	// between a name and its price still separates the two tokens.
	cleaned := strings.Map(func(r rune) rune {
		if r == '\n' {
			return r
		}
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, raw)

	var lines []string
	for _, line := range strings.Split(cleaned, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		lines = append(lines, strings.Join(fields, " "))
	}

	if len(lines) == 0 {
		return nil, core.ErrEmptyDocument
	}
	return lines, nil
}
