package extraction_engine

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aalghefa/ecologic-backend/internal/models"
)

// pricePattern matches an optional dollar sign, 1-3 digit groups with
// optional thousands commas, and an optional 1-2 digit decimal part:
// "12", "12.95", "$12.95", "1,200.00".
var pricePattern = regexp.MustCompile(`\$?\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?`)

// leaderChars are the decoration runs menus pad between a name and its
// price ("Caesar Salad ....... 12.50").
const leaderChars = ".·-"

// ExtractCandidates walks the normalized lines with a cursor that consumes
// one or two lines per iteration and returns the dish candidates it can
// infer with high confidence. Lines that fit neither layout are skipped,
// never an error: missed items are correctable by hand, garbage candidates
// are not.
//
// Two layouts are recognized:
//
//	same-line: "Grilled Salmon ... $24.00"  (name and price share a line)
//	two-line:  "Grilled Salmon" / "$24.00"  (price on the following line)
//
// A price line consumed by the two-line case is never revisited as a
// candidate of its own.
func ExtractCandidates(lines []string) []models.MenuCandidate {
	var out []models.MenuCandidate

	for i := 0; i < len(lines); {
		line := lines[i]
		loc := pricePattern.FindStringIndex(line)
		hasLetter := containsLetter(line)

		// Same-line case. Everything before the first price match is the
		// candidate name. Whether or not the gates accept it, the two-line
		// case must not run for a line that already carries a price.
		if loc != nil && hasLetter {
			name := cleanName(line[:loc[0]])
			if price, ok := parsePrice(line[loc[0]:loc[1]]); ok && validName(name) {
				out = append(out, models.MenuCandidate{
					Name:       name,
					Price:      price,
					SourceText: line,
				})
			}
			i++
			continue
		}

		// Two-line case: a bare name line followed by a price-bearing line.
		// The price line is consumed even when the name fails a gate, so it
		// can never be double-counted as its own candidate.
		if loc == nil && hasLetter && i+1 < len(lines) {
			next := lines[i+1]
			if nloc := pricePattern.FindStringIndex(next); nloc != nil {
				name := cleanName(line)
				if price, ok := parsePrice(next[nloc[0]:nloc[1]]); ok && validName(name) {
					out = append(out, models.MenuCandidate{
						Name:       name,
						Price:      price,
						SourceText: line + " " + next,
					})
				}
				i += 2
				continue
			}
		}

		i++
	}
	return out
}

// cleanName trims whitespace and the trailing leader decoration menus use
// between a name and its price column.
func cleanName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, leaderChars)
	return strings.TrimSpace(s)
}

// validName gates what may become a candidate name: at least 3 characters
// and at least one letter. Anything shorter or letter-free is noise.
func validName(name string) bool {
	return utf8.RuneCountInString(name) >= 3 && containsLetter(name)
}

// parsePrice converts a matched price token to a number. The token has
// already matched pricePattern; reject anything that fails to parse, is not
// finite, or is not strictly positive.
func parsePrice(tok string) (float64, bool) {
	tok = strings.TrimPrefix(tok, "$")
	tok = strings.ReplaceAll(tok, ",", "")
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
