package grading

import (
	"strings"

	"github.com/NAMUCU/EduFlow-sub007/internal/models"
)

// normalizeAnswer applies the option-controlled canonicalization shared
// by every grader: trim, optional case folding, optional whitespace
// stripping.
func normalizeAnswer(s string, opts models.GradingOptions) string {
	s = strings.TrimSpace(s)
	if !opts.CaseSensitive {
		s = strings.ToLower(s)
	}
	if opts.IgnoreWhitespace {
		s = strings.Join(strings.Fields(s), "")
	}
	return s
}

// Choice answers arrive in several spellings: letters, digits 1-5, and
// the circled-numeral glyphs common in Korean textbooks. All map onto
// the letters a-e.
var circledNumerals = map[rune]string{
	'①': "a", '②': "b", '③': "c", '④': "d", '⑤': "e",
}

var digitChoices = map[string]string{
	"1": "a", "2": "b", "3": "c", "4": "d", "5": "e",
}

func normalizeChoice(s string, opts models.GradingOptions) string {
	n := normalizeAnswer(s, opts)
	if runes := []rune(n); len(runes) == 1 {
		if mapped, ok := circledNumerals[runes[0]]; ok {
			return mapped
		}
	}
	if mapped, ok := digitChoices[n]; ok {
		return mapped
	}
	// Single letters compare case-insensitively even when the option
	// keeps free-text answers case sensitive.
	if len(n) == 1 {
		return strings.ToLower(n)
	}
	return n
}

const (
	truthTrue    = "true"
	truthFalse   = "false"
	truthUnknown = "unknown"
)

var truthTokens = map[string]string{
	"o": truthTrue, "true": truthTrue, "t": truthTrue, "참": truthTrue,
	"예": truthTrue, "yes": truthTrue, "y": truthTrue, "1": truthTrue,
	"맞음": truthTrue,

	"x": truthFalse, "false": truthFalse, "f": truthFalse, "거짓": truthFalse,
	"아니오": truthFalse, "no": truthFalse, "n": truthFalse, "0": truthFalse,
	"틀림": truthFalse,
}

// normalizeTruthValue canonicalizes the many accepted spellings of a
// true/false answer. Anything unrecognized becomes "unknown", which
// never matches.
func normalizeTruthValue(s string) string {
	key := strings.ToLower(strings.TrimSpace(s))
	if v, ok := truthTokens[key]; ok {
		return v
	}
	return truthUnknown
}
