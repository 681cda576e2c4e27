package domain

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Weekdays are the canonical day names, Monday first.
var Weekdays = []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}

var weekdayIndex = func() map[string]string {
	m := make(map[string]string, len(Weekdays))
	for _, d := range Weekdays {
		m[foldKey(d)] = d
	}
	return m
}()

// ParseWeekday maps a day name to its canonical form, ignoring case and accents.
func ParseWeekday(s string) (string, bool) {
	d, ok := weekdayIndex[foldKey(s)]
	return d, ok
}

// NormalizeDays canonicalises days, keeping the input order. Unknown and
// repeated days are errors.
func NormalizeDays(days []string) ([]string, error) {
	out := make([]string, 0, len(days))
	seen := make(map[string]bool, len(days))
	for _, raw := range days {
		d, ok := ParseWeekday(raw)
		if !ok {
			return nil, fmt.Errorf("unknown day %q", raw)
		}
		if seen[d] {
			return nil, fmt.Errorf("day %q listed twice", d)
		}
		seen[d] = true
		out = append(out, d)
	}
	return out, nil
}

// FoldText lowercases s and strips diacritics, for accent-insensitive matching.
func FoldText(s string) string {
	return foldKey(s)
}

func foldKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}
