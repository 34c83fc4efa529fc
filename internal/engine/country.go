package engine

// country.go normalizes free-text country values to ISO-3166 alpha-2 codes.
// Resolution order: direct code check, manual alias table, exact name
// lookup, then bounded fuzzy matching. Fuzzy matching is deliberately
// conservative: short inputs never match, so "Mars" cannot land on the
// Marshall Islands.

import (
	"strings"

	"github.com/devShop-studio/medway-import-core-sub000/internal/refdata"
)

// countryFuzzyMinLen is the minimum folded-input length eligible for
// containment or similarity matching.
const countryFuzzyMinLen = 5

// countryFuzzyThreshold is the Jaro-Winkler floor for a fuzzy name match.
const countryFuzzyThreshold = 0.93

// NormalizeCountry resolves free text to an ISO-3166 alpha-2 code.
// Returns ok=false when the input cannot be resolved.
func NormalizeCountry(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	// Direct code: a bare 2-letter value that is a real ISO code.
	if up := strings.ToUpper(s); len(up) == 2 && refdata.ISOCodes[up] {
		return up, true
	}

	key := foldCountryKey(s)
	if key == "" {
		return "", false
	}

	if code, ok := refdata.CountryAliases[key]; ok {
		return code, true
	}
	if code, ok := refdata.CountryNames[key]; ok {
		return code, true
	}

	if len(key) < countryFuzzyMinLen {
		return "", false
	}

	// Containment: "made in india", "product of germany".
	for name, code := range refdata.CountryNames {
		if len(name) >= countryFuzzyMinLen && containsWord(key, name) {
			return code, true
		}
	}

	// Bounded similarity over full names for misspellings ("germny").
	bestCode, bestScore := "", 0.0
	for name, code := range refdata.CountryNames {
		if score := jaroWinkler(key, name); score > bestScore {
			bestScore, bestCode = score, code
		}
	}
	for alias, code := range refdata.CountryAliases {
		if len(alias) < countryFuzzyMinLen {
			continue
		}
		if score := jaroWinkler(key, alias); score > bestScore {
			bestScore, bestCode = score, code
		}
	}
	if bestScore >= countryFuzzyThreshold {
		return bestCode, true
	}
	return "", false
}

// foldCountryKey lowercases, strips accents and punctuation, and collapses
// whitespace so "U.S.A" and "usa" share a key.
func foldCountryKey(s string) string {
	folded := foldASCII(s)
	var b strings.Builder
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r == ' ', r == '-':
			b.WriteRune(r)
		case r == '.', r == ',', r == '\'':
			// dropped
		default:
			b.WriteRune(' ')
		}
	}
	return collapseSpaces(b.String())
}

// containsWord reports whether needle occurs in haystack on word boundaries.
func containsWord(haystack, needle string) bool {
	idx := strings.Index(haystack, needle)
	for idx >= 0 {
		beforeOK := idx == 0 || haystack[idx-1] == ' ' || haystack[idx-1] == '-'
		after := idx + len(needle)
		afterOK := after == len(haystack) || haystack[after] == ' ' || haystack[after] == '-'
		if beforeOK && afterOK {
			return true
		}
		next := strings.Index(haystack[idx+1:], needle)
		if next < 0 {
			return false
		}
		idx = idx + 1 + next
	}
	return false
}
