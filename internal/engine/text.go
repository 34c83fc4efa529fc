package engine

// text.go holds the small text-shape helpers shared by every detection
// component: accent folding, cell cleanup, tokenization, and the numeric /
// date / dose-unit shape checks that drive column classification.

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldASCII lowercases and strips accents so lookup tables can stay plain
// ASCII (e.g. "Médicament" -> "medicament").
func foldASCII(s string) string {
	result, _, err := transform.String(stripAccents, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return result
}

// cleanCell removes common spreadsheet artifacts from a cell value: outer
// whitespace, Excel formula text prefixes (="value"), and stray quotes.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// doseUnits is the recognized dose-unit vocabulary. Keys are lowercase.
var doseUnits = map[string]bool{
	"mg": true, "g": true, "mcg": true, "ml": true, "iu": true, "%": true,
	"ug": true, "kg": true, "l": true,
}

// unitSuffixRe matches a number immediately followed by a dose unit.
var unitSuffixRe = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*(mg|mcg|ug|iu|ml|kg|g|l|%)\b`)

// containsUnitToken reports whether s carries a dose unit, either as a
// standalone token or as a numeric suffix (e.g. "500mg").
func containsUnitToken(s string) bool {
	if unitSuffixRe.MatchString(s) {
		return true
	}
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		tok = strings.Trim(tok, ".,;:()[]")
		if doseUnits[tok] {
			return true
		}
	}
	return false
}

var (
	integerRe = regexp.MustCompile(`^[+-]?\d+$`)
	floatRe   = regexp.MustCompile(`^[+-]?\d+\.\d+$`)
	numericRe = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

	isoDateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slashDateRe = regexp.MustCompile(`^\d{1,2}[/.-]\d{1,2}[/.-]\d{4}$`)
	monthYearRe = regexp.MustCompile(`^(?i)([a-z]{3,9})[\s/-]+(\d{2}|\d{4})$`)
	numMonthRe  = regexp.MustCompile(`^\d{1,2}[/-]\d{2}(\d{2})?$`)

	// strengthRe matches NUMBER+UNIT with an optional /NUMBER+UNIT ratio
	// tail, e.g. "500mg", "5mg/5ml", "0.64%".
	strengthRe = regexp.MustCompile(`(?i)^\d+(?:\.\d+)?(mg|mcg|ug|iu|ml|kg|g|l|%)(?:/\d*(?:\.\d+)?(mg|mcg|ug|iu|ml|kg|g|l|%))?$`)
)

func isInteger(s string) bool { return integerRe.MatchString(s) }
func isFloat(s string) bool   { return floatRe.MatchString(s) }
func isNumeric(s string) bool { return numericRe.MatchString(strings.ReplaceAll(s, ",", "")) }

// isDateShaped reports whether s looks like any supported date input shape
// (ISO, day-first slash dates, month-year forms).
func isDateShaped(s string) bool {
	s = strings.TrimSpace(s)
	return isoDateRe.MatchString(s) || slashDateRe.MatchString(s) ||
		monthYearRe.MatchString(s) || numMonthRe.MatchString(s)
}

// isStrengthShaped reports whether s as a whole is a dose strength token.
func isStrengthShaped(s string) bool {
	return strengthRe.MatchString(strings.TrimSpace(s))
}

// gtinChecksumOK verifies the mod-10 weighted checksum of a 13-digit code.
// Digits are weighted 1,3,1,3,... from the left; the total including the
// check digit must be divisible by 10.
func gtinChecksumOK(digits string) bool {
	if len(digits) != 13 {
		return false
	}
	sum := 0
	for i := 0; i < 12; i++ {
		d := int(digits[i] - '0')
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	check := (10 - sum%10) % 10
	return check == int(digits[12]-'0')
}

// isGTIN reports whether s is an 8-16 digit token that is exactly 13 digits
// and passes the checksum. Shorter/longer all-digit tokens are barcode-ish
// but not trusted as GTINs.
func isGTIN(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 8 || len(s) > 16 || !integerRe.MatchString(s) {
		return false
	}
	return len(s) == 13 && gtinChecksumOK(s)
}

// parseLooseNumber parses a number after stripping thousands separators and
// currency noise. Returns false when nothing numeric remains.
func parseLooseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	for _, sym := range []string{"$", "€", "£", ","} {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.TrimSpace(s)
	if !numericRe.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// alphaTokens returns the purely alphabetic tokens of s, lowercased.
func alphaTokens(s string) []string {
	var out []string
	for _, tok := range strings.Fields(s) {
		tok = strings.Trim(tok, ".,;:()[]\"'")
		if tok != "" && !hasDigit(tok) && hasLetter(tok) {
			out = append(out, strings.ToLower(tok))
		}
	}
	return out
}

// collapseSpaces squeezes runs of whitespace into single spaces.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
