package engine

// dates.go implements the flexible expiry-date grammar. Accepted shapes:
//
//	2026-03-31            ISO pass-through
//	31/03/2026            day-first, with / . - separators
//	46112                 Excel serial (epoch 1899-12-30, leap-bug corrected)
//	Mar-26, MAR 2026      month-year, normalized to the LAST day of the month
//	03/2026, 03-26        numeric month-year, same last-day rule
//
// All outputs are ISO YYYY-MM-DD and idempotent under re-parsing.

import (
	"strconv"
	"strings"
	"time"
)

// Excel serial plausibility window: ~1954 through ~2118. Anything outside
// is far likelier to be a quantity or a bare year than a date serial.
const (
	excelSerialMin = 20000
	excelSerialMax = 80000
)

var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// ParseFlexibleDate normalizes any supported date shape to ISO YYYY-MM-DD.
func ParseFlexibleDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	// ISO pass-through, validated so 2026-13-40 does not slip through.
	if isoDateRe.MatchString(s) {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t.Format("2006-01-02"), true
		}
		return "", false
	}

	// Day-first slash/dot/dash dates.
	if slashDateRe.MatchString(s) {
		norm := strings.NewReplacer(".", "/", "-", "/").Replace(s)
		for _, layout := range []string{"2/1/2006", "02/01/2006"} {
			if t, err := time.Parse(layout, norm); err == nil {
				return t.Format("2006-01-02"), true
			}
		}
		return "", false
	}

	// Excel serial.
	if isInteger(s) {
		if serial, err := strconv.Atoi(s); err == nil &&
			serial >= excelSerialMin && serial <= excelSerialMax {
			t := excelEpoch.AddDate(0, 0, serial)
			if serial < 60 {
				// 1900 was not a leap year, whatever the spreadsheet thinks.
				t = t.AddDate(0, 0, 1)
			}
			return t.Format("2006-01-02"), true
		}
		return "", false
	}

	// Month-name year: "Mar-26", "MAR 2026", "March/2026".
	if m := monthYearRe.FindStringSubmatch(s); m != nil {
		month, ok := monthNames[strings.ToLower(m[1])]
		if !ok {
			return "", false
		}
		year, ok := expandYear(m[2])
		if !ok {
			return "", false
		}
		return lastDayOfMonth(year, month), true
	}

	// Numeric month-year: "03/2026", "3-26".
	if numMonthRe.MatchString(s) {
		sep := "/"
		if !strings.Contains(s, "/") {
			sep = "-"
		}
		parts := strings.SplitN(s, sep, 2)
		monthNum, err := strconv.Atoi(parts[0])
		if err != nil || monthNum < 1 || monthNum > 12 {
			return "", false
		}
		year, ok := expandYear(parts[1])
		if !ok {
			return "", false
		}
		return lastDayOfMonth(year, time.Month(monthNum)), true
	}

	return "", false
}

// expandYear turns a 2- or 4-digit year string into a full year.
// Two-digit years pivot at 69: 00-68 map to 2000-2068, 69-99 to 1969-1999.
func expandYear(s string) (int, bool) {
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	switch len(s) {
	case 4:
		return y, true
	case 2:
		if y <= 68 {
			return 2000 + y, true
		}
		return 1900 + y, true
	}
	return 0, false
}

// lastDayOfMonth formats the final day of the given month as ISO.
func lastDayOfMonth(year int, month time.Month) string {
	t := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return t.Format("2006-01-02")
}
