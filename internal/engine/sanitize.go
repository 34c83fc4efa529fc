package engine

// sanitize.go holds one normalizer/validator per canonical field. Each
// sanitizer is a pure function from a raw value to a normalized value plus
// a list of issues. Fatal E_* codes mean the value cannot be trusted; the
// row itself is never dropped, because downstream preview UIs must be able
// to show and let a human correct every non-blank input row.

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/devShop-studio/medway-import-core-sub000/internal/refdata"
)

// Issue codes emitted by the sanitizers.
const (
	CodeFormMissing       = "E_FORM_MISSING"
	CodeFormNumeric       = "E_FORM_NUMERIC"
	CodeFormInvalid       = "E_FORM_INVALID"
	CodeFormAutocorrect   = "W_FORM_AUTOCORRECT"
	CodeTextDigitsSuspect = "E_TEXT_DIGITS_SUSPECT" // advisory despite the prefix
	CodeStrengthFormat    = "E_STRENGTH_FORMAT"
	CodeGTINDigits        = "E_GTIN_DIGITS"
	CodeGTINLen           = "E_GTIN_LEN"
	CodeBool              = "E_BOOL"
	CodeBatchTruncated    = "W_BATCH_TRUNCATED"
	CodeBatchAlnum        = "E_BATCH_ALNUM"
	CodeBatchAlphaNumMix  = "E_BATCH_ALPHA_NUM_MIX"
	CodeBatchUnitToken    = "E_BATCH_UNIT_TOKEN"
	CodeBatchStrengthLike = "E_BATCH_STRENGTH_LIKE"
	CodeDateInvalid       = "invalid_format"
	CodeDateExpired       = "expired"
	CodeNumber            = "E_NUMBER"
	CodeNumberRange       = "E_NUMBER_RANGE"
	CodeCatCode           = "E_CAT_CODE"
	CodeFrmCode           = "E_FRM_CODE"
	CodePkgCode           = "E_PKG_CODE"
	CodeCooCode           = "E_COO_CODE"
)

func errIssue(field, code, msg string) Issue {
	return Issue{Field: field, Code: code, Msg: msg, Level: LevelError}
}

func warnIssue(field, code, msg string) Issue {
	return Issue{Field: field, Code: code, Msg: msg, Level: LevelWarn}
}

// maxBatchLen caps the normalized batch number length.
const maxBatchLen = 20

// FormResult is the outcome of SanitizeForm. Suggestion carries the nearest
// known form when the value could not be mapped, for UI hinting.
type FormResult struct {
	Value      string
	Suggestion string
	Issues     []Issue
}

// SanitizeForm normalizes a dosage form value against the synonym table,
// with a Levenshtein nearest-neighbor fallback auto-accepted at edit
// distance <= 2.
func SanitizeForm(raw string) FormResult {
	folded := collapseSpaces(foldASCII(raw))
	if folded == "" {
		return FormResult{Issues: []Issue{errIssue("form", CodeFormMissing, "form is empty")}}
	}
	if !hasLetter(folded) {
		return FormResult{Issues: []Issue{errIssue("form", CodeFormNumeric, "form is purely numeric")}}
	}

	var issues []Issue
	if hasDigit(folded) || containsUnitToken(folded) {
		issues = append(issues, warnIssue("form", CodeTextDigitsSuspect,
			"form contains digits or dose units"))
	}

	if canonical, ok := lookupForm(folded); ok {
		return FormResult{Value: canonical, Issues: issues}
	}

	// Nearest-neighbor over synonym keys plus canonical values.
	best, dist := nearestForm(folded)
	if best != "" && dist <= 2 {
		canonical := best
		if mapped, ok := refdata.FormSynonyms[best]; ok {
			canonical = mapped
		}
		issues = append(issues, warnIssue("form", CodeFormAutocorrect,
			"form autocorrected to "+canonical))
		return FormResult{Value: canonical, Issues: issues}
	}

	issues = append(issues, errIssue("form", CodeFormInvalid, "unrecognized dosage form"))
	suggestion := best
	if mapped, ok := refdata.FormSynonyms[best]; ok {
		suggestion = mapped
	}
	return FormResult{Suggestion: suggestion, Issues: issues}
}

// lookupForm resolves an exact synonym or phrase hit.
func lookupForm(folded string) (string, bool) {
	if canonical, ok := refdata.FormPhrases[folded]; ok {
		return canonical, true
	}
	if canonical, ok := refdata.FormSynonyms[folded]; ok {
		return canonical, true
	}
	if refdata.IsCanonicalForm(folded) {
		return folded, true
	}
	return "", false
}

// nearestForm finds the closest synonym key or canonical value by edit
// distance.
func nearestForm(folded string) (string, int) {
	best, bestDist := "", 1<<30
	consider := func(candidate string) {
		if d := levenshtein(folded, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	for key := range refdata.FormSynonyms {
		consider(key)
	}
	for _, canonical := range refdata.CanonicalForms {
		consider(canonical)
	}
	return best, bestDist
}

var (
	strengthSpaceRe = regexp.MustCompile(`\s+`)
	microRe         = regexp.MustCompile(`[µμ]`)
)

// SanitizeStrength normalizes a strength value to NUMBER+UNIT or
// NUMBER+UNIT/NUMBER+UNIT.
func SanitizeStrength(raw string) (string, []Issue) {
	s := microRe.ReplaceAllString(raw, "mc")
	s = strengthSpaceRe.ReplaceAllString(s, "")
	s = strings.ToLower(s)
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return "", nil
	}
	if !isStrengthShaped(s) {
		return "", []Issue{errIssue("strength", CodeStrengthFormat,
			"strength must look like 500mg or 5mg/5ml")}
	}
	return s, nil
}

var nonDigitRe = regexp.MustCompile(`\D`)

// SanitizeGTIN extracts the digits of a barcode value. Length violations
// are reported but the digits are still returned, since a mistyped barcode
// remains useful for human review.
func SanitizeGTIN(raw string) (string, []Issue) {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	if digits == "" {
		return "", []Issue{errIssue("sku", CodeGTINDigits, "barcode contains no digits")}
	}
	if len(digits) < 8 || len(digits) > 14 {
		return digits, []Issue{errIssue("sku", CodeGTINLen,
			"barcode length outside 8-14 digits")}
	}
	return digits, nil
}

// SanitizeBool maps common truthy/falsy vocabulary (including rx/otc) to a
// boolean string.
func SanitizeBool(field, raw string) (string, []Issue) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "1", "y", "rx":
		return "true", nil
	case "false", "no", "0", "n", "otc":
		return "false", nil
	}
	return "", []Issue{errIssue(field, CodeBool, "unrecognized boolean value")}
}

var (
	labeledBatchRe = regexp.MustCompile(`B[0-9A-Z]{3,}`)
	batchKeepRe    = regexp.MustCompile(`[^A-Z0-9./-]`)
	batchSepRe     = regexp.MustCompile(`([./-])[./-]+`)
)

// SanitizeBatch normalizes a batch/lot number: uppercase, labeled-substring
// extraction, charset stripping, separator collapsing, and a 20-char cap.
func SanitizeBatch(raw string) (string, []Issue) {
	up := strings.ToUpper(strings.TrimSpace(raw))
	if up == "" {
		return "", nil
	}

	// Strength shape first: "500MG" is a strength, not merely unit-tainted.
	if isStrengthShaped(up) {
		return "", []Issue{errIssue("batch_no", CodeBatchStrengthLike,
			"batch number looks like a strength")}
	}
	if containsUnitToken(up) {
		return "", []Issue{errIssue("batch_no", CodeBatchUnitToken,
			"batch number contains a dose unit")}
	}

	if m := labeledBatchRe.FindString(up); m != "" && len(m) < len(up) {
		up = m
	}

	up = batchKeepRe.ReplaceAllString(up, "")
	up = batchSepRe.ReplaceAllString(up, "$1")
	up = strings.Trim(up, "./-")

	var issues []Issue
	if len(up) > maxBatchLen {
		up = up[:maxBatchLen]
		issues = append(issues, warnIssue("batch_no", CodeBatchTruncated,
			"batch number truncated to 20 characters"))
	}

	if !hasLetter(up) {
		issues = append(issues, errIssue("batch_no", CodeBatchAlnum,
			"batch number must contain a letter"))
		return "", issues
	}
	if !hasDigit(up) {
		issues = append(issues, errIssue("batch_no", CodeBatchAlphaNumMix,
			"batch number must mix letters and digits"))
		return "", issues
	}
	return up, issues
}

// SanitizeExpiry normalizes any supported date shape to ISO. The past-date
// check lives in the row canonicalizer, not here, so it is reported once.
func SanitizeExpiry(raw string) (string, []Issue) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", nil
	}
	iso, ok := ParseFlexibleDate(s)
	if !ok {
		return "", []Issue{errIssue("expiry_date", CodeDateInvalid,
			"unparseable expiry date")}
	}
	return iso, nil
}

// numberBounds optionally constrains a numeric field.
type numberBounds struct {
	gt *float64 // strictly greater than
	ge *float64 // greater than or equal
}

// SanitizeNumber parses a locale-agnostic number with optional bounds.
func SanitizeNumber(field, raw string, bounds numberBounds) (string, []Issue) {
	v, ok := parseLooseNumber(raw)
	if !ok {
		return "", []Issue{errIssue(field, CodeNumber, "invalid number")}
	}
	if bounds.gt != nil && v <= *bounds.gt {
		return "", []Issue{errIssue(field, CodeNumberRange, "number out of range")}
	}
	if bounds.ge != nil && v < *bounds.ge {
		return "", []Issue{errIssue(field, CodeNumberRange, "number out of range")}
	}
	return formatNumber(v), nil
}

// formatNumber renders a float in plain decimal notation; inventory
// quantities and prices never need scientific form.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var (
	catCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)
	frmCodeRe = regexp.MustCompile(`^[A-Z]{2,3}$`)
	pkgCodeRe = regexp.MustCompile(`^\d+[A-Z]{1,5}(?:X\d+[A-Z]{1,5})?$`)
	cooCodeRe = regexp.MustCompile(`^[A-Z]{2}$`)
)

// SanitizeCatCode validates the 3-letter therapeutic identity code.
func SanitizeCatCode(raw string) (string, []Issue) {
	up := strings.ToUpper(strings.TrimSpace(raw))
	if up == "" {
		return "", nil
	}
	if !catCodeRe.MatchString(up) {
		return "", []Issue{errIssue("cat", CodeCatCode, "cat code must be 3 letters")}
	}
	return up, nil
}

// SanitizeFrmCode validates the 2-3 letter form identity code.
func SanitizeFrmCode(raw string) (string, []Issue) {
	up := strings.ToUpper(strings.TrimSpace(raw))
	if up == "" {
		return "", nil
	}
	if !frmCodeRe.MatchString(up) {
		return "", []Issue{errIssue("frm", CodeFrmCode, "frm code must be 2-3 letters")}
	}
	return up, nil
}

// SanitizePkgCode validates the package-count grammar (30TAB, 1BTLX100ML).
func SanitizePkgCode(raw string) (string, []Issue) {
	up := strings.ToUpper(strengthSpaceRe.ReplaceAllString(raw, ""))
	if up == "" {
		return "", nil
	}
	if !pkgCodeRe.MatchString(up) {
		return "", []Issue{errIssue("pkg", CodePkgCode, "unrecognized package code")}
	}
	return up, nil
}

// SanitizeCOO routes a country value through the normalizer and then the
// ISO-2 shape check.
func SanitizeCOO(raw string) (string, []Issue) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", nil
	}
	if code, ok := NormalizeCountry(s); ok {
		return code, nil
	}
	up := strings.ToUpper(s)
	if cooCodeRe.MatchString(up) {
		// A 2-letter value that is not a real ISO code.
		return "", []Issue{errIssue("coo", CodeCooCode, "unknown country code")}
	}
	return "", []Issue{errIssue("coo", CodeCooCode, "unrecognized country")}
}

// SanitizeGenericName trims punctuation noise and collapses whitespace.
// Content-level checks (embedded units, form words) belong to the
// post-parse sanity pass.
func SanitizeGenericName(raw string) string {
	s := collapseSpaces(strings.Trim(strings.TrimSpace(raw), "-–;,"))
	return s
}
