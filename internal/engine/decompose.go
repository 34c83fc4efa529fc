package engine

// decompose.go is the text-extraction grammar for concatenated cells: a
// single cell like "AMOXICILLIN 500MG CAP 10S B1234 EXP:03/2026 INDIA" is
// tokenized and run through an ordered battery of detectors that each
// consume tokens on a hit. Token ownership is tracked in an explicit
// claimed-index set threaded between passes, so pass order stays
// deterministic and independently testable.
//
// A form-phrase anchor runs before the battery (longest trailing dictionary
// phrase wins), and a name-splitter fallback backfills strength/form when
// the battery found none.

import (
	"regexp"
	"strings"

	"github.com/devShop-studio/medway-import-core-sub000/internal/refdata"
)

// Decomposition is the outcome of decomposing one cell: the recovered
// fields plus whatever text no detector claimed.
type Decomposition struct {
	Extractions []ConcatExtraction
	Leftover    string
}

// Empty reports whether the decomposition recovered nothing.
func (d Decomposition) Empty() bool {
	return len(d.Extractions) == 0
}

// Get returns the extraction for a dotted canonical field path.
func (d Decomposition) Get(path string) (ConcatExtraction, bool) {
	for _, ex := range d.Extractions {
		if ex.Field == path {
			return ex, true
		}
	}
	return ConcatExtraction{}, false
}

// DecomposeOptions controls one decomposition pass.
type DecomposeOptions struct {
	// Opportunistic gates acceptance: the whole decomposition is discarded
	// unless a strength was found, enough secondary signals back it up, and
	// neither the cell nor the leftover is formula-like.
	Opportunistic bool

	// MinSignals is the signal floor used by opportunistic acceptance
	// (strength plus MinSignals-1 of form/pack/country/GTIN/batch).
	// Zero means the default of 2.
	MinSignals int

	Allow Allowlists
}

// decomposer carries the per-cell state threaded through the detector
// battery.
type decomposer struct {
	raw     string
	tokens  []string
	folded  []string
	claimed []bool
	opts    DecomposeOptions

	extractions []ConcatExtraction
}

// DecomposeCell runs the full grammar over one cell value.
func DecomposeCell(raw string, opts DecomposeOptions) Decomposition {
	cell := strings.TrimSpace(raw)
	if cell == "" {
		return Decomposition{}
	}
	if opts.MinSignals == 0 {
		opts.MinSignals = 2
	}

	d := newDecomposer(cell, opts)
	d.anchorFormPhrase()
	d.detectStrength()
	d.detectForm()
	d.detectPack()
	d.detectCountry()
	d.detectGTIN()
	d.detectBatch()
	d.detectExpiry()
	d.detectManufacturer()
	d.detectBrandHead()

	leftover := d.leftover()

	// Name-splitter fallback: backfill strength/form the battery missed,
	// overriding the leftover with the splitter's generic-name output.
	_, hasStrength := d.find("product.strength")
	_, hasForm := d.find("product.form")
	if !hasStrength || !hasForm {
		if split, ok := SplitNameStrengthForm(cell); ok {
			contributed := false
			if !hasStrength && split.Strength != "" {
				d.add("product.strength", split.Strength, 0.75, "name_splitter")
				contributed = true
			}
			if !hasForm && split.Form != "" {
				d.add("product.form", split.Form, 0.75, "name_splitter")
				contributed = true
			}
			if contributed {
				leftover = strings.TrimSpace(collapseSpaces(split.Name + " " + split.Leftover))
			}
		}
	}

	dec := Decomposition{Extractions: d.extractions, Leftover: leftover}

	if opts.Opportunistic && !acceptOpportunistic(cell, dec, opts.MinSignals) {
		return Decomposition{}
	}
	return dec
}

// acceptOpportunistic applies the acceptance rule for per-cell decomposition
// of columns that were not flagged at the column level.
func acceptOpportunistic(cell string, dec Decomposition, minSignals int) bool {
	if _, ok := dec.Get("product.strength"); !ok {
		return false
	}
	secondary := 0
	for _, path := range []string{
		"product.form", "pkg.pieces_per_unit", "batch.coo",
		"identity.sku", "batch.batch_no",
	} {
		if _, ok := dec.Get(path); ok {
			secondary++
		}
	}
	if secondary < minSignals-1 {
		return false
	}
	if isFormulaLike(cell) || isFormulaLike(dec.Leftover) {
		return false
	}
	return true
}

func newDecomposer(cell string, opts DecomposeOptions) *decomposer {
	// List separators become spaces; hyphens stay, since strengths and
	// batch numbers legitimately carry them.
	spaced := strings.NewReplacer(";", " ", ",", " ").Replace(cell)
	tokens := strings.Fields(spaced)
	folded := make([]string, len(tokens))
	for i, tok := range tokens {
		folded[i] = foldASCII(strings.Trim(tok, ".,;:()[]"))
	}
	return &decomposer{
		raw:     cell,
		tokens:  tokens,
		folded:  folded,
		claimed: make([]bool, len(tokens)),
		opts:    opts,
	}
}

func (d *decomposer) add(path, value string, confidence float64, reason string) {
	d.extractions = append(d.extractions, ConcatExtraction{
		Field: path, Value: value, Confidence: confidence, Reason: reason,
	})
}

func (d *decomposer) find(path string) (ConcatExtraction, bool) {
	for _, ex := range d.extractions {
		if ex.Field == path {
			return ex, true
		}
	}
	return ConcatExtraction{}, false
}

func (d *decomposer) has(path string) bool {
	_, ok := d.find(path)
	return ok
}

// leftover rejoins unclaimed tokens. A leftover with no alphabetic content
// is treated as fully consumed.
func (d *decomposer) leftover() string {
	var parts []string
	for i, tok := range d.tokens {
		if !d.claimed[i] {
			parts = append(parts, tok)
		}
	}
	left := strings.Join(parts, " ")
	if !hasLetter(left) {
		return ""
	}
	return left
}

// anchorFormPhrase matches the longest trailing dictionary phrase against
// the cell and seeds a form extraction. Catch-all "other" entries only
// anchor when a dose signal is present, to avoid misreading device and
// test-kit names as dosage forms.
func (d *decomposer) anchorFormPhrase() {
	n := len(d.tokens)
	for window := 3; window >= 1; window-- {
		if window > n {
			continue
		}
		phrase := strings.Join(d.folded[n-window:], " ")
		canonical, ok := refdata.FormPhrases[phrase]
		if !ok {
			continue
		}
		if refdata.OtherFormPhrases[phrase] && !cellHasDoseSignal(d.raw) {
			continue
		}
		for i := n - window; i < n; i++ {
			d.claimed[i] = true
		}
		confidence := 0.85
		if window > 1 {
			confidence = 0.92
		}
		d.add("product.form", canonical, confidence, "form_phrase")
		return
	}
}

// cellHasDoseSignal reports whether the cell carries a digit or dose unit.
func cellHasDoseSignal(cell string) bool {
	return hasDigit(cell) || containsUnitToken(cell)
}

// pairUnitRe matches a bare "/unit" or "/N unit" ratio tail.
var pairUnitRe = regexp.MustCompile(`(?i)^/\d*(?:\.\d+)?(mg|mcg|ug|iu|ml|kg|g|l|%)$`)

func (d *decomposer) detectStrength() {
	// Single token NUMBER+UNIT[/NUMBER+UNIT].
	for i, tok := range d.folded {
		if d.claimed[i] || !isStrengthShaped(tok) {
			continue
		}
		value := tok
		// Optional trailing "/unit" pair.
		if i+1 < len(d.tokens) && !d.claimed[i+1] && pairUnitRe.MatchString(d.folded[i+1]) {
			value += d.folded[i+1]
			d.claimed[i+1] = true
		}
		d.claimed[i] = true
		d.add("product.strength", value, 0.95, "strength_token")
		return
	}

	// Adjacent number-token / unit-token pair.
	for i := 0; i+1 < len(d.tokens); i++ {
		if d.claimed[i] || d.claimed[i+1] {
			continue
		}
		num, unit := d.folded[i], d.folded[i+1]
		if !isNumeric(num) || !doseUnits[unit] {
			continue
		}
		value := num + unit
		d.claimed[i] = true
		d.claimed[i+1] = true
		if i+2 < len(d.tokens) && !d.claimed[i+2] && pairUnitRe.MatchString(d.folded[i+2]) {
			value += d.folded[i+2]
			d.claimed[i+2] = true
		}
		d.add("product.strength", value, 0.9, "strength_pair")
		return
	}
}

func (d *decomposer) detectForm() {
	if d.has("product.form") {
		return
	}
	for i, tok := range d.folded {
		if d.claimed[i] {
			continue
		}
		canonical, ok := refdata.FormSynonyms[tok]
		if !ok {
			continue
		}
		// A form keyword that also carries digits or a unit suffix is a
		// strength remnant, not a form.
		if hasDigit(d.tokens[i]) || unitSuffixRe.MatchString(d.tokens[i]) {
			continue
		}
		d.claimed[i] = true
		d.add("product.form", canonical, 0.9, "form_token")
		return
	}
}

var (
	packSuffixRe = regexp.MustCompile(`(?i)^(\d+)(?:'?s|tabs?|caps?|pcs)$`)
	packXRe      = regexp.MustCompile(`(?i)^x(\d+)$`)
)

func (d *decomposer) detectPack() {
	for i, tok := range d.folded {
		if d.claimed[i] {
			continue
		}
		var count string
		if m := packSuffixRe.FindStringSubmatch(tok); m != nil {
			count = m[1]
		} else if m := packXRe.FindStringSubmatch(tok); m != nil {
			count = m[1]
		} else {
			continue
		}
		d.claimed[i] = true
		d.add("pkg.pieces_per_unit", count, 0.85, "pack_token")
		return
	}
}

func (d *decomposer) detectCountry() {
	// Longest window wins; multi-token hits score higher. Bare two-letter
	// tokens are never trusted here ("IN", "US" are too common as words).
	// Windows must match a name or alias exactly: containment matching
	// would let a window like "B1234 EXP:03/2026 INDIA" swallow its
	// neighbors.
	for window := 3; window >= 1; window-- {
		for i := 0; i+window <= len(d.tokens); i++ {
			if d.anyClaimed(i, i+window) {
				continue
			}
			joined := strings.Join(d.folded[i:i+window], " ")
			if len(joined) < 3 || !hasLetter(joined) {
				continue
			}
			code, ok := countryWindowMatch(joined, window == 1)
			if !ok {
				continue
			}
			for j := i; j < i+window; j++ {
				d.claimed[j] = true
			}
			confidence := 0.7
			if window > 1 {
				confidence = 0.9
			}
			d.add("batch.coo", code, confidence, "country_window")
			return
		}
	}
}

// countryWindowMatch resolves a token window to an ISO-2 code by exact
// alias/name lookup. Single tokens additionally get the bounded fuzzy
// match for misspellings.
func countryWindowMatch(joined string, single bool) (string, bool) {
	key := foldCountryKey(joined)
	if key == "" {
		return "", false
	}
	if code, ok := refdata.CountryAliases[key]; ok {
		return code, true
	}
	if code, ok := refdata.CountryNames[key]; ok {
		return code, true
	}
	if single && len(key) >= countryFuzzyMinLen && !strings.Contains(key, " ") {
		return NormalizeCountry(joined)
	}
	return "", false
}

func (d *decomposer) anyClaimed(from, to int) bool {
	for i := from; i < to; i++ {
		if d.claimed[i] {
			return true
		}
	}
	return false
}

func (d *decomposer) detectGTIN() {
	for i, tok := range d.folded {
		if d.claimed[i] {
			continue
		}
		if isGTIN(tok) {
			d.claimed[i] = true
			d.add("identity.sku", tok, 0.98, "gtin_checksum")
			return
		}
	}
}

var (
	batchShapeRe = regexp.MustCompile(`^B[0-9A-Z]{3,}$`)
	batchLabels  = map[string]bool{"lot": true, "bno": true, "batch": true, "btch": true}
	batchValueRe = regexp.MustCompile(`^[0-9A-Z][0-9A-Z./-]{2,}$`)
)

func (d *decomposer) detectBatch() {
	for i, tok := range d.tokens {
		if d.claimed[i] {
			continue
		}
		up := strings.ToUpper(strings.Trim(tok, ".,;:()"))
		if batchShapeRe.MatchString(up) {
			if containsUnitToken(up) || !hasDigit(up) {
				continue
			}
			d.claimed[i] = true
			d.add("batch.batch_no", up, 0.85, "batch_shape")
			return
		}
		if batchLabels[d.folded[i]] && i+1 < len(d.tokens) && !d.claimed[i+1] {
			next := strings.ToUpper(strings.Trim(d.tokens[i+1], ".,;:()"))
			if batchValueRe.MatchString(next) && hasDigit(next) && !containsUnitToken(next) {
				d.claimed[i] = true
				d.claimed[i+1] = true
				d.add("batch.batch_no", next, 0.9, "batch_label")
				return
			}
		}
	}
}

var expLabelRe = regexp.MustCompile(`(?i)^(exp|expiry|expires|ed)[:.]?$`)

func (d *decomposer) detectExpiry() {
	for i, tok := range d.tokens {
		if d.claimed[i] {
			continue
		}
		bare := strings.Trim(tok, ".,;:()")

		// Inline label: "EXP:03/2026".
		if idx := strings.Index(strings.ToUpper(bare), "EXP:"); idx == 0 {
			if iso, ok := ParseFlexibleDate(bare[4:]); ok {
				d.claimed[i] = true
				d.add("batch.expiry_date", iso, 0.9, "expiry_label")
				return
			}
		}

		if slashDateRe.MatchString(bare) || isoDateRe.MatchString(bare) || numMonthRe.MatchString(bare) {
			if iso, ok := ParseFlexibleDate(bare); ok {
				d.claimed[i] = true
				d.add("batch.expiry_date", iso, 0.85, "expiry_shape")
				return
			}
		}

		// Standalone label followed by a date token.
		if expLabelRe.MatchString(bare) && i+1 < len(d.tokens) && !d.claimed[i+1] {
			next := strings.Trim(d.tokens[i+1], ".,;:()")
			if iso, ok := ParseFlexibleDate(next); ok {
				d.claimed[i] = true
				d.claimed[i+1] = true
				d.add("batch.expiry_date", iso, 0.9, "expiry_label")
				return
			}
		}
	}
}

var (
	mfgMarkerRe = regexp.MustCompile(`(?i)\b(?:mfg\.?\s+by|mfd\.?\s+by|manufactured\s+by|marketed\s+by)\b`)
	bareByRe    = regexp.MustCompile(`(?i)\s\bby\b\s`)
	mfgHints    = []string{
		"pharma", "pharmaceutical", "pharmaceuticals", "labs", "lab",
		"laboratories", "ltd", "limited", "gmbh", "inc", "plc", "pvt",
		"industries", "healthcare", "biotech", "remedies", "lifesciences",
	}
	segmentSplitRe = regexp.MustCompile(`[;,–]|\s-\s`)
)

func (d *decomposer) detectManufacturer() {
	// Explicit marker: everything after it is the manufacturer.
	if loc := mfgMarkerRe.FindStringIndex(d.raw); loc != nil {
		value := strings.Trim(d.raw[loc[1]:], " ;,.-")
		if value != "" {
			d.claimTrailingText(value)
			d.claimMarkerTokens(d.raw[loc[0]:loc[1]])
			d.add("product.manufacturer_name", value, 0.85, "mfg_marker")
			return
		}
	}
	if loc := bareByRe.FindStringIndex(d.raw); loc != nil {
		value := strings.Trim(d.raw[loc[1]:], " ;,.-")
		if value != "" && hasLetter(value) {
			d.claimTrailingText(value)
			d.claimMarkerTokens("by")
			d.add("product.manufacturer_name", value, 0.7, "by_marker")
			return
		}
	}

	// Fallback: the last delimited segment carrying a manufacturer hint.
	segments := segmentSplitRe.Split(d.raw, -1)
	for i := len(segments) - 1; i >= 0; i-- {
		seg := strings.TrimSpace(segments[i])
		if seg == "" || !manufacturerHinted(seg) {
			continue
		}
		if containsUnitToken(seg) {
			return
		}
		if hasDigit(seg) && !inAllowlist(seg, d.opts.Allow.NumericManufacturers) {
			return
		}
		d.claimTrailingText(seg)
		d.add("product.manufacturer_name", seg, 0.6, "mfg_hint_segment")
		return
	}
}

func manufacturerHinted(segment string) bool {
	folded := foldASCII(segment)
	for _, hint := range mfgHints {
		if containsWord(folded, hint) {
			return true
		}
	}
	return false
}

// claimTrailingText marks tokens belonging to a tail substring as consumed,
// scanning from the end of the token list.
func (d *decomposer) claimTrailingText(text string) {
	want := strings.Fields(strings.NewReplacer(";", " ", ",", " ").Replace(text))
	wi := len(want) - 1
	for i := len(d.tokens) - 1; i >= 0 && wi >= 0; i-- {
		if d.claimed[i] {
			continue
		}
		if strings.EqualFold(strings.Trim(d.tokens[i], ".,;:"), strings.Trim(want[wi], ".,;:")) {
			d.claimed[i] = true
			wi--
		}
	}
}

// claimMarkerTokens consumes the marker words themselves ("mfg", "by").
func (d *decomposer) claimMarkerTokens(marker string) {
	for _, word := range strings.Fields(foldASCII(marker)) {
		word = strings.Trim(word, ".:")
		for i, tok := range d.folded {
			if !d.claimed[i] && strings.Trim(tok, ".:") == word {
				d.claimed[i] = true
				break
			}
		}
	}
}

func inAllowlist(value string, allow []string) bool {
	folded := foldASCII(value)
	for _, a := range allow {
		if strings.Contains(folded, foldASCII(a)) {
			return true
		}
	}
	return false
}

// detectBrandHead is a conservative heuristic: the first delimited segment,
// with detected strength/form substrings stripped, yields at most one word,
// accepted only when it is not a form word and carries no digits or units.
func (d *decomposer) detectBrandHead() {
	// Only delimited cells get a brand head: an undelimited cell's first
	// word is far likelier to be the generic name.
	segments := segmentSplitRe.Split(d.raw, -1)
	if len(segments) < 2 {
		return
	}
	head := strings.TrimSpace(segments[0])
	if head == "" {
		return
	}

	folded := foldASCII(head)
	if ex, ok := d.find("product.strength"); ok {
		folded = strings.ReplaceAll(folded, strings.ToLower(ex.Value), " ")
	}
	if ex, ok := d.find("product.form"); ok {
		folded = strings.ReplaceAll(folded, ex.Value, " ")
	}

	words := strings.Fields(folded)
	if len(words) == 0 {
		return
	}
	first := words[0]
	if _, isForm := refdata.FormSynonyms[first]; isForm {
		return
	}
	if (hasDigit(first) || containsUnitToken(first)) && !inAllowlist(first, d.opts.Allow.NumericBrands) {
		return
	}
	if !hasLetter(first) {
		return
	}

	for i, tok := range d.folded {
		if !d.claimed[i] && tok == first {
			d.claimed[i] = true
			break
		}
	}
	d.add("product.brand_name", strings.ToUpper(first[:1])+first[1:], 0.5, "brand_head")
}

// formulaSepRe matches list separators that suggest an ingredient formula.
var formulaSepRe = regexp.MustCompile(`(?i)[,;]|\band\b`)

// isFormulaLike reports whether text resembles an ingredient/formula list:
// at least one list separator, no dose-unit token, no pack-count token, and
// two or more long alphabetic words.
func isFormulaLike(text string) bool {
	if text == "" {
		return false
	}
	if !formulaSepRe.MatchString(text) {
		return false
	}
	if containsUnitToken(text) {
		return false
	}
	for _, tok := range strings.Fields(text) {
		if packSuffixRe.MatchString(tok) || packXRe.MatchString(tok) {
			return false
		}
	}
	long := 0
	for _, word := range alphaTokens(text) {
		if len(word) >= 5 {
			long++
		}
	}
	return long >= 2
}

// SplitResult is the outcome of the right-anchored name splitter.
type SplitResult struct {
	Name     string // generic-name candidate (text before the strength)
	Strength string
	Form     string
	Leftover string // text between the strength and the form boundary
}

// splitStrengthRe finds strength patterns inside free text, tolerating
// hyphen separators between number and unit and %w/w suffixes.
var splitStrengthRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*-?\s*(mg|mcg|ug|iu|ml|kg|g|l|%)(?:\s*/\s*(\d*(?:\.\d+)?)\s*-?\s*(mg|mcg|ug|iu|ml|kg|g|l|%))?(?:\s*w/w)?`)

// SplitNameStrengthForm decomposes "NAME STRENGTH FORM" shaped text: it
// detects a trailing form via the phrase dictionary or a hyphen/space
// suffixed synonym, then right-anchors on the LAST strength occurrence
// before that boundary. The text before the strength, trimmed of stray
// numeric-hyphen remnants, is the generic-name candidate.
func SplitNameStrengthForm(raw string) (SplitResult, bool) {
	cell := strings.TrimSpace(raw)
	if cell == "" {
		return SplitResult{}, false
	}

	form, boundary := trailingForm(cell)
	head := cell
	if boundary >= 0 {
		head = cell[:boundary]
	}

	var result SplitResult
	result.Form = form

	matches := splitStrengthRe.FindAllStringSubmatchIndex(head, -1)
	if len(matches) > 0 {
		last := matches[len(matches)-1]
		// Rebuild the strength from capture groups so hyphen-separated
		// matches ("0.64-%") normalize cleanly ("0.64%").
		strength := group(head, last, 1) + strings.ToLower(group(head, last, 2))
		if num2, unit2 := group(head, last, 3), group(head, last, 4); unit2 != "" {
			strength += "/" + num2 + strings.ToLower(unit2)
		}
		result.Strength = strength
		result.Name = trimNameRemnants(head[:last[0]])
		result.Leftover = strings.Trim(head[last[1]:], " -–.,;")
	} else {
		result.Name = trimNameRemnants(head)
	}

	if result.Strength == "" && result.Form == "" {
		return SplitResult{}, false
	}
	return result, true
}

// group extracts capture group n from a FindAllStringSubmatchIndex entry.
func group(s string, idx []int, n int) string {
	if 2*n+1 >= len(idx) || idx[2*n] < 0 {
		return ""
	}
	return s[idx[2*n]:idx[2*n+1]]
}

// trailingForm finds the byte offset where a trailing form phrase or
// suffixed synonym begins. Multi-word phrases win over single words.
func trailingForm(cell string) (string, int) {
	folded := foldASCII(cell)

	// Phrase dictionary, longest phrase first.
	best, bestAt := "", -1
	for phrase, canonical := range refdata.FormPhrases {
		if !strings.HasSuffix(strings.TrimRight(folded, " .-"), phrase) {
			continue
		}
		if refdata.OtherFormPhrases[phrase] && !cellHasDoseSignal(cell) {
			continue
		}
		if len(phrase) > len(best) {
			at := strings.LastIndex(folded, phrase)
			best, bestAt = canonical, at
		}
	}
	if bestAt >= 0 {
		return best, bestAt
	}

	// Hyphen/space-suffixed single-word synonym.
	trimmed := strings.TrimRight(folded, " .-")
	cut := strings.LastIndexAny(trimmed, " -")
	if cut < 0 {
		return "", -1
	}
	lastWord := trimmed[cut+1:]
	if canonical, ok := refdata.FormSynonyms[lastWord]; ok {
		return canonical, cut + 1
	}
	return "", -1
}

// nameRemnantRe matches hyphen-joined numeric debris a strength match can
// leave at the end of a name ("PARACETAMOL -0" -> "PARACETAMOL"). Bare
// trailing digits stay: "VITAMIN B12" is a name, not a remnant.
var nameRemnantRe = regexp.MustCompile(`[-–]\s*\d*(?:\.\d+)?\s*$`)

func trimNameRemnants(s string) string {
	for {
		trimmed := nameRemnantRe.ReplaceAllString(s, "")
		trimmed = strings.TrimRight(trimmed, " .,;/")
		if trimmed == s {
			break
		}
		s = trimmed
	}
	return collapseSpaces(s)
}
