package engine

// schema.go decides two things about a file before any row is mapped:
// whether the first row is a trustworthy header row, and which source
// schema the file follows. Schema detection runs a priority chain: template
// checksum/version, the legacy export's exact header set, a recomputed
// checksum, generic-CSV header tokens, and finally unknown.

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/devShop-studio/medway-import-core-sub000/internal/refdata"
)

// HeaderChecksum fingerprints a header row: FNV-1a over the lowercased,
// pipe-joined labels. The template writer embeds the same value in the
// workbook's metadata sheet.
func HeaderChecksum(headers []string) string {
	h := fnv.New32a()
	for i, header := range headers {
		if i > 0 {
			h.Write([]byte{'|'})
		}
		h.Write([]byte(strings.ToLower(cleanCell(header))))
	}
	return fmt.Sprintf("%08x", h.Sum32())
}

// TemplateV3Checksum is the fingerprint of the official template header row.
var TemplateV3Checksum = HeaderChecksum(refdata.TemplateV3Headers)

// cellType is the coarse classification used by the row1-vs-row2 tiebreak.
type cellType int

const (
	cellEmpty cellType = iota
	cellDate
	cellNumber
	cellStrength
	cellForm
	cellText
)

func classifyCell(raw string) cellType {
	v := cleanCell(raw)
	switch {
	case v == "":
		return cellEmpty
	case isDateShaped(v):
		return cellDate
	case isNumeric(v):
		return cellNumber
	case isStrengthShaped(foldASCII(v)):
		return cellStrength
	default:
		if _, ok := refdata.FormSynonyms[foldASCII(v)]; ok {
			return cellForm
		}
		return cellText
	}
}

// DetectHeaderMode decides "headers" vs "none" for the first row, using
// row 2 only for the tie-breaking type comparison.
func DetectHeaderMode(rows [][]string) HeaderMode {
	if len(rows) == 0 {
		return HeaderModeHeaders
	}
	first := rows[0]

	headerScore, dataScore := 0, 0
	for _, raw := range first {
		v := cleanCell(raw)
		if v == "" {
			continue
		}
		if headerCellSignal(v) {
			headerScore++
		}
		if dataCellSignal(v) {
			dataScore++
		}
	}

	if headerScore >= 2 && headerScore >= dataScore {
		return HeaderModeHeaders
	}
	if dataScore >= 2 && dataScore > headerScore {
		return HeaderModeNone
	}

	// Tiebreak: if row 1 types like row 2, row 1 is data.
	if len(rows) >= 2 {
		second := rows[1]
		n := len(first)
		if len(second) < n {
			n = len(second)
		}
		if n > 0 {
			same := 0
			for i := 0; i < n; i++ {
				if classifyCell(first[i]) == classifyCell(second[i]) {
					same++
				}
			}
			if float64(same)/float64(n) >= 0.6 {
				return HeaderModeNone
			}
		}
	}

	if headerScore > 0 {
		return HeaderModeHeaders
	}
	return HeaderModeNone
}

// headerCellSignal reports header-likeness: a header-lexicon token hit, or
// a short label (<=3 alphabetic tokens averaging <=12 chars).
func headerCellSignal(v string) bool {
	folded := foldASCII(strings.ReplaceAll(v, "_", " "))
	tokens := strings.Fields(folded)
	for _, tok := range tokens {
		if refdata.HeaderLexicon[tok] {
			return true
		}
	}
	if len(tokens) == 0 || len(tokens) > 3 {
		return false
	}
	total := 0
	for _, tok := range tokens {
		if hasDigit(tok) {
			return false
		}
		total += len(tok)
	}
	return total/len(tokens) <= 12
}

// dataCellSignal reports data-likeness: dates, numbers, dose patterns, and
// country literals.
func dataCellSignal(v string) bool {
	if isDateShaped(v) || isNumeric(v) {
		return true
	}
	folded := foldASCII(v)
	if isStrengthShaped(folded) || unitSuffixRe.MatchString(v) {
		return true
	}
	if _, ok := refdata.CountryNames[folded]; ok {
		return true
	}
	return false
}

// DetectSchema classifies the file. Synthetic col_N headers (headerless
// files) never match by header shape: workbook origin falls to unknown,
// text origin to csv_generic, since a delimiter-sniffed file without a
// header still deserves fuzzy mapping.
func DetectSchema(headers []string, mode HeaderMode, origin Origin, hint TemplateHint) SourceSchema {
	if mode == HeaderModeNone {
		if origin == OriginText {
			return SchemaCSVGeneric
		}
		return SchemaUnknown
	}

	// (1) Exact template metadata match.
	if hint.TemplateVersion == refdata.TemplateVersion ||
		(hint.HeaderChecksum != "" && hint.HeaderChecksum == TemplateV3Checksum) {
		return SchemaTemplateV3
	}

	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = strings.ToLower(cleanCell(h))
	}

	// (2) Legacy export: exact header set.
	if sameHeaderSet(normalized, refdata.ConcatItemsHeaders) {
		return SchemaConcatItems
	}

	// (3) Recomputed checksum matches the template fingerprint, or the
	// headers literally are the template's.
	if recomputed := HeaderChecksum(headers); recomputed == TemplateV3Checksum ||
		(hint.HeaderChecksum != "" && recomputed == hint.HeaderChecksum && hint.TemplateVersion != "") {
		return SchemaTemplateV3
	}

	// (4) Generic product CSV.
	if hasGenericCSVTokens(normalized) {
		return SchemaCSVGeneric
	}

	return SchemaUnknown
}

// sameHeaderSet compares header rows as sets, ignoring order and blanks.
func sameHeaderSet(headers, want []string) bool {
	set := make(map[string]bool, len(headers))
	for _, h := range headers {
		if h != "" {
			set[h] = true
		}
	}
	if len(set) != len(want) {
		return false
	}
	for _, w := range want {
		if !set[w] {
			return false
		}
	}
	return true
}
