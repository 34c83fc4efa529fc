package engine

// concat.go decides which columns hold concatenated text that deserves
// cell-level decomposition. Three gates run in order per column: an
// atomic-shape skip (a column of GTINs or prices has nothing to split), a
// trusted-header skip (a confidently labeled atomic column is believed),
// and finally a trial decomposition over a small sample whose signal
// coverage and formula rate decide the outcome.

import (
	"fmt"
	"strings"

	"github.com/devShop-studio/medway-import-core-sub000/internal/refdata"
)

const (
	concatSampleLimit = 30
	concatCoverageMin = 0.70
	concatFormulaMax  = 0.30
	atomicShapeMin    = 0.6
)

// atomicFields are canonical fields whose values are single tokens by
// nature. A header confidently mapped to one of these exempts the column
// from decomposition regardless of content.
var atomicFields = map[string]bool{
	"sku": true, "on_hand": true, "unit_price": true, "expiry_date": true,
	"batch_no": true, "coo": true, "cat": true, "frm": true, "pkg": true,
	"pieces_per_unit": true, "requires_prescription": true,
	"is_controlled": true, "purchase_unit": true, "unit": true,
}

// ConcatScan is the outcome of scanning a file's columns.
type ConcatScan struct {
	// Columns flags the columns that passed the decomposition gate.
	Columns []ConcatColumn
	// Dirty lists columns where trial decomposition found signals but the
	// gate rejected the column (too sparse or too formula-like).
	Dirty []int
}

// Flagged reports whether column i passed the gate.
func (s ConcatScan) Flagged(i int) bool {
	for _, c := range s.Columns {
		if c.Index == i {
			return true
		}
	}
	return false
}

// ScanConcatColumns examines each column and returns the decomposition
// plan. headers may be synthetic (col_N); sampleLimit caps trial cells and
// is clamped to concatSampleLimit.
func ScanConcatColumns(headers []string, columns [][]string, mode HeaderMode, sampleLimit int, opts DecomposeOptions) ConcatScan {
	if sampleLimit <= 0 || sampleLimit > concatSampleLimit {
		sampleLimit = concatSampleLimit
	}

	var scan ConcatScan
	for i, values := range columns {
		if columnIsAtomic(values, sampleLimit) {
			continue
		}
		if mode == HeaderModeHeaders && i < len(headers) {
			hint := ScoreHeader(headers[i], values)
			if hint.Confidence >= HeaderTrustConcat && atomicFields[hint.Key] {
				continue
			}
		}

		coverage, formulaRate, sampled := trialDecompose(values, sampleLimit, opts)
		if sampled == 0 {
			continue
		}
		switch {
		case coverage >= concatCoverageMin && formulaRate <= concatFormulaMax:
			scan.Columns = append(scan.Columns, ConcatColumn{
				Index:  i,
				Reason: fmt.Sprintf("signal coverage %.2f over %d samples", coverage, sampled),
			})
		case coverage > 0:
			scan.Dirty = append(scan.Dirty, i)
		}
	}
	return scan
}

// columnIsAtomic reports whether the sampled values are dominated by
// single-purpose shapes: barcodes, numbers, dates, ISO-2 codes, and the
// template's coded identifiers.
func columnIsAtomic(values []string, sampleLimit int) bool {
	nonEmpty, atomic := 0, 0
	for _, raw := range values {
		if nonEmpty >= sampleLimit {
			break
		}
		v := cleanCell(raw)
		if v == "" {
			continue
		}
		nonEmpty++
		if atomicShaped(v) {
			atomic++
		}
	}
	if nonEmpty == 0 {
		return true
	}
	return float64(atomic)/float64(nonEmpty) >= atomicShapeMin
}

func atomicShaped(v string) bool {
	if isNumeric(strings.ReplaceAll(v, ",", "")) || isDateShaped(v) {
		return true
	}
	upper := strings.ToUpper(v)
	if cooCodeRe.MatchString(upper) || catCodeRe.MatchString(upper) || pkgCodeRe.MatchString(upper) {
		return true
	}
	// A cell that is wholly one strength, one form word, or one country
	// name has nothing to split.
	folded := foldASCII(v)
	if isStrengthShaped(folded) {
		return true
	}
	if _, ok := refdata.FormSynonyms[folded]; ok {
		return true
	}
	if _, ok := refdata.CountryNames[folded]; ok {
		return true
	}
	// Currency-decorated prices ("$12.50", "1,200.00").
	if _, ok := parseLooseNumber(v); ok {
		return true
	}
	return false
}

// concatSignalFields are the extraction targets that count toward the
// decomposition gate. A brand, manufacturer, or expiry extraction alone does
// not make a cell concatenated: a plain "NAME TABLETS" column would pass
// otherwise.
var concatSignalFields = map[string]bool{
	"product.strength":    true,
	"product.form":        true,
	"pkg.pieces_per_unit": true,
	"batch.coo":           true,
	"identity.sku":        true,
	"batch.batch_no":      true,
}

// trialDecompose runs the decomposer over up to sampleLimit non-empty cells
// and measures what fraction yielded at least two signal-field extractions
// and what fraction look like combination-product formulas.
func trialDecompose(values []string, sampleLimit int, opts DecomposeOptions) (coverage, formulaRate float64, sampled int) {
	hits, formulas := 0, 0
	for _, raw := range values {
		if sampled >= sampleLimit {
			break
		}
		v := cleanCell(raw)
		if v == "" {
			continue
		}
		sampled++
		if isFormulaLike(v) {
			formulas++
			continue
		}
		signals := 0
		for _, ex := range DecomposeCell(v, opts).Extractions {
			if concatSignalFields[ex.Field] {
				signals++
			}
		}
		if signals >= 2 {
			hits++
		}
	}
	if sampled == 0 {
		return 0, 0, 0
	}
	return float64(hits) / float64(sampled), float64(formulas) / float64(sampled), sampled
}
