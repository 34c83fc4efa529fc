package engine

// infer.go is the headerless column classifier: it samples each column's
// values, measures shape-feature rates (GTIN, integer, date, strength,
// form, country, ...), converts them into per-(column, field) confidence
// scores, and resolves the final assignment with a greedy bipartite match.
// Columns are few (tens, not thousands), so the greedy sort is cheap.

import (
	"sort"
	"strings"

	"github.com/devShop-studio/medway-import-core-sub000/internal/refdata"
)

const (
	inferSampleLimit   = 100
	inferMinConfidence = 0.6
	maxGuessCandidates = 3
	maxGuessSamples    = 5
)

// purchaseUnitVocab is the packaging vocabulary recognized for the
// purchase_unit field.
var purchaseUnitVocab = map[string]bool{
	"box": true, "boxes": true, "bottle": true, "bottles": true,
	"strip": true, "strips": true, "pack": true, "packs": true,
	"vial": true, "vials": true, "tube": true, "tubes": true,
	"jar": true, "jars": true, "carton": true, "cartons": true,
	"piece": true, "pieces": true, "pcs": true, "sachet": true,
	"ampoule": true, "blister": true, "roll": true, "tin": true,
}

var rxVocab = map[string]bool{
	"rx": true, "otc": true, "prescription": true, "pom": true, "p": true,
}

// columnFeatures holds the measured shape rates for one column.
type columnFeatures struct {
	nonEmpty     int
	gtinRate     float64
	intRate      float64
	floatRate    float64
	numericRate  float64
	dateRate     float64
	strengthRate float64
	formRate     float64
	countryRate  float64
	categoryRate float64
	unitRate     float64
	rxRate       float64
	textRate     float64
	avgLen       float64
}

// measureColumn samples up to inferSampleLimit non-empty values.
func measureColumn(values []string) columnFeatures {
	var f columnFeatures
	totalLen := 0
	for _, raw := range values {
		if f.nonEmpty >= inferSampleLimit {
			break
		}
		v := cleanCell(raw)
		if v == "" {
			continue
		}
		f.nonEmpty++
		totalLen += len(v)

		folded := foldASCII(v)
		switch {
		case isGTIN(v):
			f.gtinRate++
			f.intRate++ // a GTIN is also an integer; suppression happens later
			f.numericRate++
		case isInteger(v):
			f.intRate++
			f.numericRate++
		case isFloat(v):
			f.floatRate++
			f.numericRate++
		case isNumeric(v):
			f.numericRate++
		}
		if isDateShaped(v) {
			f.dateRate++
		}
		if isStrengthShaped(folded) || unitSuffixRe.MatchString(v) {
			f.strengthRate++
		}
		if _, ok := refdata.FormSynonyms[folded]; ok {
			f.formRate++
		} else if _, ok := refdata.FormPhrases[folded]; ok {
			f.formRate++
		}
		if _, ok := NormalizeCountry(v); ok && hasLetter(v) {
			f.countryRate++
		}
		if _, _, ok := ClassifyUmbrella(v); ok {
			f.categoryRate++
		}
		if purchaseUnitVocab[folded] {
			f.unitRate++
		}
		if rxVocab[folded] {
			f.rxRate++
		}
		if hasLetter(v) && !isNumeric(v) {
			f.textRate++
		}
	}

	if f.nonEmpty == 0 {
		return f
	}
	n := float64(f.nonEmpty)
	f.gtinRate /= n
	f.intRate /= n
	f.floatRate /= n
	f.numericRate /= n
	f.dateRate /= n
	f.strengthRate /= n
	f.formRate /= n
	f.countryRate /= n
	f.categoryRate /= n
	f.unitRate /= n
	f.rxRate /= n
	f.textRate /= n
	f.avgLen = float64(totalLen) / n
	return f
}

// candidatesFor converts feature rates into ranked field candidates using
// fixed thresholds.
func candidatesFor(f columnFeatures) []FieldCandidate {
	if f.nonEmpty == 0 {
		return nil
	}
	var out []FieldCandidate
	add := func(field string, confidence float64) {
		if confidence >= inferMinConfidence {
			out = append(out, FieldCandidate{Field: field, Confidence: confidence})
		}
	}

	gtinLike := f.gtinRate >= 0.5

	switch {
	case f.gtinRate >= 0.9:
		add("sku", 0.98)
	case f.gtinRate >= 0.7:
		add("sku", 0.8)
	}

	// A GTIN column must never be mistaken for a quantity column.
	if !gtinLike {
		if f.intRate >= 0.9 && f.avgLen <= 6 {
			add("on_hand", 0.9)
		} else if f.intRate >= 0.7 && f.avgLen <= 6 {
			add("on_hand", 0.7)
		}
	}
	if !gtinLike && f.numericRate >= 0.9 && f.floatRate >= 0.5 {
		add("unit_price", 0.85)
	}

	switch {
	case f.dateRate >= 0.7:
		add("expiry_date", 0.95)
	case f.dateRate >= 0.5:
		add("expiry_date", 0.7)
	}

	if f.strengthRate >= 0.6 {
		add("strength", 0.9)
	}
	if f.formRate >= 0.6 {
		add("form", 0.9)
	}
	if f.countryRate >= 0.6 {
		add("coo", 0.85)
	}
	if f.categoryRate >= 0.5 {
		add("category", 0.7)
	}
	if f.unitRate >= 0.6 {
		add("purchase_unit", 0.8)
	}
	if f.rxRate >= 0.6 {
		add("requires_prescription", 0.8)
	}

	// Long free text with no stronger shape is a name candidate. Longer
	// values outrank the category guess: drug names hit category keywords
	// too, but a column of long text is a name column, while genuine
	// category labels stay short.
	if f.textRate >= 0.8 && f.avgLen >= 8 &&
		f.strengthRate < 0.3 && f.formRate < 0.3 && f.countryRate < 0.3 {
		conf := 0.65
		if f.avgLen >= 15 {
			conf = 0.75
		}
		add("generic_name", conf)
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Confidence > out[b].Confidence
	})
	return out
}

// InferColumns classifies every column of a headerless file and returns the
// final column-to-field assignment plus the per-column ranked guesses kept
// for UI debugging.
func InferColumns(columns [][]string) (map[int]string, []ColumnGuess) {
	type triple struct {
		col   int
		field string
		score float64
	}
	var triples []triple
	guesses := make([]ColumnGuess, 0, len(columns))

	for i, values := range columns {
		cands := candidatesFor(measureColumn(values))
		for _, c := range cands {
			triples = append(triples, triple{col: i, field: c.Field, score: c.Confidence})
		}

		guess := ColumnGuess{Index: i}
		if len(cands) > maxGuessCandidates {
			cands = cands[:maxGuessCandidates]
		}
		guess.Candidates = cands
		for _, raw := range values {
			v := cleanCell(raw)
			if v == "" {
				continue
			}
			guess.Samples = append(guess.Samples, v)
			if len(guess.Samples) >= maxGuessSamples {
				break
			}
		}
		guesses = append(guesses, guess)
	}

	// Greedy bipartite match: highest score first, each column and each
	// field claimed at most once.
	sort.SliceStable(triples, func(a, b int) bool {
		return triples[a].score > triples[b].score
	})
	assigned := make(map[int]string)
	fieldTaken := make(map[string]bool)
	for _, t := range triples {
		if fieldTaken[t.field] {
			continue
		}
		if _, ok := assigned[t.col]; ok {
			continue
		}
		assigned[t.col] = t.field
		fieldTaken[t.field] = true
	}
	return assigned, guesses
}

// hasGenericCSVTokens reports whether a header row looks like a generic
// product CSV (used by schema detection's last informative fallback).
func hasGenericCSVTokens(headers []string) bool {
	hits := 0
	for _, h := range headers {
		folded := foldASCII(h)
		for _, tok := range []string{"generic", "name", "item", "product", "batch", "expiry", "price", "qty", "quantity"} {
			if strings.Contains(folded, tok) {
				hits++
				break
			}
		}
	}
	return hits >= 2
}
