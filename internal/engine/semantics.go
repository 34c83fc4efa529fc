package engine

// semantics.go scores raw column header strings against the canonical-field
// synonym table, gated by a value-type compatibility check over a sample of
// the column's values. The same scorer serves two thresholds: 0.6 for
// generic CSV mapping and 0.8 for the concatenation detector's header-trust
// gate, where ambiguous labels like "Name" must fall through to
// content-driven analysis.

import (
	"sort"
	"strings"

	"github.com/devShop-studio/medway-import-core-sub000/internal/refdata"
)

const (
	// HeaderTrustMapping is the confidence floor for mapping a header to a
	// canonical field during generic CSV mapping.
	HeaderTrustMapping = 0.6

	// HeaderTrustConcat is the stricter floor used by the concatenation
	// detector when deciding whether a header can be believed outright.
	HeaderTrustConcat = 0.8

	headerSampleLimit = 20
	typeCompatMinRate = 0.6
	typePenalty       = 0.5
)

// ScoreHeader evaluates one header string against every canonical field and
// returns the best hint. Sample values feed the type-compatibility gate.
func ScoreHeader(header string, samples []string) HeaderMappingHint {
	folded := collapseSpaces(foldASCII(strings.ReplaceAll(header, "_", " ")))
	hint := HeaderMappingHint{Header: header}
	if folded == "" {
		return hint
	}
	if len(samples) > headerSampleLimit {
		samples = samples[:headerSampleLimit]
	}

	tokens := strings.Fields(folded)
	for _, field := range refdata.HeaderFields {
		score := scoreField(folded, tokens, field)
		if score <= 0 {
			continue
		}
		score -= typeCompatPenalty(field.Kind, samples)
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}
		if score > hint.Confidence {
			hint.Key = field.Key
			hint.Confidence = score
		}
	}
	return hint
}

// scoreField computes the raw synonym/token score for one field.
func scoreField(folded string, tokens []string, field refdata.HeaderField) float64 {
	for _, neg := range field.Negative {
		for _, tok := range tokens {
			if tok == neg {
				return 0
			}
		}
	}
	for _, syn := range field.Synonyms {
		if folded == syn {
			return 1.0
		}
	}

	score := 0.0
	for _, tok := range tokens {
		for _, strong := range field.Strong {
			if tok == strong {
				score += 0.5
			}
		}
		for _, weak := range field.Weak {
			if tok == weak {
				score += 0.2
			}
		}
	}
	return score
}

// typeCompatPenalty subtracts when sampled values contradict the field's
// expected type: a "quantity" header over non-numeric values is suspect.
func typeCompatPenalty(kind refdata.FieldKind, samples []string) float64 {
	nonEmpty := 0
	compatible := 0
	for _, s := range samples {
		s = cleanCell(s)
		if s == "" {
			continue
		}
		nonEmpty++
		switch kind {
		case refdata.KindNumeric:
			if isNumeric(s) {
				compatible++
			}
		case refdata.KindDate:
			if isDateShaped(s) || isInteger(s) {
				compatible++
			}
		default:
			compatible++
		}
	}
	if nonEmpty == 0 {
		return 0
	}
	if float64(compatible)/float64(nonEmpty) < typeCompatMinRate {
		return typePenalty
	}
	return 0
}

// MapHeaders scores every header against the synonym table and assigns
// canonical fields greedily, each header and each field claimed at most
// once. Only hints at or above HeaderTrustMapping participate.
func MapHeaders(headers []string, columns [][]string) map[int]HeaderMappingHint {
	type scored struct {
		col  int
		hint HeaderMappingHint
	}
	var all []scored
	for i, h := range headers {
		var samples []string
		if i < len(columns) {
			samples = columns[i]
		}
		hint := ScoreHeader(h, samples)
		if hint.Key != "" && hint.Confidence >= HeaderTrustMapping {
			all = append(all, scored{col: i, hint: hint})
		}
	}

	sort.SliceStable(all, func(a, b int) bool {
		return all[a].hint.Confidence > all[b].hint.Confidence
	})

	assigned := make(map[int]HeaderMappingHint)
	fieldTaken := make(map[string]bool)
	for _, s := range all {
		if fieldTaken[s.hint.Key] {
			continue
		}
		if _, ok := assigned[s.col]; ok {
			continue
		}
		assigned[s.col] = s.hint
		fieldTaken[s.hint.Key] = true
	}
	return assigned
}
