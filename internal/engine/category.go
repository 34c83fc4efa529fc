package engine

// category.go derives the umbrella therapeutic category: directly from a
// 3-letter identity code when one is present, otherwise by scoring free
// text against the weighted keyword rule sets. Free-text classification is
// gated by a minimum score and a minimum separation from the runner-up so
// ambiguous text yields no umbrella rather than a coin flip.

import (
	"strings"

	"github.com/devShop-studio/medway-import-core-sub000/internal/refdata"
)

const (
	categoryMinScore      = 3.0
	categoryMinSeparation = 1.0
)

// UmbrellaFromCode maps a 3-letter therapeutic code to its umbrella label.
func UmbrellaFromCode(code string) (string, bool) {
	u, ok := refdata.CategoryCodes[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return "", false
	}
	return string(u), true
}

// ClassifyUmbrella scores free text against every umbrella's keyword set
// and returns the winner when it clears both guardrails.
func ClassifyUmbrella(text string) (string, float64, bool) {
	folded := foldASCII(text)
	if folded == "" {
		return "", 0, false
	}

	best, second := 0.0, 0.0
	var bestLabel refdata.UmbrellaCategory

	for umbrella, rules := range refdata.CategoryRules {
		score := 0.0
		for _, kw := range rules {
			if keywordHit(folded, kw.Keyword) {
				score += kw.Weight
			}
		}
		if score > best {
			second = best
			best = score
			bestLabel = umbrella
		} else if score > second {
			second = score
		}
	}

	if best < categoryMinScore || best-second < categoryMinSeparation {
		return "", best, false
	}
	return string(bestLabel), best, true
}

// keywordHit matches a rule keyword against folded text. Multi-word and
// long keywords match as substrings; short keywords require a full token
// so "iron" cannot fire inside "environment".
func keywordHit(folded, keyword string) bool {
	if strings.ContainsRune(keyword, ' ') || len(keyword) >= 6 {
		return strings.Contains(folded, keyword)
	}
	return containsWord(folded, keyword)
}

// classifyNonMedicine scans descriptive text for accessory, equipment, and
// chemical vocabulary; a hit auto-infers a non-medicine product type with a
// matching category label.
func classifyNonMedicine(text string) (string, bool) {
	folded := foldASCII(text)
	if folded == "" {
		return "", false
	}
	// Fixed label order: text matching both vocabularies must classify the
	// same way on every run.
	for _, category := range refdata.NonMedicineCategories {
		for _, kw := range refdata.NonMedicineKeywords[category] {
			if keywordHit(folded, kw) {
				return string(category), true
			}
		}
	}
	for _, kw := range refdata.ChemicalKeywords {
		if keywordHit(folded, kw) {
			return string(refdata.CategoryMedicalSupplies), true
		}
	}
	return "", false
}
