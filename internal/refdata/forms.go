package refdata

// CanonicalForms is the closed set of dosage form values the engine emits.
var CanonicalForms = []string{
	"tablet",
	"capsule",
	"syrup",
	"suspension",
	"solution",
	"injection",
	"infusion",
	"cream",
	"ointment",
	"gel",
	"lotion",
	"drops",
	"spray",
	"inhaler",
	"suppository",
	"pessary",
	"powder",
	"granules",
	"sachet",
	"patch",
	"lozenge",
	"mouthwash",
	"shampoo",
	"other",
}

// FormSynonyms maps lowercase keywords and abbreviations to canonical forms.
// Keys must be single tokens; multi-word phrases live in FormPhrases.
var FormSynonyms = map[string]string{
	"tab":         "tablet",
	"tabs":        "tablet",
	"tablet":      "tablet",
	"tablets":     "tablet",
	"tbl":         "tablet",
	"comp":        "tablet",
	"caplet":      "tablet",
	"caplets":     "tablet",
	"cap":         "capsule",
	"caps":        "capsule",
	"capsule":     "capsule",
	"capsules":    "capsule",
	"softgel":     "capsule",
	"softgels":    "capsule",
	"syr":         "syrup",
	"syrup":       "syrup",
	"syp":         "syrup",
	"susp":        "suspension",
	"suspension":  "suspension",
	"sol":         "solution",
	"soln":        "solution",
	"solution":    "solution",
	"inj":         "injection",
	"injection":   "injection",
	"injectable":  "injection",
	"amp":         "injection",
	"ampoule":     "injection",
	"ampule":      "injection",
	"vial":        "injection",
	"infusion":    "infusion",
	"iv":          "infusion",
	"cream":       "cream",
	"crm":         "cream",
	"oint":        "ointment",
	"ointment":    "ointment",
	"ung":         "ointment",
	"gel":         "gel",
	"jelly":       "gel",
	"lotion":      "lotion",
	"drop":        "drops",
	"drops":       "drops",
	"gtt":         "drops",
	"spray":       "spray",
	"inhaler":     "inhaler",
	"inhalation":  "inhaler",
	"mdi":         "inhaler",
	"rotacap":     "inhaler",
	"suppository": "suppository",
	"supp":        "suppository",
	"pessary":     "pessary",
	"powder":      "powder",
	"pwd":         "powder",
	"granule":     "granules",
	"granules":    "granules",
	"sachet":      "sachet",
	"sachets":     "sachet",
	"patch":       "patch",
	"patches":     "patch",
	"lozenge":     "lozenge",
	"lozenges":    "lozenge",
	"pastille":    "lozenge",
	"mouthwash":   "mouthwash",
	"gargle":      "mouthwash",
	"shampoo":     "shampoo",
}

// FormPhrases maps lowercase multi-word (and qualified single-word) phrases
// to canonical forms, used by the trailing-phrase anchor in cell
// decomposition. Longer phrases must be preferred over shorter ones so
// "effervescent tablets" beats "tablets".
var FormPhrases = map[string]string{
	"effervescent tablet":      "tablet",
	"effervescent tablets":     "tablet",
	"dispersible tablet":       "tablet",
	"dispersible tablets":      "tablet",
	"chewable tablet":          "tablet",
	"chewable tablets":         "tablet",
	"film coated tablet":       "tablet",
	"film coated tablets":      "tablet",
	"film-coated tablet":       "tablet",
	"film-coated tablets":      "tablet",
	"sugar coated tablet":      "tablet",
	"coated tablet":            "tablet",
	"coated tablets":           "tablet",
	"scored tablet":            "tablet",
	"sublingual tablet":        "tablet",
	"sublingual tablets":       "tablet",
	"extended release tablet":  "tablet",
	"extended release tablets": "tablet",
	"prolonged release tablet": "tablet",
	"modified release tablet":  "tablet",
	"hard capsule":             "capsule",
	"hard capsules":            "capsule",
	"soft capsule":             "capsule",
	"soft capsules":            "capsule",
	"soft gelatin capsule":     "capsule",
	"soft gelatin capsules":    "capsule",
	"extended release capsule": "capsule",
	"dry syrup":                "syrup",
	"oral syrup":               "syrup",
	"oral suspension":          "suspension",
	"dry suspension":           "suspension",
	"oral solution":            "solution",
	"oral drops":               "drops",
	"eye drops":                "drops",
	"ear drops":                "drops",
	"eye drop":                 "drops",
	"ear drop":                 "drops",
	"nasal drops":              "drops",
	"eye ointment":             "ointment",
	"nasal spray":              "spray",
	"oral spray":               "spray",
	"throat spray":             "spray",
	"topical cream":            "cream",
	"topical gel":              "gel",
	"topical lotion":           "lotion",
	"topical solution":         "solution",
	"injection solution":       "injection",
	"solution for injection":   "injection",
	"powder for injection":     "injection",
	"solution for infusion":    "infusion",
	"oral powder":              "powder",
	"dry powder inhaler":       "inhaler",
	"metered dose inhaler":     "inhaler",
	"transdermal patch":        "patch",
	// Catch-all entries: these only anchor a form when a dose signal is
	// present in the same cell, otherwise device and test-kit names get
	// misread as dosage forms.
	"kit":    "other",
	"device": "other",
	"strip":  "other",
	"strips": "other",
	"test":   "other",
	"swab":   "other",
}

// OtherFormPhrases is the subset of FormPhrases mapping to the catch-all
// "other" bucket, exported so the decomposer can apply its dose-signal gate.
var OtherFormPhrases = func() map[string]bool {
	set := make(map[string]bool)
	for phrase, canonical := range FormPhrases {
		if canonical == "other" {
			set[phrase] = true
		}
	}
	return set
}()

// IsCanonicalForm reports whether s is one of the canonical form values.
func IsCanonicalForm(s string) bool {
	for _, f := range CanonicalForms {
		if f == s {
			return true
		}
	}
	return false
}
