package engine

// canonical.go turns one partially-mapped flat row into a validated
// CanonicalProduct. The steps are strictly ordered: product-type handling,
// field sanitization, requiredness, the expiry cross-check, category
// membership, the cross-field sanity pass, umbrella derivation, and the
// NA fallback last. Later steps read the exact field values left by
// earlier steps, so the order must not change.

import (
	"strconv"
	"strings"
	"time"

	"github.com/devShop-studio/medway-import-core-sub000/internal/refdata"
)

// Issue codes emitted by the canonicalizer.
const (
	CodeProductTypeMissing  = "E_PRODUCT_TYPE_MISSING"
	CodeProductTypeInvalid  = "E_PRODUCT_TYPE_INVALID"
	CodeProductNameRequired = "E_PRODUCT_NAME_REQUIRED"
	CodeCategoryInvalid     = "E_CATEGORY_INVALID"

	// CodeFieldSuspect marks a sanity-pass demotion. Informational despite
	// the prefix: the value moves to description, the row survives.
	CodeFieldSuspect = "E_FIELD_SUSPECT_VALUE"
)

const (
	ProductTypeMedicine    = "medicine"
	ProductTypeNonMedicine = "non-medicine"
)

func requiredCode(key string) string {
	return "E_REQUIRED_" + strings.ToUpper(key)
}

func optionalCode(key string) string {
	return "W_OPTIONAL_" + strings.ToUpper(key)
}

// canonicalizer carries one row's state through the pipeline.
type canonicalizer struct {
	f      *canonicalFlat
	policy SchemaPolicy
	allow  Allowlists
	now    time.Time
	issues []Issue
}

// CanonicalizeRow validates and normalizes one flat row. Issues come back
// already filtered by validationMode; field keys are flat (the caller maps
// them to dotted paths when building ParsedRowErrors).
func CanonicalizeRow(f *canonicalFlat, policy SchemaPolicy, mode ValidationMode, allow Allowlists, now time.Time) (CanonicalProduct, []Issue) {
	c := &canonicalizer{f: f, policy: policy, allow: allow, now: now}

	c.handleProductType()
	c.sanitizeRow()
	c.checkRequired()
	c.checkExpiry()
	c.checkCategoryMembership()
	c.sanityPass()
	c.deriveUmbrella()
	c.applyFallbacks()

	return c.build(), filterIssues(c.issues, mode)
}

// filterIssues applies validation-mode filtering. Normalization has already
// happened in full, so dropping issues never changes row shape.
func filterIssues(issues []Issue, mode ValidationMode) []Issue {
	switch mode {
	case ValidationNone:
		return nil
	case ValidationErrorsOnly:
		var out []Issue
		for _, is := range issues {
			if is.Level == LevelError {
				out = append(out, is)
			}
		}
		return out
	}
	return issues
}

func (c *canonicalizer) report(is ...Issue) {
	c.issues = append(c.issues, is...)
}

func (c *canonicalizer) nonMedicine() bool {
	return c.f.ProductType == ProductTypeNonMedicine
}

// handleProductType resolves the explicit medicine/non-medicine flag for
// template files, auto-inferring non-medicine from accessory and chemical
// vocabulary when the column is blank.
func (c *canonicalizer) handleProductType() {
	if !c.policy.ProductType {
		c.f.ProductType = strings.ToLower(cleanCell(c.f.ProductType))
		return
	}

	switch strings.ToLower(cleanCell(c.f.ProductType)) {
	case ProductTypeMedicine:
		c.f.ProductType = ProductTypeMedicine
	case ProductTypeNonMedicine, "nonmedicine", "non medicine":
		c.f.ProductType = ProductTypeNonMedicine
	case "":
		text := c.f.GenericName + " " + c.f.BrandName + " " + c.f.Description
		if label, ok := classifyNonMedicine(text); ok {
			c.f.ProductType = ProductTypeNonMedicine
			c.f.Category = label
			return
		}
		c.f.ProductType = ""
		c.report(errIssue("product_type", CodeProductTypeMissing,
			"product type must be medicine or non-medicine"))
	default:
		c.f.ProductType = ""
		c.report(errIssue("product_type", CodeProductTypeInvalid,
			"product type must be medicine or non-medicine"))
	}
}

// sanitizeRow runs every field sanitizer over the populated fields. Fatal
// issues clear the field; the row is never dropped.
func (c *canonicalizer) sanitizeRow() {
	f := c.f

	f.GenericName = SanitizeGenericName(f.GenericName)
	f.BrandName = SanitizeGenericName(f.BrandName)
	f.ManufacturerName = SanitizeGenericName(f.ManufacturerName)
	f.Description = collapseSpaces(f.Description)
	f.StorageConditions = collapseSpaces(f.StorageConditions)
	f.Category = collapseSpaces(cleanCell(f.Category))
	f.PurchaseUnit = strings.ToLower(collapseSpaces(cleanCell(f.PurchaseUnit)))
	f.Unit = strings.ToLower(collapseSpaces(cleanCell(f.Unit)))

	if f.Strength != "" {
		f.Strength = c.take(SanitizeStrength(f.Strength))
	}
	if f.Form != "" {
		res := SanitizeForm(f.Form)
		c.report(res.Issues...)
		f.Form = res.Value
	}
	if f.BatchNo != "" {
		f.BatchNo = c.take(SanitizeBatch(f.BatchNo))
	}
	if f.ExpiryDate != "" {
		f.ExpiryDate = c.take(SanitizeExpiry(f.ExpiryDate))
	}
	if f.OnHand != "" {
		f.OnHand = c.take(SanitizeNumber("on_hand", f.OnHand, numberBounds{ge: f64(0)}))
	}
	if f.UnitPrice != "" {
		f.UnitPrice = c.take(SanitizeNumber("unit_price", f.UnitPrice, numberBounds{ge: f64(0)}))
	}
	if f.PiecesPerUnit != "" {
		f.PiecesPerUnit = c.take(SanitizeNumber("pieces_per_unit", f.PiecesPerUnit, numberBounds{gt: f64(0)}))
	}
	if f.COO != "" {
		f.COO = c.take(SanitizeCOO(f.COO))
	}
	if f.Cat != "" {
		f.Cat = c.take(SanitizeCatCode(f.Cat))
	}
	if f.Frm != "" {
		f.Frm = c.take(SanitizeFrmCode(f.Frm))
	}
	if f.Pkg != "" {
		f.Pkg = c.take(SanitizePkgCode(f.Pkg))
	}
	if f.SKU != "" {
		f.SKU = c.take(SanitizeGTIN(f.SKU))
	}
	if f.RequiresPrescription != "" {
		f.RequiresPrescription = c.take(SanitizeBool("requires_prescription", f.RequiresPrescription))
	}
	if f.IsControlled != "" {
		f.IsControlled = c.take(SanitizeBool("is_controlled", f.IsControlled))
	}

	if f.GenericName != "" && hasDigit(f.GenericName) && !containsUnitToken(f.GenericName) {
		// Digits without units are usually fine (B12); flag only when the
		// name is mostly numeric.
		if !hasLetter(f.GenericName) {
			c.report(warnIssue("generic_name", CodeTextDigitsSuspect,
				"generic name is purely numeric"))
		}
	}
	if f.Category != "" && (hasDigit(f.Category) || containsUnitToken(f.Category)) {
		if !(c.policy.CategoryDigitsOK && isInteger(f.Category)) {
			c.report(warnIssue("category", CodeTextDigitsSuspect,
				"category contains digits or dose units"))
		}
	}
}

// take keeps a sanitizer's value and records its issues.
func (c *canonicalizer) take(value string, issues []Issue) string {
	c.report(issues...)
	return value
}

func f64(v float64) *float64 { return &v }

// checkRequired applies schema- and dose-aware requiredness. A row with no
// strength under a dose-relaxed schema only needs a generic name; the
// remaining core fields downgrade to optional warnings.
func (c *canonicalizer) checkRequired() {
	f := c.f

	if f.GenericName == "" && f.BrandName == "" {
		c.report(errIssue("generic_name", CodeProductNameRequired,
			"row has neither generic nor brand name"))
	} else if f.GenericName == "" {
		c.report(errIssue("generic_name", requiredCode("generic_name"),
			"generic name is required"))
	}

	relaxed := c.policy.DoseRelaxed && f.Strength == ""

	for _, key := range requiredCoreKeys {
		if c.nonMedicine() && (key == "strength" || key == "form" || key == "expiry_date") {
			continue
		}
		if c.coreSatisfied(key) {
			continue
		}
		field := key
		if key == "pack" {
			field = "pieces_per_unit"
		}
		if relaxed {
			c.report(warnIssue(field, optionalCode(key), key+" is recommended"))
		} else {
			c.report(errIssue(field, requiredCode(key), key+" is required"))
		}
	}
}

func (c *canonicalizer) coreSatisfied(key string) bool {
	f := c.f
	if key == "pack" {
		return f.PiecesPerUnit != "" || f.Pkg != "" || f.Unit != "" || f.PurchaseUnit != ""
	}
	return f.get(key) != ""
}

// checkExpiry flags a parsed expiry date that is not strictly in the
// future. Reported here once, never inside the sanitizer.
func (c *canonicalizer) checkExpiry() {
	if c.f.ExpiryDate == "" {
		return
	}
	t, err := time.Parse("2006-01-02", c.f.ExpiryDate)
	if err != nil {
		return
	}
	if !t.After(c.now) {
		c.report(warnIssue("expiry_date", CodeDateExpired, "expiry date is in the past"))
	}
}

// checkCategoryMembership enforces the closed label sets for template
// files: 23 medicine umbrellas, 2 non-medicine labels.
func (c *canonicalizer) checkCategoryMembership() {
	if !c.policy.CategoryMembership || c.f.Category == "" {
		return
	}
	label := foldASCII(c.f.Category)
	if c.nonMedicine() {
		if !refdata.IsNonMedicineCategory(label) {
			c.report(errIssue("category", CodeCategoryInvalid,
				"non-medicine category must be medical_supplies or equipment"))
		}
		return
	}
	if !refdata.IsMedicineUmbrella(label) && !refdata.IsNonMedicineCategory(label) {
		c.report(errIssue("category", CodeCategoryInvalid,
			"category is not a known umbrella label"))
	}
}

// sanityPass enforces cross-field invariants by demoting violating values
// into description. The resolution order is significant: a value that
// violates two rules only reports the first, and the country check on
// manufacturer runs before the contamination check so "GERMANY" becomes a
// COO promotion rather than a generic demotion.
func (c *canonicalizer) sanityPass() {
	f := c.f

	// Form carrying digits or dose units is not a form.
	if f.Form != "" && (hasDigit(f.Form) || containsUnitToken(f.Form)) {
		c.demote("form", &f.Form, "form contains digits or dose units")
	}

	// Category carrying digits or units, except POS integer category IDs.
	if f.Category != "" && (hasDigit(f.Category) || containsUnitToken(f.Category)) {
		if !(c.policy.CategoryDigitsOK && isInteger(f.Category)) {
			c.demote("category", &f.Category, "category contains digits or dose units")
		}
	}

	// Generic name with embedded unit/form tokens: strip them out, keep
	// the clean head, move the stripped tail to description.
	if f.GenericName != "" {
		if clean, stripped := stripNameNoise(f.GenericName); stripped != "" {
			f.GenericName = clean
			c.appendDescription(stripped)
			c.report(warnIssue("generic_name", CodeFieldSuspect,
				"embedded dose/form tokens moved to description"))
		}
	}

	// Form duplicating category says nothing; keep the category.
	if f.Form != "" && f.Category != "" && foldASCII(f.Form) == foldASCII(f.Category) {
		c.demote("form", &f.Form, "form duplicates category")
	}

	// A manufacturer that is actually a country becomes the COO. This must
	// run before the contamination check below.
	if f.ManufacturerName != "" {
		if code, ok := NormalizeCountry(f.ManufacturerName); ok {
			if f.COO == "" {
				f.COO = code
			}
			f.ManufacturerName = ""
			c.report(warnIssue("manufacturer_name", CodeFieldSuspect,
				"manufacturer is a country name; promoted to coo"))
		}
	}

	if f.ManufacturerName != "" && textContaminated(f.ManufacturerName, c.allow.NumericManufacturers) {
		c.demote("manufacturer_name", &f.ManufacturerName, "manufacturer fails shape checks")
	}
	if f.BrandName != "" && textContaminated(f.BrandName, c.allow.NumericBrands) {
		c.demote("brand_name", &f.BrandName, "brand fails shape checks")
	}
	if f.BatchNo != "" && punctDensity(f.BatchNo) > 0.3 {
		c.demote("batch_no", &f.BatchNo, "batch number is mostly punctuation")
	}
	if f.COO != "" && !cooCodeRe.MatchString(f.COO) {
		c.demote("coo", &f.COO, "coo is not an ISO-2 code")
	}
}

// demote moves a field value into description and clears the field.
func (c *canonicalizer) demote(field string, value *string, why string) {
	c.appendDescription(*value)
	*value = ""
	c.report(warnIssue(field, CodeFieldSuspect, why))
}

func (c *canonicalizer) appendDescription(text string) {
	text = collapseSpaces(text)
	if text == "" {
		return
	}
	if c.f.Description == "" {
		c.f.Description = text
		return
	}
	if strings.Contains(foldASCII(c.f.Description), foldASCII(text)) {
		return
	}
	c.f.Description += " " + text
}

// stripNameNoise removes dose-unit and dosage-form tokens embedded in a
// product name, returning the clean name and the removed text.
func stripNameNoise(name string) (clean, stripped string) {
	var keep, drop []string
	for _, tok := range strings.Fields(name) {
		folded := foldASCII(strings.Trim(tok, ".,;:"))
		_, isForm := refdata.FormSynonyms[folded]
		switch {
		case unitSuffixRe.MatchString(tok) || isStrengthShaped(folded):
			drop = append(drop, tok)
		case isForm || refdata.IsCanonicalForm(folded):
			drop = append(drop, tok)
		default:
			keep = append(keep, tok)
		}
	}
	if len(drop) == 0 || len(keep) == 0 {
		return name, ""
	}
	return strings.Join(keep, " "), strings.Join(drop, " ")
}

// textContaminated reports digit or unit-token contamination of a free-text
// name field, honoring the explicit numeric allowlist.
func textContaminated(value string, allow []string) bool {
	if containsUnitToken(value) {
		return true
	}
	if !hasDigit(value) {
		return false
	}
	return !inAllowlist(value, allow)
}

func punctDensity(s string) float64 {
	if s == "" {
		return 0
	}
	punct := 0
	for _, r := range s {
		if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == ' ') {
			punct++
		}
	}
	return float64(punct) / float64(len([]rune(s)))
}

// deriveUmbrella resolves the umbrella category: identity code first (which
// also overwrites the human label), weighted text classification second.
func (c *canonicalizer) deriveUmbrella() {
	f := c.f

	if f.Cat != "" {
		if u, ok := UmbrellaFromCode(f.Cat); ok {
			f.UmbrellaCategory = u
			f.Category = u
			return
		}
	}

	if c.nonMedicine() && refdata.IsNonMedicineCategory(foldASCII(f.Category)) {
		f.UmbrellaCategory = foldASCII(f.Category)
		return
	}

	text := strings.Join([]string{f.GenericName, f.BrandName, f.Category, f.Description}, " ")
	if u, _, ok := ClassifyUmbrella(text); ok {
		f.UmbrellaCategory = u
		return
	}
	if refdata.IsMedicineUmbrella(foldASCII(f.Category)) {
		f.UmbrellaCategory = foldASCII(f.Category)
	}
}

// applyFallbacks collapses duplicated description text and fills every
// still-empty optional text field with the NA sentinel. Requiredness has
// already run, so the sentinel cannot mask a missing-field error.
func (c *canonicalizer) applyFallbacks() {
	f := c.f

	if f.Description != "" {
		if half := len(f.Description) / 2; half > 0 && len(f.Description)%2 == 1 {
			if f.Description[:half] == f.Description[half+1:] && f.Description[half] == ' ' {
				f.Description = f.Description[:half]
			}
		}
	}

	for _, field := range []*string{
		&f.BrandName, &f.ManufacturerName, &f.Strength, &f.Form,
		&f.Category, &f.UmbrellaCategory, &f.ProductType,
		&f.StorageConditions, &f.Description,
	} {
		if *field == "" {
			*field = NA
		}
	}
}

// build assembles the public record from the flat bag.
func (c *canonicalizer) build() CanonicalProduct {
	f := c.f
	out := CanonicalProduct{
		Product: Product{
			GenericName:       f.GenericName,
			BrandName:         f.BrandName,
			ManufacturerName:  f.ManufacturerName,
			Strength:          f.Strength,
			Form:              f.Form,
			Category:          f.Category,
			UmbrellaCategory:  f.UmbrellaCategory,
			ProductType:       f.ProductType,
			StorageConditions: f.StorageConditions,
			Description:       f.Description,
		},
		Batch: Batch{
			BatchNo:    f.BatchNo,
			ExpiryDate: f.ExpiryDate,
			OnHand:     parseFloatField(f.OnHand),
			UnitPrice:  parseFloatField(f.UnitPrice),
			COO:        f.COO,
		},
	}

	if b, ok := parseBoolField(f.RequiresPrescription); ok {
		out.Product.RequiresPrescription = b
	}
	if b, ok := parseBoolField(f.IsControlled); ok {
		out.Product.IsControlled = b
	}

	if f.PurchaseUnit != "" || f.PiecesPerUnit != "" || f.Unit != "" {
		out.Pkg = &Pkg{
			PurchaseUnit:  f.PurchaseUnit,
			PiecesPerUnit: parseFloatField(f.PiecesPerUnit),
			Unit:          f.Unit,
		}
	}
	if f.Cat != "" || f.Frm != "" || f.Pkg != "" || f.SKU != "" {
		out.Identity = &Identity{Cat: f.Cat, Frm: f.Frm, Pkg: f.Pkg, SKU: f.SKU}
	}
	return out
}

func parseFloatField(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseBoolField(s string) (*bool, bool) {
	switch s {
	case "true":
		v := true
		return &v, true
	case "false":
		v := false
		return &v, true
	}
	return nil, false
}
