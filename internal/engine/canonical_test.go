package engine

import (
	"reflect"
	"testing"
	"time"
)

var testNow = time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

func issueCodes(issues []Issue) map[string]IssueLevel {
	out := make(map[string]IssueLevel, len(issues))
	for _, is := range issues {
		out[is.Code] = is.Level
	}
	return out
}

func TestCanonicalizeRowFullRequiredness(t *testing.T) {
	f := &canonicalFlat{GenericName: "Amoxicillin"}
	_, issues := CanonicalizeRow(f, PolicyFor(SchemaCSVGeneric), ValidationFull, Allowlists{}, testNow)

	codes := issueCodes(issues)
	for _, want := range []string{
		"E_REQUIRED_STRENGTH", "E_REQUIRED_FORM", "E_REQUIRED_CATEGORY",
		"E_REQUIRED_EXPIRY_DATE", "E_REQUIRED_PACK", "E_REQUIRED_COO",
		"E_REQUIRED_ON_HAND",
	} {
		if level, ok := codes[want]; !ok || level != LevelError {
			t.Errorf("missing error %s (got %v)", want, codes)
		}
	}
}

func TestCanonicalizeRowRelaxedRequiredness(t *testing.T) {
	// No strength under a dose-relaxed schema: core fields downgrade to
	// optional warnings.
	f := &canonicalFlat{GenericName: "Thermometer Digital"}
	_, issues := CanonicalizeRow(f, PolicyFor(SchemaConcatItems), ValidationFull, Allowlists{}, testNow)

	for _, is := range issues {
		if is.Level == LevelError {
			t.Errorf("unexpected error under relaxed requiredness: %+v", is)
		}
	}
	codes := issueCodes(issues)
	if _, ok := codes["W_OPTIONAL_EXPIRY_DATE"]; !ok {
		t.Errorf("missing W_OPTIONAL_EXPIRY_DATE in %v", codes)
	}

	// The same schema with a strength present reverts to full requiredness.
	f = &canonicalFlat{GenericName: "Amoxicillin", Strength: "500mg"}
	_, issues = CanonicalizeRow(f, PolicyFor(SchemaConcatItems), ValidationFull, Allowlists{}, testNow)
	codes = issueCodes(issues)
	if level, ok := codes["E_REQUIRED_FORM"]; !ok || level != LevelError {
		t.Errorf("dosed row not held to full requiredness: %v", codes)
	}
}

func TestCanonicalizeRowProductNameRequired(t *testing.T) {
	f := &canonicalFlat{}
	_, issues := CanonicalizeRow(f, PolicyFor(SchemaUnknown), ValidationFull, Allowlists{}, testNow)
	if _, ok := issueCodes(issues)[CodeProductNameRequired]; !ok {
		t.Errorf("missing %s in %v", CodeProductNameRequired, issues)
	}
}

func TestCanonicalizeRowPackSatisfaction(t *testing.T) {
	base := canonicalFlat{
		GenericName: "Amoxicillin", Strength: "500mg", Form: "capsule",
		Category: "Antibiotics", ExpiryDate: "2027-01-31", COO: "IN", OnHand: "10",
	}

	f := base
	_, issues := CanonicalizeRow(&f, PolicyFor(SchemaCSVGeneric), ValidationFull, Allowlists{}, testNow)
	if _, ok := issueCodes(issues)["E_REQUIRED_PACK"]; !ok {
		t.Errorf("missing E_REQUIRED_PACK in %v", issues)
	}

	// Any packaging signal satisfies the pack requirement.
	for _, set := range []func(*canonicalFlat){
		func(f *canonicalFlat) { f.PiecesPerUnit = "10" },
		func(f *canonicalFlat) { f.Pkg = "30TAB" },
		func(f *canonicalFlat) { f.Unit = "tablet" },
		func(f *canonicalFlat) { f.PurchaseUnit = "box" },
	} {
		f := base
		set(&f)
		_, issues := CanonicalizeRow(&f, PolicyFor(SchemaCSVGeneric), ValidationFull, Allowlists{}, testNow)
		if _, ok := issueCodes(issues)["E_REQUIRED_PACK"]; ok {
			t.Errorf("E_REQUIRED_PACK reported despite packaging signal: %+v", f)
		}
	}
}

func TestCanonicalizeRowExpiredWarn(t *testing.T) {
	f := &canonicalFlat{GenericName: "Amoxicillin", ExpiryDate: "2020-01-31"}
	_, issues := CanonicalizeRow(f, PolicyFor(SchemaUnknown), ValidationFull, Allowlists{}, testNow)
	if level, ok := issueCodes(issues)[CodeDateExpired]; !ok || level != LevelWarn {
		t.Errorf("missing expired warning in %v", issues)
	}
}

func TestCanonicalizeRowManufacturerCountryPromotion(t *testing.T) {
	f := &canonicalFlat{GenericName: "Amoxicillin", ManufacturerName: "Germany"}
	row, issues := CanonicalizeRow(f, PolicyFor(SchemaUnknown), ValidationFull, Allowlists{}, testNow)

	if row.Batch.COO != "DE" {
		t.Errorf("COO = %q, want DE", row.Batch.COO)
	}
	if row.Product.ManufacturerName != NA {
		t.Errorf("manufacturer = %q, want NA after promotion", row.Product.ManufacturerName)
	}
	if level, ok := issueCodes(issues)[CodeFieldSuspect]; !ok || level != LevelWarn {
		t.Errorf("missing suspect warning in %v", issues)
	}
}

func TestCanonicalizeRowSanityDemotions(t *testing.T) {
	f := &canonicalFlat{
		GenericName: "Amoxicillin 500mg Capsule",
		BrandName:   "Brand99",
		Form:        "cream",
		Category:    "Cream",
	}
	row, issues := CanonicalizeRow(f, PolicyFor(SchemaUnknown), ValidationFull, Allowlists{}, testNow)

	if row.Product.GenericName != "Amoxicillin" {
		t.Errorf("generic = %q, want Amoxicillin", row.Product.GenericName)
	}
	if row.Product.BrandName != NA {
		t.Errorf("numeric brand kept: %q", row.Product.BrandName)
	}
	if row.Product.Form != NA {
		t.Errorf("form duplicating category kept: %q", row.Product.Form)
	}
	if row.Product.Category != "Cream" {
		t.Errorf("category = %q, want Cream", row.Product.Category)
	}
	count := 0
	for _, is := range issues {
		if is.Code == CodeFieldSuspect {
			count++
		}
	}
	if count < 3 {
		t.Errorf("want >=3 suspect warnings, got %d: %v", count, issues)
	}
}

func TestCanonicalizeRowNumericBrandAllowlist(t *testing.T) {
	allow := Allowlists{NumericBrands: []string{"4head"}}
	f := &canonicalFlat{GenericName: "Levomenthol", BrandName: "4Head"}
	row, _ := CanonicalizeRow(f, PolicyFor(SchemaUnknown), ValidationFull, allow, testNow)
	if row.Product.BrandName != "4Head" {
		t.Errorf("allowlisted brand demoted: %q", row.Product.BrandName)
	}
}

func TestCanonicalizeRowUmbrella(t *testing.T) {
	// Identity code wins and overwrites the human label.
	f := &canonicalFlat{GenericName: "Amoxicillin", Cat: "ABX", Category: "Misc"}
	row, _ := CanonicalizeRow(f, PolicyFor(SchemaUnknown), ValidationFull, Allowlists{}, testNow)
	if row.Product.UmbrellaCategory != "antibiotics" || row.Product.Category != "antibiotics" {
		t.Errorf("cat code derivation: umbrella=%q category=%q",
			row.Product.UmbrellaCategory, row.Product.Category)
	}

	// Without a code, weighted text classification decides.
	f = &canonicalFlat{GenericName: "Amoxicillin Trihydrate"}
	row, _ = CanonicalizeRow(f, PolicyFor(SchemaUnknown), ValidationFull, Allowlists{}, testNow)
	if row.Product.UmbrellaCategory != "antibiotics" {
		t.Errorf("text derivation: umbrella=%q", row.Product.UmbrellaCategory)
	}
}

func TestCanonicalizeRowProductType(t *testing.T) {
	policy := PolicyFor(SchemaTemplateV3)

	// Accessory vocabulary auto-infers non-medicine and waives dose fields.
	f := &canonicalFlat{GenericName: "Digital Thermometer", Category: "equipment",
		COO: "CN", OnHand: "5", PurchaseUnit: "box"}
	row, issues := CanonicalizeRow(f, policy, ValidationFull, Allowlists{}, testNow)
	if row.Product.ProductType != ProductTypeNonMedicine {
		t.Fatalf("product type = %q, want %s", row.Product.ProductType, ProductTypeNonMedicine)
	}
	codes := issueCodes(issues)
	for _, code := range []string{"E_REQUIRED_STRENGTH", "E_REQUIRED_FORM", "E_REQUIRED_EXPIRY_DATE"} {
		if _, ok := codes[code]; ok {
			t.Errorf("dose field required for non-medicine row: %s", code)
		}
	}

	// Blank type with medicine-looking text is an error.
	f = &canonicalFlat{GenericName: "Amoxicillin"}
	_, issues = CanonicalizeRow(f, policy, ValidationFull, Allowlists{}, testNow)
	if _, ok := issueCodes(issues)[CodeProductTypeMissing]; !ok {
		t.Errorf("missing %s in %v", CodeProductTypeMissing, issues)
	}

	// Unrecognized type is invalid.
	f = &canonicalFlat{GenericName: "Amoxicillin", ProductType: "gadget"}
	_, issues = CanonicalizeRow(f, policy, ValidationFull, Allowlists{}, testNow)
	if _, ok := issueCodes(issues)[CodeProductTypeInvalid]; !ok {
		t.Errorf("missing %s in %v", CodeProductTypeInvalid, issues)
	}
}

func TestCanonicalizeRowCategoryMembership(t *testing.T) {
	policy := PolicyFor(SchemaTemplateV3)

	f := &canonicalFlat{GenericName: "Amoxicillin", ProductType: "medicine", Category: "Antibiotics"}
	_, issues := CanonicalizeRow(f, policy, ValidationFull, Allowlists{}, testNow)
	if _, ok := issueCodes(issues)[CodeCategoryInvalid]; ok {
		t.Errorf("valid umbrella label rejected: %v", issues)
	}

	f = &canonicalFlat{GenericName: "Amoxicillin", ProductType: "medicine", Category: "Sundries"}
	_, issues = CanonicalizeRow(f, policy, ValidationFull, Allowlists{}, testNow)
	if _, ok := issueCodes(issues)[CodeCategoryInvalid]; !ok {
		t.Errorf("unknown label accepted: %v", issues)
	}
}

func TestCanonicalizeRowValidationModes(t *testing.T) {
	build := func() *canonicalFlat {
		return &canonicalFlat{GenericName: "Amoxicillin", ExpiryDate: "2020-01-31"}
	}

	full, fullIssues := CanonicalizeRow(build(), PolicyFor(SchemaUnknown), ValidationFull, Allowlists{}, testNow)
	errOnly, errIssues := CanonicalizeRow(build(), PolicyFor(SchemaUnknown), ValidationErrorsOnly, Allowlists{}, testNow)
	none, noneIssues := CanonicalizeRow(build(), PolicyFor(SchemaUnknown), ValidationNone, Allowlists{}, testNow)

	// Normalization is mode-invariant: identical rows under every mode.
	if !reflect.DeepEqual(full, errOnly) || !reflect.DeepEqual(full, none) {
		t.Error("canonical rows differ across validation modes")
	}

	if len(noneIssues) != 0 {
		t.Errorf("validation none leaked issues: %v", noneIssues)
	}
	for _, is := range errIssues {
		if is.Level != LevelError {
			t.Errorf("errorsOnly leaked warning: %+v", is)
		}
	}
	if len(fullIssues) <= len(errIssues) {
		t.Errorf("full mode should carry the warnings too (full %d, errors %d)",
			len(fullIssues), len(errIssues))
	}
}

func TestCanonicalizeRowNAFallback(t *testing.T) {
	f := &canonicalFlat{GenericName: "Amoxicillin"}
	row, _ := CanonicalizeRow(f, PolicyFor(SchemaUnknown), ValidationFull, Allowlists{}, testNow)

	if row.Product.GenericName != "Amoxicillin" {
		t.Errorf("generic name altered: %q", row.Product.GenericName)
	}
	for name, got := range map[string]string{
		"brand":   row.Product.BrandName,
		"mfr":     row.Product.ManufacturerName,
		"form":    row.Product.Form,
		"type":    row.Product.ProductType,
		"storage": row.Product.StorageConditions,
	} {
		if got != NA {
			t.Errorf("%s = %q, want NA", name, got)
		}
	}
	if row.Batch.BatchNo != "" {
		t.Errorf("batch_no = %q, want empty (no NA for batch fields)", row.Batch.BatchNo)
	}
	if row.Pkg != nil || row.Identity != nil {
		t.Error("pkg/identity blocks present with no source data")
	}
}

func TestCanonicalizeRowDescriptionCollapse(t *testing.T) {
	f := &canonicalFlat{GenericName: "Amoxicillin", Description: "500MG TAB 500MG TAB"}
	row, _ := CanonicalizeRow(f, PolicyFor(SchemaUnknown), ValidationFull, Allowlists{}, testNow)
	if row.Product.Description != "500MG TAB" {
		t.Errorf("description = %q, want collapsed half", row.Product.Description)
	}
}
