package engine

import "testing"

func extractionValue(t *testing.T, dec Decomposition, path string) string {
	t.Helper()
	ex, ok := dec.Get(path)
	if !ok {
		t.Fatalf("no extraction for %s in %+v", path, dec.Extractions)
	}
	return ex.Value
}

func TestDecomposeCellFullBattery(t *testing.T) {
	dec := DecomposeCell("AMOXICILLIN 500MG CAP 10S B1234 EXP:03/2026 INDIA", DecomposeOptions{})

	want := map[string]string{
		"product.strength":    "500mg",
		"product.form":        "capsule",
		"pkg.pieces_per_unit": "10",
		"batch.coo":           "IN",
		"batch.batch_no":      "B1234",
		"batch.expiry_date":   "2026-03-31",
	}
	for path, value := range want {
		if got := extractionValue(t, dec, path); got != value {
			t.Errorf("%s = %q, want %q", path, got, value)
		}
	}
	if dec.Leftover != "AMOXICILLIN" {
		t.Errorf("Leftover = %q, want AMOXICILLIN", dec.Leftover)
	}
}

func TestDecomposeCellStrengthPair(t *testing.T) {
	dec := DecomposeCell("PARACETAMOL 500 MG TABLET", DecomposeOptions{})
	if got := extractionValue(t, dec, "product.strength"); got != "500mg" {
		t.Errorf("strength = %q, want 500mg", got)
	}
	if got := extractionValue(t, dec, "product.form"); got != "tablet" {
		t.Errorf("form = %q, want tablet", got)
	}
	if dec.Leftover != "PARACETAMOL" {
		t.Errorf("Leftover = %q, want PARACETAMOL", dec.Leftover)
	}
}

func TestDecomposeCellManufacturerMarker(t *testing.T) {
	dec := DecomposeCell("PANADOL, 500MG, MFG BY GSK PHARMA LTD", DecomposeOptions{})
	if got := extractionValue(t, dec, "product.manufacturer_name"); got != "GSK PHARMA LTD" {
		t.Errorf("manufacturer = %q, want GSK PHARMA LTD", got)
	}
	if got := extractionValue(t, dec, "product.brand_name"); got != "Panadol" {
		t.Errorf("brand = %q, want Panadol", got)
	}
	if got := extractionValue(t, dec, "product.strength"); got != "500mg" {
		t.Errorf("strength = %q, want 500mg", got)
	}
}

func TestDecomposeCellHyphenatedSplit(t *testing.T) {
	dec := DecomposeCell("BETAMETASONE DIPROPIONATE -0.64-%-CREAM", DecomposeOptions{})
	if got := extractionValue(t, dec, "product.strength"); got != "0.64%" {
		t.Errorf("strength = %q, want 0.64%%", got)
	}
	if got := extractionValue(t, dec, "product.form"); got != "cream" {
		t.Errorf("form = %q, want cream", got)
	}
	if dec.Leftover != "BETAMETASONE DIPROPIONATE" {
		t.Errorf("Leftover = %q, want BETAMETASONE DIPROPIONATE", dec.Leftover)
	}
}

func TestDecomposeCellBatchNeedsDigits(t *testing.T) {
	// An all-letter word starting with B must not be read as a batch number.
	dec := DecomposeCell("BETAMETASONE CREAM", DecomposeOptions{})
	if _, ok := dec.Get("batch.batch_no"); ok {
		t.Error("BETAMETASONE misread as a batch number")
	}
}

func TestDecomposeCellOpportunistic(t *testing.T) {
	opts := DecomposeOptions{Opportunistic: true}

	// Ingredient formula: no strength, list separators, long words. Rejected.
	if dec := DecomposeCell("Alumina, Magnesia and Simethicone", opts); !dec.Empty() {
		t.Errorf("formula cell accepted: %+v", dec.Extractions)
	}

	// Strength plus form passes the two-signal floor.
	dec := DecomposeCell("PARACETAMOL 500MG TAB", opts)
	if dec.Empty() {
		t.Fatal("strength+form cell rejected")
	}
	if got := extractionValue(t, dec, "product.form"); got != "tablet" {
		t.Errorf("form = %q, want tablet", got)
	}

	// Strength alone has no secondary signal. Rejected.
	if dec := DecomposeCell("PARACETAMOL 500MG", opts); !dec.Empty() {
		t.Errorf("single-signal cell accepted: %+v", dec.Extractions)
	}
}

func TestSplitNameStrengthForm(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want SplitResult
		ok   bool
	}{
		{
			name: "hyphenated strength and form",
			in:   "BETAMETASONE DIPROPIONATE -0.64-%-CREAM",
			want: SplitResult{Name: "BETAMETASONE DIPROPIONATE", Strength: "0.64%", Form: "cream"},
			ok:   true,
		},
		{
			name: "plain name strength form",
			in:   "AMOXICILLIN 250MG CAPSULE",
			want: SplitResult{Name: "AMOXICILLIN", Strength: "250mg", Form: "capsule"},
			ok:   true,
		},
		{
			name: "ratio strength",
			in:   "COTRIMOXAZOLE 200MG/40MG SYRUP",
			want: SplitResult{Name: "COTRIMOXAZOLE", Strength: "200mg/40mg", Form: "syrup"},
			ok:   true,
		},
		{
			name: "no strength no form",
			in:   "Alumina and Magnesia",
			ok:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SplitNameStrengthForm(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v (got %+v)", ok, tt.ok, got)
			}
			if !ok {
				return
			}
			if got.Name != tt.want.Name || got.Strength != tt.want.Strength || got.Form != tt.want.Form {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIsFormulaLike(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Alumina, Magnesia and Simethicone", true},
		{"Vitamin B Complex and Zinc", true},
		{"PARACETAMOL 500MG TAB", false},
		{"Amoxicillin, 500 mg", false}, // unit token vetoes
		{"", false},
	}
	for _, tt := range tests {
		if got := isFormulaLike(tt.in); got != tt.want {
			t.Errorf("isFormulaLike(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTrimNameRemnants(t *testing.T) {
	tests := []struct{ in, want string }{
		{"PARACETAMOL -0", "PARACETAMOL"},
		{"AMOXICILLIN -", "AMOXICILLIN"},
		{"VITAMIN B12", "VITAMIN B12"},
		{"IBUPROFEN  ", "IBUPROFEN"},
	}
	for _, tt := range tests {
		if got := trimNameRemnants(tt.in); got != tt.want {
			t.Errorf("trimNameRemnants(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
