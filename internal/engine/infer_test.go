package engine

import "testing"

func TestInferColumns(t *testing.T) {
	columns := [][]string{
		{"Amoxicillin Trihydrate", "Paracetamol Extra", "Metformin Hydrochloride"},
		{"500mg", "650mg", "850mg"},
		{"tablet", "tablet", "tablet"},
		{"2026-03-31", "Mar-27", "15/08/2026"},
		{"120", "45", "300"},
		{"India", "Germany", "France"},
	}
	assigned, guesses := InferColumns(columns)

	want := map[int]string{
		0: "generic_name",
		1: "strength",
		2: "form",
		3: "expiry_date",
		4: "on_hand",
		5: "coo",
	}
	for col, field := range want {
		if got := assigned[col]; got != field {
			t.Errorf("column %d assigned %q, want %q", col, got, field)
		}
	}
	if len(guesses) != len(columns) {
		t.Fatalf("got %d guesses, want %d", len(guesses), len(columns))
	}
	if len(guesses[0].Samples) == 0 {
		t.Error("guesses must carry sample values")
	}
}

func TestInferColumnsGTINNotQuantity(t *testing.T) {
	// A column of checksum-valid GTINs is a barcode column even though every
	// value is an integer.
	columns := [][]string{
		{"4006381333931", "4006381333931", "4006381333931"},
	}
	assigned, _ := InferColumns(columns)
	if got := assigned[0]; got != "sku" {
		t.Errorf("GTIN column assigned %q, want sku", got)
	}
}

func TestInferColumnsEmpty(t *testing.T) {
	assigned, guesses := InferColumns([][]string{{"", "", ""}})
	if len(assigned) != 0 {
		t.Errorf("empty column assigned %v", assigned)
	}
	if len(guesses) != 1 || len(guesses[0].Candidates) != 0 {
		t.Errorf("empty column guesses = %+v", guesses)
	}
}

func TestInferColumnsFieldClaimedOnce(t *testing.T) {
	columns := [][]string{
		{"500mg", "250mg", "125mg"},
		{"10mg", "20mg", "40mg"},
	}
	assigned, _ := InferColumns(columns)
	count := 0
	for _, field := range assigned {
		if field == "strength" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("strength assigned to %d columns, want 1", count)
	}
}

func TestHasGenericCSVTokens(t *testing.T) {
	if !hasGenericCSVTokens([]string{"Item Name", "Qty", "Price"}) {
		t.Error("product-ish headers not recognized")
	}
	if hasGenericCSVTokens([]string{"alpha", "beta", "gamma"}) {
		t.Error("unrelated headers recognized")
	}
}
