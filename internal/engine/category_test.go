package engine

import "testing"

func TestUmbrellaFromCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"ABX", "antibiotics", true},
		{"abx", "antibiotics", true},
		{" anl ", "analgesics", true},
		{"ZZZ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := UmbrellaFromCode(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("UmbrellaFromCode(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestClassifyUmbrella(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"strong single keyword", "AMOXICILLIN 500MG CAPSULE", "antibiotics", true},
		{"accumulated keywords", "azithromycin antibiotic suspension", "antibiotics", true},
		{"empty", "", "", false},
		{"no signal", "miscellaneous sundries", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, ok := ClassifyUmbrella(tt.in)
			if ok != tt.ok {
				t.Fatalf("ClassifyUmbrella(%q) ok = %v, want %v (label %q)", tt.in, ok, tt.ok, got)
			}
			if got != tt.want {
				t.Errorf("ClassifyUmbrella(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassifyNonMedicine(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"digital thermometer", "equipment", true},
		{"disposable syringe 5ml", "medical_supplies", true},
		{"reagent bottle", "medical_supplies", true},
		{"paracetamol tablets", "", false},
	}
	for _, tt := range tests {
		got, ok := classifyNonMedicine(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("classifyNonMedicine(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestClassifyNonMedicineStableLabel(t *testing.T) {
	// "thermometer strip" sits in the supplies vocabulary while
	// "thermometer" sits in equipment; text hitting both must classify the
	// same way on every call.
	for i := 0; i < 100; i++ {
		got, ok := classifyNonMedicine("digital thermometer strip")
		if !ok || got != "medical_supplies" {
			t.Fatalf("iteration %d: classifyNonMedicine = (%q, %v), want (medical_supplies, true)", i, got, ok)
		}
	}
}

func TestKeywordHit(t *testing.T) {
	tests := []struct {
		folded  string
		keyword string
		want    bool
	}{
		{"amoxicillin capsule", "amoxicillin", true}, // long keyword, substring
		{"iron supplement", "iron", true},            // short keyword, whole token
		{"environment sample", "iron", false},        // short keyword inside a word
		{"vitamin b complex", "vitamin b", true},     // multi-word
	}
	for _, tt := range tests {
		if got := keywordHit(tt.folded, tt.keyword); got != tt.want {
			t.Errorf("keywordHit(%q, %q) = %v, want %v", tt.folded, tt.keyword, got, tt.want)
		}
	}
}
