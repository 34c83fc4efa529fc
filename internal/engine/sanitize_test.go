package engine

import "testing"

func hasIssueCode(issues []Issue, code string) bool {
	for _, is := range issues {
		if is.Code == code {
			return true
		}
	}
	return false
}

func TestSanitizeForm(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		want     string
		wantCode string
	}{
		{"exact synonym", "tab", "tablet", ""},
		{"exact synonym caps", "CAPS", "capsule", ""},
		{"canonical passthrough", "cream", "cream", ""},
		{"autocorrect one edit", "tabket", "tablet", CodeFormAutocorrect},
		{"empty", "", "", CodeFormMissing},
		{"numeric", "500", "", CodeFormNumeric},
		{"unrecognized", "widget", "", CodeFormInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := SanitizeForm(tt.in)
			if res.Value != tt.want {
				t.Errorf("SanitizeForm(%q).Value = %q, want %q", tt.in, res.Value, tt.want)
			}
			if tt.wantCode != "" && !hasIssueCode(res.Issues, tt.wantCode) {
				t.Errorf("SanitizeForm(%q) issues %v, want code %s", tt.in, res.Issues, tt.wantCode)
			}
			if tt.wantCode == "" && len(res.Issues) != 0 {
				t.Errorf("SanitizeForm(%q) unexpected issues %v", tt.in, res.Issues)
			}
		})
	}
}

func TestSanitizeFormSuggestion(t *testing.T) {
	res := SanitizeForm("tabzzzt")
	if res.Value != "" {
		t.Fatalf("Value = %q, want empty", res.Value)
	}
	if !hasIssueCode(res.Issues, CodeFormInvalid) {
		t.Fatalf("issues %v, want %s", res.Issues, CodeFormInvalid)
	}
	if res.Suggestion == "" {
		t.Error("expected a nearest-form suggestion for UI hinting")
	}
}

func TestSanitizeStrength(t *testing.T) {
	tests := []struct {
		in       string
		want     string
		wantCode string
	}{
		{"500 mg", "500mg", ""},
		{"500MG", "500mg", ""},
		{"5mg/5ml", "5mg/5ml", ""},
		{"100µg", "100mcg", ""},
		{"0.64 %", "0.64%", ""},
		{"", "", ""},
		{"strong", "", CodeStrengthFormat},
		{"mg500", "", CodeStrengthFormat},
	}
	for _, tt := range tests {
		got, issues := SanitizeStrength(tt.in)
		if got != tt.want {
			t.Errorf("SanitizeStrength(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if tt.wantCode != "" && !hasIssueCode(issues, tt.wantCode) {
			t.Errorf("SanitizeStrength(%q) issues %v, want code %s", tt.in, issues, tt.wantCode)
		}
	}
}

func TestSanitizeGTIN(t *testing.T) {
	tests := []struct {
		in       string
		want     string
		wantCode string
	}{
		{"4006381333931", "4006381333931", ""},
		{"40-0638-13339.31", "4006381333931", ""},
		{"1234567", "1234567", CodeGTINLen},
		{"123456789012345", "123456789012345", CodeGTINLen},
		{"no digits", "", CodeGTINDigits},
	}
	for _, tt := range tests {
		got, issues := SanitizeGTIN(tt.in)
		if got != tt.want {
			t.Errorf("SanitizeGTIN(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if tt.wantCode != "" && !hasIssueCode(issues, tt.wantCode) {
			t.Errorf("SanitizeGTIN(%q) issues %v, want code %s", tt.in, issues, tt.wantCode)
		}
	}
}

func TestSanitizeBool(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"yes", "true", true},
		{"Y", "true", true},
		{"rx", "true", true},
		{"OTC", "false", true},
		{"0", "false", true},
		{"maybe", "", false},
	}
	for _, tt := range tests {
		got, issues := SanitizeBool("rx_required", tt.in)
		if got != tt.want {
			t.Errorf("SanitizeBool(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if tt.ok && len(issues) != 0 {
			t.Errorf("SanitizeBool(%q) unexpected issues %v", tt.in, issues)
		}
		if !tt.ok && !hasIssueCode(issues, CodeBool) {
			t.Errorf("SanitizeBool(%q) issues %v, want code %s", tt.in, issues, CodeBool)
		}
	}
}

func TestSanitizeBatch(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		want     string
		wantCode string
	}{
		{"plain", "b1234", "B1234", ""},
		{"labeled extraction", "LOT B1234 OK", "B1234", ""},
		{"separator collapse", "AB--12..34", "AB-12.34", ""},
		{"unit token rejected", "B12 MG", "", CodeBatchUnitToken},
		{"strength shaped rejected", "500MG", "", CodeBatchStrengthLike},
		{"letters only", "ABCDEF", "", CodeBatchAlphaNumMix},
		{"digits only", "123456", "", CodeBatchAlnum},
		{"empty", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, issues := SanitizeBatch(tt.in)
			if got != tt.want {
				t.Errorf("SanitizeBatch(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if tt.wantCode != "" && !hasIssueCode(issues, tt.wantCode) {
				t.Errorf("SanitizeBatch(%q) issues %v, want code %s", tt.in, issues, tt.wantCode)
			}
		})
	}
}

func TestSanitizeBatchTruncates(t *testing.T) {
	in := "B123456789012345678901234"
	got, issues := SanitizeBatch(in)
	if len(got) != maxBatchLen {
		t.Fatalf("len = %d, want %d", len(got), maxBatchLen)
	}
	if !hasIssueCode(issues, CodeBatchTruncated) {
		t.Errorf("issues %v, want %s", issues, CodeBatchTruncated)
	}
}

func TestSanitizeNumber(t *testing.T) {
	zero := 0.0
	tests := []struct {
		in       string
		bounds   numberBounds
		want     string
		wantCode string
	}{
		{"1,200.50", numberBounds{}, "1200.5", ""},
		{"$45.00", numberBounds{}, "45", ""},
		{"(3)", numberBounds{}, "-3", ""},
		{"42", numberBounds{}, "42", ""},
		{"-3", numberBounds{ge: &zero}, "", CodeNumberRange},
		{"0", numberBounds{gt: &zero}, "", CodeNumberRange},
		{"abc", numberBounds{}, "", CodeNumber},
	}
	for _, tt := range tests {
		got, issues := SanitizeNumber("on_hand", tt.in, tt.bounds)
		if got != tt.want {
			t.Errorf("SanitizeNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if tt.wantCode != "" && !hasIssueCode(issues, tt.wantCode) {
			t.Errorf("SanitizeNumber(%q) issues %v, want code %s", tt.in, issues, tt.wantCode)
		}
	}
}

func TestSanitizeIdentityCodes(t *testing.T) {
	if got, issues := SanitizeCatCode(" abc "); got != "ABC" || len(issues) != 0 {
		t.Errorf("SanitizeCatCode = (%q, %v)", got, issues)
	}
	if _, issues := SanitizeCatCode("ABCD"); !hasIssueCode(issues, CodeCatCode) {
		t.Errorf("SanitizeCatCode(ABCD) issues %v, want %s", issues, CodeCatCode)
	}
	if got, _ := SanitizeFrmCode("tab"); got != "TAB" {
		t.Errorf("SanitizeFrmCode(tab) = %q", got)
	}
	if _, issues := SanitizeFrmCode("T"); !hasIssueCode(issues, CodeFrmCode) {
		t.Errorf("SanitizeFrmCode(T) issues %v, want %s", issues, CodeFrmCode)
	}
	for _, ok := range []string{"30TAB", "1BTLX100ML", "30 TAB"} {
		if got, issues := SanitizePkgCode(ok); got == "" || len(issues) != 0 {
			t.Errorf("SanitizePkgCode(%q) = (%q, %v)", ok, got, issues)
		}
	}
	if _, issues := SanitizePkgCode("TAB30"); !hasIssueCode(issues, CodePkgCode) {
		t.Errorf("SanitizePkgCode(TAB30) issues %v, want %s", issues, CodePkgCode)
	}
	if got, _ := SanitizeCOO("made in India"); got != "IN" {
		t.Errorf("SanitizeCOO = %q, want IN", got)
	}
	if _, issues := SanitizeCOO("ZZ"); !hasIssueCode(issues, CodeCooCode) {
		t.Errorf("SanitizeCOO(ZZ) issues %v, want %s", issues, CodeCooCode)
	}
}

func TestSanitizeExpiry(t *testing.T) {
	if got, issues := SanitizeExpiry("Mar-26"); got != "2026-03-31" || len(issues) != 0 {
		t.Errorf("SanitizeExpiry(Mar-26) = (%q, %v)", got, issues)
	}
	if _, issues := SanitizeExpiry("soon"); !hasIssueCode(issues, CodeDateInvalid) {
		t.Errorf("SanitizeExpiry(soon) issues %v, want %s", issues, CodeDateInvalid)
	}
	if got, issues := SanitizeExpiry(""); got != "" || issues != nil {
		t.Errorf("SanitizeExpiry(empty) = (%q, %v)", got, issues)
	}
}

func TestSanitizeGenericName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  Amoxicillin  ", "Amoxicillin"},
		{"-Amoxicillin;,", "Amoxicillin"},
		{"Alumina,  Magnesia   and Simethicone", "Alumina, Magnesia and Simethicone"},
	}
	for _, tt := range tests {
		if got := SanitizeGenericName(tt.in); got != tt.want {
			t.Errorf("SanitizeGenericName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
