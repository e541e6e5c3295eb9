package validation

import "testing"

func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{name: "international", phone: "+5511987654321", valid: true},
		{name: "formatted", phone: "(11) 98765-4321", valid: true},
		{name: "leading zero", phone: "011987654321", valid: false},
		{name: "letters", phone: "11-ABC-4321", valid: false},
		{name: "empty", phone: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidPhone(tt.phone); got != tt.valid {
				t.Fatalf("IsValidPhone(%q) = %v, want %v", tt.phone, got, tt.valid)
			}
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	if got := NormalizePhone(" (11) 98765-4321 "); got != "11987654321" {
		t.Fatalf("NormalizePhone = %q, want %q", got, "11987654321")
	}
}
