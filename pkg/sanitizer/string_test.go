package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"leading and trailing spaces", "  Toyota Corolla  ", "Toyota Corolla"},
		{"internal runs collapse", "Toyota    \t Corolla", "Toyota Corolla"},
		{"already clean", "Toyota Corolla", "Toyota Corolla"},
		{"unicode preserved", "  Škoda  Octavia ", "Škoda Octavia"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Dana@Example.COM", "dana@example.com"},
		{"  dana@example.com \n", "dana@example.com"},
		{"dana@example.com", "dana@example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.input); got != tt.expected {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestNormalizeLocation_KeepsCasing(t *testing.T) {
	if got := NormalizeLocation("  New   York "); got != "New York" {
		t.Errorf("expected %q, got %q", "New York", got)
	}
}
