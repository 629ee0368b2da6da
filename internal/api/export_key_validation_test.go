package api

import "testing"

func TestIsValidExportObjectKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"template-exports/3/6f1c.json", true},
		{"template-exports/4/6f1c.json", false},
		{"template-exports/3/../4/x.json", false},
		{"template-exports/3//x.json", false},
		{"template-exports/3/x.png", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isValidExportObjectKey(3, tt.key); got != tt.want {
			t.Errorf("isValidExportObjectKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
