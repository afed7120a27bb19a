// internal/renamer/sanitize_test.go
package renamer

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean name unchanged", "Show Name S01E02.mkv", "Show Name S01E02.mkv"},
		{"illegal chars replaced", `a<b>c:d"e`, "a_b_c_d_e"},
		{"path separators replaced", `a/b\c`, "a_b_c"},
		{"null bytes removed", "a\x00b", "ab"},
		{"consecutive illegal collapsed", "a??*b", "a_b"},
		{"spaces collapsed", "a    b", "a b"},
		{"trimmed", "  name.  ", "name"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
