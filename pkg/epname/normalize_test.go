package epname

import "testing"

func TestCleanShowName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Show Name", "show name"},
		{"strips article", "The Office", "office"},
		{"removes accents", "Léon", "leon"},
		{"ampersand", "Tom & Jerry", "tom and jerry"},
		{"apostrophe", "Bob's Burgers", "bobs burgers"},
		{"collapses whitespace", "  Show   Name  ", "show name"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanShowName(tt.in); got != tt.want {
				t.Errorf("CleanShowName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
