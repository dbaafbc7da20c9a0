package input

import "testing"

func TestEscapeKeys(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"<", "<LT>"},
		{"a<b", "a<LT>b"},
		{"line\n", "line<CR>"},
		{"<C-a>", "<LT>C-a>"},
		{"日本語", "日本語"},
	}
	for _, tt := range tests {
		if got := escapeKeys(tt.in); got != tt.want {
			t.Errorf("escapeKeys(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTrimGraphemes(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"abc", 1, "ab"},
		{"abc", 3, ""},
		{"abc", 5, ""},
		{"abc", 0, "abc"},
		{"", 2, ""},
		{"かが", 1, "か"},
		{"x🇯🇵", 1, "x"},
		{"éx", 1, "é"},
		{"éx", 2, ""},
	}
	for _, tt := range tests {
		if got := trimGraphemes(tt.in, tt.n); got != tt.want {
			t.Errorf("trimGraphemes(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestInsertMode(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"insert", true},
		{"i", true},
		{"normal", false},
		{"visual", false},
		{"cmdline_normal", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := insertMode(tt.name); got != tt.want {
			t.Errorf("insertMode(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
