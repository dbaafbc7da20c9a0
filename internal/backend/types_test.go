package backend

import "testing"

func TestMode_Insert(t *testing.T) {
	tests := []struct {
		mode string
		want bool
	}{
		{"n", false},
		{"i", true},
		{"ic", true},
		{"ix", true},
		{"v", false},
		{"V", false},
		{"c", false},
		{"", false},
		{"niI", false},
	}

	for _, tt := range tests {
		m := Mode{Name: tt.mode}
		if got := m.Insert(); got != tt.want {
			t.Errorf("Mode{%q}.Insert() = %v, want %v", tt.mode, got, tt.want)
		}
	}
}
