package host

import "testing"

func TestBufferURI_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		id      int
		bufName string
	}{
		{"plain path", 42, "/home/user/notes.txt"},
		{"relative name", 7, "scratch"},
		{"empty name", 3, ""},
		{"name with spaces", 12, "/tmp/my file.go"},
		{"terminal name", 9, "term://~//1234:/bin/sh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uri := BufferURI("vscode-neovim", tt.id, tt.bufName)

			id, name, err := ParseBufferURI(uri)
			if err != nil {
				t.Fatalf("ParseBufferURI(%q) error: %v", uri, err)
			}
			if id != tt.id {
				t.Errorf("id = %d, want %d", id, tt.id)
			}
			want := tt.bufName
			if len(want) > 0 && want[0] == '/' {
				want = want[1:]
			}
			if name != want {
				t.Errorf("name = %q, want %q", name, want)
			}
		})
	}
}

func TestParseBufferURI_Rejects(t *testing.T) {
	tests := []struct {
		name string
		uri  string
	}{
		{"no authority", "vscode-neovim:///x"},
		{"non-numeric authority", "vscode-neovim://abc/x"},
		{"zero id", "vscode-neovim://0/x"},
		{"negative id", "vscode-neovim://-4/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ParseBufferURI(tt.uri); err == nil {
				t.Errorf("ParseBufferURI(%q) = nil error, want ErrBadBufferURI", tt.uri)
			}
		})
	}
}

func TestIsHostURI(t *testing.T) {
	schemes := []string{"file", "untitled", "output", "vscode-notebook-cell"}

	tests := []struct {
		uri  string
		want bool
	}{
		{"file:///home/user/main.go", true},
		{"untitled://untitled-1", true},
		{"output://extension-output", true},
		{"vscode-notebook-cell://nb/cell-3", true},
		{"term://~//1234:/bin/sh", false},
		{"/home/user/main.go", false},
		{"C:\\Users\\x\\main.go", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsHostURI(tt.uri, schemes); got != tt.want {
			t.Errorf("IsHostURI(%q) = %v, want %v", tt.uri, got, tt.want)
		}
	}
}

func TestURIScheme(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"file:///x", "file"},
		{"output://panel", "output"},
		{"c:/windows/path", ""},
		{"plain-name", ""},
	}

	for _, tt := range tests {
		if got := URIScheme(tt.uri); got != tt.want {
			t.Errorf("URIScheme(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}
