package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestLoadSettings_MissingFileYieldsDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.ViewportWidth != 1000 || s.Scheme != "vscode-neovim" {
		t.Errorf("defaults not applied: %+v", s)
	}
}

func TestLoadSettings_EmptyPathYieldsDefaults(t *testing.T) {
	s, err := LoadSettings("")
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.LayoutDebounce.Std() != 200*time.Millisecond {
		t.Errorf("LayoutDebounce = %v", s.LayoutDebounce.Std())
	}
}

func TestLoadSettings_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	writeFile(t, path, `
viewport_width = 500
layout_debounce = "150ms"
host_schemes = ["file", "untitled"]
log_level = "debug"
`)

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.ViewportWidth != 500 {
		t.Errorf("ViewportWidth = %d, want 500", s.ViewportWidth)
	}
	if s.LayoutDebounce.Std() != 150*time.Millisecond {
		t.Errorf("LayoutDebounce = %v, want 150ms", s.LayoutDebounce.Std())
	}
	if s.ActiveDebounce.Std() != 100*time.Millisecond {
		t.Errorf("ActiveDebounce = %v, want default 100ms", s.ActiveDebounce.Std())
	}
	if len(s.HostSchemes) != 2 {
		t.Errorf("HostSchemes = %v", s.HostSchemes)
	}
	if s.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", s.LogLevel)
	}
}

func TestLoadSettings_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	writeFile(t, path, "viewport_width = [not toml")

	_, err := LoadSettings(path)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want ParseError", err)
	}
	if perr.Path != path {
		t.Errorf("ParseError.Path = %q", perr.Path)
	}
}

func TestLoadSettings_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	writeFile(t, path, `layout_debounce = "soon"`)

	if _, err := LoadSettings(path); err == nil {
		t.Fatal("no error for unparsable duration")
	}
}

func TestSettings_NormalizeRepairsInvalid(t *testing.T) {
	s := Settings{ViewportWidth: -1, WindowHeight: 0, ExtensionLines: -3}
	s.LayoutDebounce = Duration(-time.Second)
	s.normalize()

	if s.ViewportWidth != 1000 || s.WindowHeight != 100 {
		t.Errorf("sizes = %d x %d", s.ViewportWidth, s.WindowHeight)
	}
	if s.ExtensionLines != 0 {
		t.Errorf("ExtensionLines = %d", s.ExtensionLines)
	}
	if s.LayoutDebounce != 0 {
		t.Errorf("LayoutDebounce = %v, want 0", s.LayoutDebounce.Std())
	}
	if s.Scheme == "" || s.LogLevel == "" || s.NvimPath == "" {
		t.Errorf("string defaults missing: %+v", s)
	}
}

func TestDuration_TextRoundTrip(t *testing.T) {
	d := Duration(250 * time.Millisecond)
	text, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}

	var back Duration
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText(%q): %v", text, err)
	}
	if back != d {
		t.Errorf("round trip %v != %v", back.Std(), d.Std())
	}
}
