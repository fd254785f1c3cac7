package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julienpequegnot/bannergen/internal/logging"
)

func TestFallbackHasPlaceholders(t *testing.T) {
	s := Fallback()

	if s.Simple.System == "" || s.Base.System == "" {
		t.Fatal("expected non-empty system prompts")
	}
	for _, p := range []string{"{title}", "{content}"} {
		if !strings.Contains(s.Simple.User, p) {
			t.Errorf("simple user template missing %s", p)
		}
	}
	for _, p := range []string{"{title}", "{content}", "{style}", "{style_description}", "{count}"} {
		if !strings.Contains(s.Base.User, p) {
			t.Errorf("base user template missing %s", p)
		}
	}
}

func TestLoadFromDefaultFile(t *testing.T) {
	dir := t.TempDir()
	content := `
simple:
  system: "Test system prompt"
  user: "Title: {title}\nContent: {content}"
`
	if err := os.WriteFile(filepath.Join(dir, DefaultFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s := Load(dir, logging.Discard())

	if s.Simple.System != "Test system prompt" {
		t.Errorf("expected system from file, got %q", s.Simple.System)
	}
	if s.Source != filepath.Join(dir, DefaultFile) {
		t.Errorf("unexpected source %q", s.Source)
	}
	// base is missing from the file and comes from the built-ins
	if s.Base.User != Fallback().Base.User {
		t.Error("expected base template to fall back")
	}
}

func TestLoadPrefersLocalFile(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, DefaultFile), []byte("simple:\n  system: default\n"), 0o644)
	os.WriteFile(filepath.Join(dir, LocalFile), []byte("simple:\n  system: local\n"), 0o644)

	s := Load(dir, logging.Discard())
	if s.Simple.System != "local" {
		t.Errorf("expected local override, got %q", s.Simple.System)
	}
}

func TestLoadMissingAndBroken(t *testing.T) {
	s := Load(t.TempDir(), logging.Discard())
	if s.Source != "embedded" {
		t.Errorf("expected embedded templates, got %q", s.Source)
	}

	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, DefaultFile), []byte("simple: [unclosed"), 0o644)
	s = Load(dir, logging.Discard())
	if s.Source != "embedded" {
		t.Errorf("expected fallback on broken yaml, got %q", s.Source)
	}
}

func TestFormat(t *testing.T) {
	got := Format("Title: {title}\n\nContent: {content} ({style}: {style_description}) x{count} {other}", Vars{
		Title:            "Test Title",
		Content:          "Test Content",
		Style:            "Watercolor",
		StyleDescription: "soft washes",
		Count:            5,
	})

	want := "Title: Test Title\n\nContent: Test Content (Watercolor: soft washes) x5 {other}"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}
