// internal/post/post_test.go
package post

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const samplePost = `---
title: "Test Title"
date: 2025-01-01
tags: [python, testing]
categories: [engineering]
---

# Main Heading

This is the body content.
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindMarkdown(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "post2.md", "# Post 2")
	writeFile(t, dir, "post1.md", "# Post 1")
	writeFile(t, dir, "test-post.md", samplePost)
	writeFile(t, dir, "not-markdown.txt", "Not markdown")

	files, err := FindMarkdown(dir)
	if err != nil {
		t.Fatalf("FindMarkdown returned error: %v", err)
	}

	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d: %v", len(files), files)
	}
	for _, f := range files {
		if filepath.Ext(f) != ".md" {
			t.Errorf("unexpected file %s", f)
		}
	}
	if filepath.Base(files[0]) != "post1.md" || filepath.Base(files[2]) != "test-post.md" {
		t.Errorf("files not sorted: %v", files)
	}
}

func TestFindMarkdownEmptyAndMissing(t *testing.T) {
	files, err := FindMarkdown(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %v", files)
	}

	files, err = FindMarkdown(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("missing directory should not error: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %v", files)
	}
}

func TestParseWithFrontMatter(t *testing.T) {
	path := writeFile(t, t.TempDir(), "with-frontmatter.md", samplePost)

	p, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if p.Title != "Test Title" {
		t.Errorf("expected title Test Title, got %q", p.Title)
	}
	if !strings.Contains(fmt.Sprint(p.FrontMatter["date"]), "2025-01-01") {
		t.Errorf("unexpected date %v", p.FrontMatter["date"])
	}
	if !reflect.DeepEqual(p.Tags, []string{"python", "testing"}) {
		t.Errorf("unexpected tags %v", p.Tags)
	}
	if !strings.Contains(p.Body, "Main Heading") || !strings.Contains(p.Body, "body content") {
		t.Errorf("unexpected body %q", p.Body)
	}
	if strings.HasPrefix(p.Body, "---") {
		t.Error("front matter leaked into body")
	}
	if p.Slug != "with-frontmatter" {
		t.Errorf("expected slug with-frontmatter, got %q", p.Slug)
	}
	if got := p.Keywords(5); !reflect.DeepEqual(got, []string{"python", "testing", "engineering"}) {
		t.Errorf("unexpected keywords %v", got)
	}
}

func TestParseWithoutFrontMatter(t *testing.T) {
	path := writeFile(t, t.TempDir(), "no-frontmatter.md", "# Just a Heading\n\nSome content without frontmatter.\n")

	p, err := Parse(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(p.FrontMatter) != 0 {
		t.Errorf("expected empty front matter, got %v", p.FrontMatter)
	}
	if p.Title != DefaultTitle {
		t.Errorf("expected default title, got %q", p.Title)
	}
	if !strings.Contains(p.Body, "without frontmatter") {
		t.Errorf("unexpected body %q", p.Body)
	}
}

func TestParseBrokenFrontMatterKeepsBody(t *testing.T) {
	p := ParseBytes("broken.md", []byte("---\ntitle: [unclosed\n---\nBody survives\n"))

	if len(p.FrontMatter) != 0 {
		t.Errorf("expected empty front matter, got %v", p.FrontMatter)
	}
	if p.Body != "Body survives" {
		t.Errorf("unexpected body %q", p.Body)
	}
}

func TestParseScalarTags(t *testing.T) {
	p := ParseBytes("scalar.md", []byte("---\ntags: go, cli\n---\nx"))
	if !reflect.DeepEqual(p.Tags, []string{"go", "cli"}) {
		t.Errorf("unexpected tags %v", p.Tags)
	}
}

func TestKeywordsLimit(t *testing.T) {
	p := &Post{Tags: []string{"a", "b", "c", "d"}, Categories: []string{"e", "f"}}
	if got := p.Keywords(5); len(got) != 5 || got[4] != "e" {
		t.Errorf("unexpected keywords %v", got)
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello, World!":       "hello-world",
		"  Go 1.25 Release  ": "go-1-25-release",
		"???":                 "post",
		"Already-a-slug":      "already-a-slug",
	}
	for input, want := range tests {
		if got := Slugify(input); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}
