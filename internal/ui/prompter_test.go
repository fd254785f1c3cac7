package ui

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func newTestPrompter(input string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return NewPrompter(strings.NewReader(input), &out), &out
}

func TestSelectFile(t *testing.T) {
	p, out := newTestPrompter("abc\n0\n2\n")

	idx, err := p.SelectFile([]string{"posts/a.md", "posts/b.md"})
	if err != nil {
		t.Fatalf("SelectFile returned error: %v", err)
	}
	if idx != 1 {
		t.Errorf("expected index 1, got %d", idx)
	}
	if !strings.Contains(out.String(), "b.md") {
		t.Error("expected file list in output")
	}
	if strings.Count(out.String(), "between 1 and 2") != 2 {
		t.Errorf("expected two retry messages, got output:\n%s", out.String())
	}
}

func TestSelectFileQuitAndEOF(t *testing.T) {
	for _, input := range []string{"q\n", "Q\n", ""} {
		p, _ := newTestPrompter(input)
		if _, err := p.SelectFile([]string{"a.md"}); !errors.Is(err, ErrCancelled) {
			t.Errorf("input %q: expected ErrCancelled, got %v", input, err)
		}
	}
}

func TestSelectPrompts(t *testing.T) {
	prompts := []string{"one", "two", "three", "four", "five"}

	tests := []struct {
		name  string
		input string
		want  []int
	}{
		{"list and range", "1,3-4\n", []int{0, 2, 3}},
		{"spaces", "5 1\n", []int{0, 4}},
		{"all", "ALL\n", []int{0, 1, 2, 3, 4}},
		{"error then valid", "9\n2\n", []int{1}},
		{"empty then valid", "\n-\n3\n", []int{2}},
		{"last line without newline", "2", []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPrompter(tt.input)
			got, err := p.SelectPrompts(prompts)
			if err != nil {
				t.Fatalf("SelectPrompts returned error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectPromptsReportsErrors(t *testing.T) {
	p, out := newTestPrompter("5-3\nq\n")

	if _, err := p.SelectPrompts([]string{"a", "b", "c", "d", "e"}); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if !strings.Contains(out.String(), "invalid range") {
		t.Errorf("expected parse error in output:\n%s", out.String())
	}
}

func TestSelectPromptsEchoesOneBased(t *testing.T) {
	p, out := newTestPrompter("3,1\n")

	if _, err := p.SelectPrompts([]string{"a", "b", "c"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "1, 3") {
		t.Errorf("expected one-based echo, got:\n%s", out.String())
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"\n", true},
		{"y\n", true},
		{"Yes\n", true},
		{"n\n", false},
		{"nope\n", false},
	}

	for _, tt := range tests {
		p, _ := newTestPrompter(tt.input)
		got, err := p.Confirm("Generate?")
		if err != nil {
			t.Fatalf("Confirm(%q) returned error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	p, _ := newTestPrompter("")
	if _, err := p.Confirm("Generate?"); !errors.Is(err, ErrCancelled) {
		t.Errorf("expected ErrCancelled on EOF, got %v", err)
	}
}

func TestPanelAndTruncate(t *testing.T) {
	out := Panel("Hello World", Field{"Tags", "go, cli"}, Field{"Style", "origami"})
	for _, want := range []string{"Hello World", "Tags:", "go, cli", "Style:", "origami"} {
		if !strings.Contains(out, want) {
			t.Errorf("panel missing %q:\n%s", want, out)
		}
	}

	if got := Truncate("abcdefghij", 6); got != "abc..." {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate = %q", got)
	}
}
