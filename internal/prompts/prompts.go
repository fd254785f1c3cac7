// Package prompts loads the chat templates used to turn a post into image
// prompts.
package prompts

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	LocalFile   = "prompts.local.yaml"
	DefaultFile = "prompts.yaml"
)

//go:embed prompts.yaml
var fallbackYAML []byte

type Template struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

// Set holds the two templates: Simple produces one prompt, Base produces a
// numbered list in a given style.
type Set struct {
	Simple Template `yaml:"simple"`
	Base   Template `yaml:"base"`

	// Source is the file the set was read from, or "embedded".
	Source string `yaml:"-"`
}

type Vars struct {
	Title            string
	Content          string
	Style            string
	StyleDescription string
	Count            int
}

// Fallback returns the built-in templates.
func Fallback() *Set {
	var s Set
	if err := yaml.Unmarshal(fallbackYAML, &s); err != nil {
		panic(fmt.Sprintf("prompts: embedded templates are invalid: %v", err))
	}
	s.Source = "embedded"
	s.trim()
	return &s
}

// Load reads prompts.local.yaml, else prompts.yaml, from dir. A missing or
// unreadable file falls back to the built-in templates; a file that leaves a
// template empty inherits that template from the built-ins.
func Load(dir string, logger *slog.Logger) *Set {
	fallback := Fallback()

	for _, name := range []string{LocalFile, DefaultFile} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			logger.Error("failed to read prompt templates", "path", path, "error", err)
			return fallback
		}

		var s Set
		if err := yaml.Unmarshal(data, &s); err != nil {
			logger.Error("failed to parse prompt templates", "path", path, "error", err)
			return fallback
		}
		s.trim()
		s.Simple = merge(s.Simple, fallback.Simple)
		s.Base = merge(s.Base, fallback.Base)
		s.Source = path
		logger.Info("loaded prompt templates", "path", path)
		return &s
	}

	logger.Debug("no prompt template file found, using built-in templates", "dir", dir)
	return fallback
}

func (s *Set) trim() {
	s.Simple.System = strings.TrimSpace(s.Simple.System)
	s.Simple.User = strings.TrimSpace(s.Simple.User)
	s.Base.System = strings.TrimSpace(s.Base.System)
	s.Base.User = strings.TrimSpace(s.Base.User)
}

func merge(t, fallback Template) Template {
	if t.System == "" {
		t.System = fallback.System
	}
	if t.User == "" {
		t.User = fallback.User
	}
	return t
}

// Format substitutes {title}, {content}, {style}, {style_description} and
// {count}. Unknown placeholders are left untouched.
func Format(tmpl string, v Vars) string {
	r := strings.NewReplacer(
		"{title}", v.Title,
		"{content}", v.Content,
		"{style}", v.Style,
		"{style_description}", v.StyleDescription,
		"{count}", strconv.Itoa(v.Count),
	)
	return r.Replace(tmpl)
}
