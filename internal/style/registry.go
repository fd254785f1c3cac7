package style

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

const (
	LocalFile   = "deepai_styles.local.yaml"
	DefaultFile = "deepai_styles.yaml"

	// Fallback is the endpoint used for unknown styles.
	Fallback = "text2img"
)

//go:embed styles.yaml
var defaultYAML []byte

type Style struct {
	Slug          string
	Name          string
	Description   string
	Endpoint      string
	DefaultParams map[string]any
}

type entry struct {
	Name          string         `yaml:"name"`
	Description   string         `yaml:"description"`
	Endpoint      string         `yaml:"endpoint"`
	DefaultParams map[string]any `yaml:"default_params"`
}

type document struct {
	Styles map[string]entry `yaml:"styles"`
}

// Registry is an immutable set of DeepAI styles keyed by slug.
type Registry struct {
	styles map[string]Style
	source string
}

// Default returns the built-in registry.
func Default() *Registry {
	r, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("style: embedded styles are invalid: %v", err))
	}
	r.source = "embedded"
	return r
}

// Parse builds a registry from a YAML document with a top-level "styles" map.
func Parse(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Styles) == 0 {
		return nil, errors.New("no styles defined under \"styles\"")
	}

	r := &Registry{styles: make(map[string]Style, len(doc.Styles))}
	for slug, e := range doc.Styles {
		s := Style{
			Slug:          slug,
			Name:          e.Name,
			Description:   e.Description,
			Endpoint:      e.Endpoint,
			DefaultParams: e.DefaultParams,
		}
		if s.Name == "" {
			s.Name = slug
		}
		if s.Endpoint == "" {
			s.Endpoint = slug
		}
		if s.DefaultParams == nil {
			s.DefaultParams = map[string]any{}
		}
		r.styles[slug] = s
	}
	return r, nil
}

// Load reads deepai_styles.local.yaml, else deepai_styles.yaml, from dir.
// Anything missing or malformed falls back to the built-in registry.
func Load(dir string, logger *slog.Logger) *Registry {
	for _, name := range []string{LocalFile, DefaultFile} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			logger.Error("failed to read styles", "path", path, "error", err)
			return Default()
		}

		r, err := Parse(data)
		if err != nil {
			logger.Error("invalid styles file, using built-in styles", "path", path, "error", err)
			return Default()
		}
		r.source = path
		logger.Info("loaded DeepAI styles", "path", path, "count", len(r.styles))
		return r
	}

	logger.Debug("no styles file found, using built-in styles", "dir", dir)
	return Default()
}

func (r *Registry) Source() string {
	return r.source
}

func (r *Registry) Get(slug string) (Style, bool) {
	s, ok := r.styles[slug]
	return s, ok
}

func (r *Registry) Exists(slug string) bool {
	_, ok := r.styles[slug]
	return ok
}

// List returns all styles sorted by display name.
func (r *Registry) List() []Style {
	out := make([]Style, 0, len(r.styles))
	for _, s := range r.styles {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].Slug < out[j].Slug
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (r *Registry) Slugs() []string {
	out := make([]string, 0, len(r.styles))
	for slug := range r.styles {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}
