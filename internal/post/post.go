package post

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultTitle = "Blog Post"

type Post struct {
	Path        string
	Slug        string
	Title       string
	Tags        []string
	Categories  []string
	FrontMatter map[string]any
	Body        string
}

// FindMarkdown lists *.md files directly inside dir, sorted by name.
// A missing directory yields no files and no error.
func FindMarkdown(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func Parse(path string) (*Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read post: %w", err)
	}
	p := ParseBytes(path, data)
	return p, nil
}

// ParseBytes splits optional YAML front matter from the body. Broken front
// matter is dropped and the body is still returned.
func ParseBytes(path string, data []byte) *Post {
	content := string(data)
	p := &Post{
		Path:        path,
		Slug:        strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		FrontMatter: map[string]any{},
		Body:        strings.TrimSpace(content),
	}

	if strings.HasPrefix(content, "---") {
		parts := strings.SplitN(content, "---", 3)
		if len(parts) == 3 {
			var fm map[string]any
			if err := yaml.Unmarshal([]byte(strings.TrimSpace(parts[1])), &fm); err == nil && fm != nil {
				p.FrontMatter = fm
			}
			p.Body = strings.TrimSpace(parts[2])
		}
	}

	p.Title = DefaultTitle
	if title, ok := p.FrontMatter["title"]; ok {
		if s := strings.TrimSpace(fmt.Sprint(title)); s != "" {
			p.Title = s
		}
	}
	p.Tags = stringList(p.FrontMatter["tags"])
	p.Categories = stringList(p.FrontMatter["categories"])
	return p
}

// Keywords returns up to n entries of tags followed by categories.
func (p *Post) Keywords(n int) []string {
	all := append(append([]string{}, p.Tags...), p.Categories...)
	if len(all) > n {
		all = all[:n]
	}
	return all
}

func stringList(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(val, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{fmt.Sprint(val)}
	}
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a file-name friendly stem.
func Slugify(title string) string {
	s := slugInvalid.ReplaceAllString(strings.ToLower(title), "-")
	s = strings.Trim(s, "-")
	if len(s) > 60 {
		s = strings.TrimRight(s[:60], "-")
	}
	if s == "" {
		return "post"
	}
	return s
}
