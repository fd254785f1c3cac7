// Package output decides where banners are written.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultSuffix   = "_banner"
	TimestampLayout = "20060102_150405"
)

func stem(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// BatchPaths returns count paths of the form
// {stem}_banner_{timestamp}_{seq}.png with seq starting at 01. All paths
// share one timestamp; an empty timestamp means now.
func BatchPaths(input, outDir string, count int, timestamp string) []string {
	if timestamp == "" {
		timestamp = Timestamp(time.Now())
	}

	paths := make([]string, 0, count)
	for seq := 1; seq <= count; seq++ {
		name := fmt.Sprintf("%s%s_%s_%02d.png", stem(input), DefaultSuffix, timestamp, seq)
		paths = append(paths, filepath.Join(outDir, name))
	}
	return paths
}

func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
