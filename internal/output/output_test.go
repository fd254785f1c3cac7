package output

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestBatchPaths(t *testing.T) {
	paths := BatchPaths("posts/my-post.md", "out", 3, "20251030_143022")

	want := []string{
		"out/my-post_banner_20251030_143022_01.png",
		"out/my-post_banner_20251030_143022_02.png",
		"out/my-post_banner_20251030_143022_03.png",
	}
	if len(paths) != len(want) {
		t.Fatalf("expected %d paths, got %d", len(want), len(paths))
	}
	for i := range want {
		if paths[i] != filepath.FromSlash(want[i]) {
			t.Errorf("path %d = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestBatchPathsGeneratesTimestamp(t *testing.T) {
	paths := BatchPaths("a.md", "out", 12, "")
	if len(paths) != 12 {
		t.Fatalf("expected 12 paths, got %d", len(paths))
	}

	// a_banner_ + 15 char timestamp + _NN.png
	base := filepath.Base(paths[11])
	if len(base) != len("a_banner_")+15+len("_12.png") {
		t.Errorf("unexpected name %q", base)
	}
	if base[len(base)-7:] != "_12.png" {
		t.Errorf("expected two digit sequence, got %q", base)
	}
	if filepath.Base(paths[0])[9:24] != filepath.Base(paths[11])[9:24] {
		t.Error("paths do not share a timestamp")
	}
}

func TestBatchPathsZero(t *testing.T) {
	if paths := BatchPaths("a.md", "out", 0, "x"); len(paths) != 0 {
		t.Errorf("expected no paths, got %v", paths)
	}
}

func TestTimestamp(t *testing.T) {
	ts := Timestamp(time.Date(2025, 10, 30, 14, 30, 22, 0, time.UTC))
	if ts != "20251030_143022" {
		t.Errorf("unexpected timestamp %q", ts)
	}
}

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "banner.png")

	for i := 0; i < 2; i++ {
		if err := EnsureDir(path); err != nil {
			t.Fatalf("EnsureDir returned error: %v", err)
		}
	}

	info, err := os.Stat(filepath.Dir(path))
	if err != nil || !info.IsDir() {
		t.Fatalf("expected directory to exist: %v", err)
	}
}
