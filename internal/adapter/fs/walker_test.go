package fs

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeTree(t *testing.T, root string, files []string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("/** x */"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func relPaths(t *testing.T, root string, files []string) []string {
	t.Helper()
	root, _ = filepath.Abs(root)
	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out
}

func TestWalker_Walk(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{
		"src/app.js",
		"src/lib/util.ts",
		"src/readme.md",
		"node_modules/dep/index.js",
		"dist/app.min.js",
	})

	w := NewWalker([]string{"**/*.js", "**/*.ts"}, []string{"**/node_modules/**", "**/*.min.js"})
	found, err := w.Walk(context.Background(), root)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}

	paths := make([]string, 0, len(found))
	for _, f := range found {
		paths = append(paths, f.Path)
	}
	got := relPaths(t, root, paths)
	want := []string{"src/app.js", "src/lib/util.ts"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}

	for _, f := range found {
		if f.Size == 0 || f.ModTime == 0 {
			t.Errorf("missing size or mod time for %s", f.Path)
		}
	}
}

func TestWalker_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{"a.js"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewWalker(nil, nil).Walk(ctx, root); err == nil {
		t.Error("expected an error from a cancelled walk")
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := map[string]string{
		"a.js":     "javascript",
		"b.TSX":    "typescript",
		"C.java":   "java",
		"x.hpp":    "cpp",
		"y.go":     "go",
		"notes.md": "unknown",
	}
	for path, want := range tests {
		if got := DetectLanguage(path); got != want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", path, got, want)
		}
	}
}
