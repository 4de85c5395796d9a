package main

// Notes:
// - discoverFiles uses t.TempDir() trees; paths are compared after filepath.Join
// - resolveWorkers depends on GOMAXPROCS only in auto mode, asserted by bounds

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// writeFile creates path (and parents) with content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestDiscoverFiles - Input expansion
// ---------------------------------------------------------------------------

func TestDiscoverFiles_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "# A")
	writeFile(t, filepath.Join(dir, "sub", "b.markdown"), "# B")
	writeFile(t, filepath.Join(dir, "notes.txt"), "skip")

	out := filepath.Join(t.TempDir(), "out")
	files, err := discoverFiles([]string{dir}, out)
	if err != nil {
		t.Fatalf("discoverFiles() unexpected error: %v", err)
	}

	got := make([]string, len(files))
	for i, f := range files {
		got[i] = f.OutputPath
	}
	sort.Strings(got)

	want := []string{filepath.Join(out, "a.html"), filepath.Join(out, "sub", "b.html")}
	if len(got) != len(want) {
		t.Fatalf("outputs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("output[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDiscoverFiles_MultipleInputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.md")
	b := filepath.Join(dir, "b.md")
	writeFile(t, a, "# A")
	writeFile(t, b, "# B")

	files, err := discoverFiles([]string{a, b}, "")
	if err != nil {
		t.Fatalf("discoverFiles() unexpected error: %v", err)
	}
	if len(files) != 2 || files[0].OutputPath != filepath.Join(dir, "a.html") {
		t.Errorf("files = %+v", files)
	}
}

func TestDiscoverFiles_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	writeFile(t, txt, "x")

	tests := []struct {
		name    string
		inputs  []string
		wantErr error
	}{
		{"no inputs", nil, ErrNoInput},
		{"missing file", []string{filepath.Join(dir, "missing.md")}, os.ErrNotExist},
		{"wrong extension", []string{txt}, ErrInvalidExtension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := discoverFiles(tt.inputs, "")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("discoverFiles() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolveOutputPath - Output path derivation
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		outputDir string
		baseDir   string
		want      string
	}{
		{"next to source", filepath.Join("docs", "guide.md"), "", "", filepath.Join("docs", "guide.html")},
		{"explicit html file", "guide.md", "site/index.html", "", "site/index.html"},
		{"output directory", filepath.Join("docs", "guide.md"), "site", "", filepath.Join("site", "guide.html")},
		{"keeps layout", filepath.Join("docs", "api", "ref.markdown"), "site", "docs", filepath.Join("site", "api", "ref.html")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := resolveOutputPath(tt.input, tt.outputDir, tt.baseDir); got != tt.want {
				t.Errorf("resolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWorkers - Worker count validation and resolution
// ---------------------------------------------------------------------------

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n       int
		wantErr bool
	}{
		{-1, true},
		{0, false},
		{1, false},
		{MaxWorkers, false},
		{MaxWorkers + 1, true},
	}

	for _, tt := range tests {
		err := validateWorkers(tt.n)
		if tt.wantErr != (err != nil) {
			t.Errorf("validateWorkers(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) should wrap ErrInvalidWorkerCount", tt.n)
		}
	}
}

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	if got := resolveWorkers(4, 2); got != 2 {
		t.Errorf("resolveWorkers(4, 2) = %d, want 2 (capped by files)", got)
	}
	if got := resolveWorkers(3, 10); got != 3 {
		t.Errorf("resolveWorkers(3, 10) = %d, want 3", got)
	}
	if got := resolveWorkers(0, 100); got < 1 || got > MaxWorkers {
		t.Errorf("resolveWorkers(0, 100) = %d, want within [1, %d]", got, MaxWorkers)
	}
	if got := resolveWorkers(0, 0); got != 1 {
		t.Errorf("resolveWorkers(0, 0) = %d, want 1", got)
	}
}
