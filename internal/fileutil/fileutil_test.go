package fileutil_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-staticpub/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestWriteFileAtomic - Atomic write behavior
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "json document",
			content: `{"id": "https://example.org/outbox"}`,
		},
		{
			name:    "empty content",
			content: "",
		},
		{
			name:    "multiline content",
			content: "line one\nline two\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			target := filepath.Join(t.TempDir(), "out")
			if err := fileutil.WriteFileAtomic(target, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("WriteFileAtomic() error = %v", err)
			}

			data, err := os.ReadFile(target)
			if err != nil {
				t.Fatalf("reading written file: %v", err)
			}
			if string(data) != tt.content {
				t.Errorf("file content = %q, want %q", data, tt.content)
			}
		})
	}
}

func TestWriteFileAtomic_Overwrite(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "out")
	if err := fileutil.WriteFileAtomic(target, []byte("first"), 0o644); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := fileutil.WriteFileAtomic(target, []byte("second"), 0o644); err != nil {
		t.Fatalf("second write: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("file content = %q, want %q", data, "second")
	}
}

func TestWriteFileAtomic_NoTempLeftover(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "out")
	if err := fileutil.WriteFileAtomic(target, []byte("content"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "staticpub-tmp-") {
			t.Errorf("temp file %s left behind after successful write", e.Name())
		}
	}
}

func TestWriteFileAtomic_MissingParent(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "missing", "out")
	if err := fileutil.WriteFileAtomic(target, []byte("content"), 0o644); err == nil {
		t.Fatal("expected error for missing parent directory, got nil")
	}
}

// ---------------------------------------------------------------------------
// TestCopyFile - File copying
// ---------------------------------------------------------------------------

func TestCopyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "banner.png")
	if err := os.WriteFile(src, []byte{0x89, 0x50, 0x4e, 0x47}, 0o644); err != nil {
		t.Fatalf("creating source: %v", err)
	}

	dst := filepath.Join(dir, "copy.png")
	if err := fileutil.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("reading copy: %v", err)
	}
	if len(data) != 4 || data[0] != 0x89 {
		t.Errorf("copied content mismatch: %v", data)
	}
}

func TestCopyFile_MissingSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	err := fileutil.CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst"))
	if err == nil {
		t.Fatal("expected error for missing source, got nil")
	}
}

// ---------------------------------------------------------------------------
// TestEnsureDir - Directory creation
// ---------------------------------------------------------------------------

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	nested := filepath.Join(t.TempDir(), "a", "b", "c")
	if err := fileutil.EnsureDir(nested); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	if !fileutil.DirExists(nested) {
		t.Errorf("directory %s was not created", nested)
	}

	// Creating an existing directory is not an error
	if err := fileutil.EnsureDir(nested); err != nil {
		t.Errorf("EnsureDir() on existing dir error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestFileExists / TestDirExists - Existence probes
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()

	testFile := filepath.Join(tempDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("content"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	testDir := filepath.Join(tempDir, "testdir")
	if err := os.Mkdir(testDir, 0o755); err != nil {
		t.Fatalf("failed to create test dir: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{
			name: "existing file returns true",
			path: testFile,
			want: true,
		},
		{
			name: "directory returns false",
			path: testDir,
			want: false,
		},
		{
			name: "nonexistent path returns false",
			path: filepath.Join(tempDir, "nonexistent"),
			want: false,
		},
		{
			name: "empty path returns false",
			path: "",
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := fileutil.FileExists(tt.path)
			if got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestDirExists(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "file")
	if err := os.WriteFile(testFile, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	if !fileutil.DirExists(tempDir) {
		t.Errorf("DirExists(%q) = false, want true", tempDir)
	}
	if fileutil.DirExists(testFile) {
		t.Errorf("DirExists(%q) = true for a regular file", testFile)
	}
	if fileutil.DirExists(filepath.Join(tempDir, "missing")) {
		t.Error("DirExists() = true for a missing path")
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath - Path detection
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{
			name:  "simple name returns false",
			input: "staticpub",
			want:  false,
		},
		{
			name:  "relative path with dot-slash returns true",
			input: "./instance.yaml",
			want:  true,
		},
		{
			name:  "parent path returns true",
			input: "../shared/instance.toml",
			want:  true,
		},
		{
			name:  "absolute Unix path returns true",
			input: "/etc/staticpub.yaml",
			want:  true,
		},
		{
			name:  "Windows path with backslash returns true",
			input: "C:\\staticpub\\config.yaml",
			want:  true,
		},
		{
			name:  "name with dots but no slash returns false",
			input: "name.with.dots",
			want:  false,
		},
		{
			name:  "empty string returns false",
			input: "",
			want:  false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := fileutil.IsFilePath(tt.input)
			if got != tt.want {
				t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
