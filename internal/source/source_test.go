package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestIsURL(t *testing.T) {
	tests := []struct {
		locator string
		want    bool
	}{
		{"https://github.com/user/repo", true},
		{"http://example.com/repo.git", true},
		{"/home/user/project", false},
		{"./relative/path", false},
		{"git@github.com:user/repo.git", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.locator); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.locator, got, tt.want)
		}
	}
}

func TestLocalResolve(t *testing.T) {
	dir := t.TempDir()

	root, cleanup, err := (&Local{}).Resolve(context.Background(), dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if root != dir {
		t.Errorf("root = %q, want %q", root, dir)
	}
	if cleanup != nil {
		t.Error("local resolve should not need cleanup")
	}
}

func TestLocalResolveMissing(t *testing.T) {
	_, _, err := (&Local{}).Resolve(context.Background(), "/nonexistent/path/xyz")
	if err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestLocalResolveFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := (&Local{}).Resolve(context.Background(), file)
	if err == nil {
		t.Fatal("expected error for non-directory path")
	}
}

func TestNewPicksResolver(t *testing.T) {
	if _, ok := New("https://github.com/u/r", "", nil).(*Git); !ok {
		t.Error("URL locator should resolve with Git")
	}
	if _, ok := New("/some/path", "", nil).(*Local); !ok {
		t.Error("path locator should resolve with Local")
	}
}
