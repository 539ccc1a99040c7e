package indexer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIndexFiltersExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.py", "print('hi')\n")
	writeFile(t, root, "app.js", "console.log('hi')\n")
	writeFile(t, root, "README.md", "# readme\n")
	writeFile(t, root, "data.csv", "a,b\n")

	ix := New([]string{".py", ".js"}, nil, nil)
	files, _, err := ix.Index(root)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %v", len(files), files)
	}
	if _, ok := files["main.py"]; !ok {
		t.Error("main.py missing")
	}
	if _, ok := files["app.js"]; !ok {
		t.Error("app.js missing")
	}
}

func TestIndexCaseInsensitiveExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Main.PY", "x = 1\n")

	ix := New([]string{".py"}, nil, nil)
	files, _, err := ix.Index(root)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}
}

func TestIndexIgnoresDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.py", "x = 1\n")
	writeFile(t, root, "node_modules/lib/index.js", "x\n")
	writeFile(t, root, "venv/lib/site.py", "x\n")

	ix := New([]string{".py", ".js"}, []string{"node_modules", "venv"}, nil)
	files, _, err := ix.Index(root)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}

	if len(files) != 1 {
		t.Fatalf("got %d files, want 1: %v", len(files), files)
	}
	if _, ok := files["src/app.py"]; !ok {
		t.Error("src/app.py missing")
	}
}

func TestIndexIgnoreMatchesComponentNotSubstring(t *testing.T) {
	root := t.TempDir()
	// "venv" as ignore dir must not skip "myvenv".
	writeFile(t, root, "myvenv/app.py", "x = 1\n")

	ix := New([]string{".py"}, []string{"venv"}, nil)
	files, _, err := ix.Index(root)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if _, ok := files["myvenv/app.py"]; !ok {
		t.Error("myvenv/app.py should not be ignored")
	}
}

func TestIndexEmptyResultDiagnostics(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "notes.txt", "hello\n")

	ix := New([]string{".py"}, []string{".git"}, nil)
	files, diag, err := ix.Index(root)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("got %d files, want 0", len(files))
	}
	msg := diag.String()
	if !strings.Contains(msg, ".py") || !strings.Contains(msg, ".git") {
		t.Errorf("diagnostics missing filter context: %q", msg)
	}
}

func TestIndexMissingRoot(t *testing.T) {
	ix := New([]string{".py"}, nil, nil)
	if _, _, err := ix.Index("/nonexistent/root/abc"); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestIndexHonorsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "generated.py\n")
	writeFile(t, root, "app.py", "x = 1\n")
	writeFile(t, root, "generated.py", "x = 1\n")

	ix := New([]string{".py"}, nil, nil)
	files, _, err := ix.Index(root)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if _, ok := files["generated.py"]; ok {
		t.Error("generated.py should be gitignored")
	}
	if _, ok := files["app.py"]; !ok {
		t.Error("app.py missing")
	}
}
