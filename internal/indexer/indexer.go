package indexer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"
)

// Indexer walks a repository tree and reads matching source files.
type Indexer struct {
	extensions map[string]struct{}
	ignoreDirs map[string]struct{}
	logger     *zap.Logger
}

// Diagnostics explains the active filters when indexing produces no files,
// so callers can adjust configuration. Empty result is a soft failure.
type Diagnostics struct {
	Root       string   `json:"root"`
	Extensions []string `json:"extensions"`
	IgnoreDirs []string `json:"ignoreDirs"`
	Skipped    []string `json:"skipped,omitempty"`
}

// String renders the diagnostics as a single human-readable message.
func (d Diagnostics) String() string {
	return fmt.Sprintf("no files indexed under %s (extensions: %s; ignored dirs: %s)",
		d.Root, strings.Join(d.Extensions, ","), strings.Join(d.IgnoreDirs, ","))
}

// New creates an Indexer for the given accepted extensions and ignored
// directory names. Extensions are matched case-insensitively.
func New(extensions, ignoreDirs []string, logger *zap.Logger) *Indexer {
	extSet := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		extSet[strings.ToLower(e)] = struct{}{}
	}
	dirSet := make(map[string]struct{}, len(ignoreDirs))
	for _, d := range ignoreDirs {
		dirSet[d] = struct{}{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Indexer{extensions: extSet, ignoreDirs: dirSet, logger: logger}
}

// Index walks root and returns a mapping of relative path to file content.
// Unreadable files are skipped with a warning. A repository .gitignore at
// the root is honored when present.
func (ix *Indexer) Index(root string) (map[string]string, Diagnostics, error) {
	diag := Diagnostics{
		Root:       root,
		Extensions: sortedKeys(ix.extensions),
		IgnoreDirs: sortedKeys(ix.ignoreDirs),
	}

	if _, err := os.Stat(root); err != nil {
		return nil, diag, fmt.Errorf("repository path does not exist: %s", root)
	}

	gi := loadGitignore(root)

	files := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			ix.logger.Warn("walk error, skipping", zap.String("path", path), zap.Error(err))
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}

		if d.IsDir() {
			if _, skip := ix.ignoreDirs[d.Name()]; skip {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		if _, ok := ix.extensions[ext]; !ok {
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			ix.logger.Warn("failed to read file", zap.String("path", path), zap.Error(readErr))
			diag.Skipped = append(diag.Skipped, rel)
			return nil
		}

		files[filepath.ToSlash(rel)] = string(content)
		return nil
	})
	if err != nil {
		return nil, diag, fmt.Errorf("walking repository: %w", err)
	}

	ix.logger.Info("indexed repository", zap.String("root", root), zap.Int("files", len(files)))
	if len(files) == 0 {
		ix.logger.Warn("no files indexed", zap.String("diagnostics", diag.String()))
	}

	return files, diag, nil
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
