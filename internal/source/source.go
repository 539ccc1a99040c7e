package source

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Resolver materializes a repository locator into a readable local root.
type Resolver interface {
	// Resolve returns the local root for the locator. The returned cleanup
	// func removes any temporary materialization and may be nil.
	Resolve(ctx context.Context, locator string) (root string, cleanup func(), err error)
}

// IsURL reports whether the locator is a remote repository URL.
func IsURL(locator string) bool {
	return strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://")
}

// New returns a resolver appropriate for the locator: a git clone resolver
// for URLs, a local path resolver otherwise. cloneDir is where remote
// repositories are materialized.
func New(locator, cloneDir string, logger *zap.Logger) Resolver {
	if IsURL(locator) {
		return &Git{CloneDir: cloneDir, logger: logger}
	}
	return &Local{}
}

// Local resolves a locator that is already a path on disk.
type Local struct{}

// Resolve validates that the path exists and is a directory.
func (l *Local) Resolve(_ context.Context, locator string) (string, func(), error) {
	info, err := os.Stat(locator)
	if err != nil {
		return "", nil, fmt.Errorf("repository path does not exist: %s", locator)
	}
	if !info.IsDir() {
		return "", nil, fmt.Errorf("repository path is not a directory: %s", locator)
	}
	return locator, nil, nil
}

// Git resolves a remote URL by cloning it with the git CLI.
type Git struct {
	// CloneDir is the destination directory for the clone. Any stale prior
	// clone at this path is removed before cloning.
	CloneDir string

	logger *zap.Logger
}

// Resolve clones the repository at the URL into CloneDir.
func (g *Git) Resolve(ctx context.Context, locator string) (string, func(), error) {
	dest := g.CloneDir
	if dest == "" {
		dest = filepath.Join(os.TempDir(), "mentor-repo-clone")
	}

	if _, err := os.Stat(dest); err == nil {
		if g.logger != nil {
			g.logger.Info("removing existing clone directory", zap.String("dir", dest))
		}
		if err := os.RemoveAll(dest); err != nil {
			return "", nil, fmt.Errorf("removing stale clone: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", nil, fmt.Errorf("creating clone parent directory: %w", err)
	}

	if g.logger != nil {
		g.logger.Info("cloning repository", zap.String("url", locator), zap.String("dir", dest))
	}
	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", locator, dest)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", nil, fmt.Errorf("git clone failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	cleanup := func() { os.RemoveAll(dest) }
	return dest, cleanup, nil
}
