package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator bounds file access to a set of root directories: the
// citation directory and the rulebook corpus.
type PathValidator struct {
	roots []string
}

// NewPathValidator creates a validator accepting paths under any of roots.
// The first root is the base for relative paths. Roots need not exist yet.
func NewPathValidator(roots ...string) (*PathValidator, error) {
	var kept []string
	seen := make(map[string]bool)
	for _, r := range roots {
		if strings.TrimSpace(r) == "" {
			continue
		}
		abs, err := filepath.Abs(r)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve directory %s: %w", r, err)
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		kept = append(kept, abs)
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("at least one directory must be configured")
	}
	return &PathValidator{roots: kept}, nil
}

// Roots returns the absolute root directories in configuration order.
func (v *PathValidator) Roots() []string {
	out := make([]string, len(v.roots))
	copy(out, v.roots)
	return out
}

// Resolve turns path into a cleaned absolute path and checks that it lies
// within one of the roots. Relative paths are taken from the first root.
func (v *PathValidator) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(v.roots[0], path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	if err := v.ValidatePath(abs); err != nil {
		return "", err
	}
	return abs, nil
}

// ValidatePath reports an error unless path lies within one of the roots.
func (v *PathValidator) ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	for _, root := range v.roots {
		if within(abs, root) {
			return nil
		}
	}
	return fmt.Errorf("path is outside configured directories: %s", path)
}

// within reports whether path, and the target of path when it is a
// symlink, both lie inside root.
func within(path, root string) bool {
	cleanPath := filepath.Clean(path)
	dirs := []string{filepath.Clean(root)}
	if resolved, err := filepath.EvalSymlinks(dirs[0]); err == nil && resolved != dirs[0] {
		dirs = append(dirs, resolved)
	}

	realPath := cleanPath
	if info, err := os.Lstat(cleanPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(cleanPath); err == nil {
			realPath = resolved
		}
	}

	return underAny(cleanPath, dirs) && underAny(realPath, dirs)
}

func underAny(path string, dirs []string) bool {
	for _, dir := range dirs {
		if path == dir {
			return true
		}
		prefix := dir
		if !strings.HasSuffix(prefix, string(filepath.Separator)) {
			prefix += string(filepath.Separator)
		}
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
