package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ViolationError reports a path that resolves outside the working root.
type ViolationError struct {
	Path string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("path %q escapes the working root", e.Path)
}

// Resolver confines user-supplied paths to a working root.
type Resolver struct {
	Root string
}

// NewResolver constructs a resolver rooted at root (defaults to the current working directory).
func NewResolver(root string) (*Resolver, error) {
	if root == "" {
		var err error
		root, err = os.Getwd()
		if err != nil {
			return nil, err
		}
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &Resolver{Root: filepath.Clean(abs)}, nil
}

// Resolve maps a relative or absolute path to an absolute path inside the root.
// Absolute paths are accepted only when they already lie inside the root;
// anything resolving outside is rejected before any filesystem call.
func (r *Resolver) Resolve(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("path is required")
	}
	clean := filepath.Clean(p)

	var abs string
	if filepath.IsAbs(clean) {
		abs = clean
	} else {
		abs = filepath.Join(r.Root, clean)
	}
	abs = filepath.Clean(abs)

	if abs != r.Root && !isWithin(r.Root, abs) {
		return "", &ViolationError{Path: p}
	}
	return abs, nil
}

func isWithin(root, abs string) bool {
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}
