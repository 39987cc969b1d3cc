package workspace

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
)

// ErrIsDirectory is returned when a file operation targets a directory.
var ErrIsDirectory = errors.New("target is a directory")

// Filesystem provides safe file operations rooted at a working directory.
type Filesystem struct {
	resolver    *Resolver
	allowWrite  bool
	allowDelete bool
}

// NewFilesystem builds a filesystem tool with write/delete permissions controlled by flags.
// The root must be an existing directory.
func NewFilesystem(root string, allowWrite, allowDelete bool) (*Filesystem, error) {
	resolver, err := NewResolver(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(resolver.Root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New("working root is not a directory")
	}
	return &Filesystem{resolver: resolver, allowWrite: allowWrite, allowDelete: allowDelete}, nil
}

// Root returns the absolute working root.
func (f *Filesystem) Root() string {
	return f.resolver.Root
}

// Resolve exposes the sandbox resolver for callers that need raw paths.
func (f *Filesystem) Resolve(path string) (string, error) {
	return f.resolver.Resolve(path)
}

// ReadFile returns the full text content of a file inside the root.
func (f *Filesystem) ReadFile(path string) (string, error) {
	resolved, err := f.resolver.Resolve(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", ErrIsDirectory
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteFile replaces a file's content wholesale.
func (f *Filesystem) WriteFile(path string, content string) error {
	if !f.allowWrite {
		return errors.New("write is disabled by configuration")
	}
	resolved, err := f.resolver.Resolve(path)
	if err != nil {
		return err
	}
	return os.WriteFile(resolved, []byte(content), 0o644)
}

// DeleteFile removes a file inside the root.
func (f *Filesystem) DeleteFile(path string) error {
	if !f.allowDelete {
		return errors.New("delete is disabled by configuration")
	}
	resolved, err := f.resolver.Resolve(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return ErrIsDirectory
	}
	return os.Remove(resolved)
}

// Stat returns file info for a path inside the root.
func (f *Filesystem) Stat(path string) (fs.FileInfo, error) {
	resolved, err := f.resolver.Resolve(path)
	if err != nil {
		return nil, err
	}
	return os.Stat(resolved)
}

// DescribeError maps a filesystem failure to a stable user-facing message.
func DescribeError(err error) string {
	var violation *ViolationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &violation):
		return violation.Error()
	case errors.Is(err, fs.ErrNotExist):
		return "file not found"
	case errors.Is(err, fs.ErrPermission):
		return "permission denied"
	case errors.Is(err, ErrIsDirectory):
		return "target is a directory"
	default:
		return err.Error()
	}
}

// looksBinary reports whether content appears to be non-text.
// A NUL byte in the first kilobyte is treated as binary, matching
// the common grep heuristic.
func looksBinary(data []byte) bool {
	probe := data
	if len(probe) > 1024 {
		probe = probe[:1024]
	}
	return bytes.IndexByte(probe, 0) >= 0
}
