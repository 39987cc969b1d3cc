package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	treeMaxDepth = 3
	treeMaxItems = 50
)

// Tree returns a tree-shaped textual summary of a directory's immediate and
// nested entries, directories first, with size annotations for files.
func (f *Filesystem) Tree(path string) (string, error) {
	if path == "" {
		path = "."
	}
	resolved, err := f.resolver.Resolve(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", path)
	}

	display := filepath.Clean(path)
	lines := []string{display + "/"}
	count := 0

	var walk func(dir, prefix string, depth int) error
	walk = func(dir, prefix string, depth int) error {
		if depth > treeMaxDepth || count >= treeMaxItems {
			return nil
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrPermission) {
				lines = append(lines, prefix+"[permission denied]")
				return nil
			}
			return err
		}

		var dirs, files []os.DirEntry
		for _, e := range entries {
			if skipTreeEntry(e.Name()) {
				continue
			}
			if e.IsDir() {
				dirs = append(dirs, e)
			} else {
				files = append(files, e)
			}
		}
		sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name() < dirs[j].Name() })
		sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })
		ordered := append(dirs, files...)

		for i, e := range ordered {
			if count >= treeMaxItems {
				lines = append(lines, prefix+"... (truncated)")
				return nil
			}
			last := i == len(ordered)-1
			connector, childPrefix := "├── ", prefix+"│   "
			if last {
				connector, childPrefix = "└── ", prefix+"    "
			}

			if e.IsDir() {
				lines = append(lines, prefix+connector+e.Name()+"/")
				count++
				if err := walk(filepath.Join(dir, e.Name()), childPrefix, depth+1); err != nil {
					return err
				}
				continue
			}

			label := e.Name()
			if fi, err := e.Info(); err == nil {
				label = fmt.Sprintf("%s (%s)", e.Name(), formatSize(fi.Size()))
			}
			lines = append(lines, prefix+connector+label)
			count++
		}
		return nil
	}

	if err := walk(resolved, "", 1); err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

func skipTreeEntry(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	switch name {
	case "node_modules", "__pycache__", "vendor", "venv", "env":
		return true
	default:
		return false
	}
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMG"[exp])
}
