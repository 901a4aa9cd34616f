package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Directory is a filesystem directory in the memory tree.
type Directory struct {
	node
}

// NewDirectory creates a closed directory entity for the given absolute path.
func NewDirectory(path string) *Directory {
	return &Directory{node: node{path: path, openedAt: -1}}
}

// Label returns the directory's base name.
func (d *Directory) Label() string {
	return filepath.Base(d.path)
}

// CanOpen always returns true; listing failures surface at open time.
func (d *Directory) CanOpen() bool {
	return true
}

// Matches reports whether the directory is addressed by the path fragment.
func (d *Directory) Matches(path string) bool {
	return strings.HasSuffix(d.path, path)
}

// fill lists the directory through the tree's guard, skipping ignored
// entries, and populates contents sorted by name (directories and files
// interleaved, as on disk).
func (d *Directory) fill(t *Tree) error {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", d.path, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	d.contents = d.contents[:0]
	for _, entry := range entries {
		childPath := filepath.Join(d.path, entry.Name())
		if t.guard.ShouldIgnore(childPath) {
			continue
		}
		if entry.IsDir() {
			d.contents = append(d.contents, NewDirectory(childPath))
		} else {
			d.contents = append(d.contents, NewFile(childPath))
		}
	}

	return nil
}
