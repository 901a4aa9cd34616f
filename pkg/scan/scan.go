// Package scan sizes up a directory before exploration starts: how many
// files and directories survive the ignore rules and how many bytes they
// hold. The CLI uses this to warn when a query is pointed at something
// enormous.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/fathomcli/fathom/pkg/workspace"
)

// walkConcurrency bounds how many top-level subtrees are walked at once.
const walkConcurrency = 8

// Stats summarizes the explorable portion of a directory.
type Stats struct {
	// Files and Dirs count entries that pass the ignore rules.
	Files int
	Dirs  int

	// Bytes is the total size of counted files.
	Bytes int64

	// ByExtension maps file extensions (".go", ".py") to file counts.
	// Extensionless files are keyed by "".
	ByExtension map[string]int
}

// TopExtensions returns the n most common extensions, most frequent
// first. Ties break alphabetically.
func (s *Stats) TopExtensions(n int) []string {
	exts := make([]string, 0, len(s.ByExtension))
	for ext := range s.ByExtension {
		exts = append(exts, ext)
	}
	sort.Slice(exts, func(i, j int) bool {
		if s.ByExtension[exts[i]] != s.ByExtension[exts[j]] {
			return s.ByExtension[exts[i]] > s.ByExtension[exts[j]]
		}
		return exts[i] < exts[j]
	})
	if n > 0 && len(exts) > n {
		exts = exts[:n]
	}
	return exts
}

// Scan walks the guard's root and returns stats for everything the
// memory tree would be willing to show. Top-level subdirectories are
// walked concurrently.
func Scan(ctx context.Context, guard *workspace.Guard) (*Stats, error) {
	stats := &Stats{ByExtension: make(map[string]int)}
	var mu sync.Mutex

	entries, err := os.ReadDir(guard.Root())
	if err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(walkConcurrency)

	for _, entry := range entries {
		path := filepath.Join(guard.Root(), entry.Name())
		if guard.ShouldIgnore(path) {
			continue
		}

		if !entry.IsDir() {
			info, err := entry.Info()
			if err != nil {
				return nil, err
			}
			mu.Lock()
			stats.addFile(entry.Name(), info.Size())
			mu.Unlock()
			continue
		}

		mu.Lock()
		stats.Dirs++
		mu.Unlock()

		g.Go(func() error {
			local := &Stats{ByExtension: make(map[string]int)}
			if err := walkSubtree(ctx, guard, path, local); err != nil {
				return err
			}
			mu.Lock()
			stats.merge(local)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

func walkSubtree(ctx context.Context, guard *workspace.Guard, root string, stats *Stats) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			return nil
		}

		if guard.ShouldIgnore(path) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			stats.Dirs++
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		stats.addFile(d.Name(), info.Size())
		return nil
	})
}

func (s *Stats) addFile(name string, size int64) {
	s.Files++
	s.Bytes += size
	s.ByExtension[filepath.Ext(name)]++
}

func (s *Stats) merge(other *Stats) {
	s.Files += other.Files
	s.Dirs += other.Dirs
	s.Bytes += other.Bytes
	for ext, n := range other.ByExtension {
		s.ByExtension[ext] += n
	}
}
