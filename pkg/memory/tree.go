package memory

import (
	"fmt"
	"strings"

	"github.com/fathomcli/fathom/pkg/llm/tokenizer"
	"github.com/fathomcli/fathom/pkg/workspace"
)

// Tree owns the hierarchical memory rooted at the explored directory.
// It provides path- and index-addressed opening, LRU eviction against a
// token budget, and the rendered view sent to the model.
//
// Placeholder indexes are assigned in render order to every collapsed,
// openable entity reachable through opened ancestors. Render and
// OpenIndex perform the same walk, so the numbers in the rendered view
// always address the entities OpenIndex would expand.
type Tree struct {
	root   *Directory
	guard  *workspace.Guard
	tok    *tokenizer.Tokenizer
	budget int
	clock  int
}

// New creates a tree rooted at the guard's directory and opens the root.
func New(guard *workspace.Guard, tok *tokenizer.Tokenizer, budget int) (*Tree, error) {
	if budget <= 0 {
		return nil, fmt.Errorf("token budget must be positive, got %d", budget)
	}

	t := &Tree{
		root:   NewDirectory(guard.Root()),
		guard:  guard,
		tok:    tok,
		budget: budget,
	}

	if err := t.openEntity(t.root); err != nil {
		return nil, fmt.Errorf("failed to open root: %w", err)
	}

	return t, nil
}

// Root returns the root entity.
func (t *Tree) Root() Entity {
	return t.root
}

// Budget returns the rendered-view token budget.
func (t *Tree) Budget() int {
	return t.budget
}

// openEntity transitions an entity to opened, stamping it on the tree
// clock and filling its contents. A fill failure reverts the entity to
// closed so its placeholder stays in the rendered view.
func (t *Tree) openEntity(e Entity) error {
	if e.Opened() {
		return nil
	}

	e.markOpened(t.clock)
	t.clock++

	if err := e.fill(t); err != nil {
		e.markClosed()
		return err
	}
	return nil
}

// Open opens the first closed entity reachable through opened ancestors
// that matches the path fragment. Directories and files match by path
// suffix, blocks by substring of their line text.
func (t *Tree) Open(path string) bool {
	return t.openPath(t.root, path)
}

func (t *Tree) openPath(e Entity, path string) bool {
	if !e.Opened() {
		if e.Matches(path) && e.CanOpen() {
			return t.openEntity(e) == nil
		}
		return false
	}
	for _, c := range e.Contents() {
		if t.openPath(c, path) {
			return true
		}
	}
	return false
}

// OpenIndex expands placeholder n (1-based, render order) and returns the
// label of the entity that was opened.
func (t *Tree) OpenIndex(n int) (string, bool) {
	if n < 1 {
		return "", false
	}
	cur := 0
	return t.openIndex(t.root, n, &cur)
}

func (t *Tree) openIndex(e Entity, target int, cur *int) (string, bool) {
	if !e.Opened() && e.CanOpen() {
		*cur++
		if *cur == target {
			if err := t.openEntity(e); err != nil {
				return "", false
			}
			return e.Label(), true
		}
		return "", false
	}

	if e.Opened() {
		for _, c := range e.Contents() {
			if label, ok := t.openIndex(c, target, cur); ok {
				return label, ok
			}
			if *cur >= target {
				return "", false
			}
		}
	}
	return "", false
}

// Close closes the deepest opened entity matching the path fragment,
// along with everything beneath it.
func (t *Tree) Close(path string) bool {
	return t.closePath(t.root, path)
}

func (t *Tree) closePath(e Entity, path string) bool {
	if !e.Opened() {
		return false
	}

	for _, c := range e.Contents() {
		if t.closePath(c, path) {
			return true
		}
	}

	if e.Matches(path) && e.CanOpen() {
		closeAll(e)
		return true
	}
	return false
}

// closeAll closes an entity and every descendant.
func closeAll(e Entity) {
	if !e.Opened() {
		return
	}
	e.markClosed()
	for _, c := range e.Contents() {
		closeAll(c)
	}
}

// latestTick returns the most recent open tick anywhere in the opened
// subtree rooted at e. The second return is false for closed entities.
func latestTick(e Entity) (int, bool) {
	if !e.Opened() {
		return 0, false
	}

	latest, found := 0, false
	for _, c := range e.Contents() {
		if tick, ok := latestTick(c); ok && (!found || tick > latest) {
			latest, found = tick, true
		}
	}
	if found {
		return latest, true
	}
	return e.OpenedAt(), true
}

// EvictOldest closes the least recently used opened subtree: it descends
// toward the opened child whose subtree has the earliest latest tick and
// closes the entity at the bottom of that descent. The root itself is
// never evicted; returns false when only the root remains open.
func (t *Tree) EvictOldest() bool {
	if !t.root.Opened() {
		return false
	}
	return t.evictOldest(t.root, true)
}

func (t *Tree) evictOldest(e Entity, isRoot bool) bool {
	earliest, found := 0, false
	var target Entity
	for _, c := range e.Contents() {
		if tick, ok := latestTick(c); ok && (!found || tick < earliest) {
			earliest, found = tick, true
			target = c
		}
	}

	if target == nil {
		if isRoot {
			return false
		}
		closeAll(e)
		return true
	}
	return t.evictOldest(target, false)
}

// EvictToBudget evicts until the rendered view fits the token budget or
// nothing but the root remains open. Returns the number of evictions and
// the final token size.
func (t *Tree) EvictToBudget() (int, int) {
	closed := 0
	size := t.TokenSize()
	for size > t.budget {
		if !t.EvictOldest() {
			break
		}
		closed++
		size = t.TokenSize()
	}
	return closed, size
}

// Render returns the indented view of the tree. Collapsed openable
// entities are followed by a numbered "(n) ..." placeholder line.
func (t *Tree) Render() string {
	var sb strings.Builder
	idx := 0
	renderEntity(t.root, "", &idx, &sb)
	return sb.String()
}

func renderEntity(e Entity, indent string, idx *int, sb *strings.Builder) {
	sb.WriteString(indent)
	sb.WriteString(e.Label())
	sb.WriteString("\n")

	if !e.Opened() {
		if e.CanOpen() {
			*idx++
			fmt.Fprintf(sb, "%s  (%d) ...\n", indent, *idx)
		}
		return
	}

	for _, c := range e.Contents() {
		renderEntity(c, indent+"  ", idx, sb)
	}
}

// PlaceholderCount returns how many placeholders the current rendered
// view contains, i.e. the highest index OpenIndex accepts right now.
func (t *Tree) PlaceholderCount() int {
	return countPlaceholders(t.root)
}

func countPlaceholders(e Entity) int {
	if !e.Opened() {
		if e.CanOpen() {
			return 1
		}
		return 0
	}
	n := 0
	for _, c := range e.Contents() {
		n += countPlaceholders(c)
	}
	return n
}

// TokenSize returns the token count of the rendered view.
func (t *Tree) TokenSize() int {
	return t.tok.Count(t.Render())
}
