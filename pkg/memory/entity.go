// Package memory implements the hierarchical memory tree the model explores.
//
// The tree mirrors the filesystem three levels deep in kind: directories
// contain files, files contain blocks (lines nested by indentation), and
// blocks contain sub-blocks. Every entity is either opened, with its
// contents visible in the rendered view, or collapsed into a numbered
// placeholder the model can ask to expand. Opening is timestamped on a
// tree-wide clock so the least recently touched subtrees can be evicted
// when the rendered view exceeds its token budget.
package memory

// Entity is a node in the hierarchical memory tree.
type Entity interface {
	// Path returns the identity of the entity: a filesystem path for
	// directories and files, the line text for blocks.
	Path() string

	// Label returns the single line shown for the entity in the rendered
	// tree (base name for directories and files, text for blocks).
	Label() string

	// Opened reports whether the entity's contents are visible.
	Opened() bool

	// OpenedAt returns the clock tick at which the entity was opened.
	// Entities that are closed return their last assigned tick.
	OpenedAt() int

	// Contents returns the child entities. Only meaningful while opened,
	// except for blocks whose sub-blocks are fixed at parse time.
	Contents() []Entity

	// CanOpen reports whether the entity is expandable at all.
	CanOpen() bool

	// Matches reports whether the entity is addressed by the given path
	// fragment (suffix match for paths, substring match for blocks).
	Matches(path string) bool

	// fill populates Contents when the entity transitions to opened.
	fill(t *Tree) error

	// markOpened and markClosed flip visibility state. Traversal lives on
	// the Tree; entities only track their own state.
	markOpened(tick int)
	markClosed()
}

// node carries the state shared by every entity kind.
type node struct {
	path     string
	opened   bool
	openedAt int
	contents []Entity
}

func (n *node) Path() string        { return n.path }
func (n *node) Opened() bool        { return n.opened }
func (n *node) OpenedAt() int       { return n.openedAt }
func (n *node) Contents() []Entity  { return n.contents }
func (n *node) markOpened(tick int) { n.opened = true; n.openedAt = tick }
func (n *node) markClosed()         { n.opened = false; n.openedAt = -1 }
