package memory

import "strings"

// Block is one non-blank line of a text file, with the lines indented
// beneath it as children.
type Block struct {
	node
	indent int
}

// NewBlock creates a closed block for the given trimmed line text.
func NewBlock(text string, indent int) *Block {
	return &Block{node: node{path: text, openedAt: -1}, indent: indent}
}

// Label returns the block's line text.
func (b *Block) Label() string {
	return b.path
}

// Indent returns the indentation depth the block had in its file.
func (b *Block) Indent() int {
	return b.indent
}

// CanOpen reports whether the block has sub-blocks to reveal.
func (b *Block) CanOpen() bool {
	return len(b.contents) > 0
}

// Matches reports whether the fragment occurs in the block's line text.
func (b *Block) Matches(path string) bool {
	return strings.Contains(b.path, path)
}

// fill is a no-op: sub-blocks are fixed when the file is parsed.
func (b *Block) fill(t *Tree) error {
	return nil
}
