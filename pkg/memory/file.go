package memory

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// File is a filesystem file in the memory tree. Text files open into
// indentation-nested blocks; binary files cannot be opened.
type File struct {
	node

	// isText caches the binary sniff. nil means not yet checked.
	isText *bool

	// contentHash is the xxhash of the contents last parsed into blocks.
	// Reopening an unchanged file reuses the parsed blocks.
	contentHash uint64
}

// NewFile creates a closed file entity for the given absolute path.
func NewFile(path string) *File {
	return &File{node: node{path: path, openedAt: -1}}
}

// Label returns the file's base name.
func (f *File) Label() string {
	return filepath.Base(f.path)
}

// CanOpen reports whether the file looks like text: readable and no NUL
// byte in the first kilobyte.
func (f *File) CanOpen() bool {
	if f.isText == nil {
		isText := sniffText(f.path)
		f.isText = &isText
	}
	return *f.isText
}

// Matches reports whether the file is addressed by the path fragment.
func (f *File) Matches(path string) bool {
	return strings.HasSuffix(f.path, path)
}

// fill parses the file's lines into indentation-nested blocks. Blank
// lines are skipped. A line becomes a child of the nearest preceding line
// with smaller indentation.
func (f *File) fill(t *Tree) error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	hash := xxhash.Sum64(data)
	if hash == f.contentHash && f.contents != nil {
		return nil
	}

	f.contents = nil
	var stack []*Block

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		block := NewBlock(trimmed, indent)

		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			top.contents = append(top.contents, block)
		} else {
			f.contents = append(f.contents, block)
		}

		stack = append(stack, block)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to scan %s: %w", f.path, err)
	}

	f.contentHash = hash
	return nil
}

// sniffText reads up to 1 KiB and reports whether the file looks like text.
func sniffText(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	chunk := make([]byte, 1024)
	n, err := file.Read(chunk)
	if err != nil && n == 0 {
		// An empty file reads io.EOF with n == 0 and is still text.
		return errors.Is(err, io.EOF)
	}
	return !bytes.ContainsRune(chunk[:n], 0)
}
