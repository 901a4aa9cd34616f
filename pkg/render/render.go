// Package render formats the final answer for the terminal, syntax
// highlighting fenced code blocks.
package render

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const (
	formatterName = "terminal256"
	styleName     = "monokai"
)

// Renderer writes answers to a terminal. When Color is false, code
// blocks pass through unhighlighted (for pipes and dumb terminals).
type Renderer struct {
	Color bool
}

// New creates a renderer.
func New(color bool) *Renderer {
	return &Renderer{Color: color}
}

// Render writes the answer to w, highlighting fenced code blocks. Fence
// markers are dropped from the output; everything outside fences is
// written verbatim.
func (r *Renderer) Render(w io.Writer, answer string) error {
	lines := strings.Split(answer, "\n")

	var code []string
	var lang string
	inFence := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			if inFence {
				if err := r.writeCode(w, strings.Join(code, "\n")+"\n", lang); err != nil {
					return err
				}
				code = code[:0]
				inFence = false
			} else {
				lang = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
				inFence = true
			}
			continue
		}

		if inFence {
			code = append(code, line)
			continue
		}

		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}

	// An unterminated fence still gets its code out.
	if inFence && len(code) > 0 {
		return r.writeCode(w, strings.Join(code, "\n")+"\n", lang)
	}
	return nil
}

func (r *Renderer) writeCode(w io.Writer, code, lang string) error {
	if !r.Color {
		_, err := io.WriteString(w, code)
		return err
	}

	lexer := lookupLexer(lang, code)
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		_, werr := io.WriteString(w, code)
		return werr
	}

	formatter := formatters.Get(formatterName)
	style := styles.Get(styleName)
	if err := formatter.Format(w, style, iterator); err != nil {
		_, werr := io.WriteString(w, code)
		return werr
	}
	return nil
}

func lookupLexer(lang, code string) chroma.Lexer {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}
