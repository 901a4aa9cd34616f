package agent

import (
	"fmt"
	"strings"
)

// systemPrompt fixes the response contract. The model answers with exactly
// one JSON object per step: either an expand command or a final message.
const systemPrompt = `You are a code exploration assistant. You are shown a partially expanded view of a user's directory tree. Collapsed sections appear as a numbered "(n) ..." line; entering that number expands the section. Directories expand into files, files expand into their top-level lines, and indented lines expand into the lines nested beneath them.

You must reply with a single JSON object in one of two formats, and nothing else.

To expand a collapsed section:
{"thoughts": "...", "command": n}

Your thoughts should be a step-by-step account of how you would solve the user's query: name the files and parts of files worth looking at, then settle on the single best section to expand next. The command must be one integer, the number shown before the ellipses of the section you chose. Expand files as far as possible before answering; it is best to have seen the user's code in detail.

To answer the user:
{"message": "..."}

Your message should explain in great detail how the user should solve their query, including code where relevant. Only use this format if you can tell the user precisely what to do. If you are unsure where in the code to look or what exactly to change, expand more sections instead.`

// buildUserPrompt assembles the per-step user message: the query, the
// current rendered view, and the steps already taken (so the model does
// not keep revisiting the same sections).
func buildUserPrompt(query, rendered, history string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "A user has asked the following query: %q\n\n", query)
	sb.WriteString("The file structure of the user's program is the following:\n")
	sb.WriteString("```\n")
	sb.WriteString(rendered)
	sb.WriteString("```\n")

	if history != "" {
		sb.WriteString("\nSections you have already explored (sections may have been renumbered or closed again since):\n")
		sb.WriteString(history)
	}

	fmt.Fprintf(&sb, "\nNow, attempt to solve the query. To repeat, the user's query is %q", query)
	return sb.String()
}
