package agent

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Decision is one parsed model reply: either an expand command or a final
// message, never both.
type Decision struct {
	// Thoughts is the model's reasoning for an expand step.
	Thoughts string

	// Command is the placeholder index to expand. Valid when IsExpand.
	Command int

	// Message is the final answer. Valid when !IsExpand.
	Message string

	// IsExpand distinguishes the two reply formats.
	IsExpand bool
}

// rawDecision tolerates the shapes models actually produce: command may
// arrive as a number or a quoted number.
type rawDecision struct {
	Thoughts string          `json:"thoughts"`
	Command  json.RawMessage `json:"command"`
	Message  string          `json:"message"`
}

// ParseDecision extracts the decision JSON from a model reply. Replies
// wrapped in code fences or surrounded by prose are accepted: the first
// balanced JSON object found is parsed.
func ParseDecision(reply string) (*Decision, error) {
	payload, err := extractJSONObject(reply)
	if err != nil {
		return nil, err
	}

	var raw rawDecision
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("malformed decision JSON: %w", err)
	}

	hasCommand := len(raw.Command) > 0 && string(raw.Command) != "null"
	if hasCommand && raw.Message != "" {
		return nil, fmt.Errorf("decision contains both a command and a message")
	}

	if hasCommand {
		command, err := parseCommand(raw.Command)
		if err != nil {
			return nil, err
		}
		return &Decision{Thoughts: raw.Thoughts, Command: command, IsExpand: true}, nil
	}

	if raw.Message == "" {
		return nil, fmt.Errorf("decision contains neither a command nor a message")
	}
	return &Decision{Message: raw.Message}, nil
}

// parseCommand accepts the number shapes models actually emit: 3, "3", 3.0.
func parseCommand(raw json.RawMessage) (int, error) {
	text := strings.TrimSpace(string(raw))
	text = strings.Trim(text, `"`)

	if n, err := strconv.Atoi(text); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil && f == float64(int(f)) {
		return int(f), nil
	}
	return 0, fmt.Errorf("command %q is not an integer", text)
}

// extractJSONObject returns the first balanced top-level JSON object in
// text, skipping braces inside JSON strings.
func extractJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object in reply")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unterminated JSON object in reply")
}
