package agent

import (
	"fmt"
	"strings"
)

// stepRecord is one prior step shown back to the model.
type stepRecord struct {
	step     int
	thoughts string
	action   string
}

// stepHistory is a bounded record of recent steps. Without it the model
// tends to circle back to sections it has already expanded, especially
// after eviction collapses them again.
type stepHistory struct {
	records []stepRecord
	limit   int
}

func newStepHistory(limit int) *stepHistory {
	if limit < 1 {
		limit = 1
	}
	return &stepHistory{limit: limit}
}

// add appends a record, dropping the oldest once over the limit.
func (h *stepHistory) add(step int, thoughts, action string) {
	h.records = append(h.records, stepRecord{step: step, thoughts: thoughts, action: action})
	if len(h.records) > h.limit {
		h.records = h.records[len(h.records)-h.limit:]
	}
}

// render formats the history for inclusion in the prompt.
func (h *stepHistory) render() string {
	if len(h.records) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, r := range h.records {
		fmt.Fprintf(&sb, "- step %d: %s", r.step, r.action)
		if r.thoughts != "" {
			fmt.Fprintf(&sb, " (reasoning: %s)", r.thoughts)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (h *stepHistory) len() int {
	return len(h.records)
}
