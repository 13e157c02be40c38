package rank

import (
	"fmt"
	"strings"
)

// queryTemplates are filled with (role, task) arguments in the order given by
// each template's verbs.
var queryTemplates = []struct {
	format string
	args   func(role, task string) []any
}{
	{"What parts of the document help a %s to %s?", roleTask},
	{"Which sections are most useful for a %s when trying to %s?", roleTask},
	{"As a %s, which content supports the task to %s?", roleTask},
	{"Where are the objectives, outcomes, or results mentioned that would help %ss in %s?", roleTask},
	{"Extract sections that describe how to %s from a %s's perspective.", taskRole},
	{"Which parts of the document explain what readers should know or be able to do as needed by a %s?", roleOnly},
	{"What instructional or learning goals are aligned with the task to %s?", taskOnly},
	{"As a %s, find passages that summarize expectations or intended outcomes.", roleOnly},
	{"What content in this document would be relevant for someone preparing materials to %s?", taskOnly},
	{"What parts of this document clearly support the goal to %s?", taskOnly},
}

func roleTask(role, task string) []any { return []any{role, task} }
func taskRole(role, task string) []any { return []any{task, role} }
func roleOnly(role, _ string) []any    { return []any{role} }
func taskOnly(_, task string) []any    { return []any{task} }

// Queries expands a persona and task into a fixed, ordered battery of
// paraphrased questions. The centroid of their embeddings anchors scoring.
func Queries(role, task string) []string {
	role = strings.TrimSpace(role)
	task = strings.TrimSpace(task)
	out := make([]string, len(queryTemplates))
	for i, q := range queryTemplates {
		out[i] = fmt.Sprintf(q.format, q.args(role, task)...)
	}
	return out
}

// Keywords returns the lowercased whitespace tokens of role and task,
// deduplicated in first-seen order.
func Keywords(role, task string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range strings.Fields(strings.ToLower(role + " " + task)) {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}
