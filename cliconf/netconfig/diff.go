package netconfig

import (
	"fmt"
)

// Match policies: how candidate lines are checked against running lines.
const (
	MatchLine   = "line"
	MatchStrict = "strict"
	MatchExact  = "exact"
	MatchNone   = "none"
)

// Replace policies: the granularity at which divergent sections are re-emitted.
const (
	ReplaceLine  = "line"
	ReplaceBlock = "block"
)

// DiffOptions control a hierarchical Diff. Path restricts both sides to the
// subtree under the given ancestor texts and is only valid with MatchLine.
type DiffOptions struct {
	Match   string
	Replace string
	Path    []string
}

// Diff returns the candidate lines not satisfied by running under the given
// match policy, in candidate order, each preceded by any of its ancestors not
// emitted yet. The result is what has to be staged on the device to reconcile
// running towards candidate.
func Diff(candidate, running *NetworkConfig, opts *DiffOptions) ([]*ConfigLine, error) {
	if opts == nil {
		opts = &DiffOptions{}
	}
	match := opts.Match
	if match == "" {
		match = MatchLine
	}
	if len(opts.Path) > 0 && match != MatchLine {
		return nil, fmt.Errorf("path is only supported with match=%s", MatchLine)
	}

	candItems := candidate.Items()
	runItems := running.Items()
	if len(opts.Path) > 0 {
		var err error
		candItems, err = candidate.Block(opts.Path)
		if err != nil {
			return nil, err
		}
		// a path missing on the running side means the whole candidate
		// scope is needed
		if block, err := running.Block(opts.Path); err == nil {
			runItems = block
		} else {
			runItems = nil
		}
	}

	var updates []*ConfigLine
	switch match {
	case MatchLine:
		updates = diffLine(candItems, runItems)
	case MatchStrict:
		updates = diffStrict(candItems, runItems)
	case MatchExact:
		updates = diffExact(candItems, runItems)
	default:
		return nil, fmt.Errorf("unknown match policy %q", match)
	}

	if opts.Replace == ReplaceBlock {
		updates = expandToBlocks(updates)
	}

	visited := make(map[string]struct{})
	expanded := make([]*ConfigLine, 0, len(updates))
	for _, item := range updates {
		for _, p := range item.Parents {
			if _, ok := visited[p.Line()]; ok {
				continue
			}
			visited[p.Line()] = struct{}{}
			expanded = append(expanded, p)
		}
		expanded = append(expanded, item)
		visited[item.Line()] = struct{}{}
	}
	return expanded, nil
}

// diffLine keeps a candidate line unless a line with the same absolute form
// exists anywhere in the running scope.
func diffLine(candidate, running []*ConfigLine) []*ConfigLine {
	var updates []*ConfigLine
	for _, c := range candidate {
		if !containsLine(running, c.Line()) {
			updates = append(updates, c)
		}
	}
	return updates
}

// diffStrict additionally requires positional correspondence.
func diffStrict(candidate, running []*ConfigLine) []*ConfigLine {
	var updates []*ConfigLine
	for i, c := range candidate {
		if i >= len(running) || running[i].Line() != c.Line() {
			updates = append(updates, c)
		}
	}
	return updates
}

// diffExact re-emits the whole candidate scope unless it is identical to the
// running scope in length, order and content.
func diffExact(candidate, running []*ConfigLine) []*ConfigLine {
	if len(candidate) != len(running) {
		return append([]*ConfigLine(nil), candidate...)
	}
	for i, c := range candidate {
		if running[i].Line() != c.Line() {
			return append([]*ConfigLine(nil), candidate...)
		}
	}
	return nil
}

// expandToBlocks escalates line updates to their enclosing top level blocks:
// every block containing at least one changed line is re-emitted in full.
func expandToBlocks(updates []*ConfigLine) []*ConfigLine {
	var roots []*ConfigLine
	for _, item := range updates {
		root := item
		if len(item.Parents) > 0 {
			root = item.Parents[0]
		}
		if !containsLine(roots, root.Line()) {
			roots = append(roots, root)
		}
	}
	var out []*ConfigLine
	for _, r := range roots {
		out = append(out, expandBlock(r)...)
	}
	return out
}

func containsLine(lines []*ConfigLine, line string) bool {
	for _, l := range lines {
		if l.Line() == line {
			return true
		}
	}
	return false
}
