package netconfig

import (
	"fmt"
	"strings"
)

// SetFormat reports whether text already is a flat set/delete command listing.
func SetFormat(text string) bool {
	return strings.HasPrefix(text, "set") || strings.HasPrefix(text, "delete")
}

// ToSetCommands flattens a hierarchical configuration into absolute
// "set ..." statements, keeping only the most specific form of each line.
func ToSetCommands(nc *NetworkConfig) []string {
	lines := make([]string, 0, len(nc.Items()))
	for _, item := range nc.Items() {
		lines = append(lines, item.Line())
	}
	cmds := FilterMostSpecific(lines)
	for i, cmd := range cmds {
		cmds[i] = "set " + strings.ReplaceAll(cmd, " {", "")
	}
	return cmds
}

// FilterMostSpecific drops a line as soon as a later line extends it, so a
// parent-only statement never survives next to a more specific child
// statement. Order of the surviving lines follows the input.
func FilterMostSpecific(lines []string) []string {
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		for i, entry := range kept {
			if strings.HasPrefix(line, entry) {
				kept = append(kept[:i], kept[i+1:]...)
				break
			}
		}
		kept = append(kept, line)
	}
	return kept
}

// SetDiff reconciles a flat set/delete candidate command list against the
// running command list. Quote characters are ignored for comparison, emitted
// lines keep their original form. A set line is emitted unless present
// verbatim in running. A delete line is emitted when running is empty, or
// when its set form prefixes at least one running line, at most once per
// distinct candidate line.
func SetDiff(candidate, running []string) ([]string, error) {
	stripped := make([]string, 0, len(running))
	for _, r := range running {
		stripped = append(stripped, strings.ReplaceAll(r, "'", ""))
	}

	var updates []string
	visited := make(map[string]struct{})

	for _, line := range candidate {
		item := strings.ReplaceAll(line, "'", "")
		switch {
		case strings.HasPrefix(item, "set"):
			if !containsString(stripped, item) {
				updates = append(updates, line)
			}
		case strings.HasPrefix(item, "delete"):
			if len(stripped) == 0 {
				updates = append(updates, line)
				continue
			}
			want := strings.ReplaceAll(item, "delete", "set")
			for _, entry := range stripped {
				if !strings.HasPrefix(entry, want) {
					continue
				}
				if _, ok := visited[line]; ok {
					continue
				}
				visited[line] = struct{}{}
				updates = append(updates, line)
			}
		default:
			return nil, fmt.Errorf("line must start with either set or delete, got %q", line)
		}
	}
	return updates, nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
