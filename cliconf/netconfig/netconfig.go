package netconfig

import (
	"fmt"
	"regexp"
	"strings"
)

var commentTokens = []string{"!", "#", "/*", "*/"}

// noise lines some platforms prepend to their configuration output
var defaultIgnoreLines = []*regexp.Regexp{
	regexp.MustCompile(`^Using \d+ out of \d+ bytes`),
	regexp.MustCompile(`^Building configuration`),
	regexp.MustCompile(`^Current configuration : \d+ bytes`),
}

var structural = strings.NewReplacer("{", "", "}", "", ";", "")

// ConfigLine is a single configuration statement together with its position
// in the hierarchy. Text is the comparable form, stripped of indentation and
// structural characters, Raw is the line as read. Parents are ordered
// outermost first.
type ConfigLine struct {
	Text     string
	Raw      string
	Parents  []*ConfigLine
	Children []*ConfigLine
}

// Line returns the absolute form of the statement: all ancestor texts
// followed by the statement text, joined with single spaces.
func (c *ConfigLine) Line() string {
	parts := make([]string, 0, len(c.Parents)+1)
	for _, p := range c.Parents {
		parts = append(parts, p.Text)
	}
	parts = append(parts, c.Text)
	return strings.Join(parts, " ")
}

func (c *ConfigLine) parentTexts() []string {
	texts := make([]string, 0, len(c.Parents))
	for _, p := range c.Parents {
		texts = append(texts, p.Text)
	}
	return texts
}

// NetworkConfig holds a parsed line-oriented configuration.
type NetworkConfig struct {
	indent      int
	items       []*ConfigLine
	ignoreLines []*regexp.Regexp
}

// New returns an empty NetworkConfig. indent is the number of leading spaces
// that make up one nesting level in the source text.
func New(indent int) *NetworkConfig {
	if indent < 1 {
		indent = 1
	}
	return &NetworkConfig{indent: indent}
}

// WithIgnoreLines adds patterns for lines to be dropped while parsing, on top
// of the default noise patterns. Patterns are matched against the start of
// the stripped line text.
func (nc *NetworkConfig) WithIgnoreLines(patterns []string) error {
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("invalid ignore pattern %q: %v", p, err)
		}
		nc.ignoreLines = append(nc.ignoreLines, re)
	}
	return nil
}

// LoadString parses s, replacing any previously loaded content.
func (nc *NetworkConfig) LoadString(s string) {
	nc.items = nc.parse(s)
}

// Items returns the parsed lines in source order.
func (nc *NetworkConfig) Items() []*ConfigLine {
	return nc.items
}

func (nc *NetworkConfig) parse(content string) []*ConfigLine {
	var (
		ancestors []*ConfigLine
		items     []*ConfigLine
		curlevel  int
		prevlevel int
	)

	for _, raw := range strings.Split(content, "\n") {
		text := strings.TrimSpace(structural.Replace(raw))
		if text == "" || nc.skip(text) {
			continue
		}
		cfg := &ConfigLine{Text: text, Raw: raw}

		indent := indentOf(raw)
		if indent == 0 {
			ancestors = []*ConfigLine{cfg}
			prevlevel = curlevel
			curlevel = 0
			items = append(items, cfg)
			continue
		}

		prevlevel = curlevel
		curlevel = indent / nc.indent
		// indentation smaller than one unit still nests below the
		// previous line
		if curlevel == 0 {
			curlevel = 1
		}
		// a jump of more than one level deeper is clamped to one
		if curlevel-1 > prevlevel {
			curlevel = prevlevel + 1
		}

		n := curlevel
		if n > len(ancestors) {
			n = len(ancestors)
		}
		cfg.Parents = append([]*ConfigLine(nil), ancestors[:n]...)

		// indented line without enough ancestors, keep it but leave it unlinked
		if curlevel > len(ancestors) {
			items = append(items, cfg)
			continue
		}

		ancestors = append(ancestors[:curlevel], cfg)
		parent := cfg.Parents[len(cfg.Parents)-1]
		parent.Children = append(parent.Children, cfg)
		items = append(items, cfg)
	}
	return items
}

func (nc *NetworkConfig) skip(text string) bool {
	for _, tok := range commentTokens {
		if strings.HasPrefix(text, tok) {
			return true
		}
	}
	for _, re := range defaultIgnoreLines {
		if re.MatchString(text) {
			return true
		}
	}
	for _, re := range nc.ignoreLines {
		if loc := re.FindStringIndex(text); loc != nil && loc[0] == 0 {
			return true
		}
	}
	return false
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// Block returns the subtree addressed by path: the line whose ancestor texts
// equal all but the last path element and whose own text equals the last,
// followed by all of its descendants in source order.
func (nc *NetworkConfig) Block(path []string) ([]*ConfigLine, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("path must contain at least one element")
	}
	obj := nc.object(path)
	if obj == nil {
		return nil, fmt.Errorf("path %q does not exist in config", strings.Join(path, " "))
	}
	return expandBlock(obj), nil
}

func (nc *NetworkConfig) object(path []string) *ConfigLine {
	want := path[len(path)-1]
	parents := path[:len(path)-1]
	for _, item := range nc.items {
		if item.Text != want {
			continue
		}
		if equalStrings(item.parentTexts(), parents) {
			return item
		}
	}
	return nil
}

func expandBlock(c *ConfigLine) []*ConfigLine {
	block := []*ConfigLine{c}
	for _, child := range c.Children {
		block = append(block, expandBlock(child)...)
	}
	return block
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Dump formats accepted by Dumps.
const (
	DumpCommands = "commands"
	DumpBlock    = "block"
)

// Dumps renders lines as text, one statement per line. DumpCommands uses the
// stripped texts, DumpBlock the raw lines.
func Dumps(lines []*ConfigLine, format string) string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		switch format {
		case DumpBlock:
			out = append(out, l.Raw)
		default:
			out = append(out, l.Text)
		}
	}
	return strings.Join(out, "\n")
}
