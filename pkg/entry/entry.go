// Package entry defines the canonical record representation shared by every
// input format: a header line naming the record tag followed by aligned
// attribute lines.
package entry

import (
	"fmt"
	"regexp"
	"strings"
)

// AttrWidth is the column width attribute names are padded to. Both the
// renderer and the field extraction patterns are derived from it.
const AttrWidth = 16

// HeaderPrefix starts the first line of every entry built from a tree source.
const HeaderPrefix = "# "

// Entry is one normalized record. It is a block of newline-terminated lines
// and is never modified after it is built.
type Entry string

// Sequence is an ordered list of entries. Order is significant and
// duplicates are allowed.
type Sequence []Entry

// Header returns the first line of the entry without its newline.
func (e Entry) Header() string {
	s := string(e)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSuffix(s, "\r")
}

// Lines splits the entry into lines without line terminators.
func (e Entry) Lines() []string {
	s := strings.TrimSuffix(string(e), "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// String returns the raw entry text.
func (e Entry) String() string {
	return string(e)
}

// Strings returns the raw text of every entry in order.
func (s Sequence) Strings() []string {
	out := make([]string, len(s))
	for i, e := range s {
		out[i] = string(e)
	}
	return out
}

// FormatHeader renders the header line for a record tag.
func FormatHeader(tag string) string {
	return HeaderPrefix + tag + "\n"
}

// FormatAttr renders one attribute line. Names longer than AttrWidth are
// kept whole.
func FormatAttr(name, value string) string {
	return fmt.Sprintf("%-*s: %s\n", AttrWidth, name, value)
}

// FieldPattern returns a pattern that finds the attribute line written by
// FormatAttr for name and captures its value in group 1.
func FieldPattern(name string) *regexp.Regexp {
	pad := AttrWidth - len(name)
	if pad < 0 {
		pad = 0
	}
	return regexp.MustCompile(fmt.Sprintf(`%s\s{%d}:\s(.*)`, regexp.QuoteMeta(name), pad))
}

// Builder accumulates the lines of a single entry.
type Builder struct {
	sb strings.Builder
}

// NewBuilder starts an entry for the given record tag.
func NewBuilder(tag string) *Builder {
	b := &Builder{}
	b.sb.WriteString(FormatHeader(tag))
	return b
}

// Attr appends an attribute line.
func (b *Builder) Attr(name, value string) *Builder {
	b.sb.WriteString(FormatAttr(name, value))
	return b
}

// Entry returns the finished entry.
func (b *Builder) Entry() Entry {
	return Entry(b.sb.String())
}
