// Package filter selects entries by regular expression and orders them into
// buckets keyed by a captured value.
package filter

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/maruel/natural"

	"github.com/ccollicutt/secparse/pkg/entry"
)

// SortGroup is the named capture group a sort pattern must define.
const SortGroup = "key"

// Options describes which entries to keep and how to order them.
type Options struct {
	// Pattern selects entries whose full text matches. Empty keeps all.
	Pattern string

	// IgnoreCase makes Pattern case-insensitive.
	IgnoreCase bool

	// Invert keeps entries that do not match Pattern. It has no effect
	// without a Pattern.
	Invert bool

	// SortPattern groups entries by the value of its SortGroup capture.
	SortPattern string
}

// SortByAttribute builds a sort pattern keyed on an attribute's value.
func SortByAttribute(name string) string {
	return fmt.Sprintf(`%s[ \t]*:[ \t]*(?P<%s>[^ \n]+)`, name, SortGroup)
}

// SortByRegex builds a sort pattern keyed on whatever re matches.
func SortByRegex(re string) string {
	return fmt.Sprintf(`(?P<%s>%s)`, SortGroup, re)
}

// Filter applies compiled Options.
type Filter struct {
	match  *regexp.Regexp
	invert bool
	sort   *regexp.Regexp
	group  int
}

// New compiles the options.
func New(opts Options) (*Filter, error) {
	f := &Filter{invert: opts.Invert}

	if opts.Pattern != "" {
		pattern := opts.Pattern
		if opts.IgnoreCase {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex: %w", err)
		}
		f.match = re
	}

	if opts.SortPattern != "" {
		re, err := regexp.Compile(opts.SortPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid sort pattern: %w", err)
		}
		f.group = re.SubexpIndex(SortGroup)
		if f.group < 0 {
			return nil, fmt.Errorf("sort pattern %q has no (?P<%s>...) group", opts.SortPattern, SortGroup)
		}
		f.sort = re
	}

	return f, nil
}

// Match returns the entries selected by the pattern, in input order, and
// how many entries the pattern matched.
func (f *Filter) Match(seq entry.Sequence) (entry.Sequence, int) {
	if f.match == nil {
		return seq, len(seq)
	}

	var (
		out     entry.Sequence
		matches int
	)
	for _, e := range seq {
		matched := f.match.MatchString(string(e))
		if matched {
			matches++
		}
		if matched != f.invert {
			out = append(out, e)
		}
	}
	return out, matches
}

// Sort orders entries by sort key. Entries without a key come first in
// input order, then each bucket in natural key order; entries within a
// bucket keep their input order. It also returns how many entries had a key.
func (f *Filter) Sort(seq entry.Sequence) (entry.Sequence, int) {
	if f.sort == nil {
		return seq, 0
	}

	var unsorted entry.Sequence
	buckets := make(map[string]entry.Sequence)
	for _, e := range seq {
		m := f.sort.FindStringSubmatch(string(e))
		if m == nil {
			unsorted = append(unsorted, e)
			continue
		}
		key := m[f.group]
		buckets[key] = append(buckets[key], e)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return natural.Less(keys[i], keys[j])
	})

	out := make(entry.Sequence, 0, len(seq))
	out = append(out, unsorted...)
	for _, k := range keys {
		out = append(out, buckets[k]...)
	}
	return out, len(seq) - len(unsorted)
}
