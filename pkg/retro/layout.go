package retro

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ccollicutt/secparse/pkg/entry"
)

type fieldKind int

const (
	plainField fieldKind = iota
	createdField
	affectedField
	changeSetField
)

// field is one named value of a record. trigger is the substring a line must
// contain before pattern is tried on it.
type field struct {
	name    string
	trigger string
	kind    fieldKind
	pattern *regexp.Regexp
}

func newField(name, trigger string, kind fieldKind) field {
	return field{
		name:    name,
		trigger: trigger,
		kind:    kind,
		pattern: entry.FieldPattern(name),
	}
}

// truncation shortens long affected values. Events and faults keep the
// first limit characters behind a leading ellipsis, audit records put the
// ellipsis after them.
type truncation struct {
	limit        int
	leadEllipsis bool
}

func (tr truncation) apply(s string) string {
	r := []rune(s)
	if len(r) < tr.limit {
		return s
	}
	if tr.leadEllipsis {
		return "..." + string(r[:tr.limit])
	}
	return string(r[:tr.limit]) + "..."
}

type values map[string]string

// layout describes how one record type is parsed and printed.
type layout struct {
	markers  []string
	fields   []field
	truncate truncation
	format   func(v values, opts Options) (string, bool)
}

var layouts = map[RecordType]*layout{
	Event: {
		markers: []string{"# eventRecord"},
		fields: []field{
			newField("created", "created", createdField),
			newField("severity", "severity", plainField),
			newField("trig", "trig", plainField),
			newField("affected", "affected", affectedField),
			newField("descr", "descr", plainField),
			newField("changeSet", "changeSet", changeSetField),
		},
		truncate: truncation{limit: 40, leadEllipsis: true},
		format: func(v values, _ Options) (string, bool) {
			line := fmt.Sprintf(`%s %s %s %%%s: ""%s""`,
				v["created"], v["severity"], v["trig"], v["affected"], v["descr"])
			return withChangeSet(line, v), true
		},
	},
	AccountAction: {
		markers: []string{"# aaaModLR"},
		fields: []field{
			newField("created", "created", createdField),
			newField("user", "user", plainField),
			newField("affected", "affected", affectedField),
			newField("descr", "descr", plainField),
			newField("changeSet", "changeSet", changeSetField),
		},
		truncate: truncation{limit: 50},
		format: func(v values, _ Options) (string, bool) {
			user := strings.TrimPrefix(v["user"], "remote_user-")
			line := fmt.Sprintf(`%s %s %%%s: ""%s""`,
				v["created"], user, v["affected"], v["descr"])
			return withChangeSet(line, v), true
		},
	},
	Fault: {
		markers: []string{"# faultRecord", "# faultInst"},
		// Trigger substrings and their order decide which lines are read;
		// "lc  " for instance also appears inside unrelated attributes.
		fields: []field{
			newField("created", "created", createdField),
			newField("ind", "ind   ", plainField),
			newField("code", "code  ", plainField),
			newField("origSeverity", "origSeverity", plainField),
			newField("severity", "severity  ", plainField),
			newField("lc", "lc  ", plainField),
			newField("affected", "affected  ", affectedField),
			newField("descr", "descr  ", plainField),
			newField("changeSet", "changeSet", changeSetField),
		},
		truncate: truncation{limit: 40, leadEllipsis: true},
		format: func(v values, opts Options) (string, bool) {
			if v["ind"] == "deletion" && !opts.ShowDeletions {
				return "", false
			}
			line := fmt.Sprintf(`%s %s '%s' %s/%s %%%s: ""%s""`,
				v["created"], v["code"], v["lc"], v["origSeverity"], v["severity"], v["affected"], v["descr"])
			return withChangeSet(line, v), true
		},
	},
}

func withChangeSet(line string, v values) string {
	if cs := v["changeSet"]; strings.TrimSpace(cs) != unknownValue {
		return line + " == " + cs
	}
	return line
}

func (l *layout) reset() values {
	v := make(values, len(l.fields))
	for _, f := range l.fields {
		v[f.name] = unknownValue
	}
	return v
}

func (l *layout) isMarker(line string) bool {
	for _, m := range l.markers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// extract reads the fields of one entry. Every entry starts from unknown
// values, and a header line resets them again.
func (l *layout) extract(e entry.Entry, full bool) values {
	v := l.reset()
	for _, line := range e.Lines() {
		if l.isMarker(line) {
			v = l.reset()
			continue
		}
		for _, f := range l.fields {
			if !strings.Contains(line, f.trigger) {
				continue
			}
			m := f.pattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			val := m[1]
			switch f.kind {
			case createdField:
				val = reformatCreated(val)
			case affectedField:
				if !full {
					val = l.truncate.apply(val)
				}
			case changeSetField:
				if strings.TrimSpace(val) == "" {
					continue
				}
			}
			v[f.name] = val
		}
	}
	return v
}

func (l *layout) render(v values, opts Options) (string, bool) {
	return l.format(v, opts)
}

// reformatCreated turns 2021-01-02T03:04:05.123+00:00 into
// 2021-01-02 03:04:05.123.
func reformatCreated(raw string) string {
	return substr(raw, 0, 10) + " " + substr(raw, 11, 23)
}

// substr returns runes [i, j) of s, clamped to its length.
func substr(s string, i, j int) string {
	r := []rune(s)
	if i > len(r) {
		i = len(r)
	}
	if j > len(r) {
		j = len(r)
	}
	return string(r[i:j])
}
