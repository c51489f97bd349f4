// Package retro reduces event, audit (aaaModLR) and fault records to one
// summary line each.
//
// Field values are located with patterns derived from entry.AttrWidth, so
// they only match attribute lines aligned the way entries are rendered.
package retro

import (
	"errors"
	"strings"

	"github.com/ccollicutt/secparse/pkg/entry"
)

// RecordType identifies which summary layout applies to a sequence.
type RecordType int

const (
	// Unknown means no layout applies; entries are shown as-is.
	Unknown RecordType = iota
	// Event is an eventRecord.
	Event
	// AccountAction is an aaaModLR audit record.
	AccountAction
	// Fault is a faultRecord or faultInst.
	Fault
)

// String returns the name used in logs and JSON output.
func (t RecordType) String() string {
	switch t {
	case Event:
		return "event"
	case AccountAction:
		return "aaa"
	case Fault:
		return "fault"
	default:
		return "unknown"
	}
}

// unknownValue is the value of any field not found in a record.
const unknownValue = "unknown"

// ErrUnknownRecordType is returned by Summarize for the Unknown type.
var ErrUnknownRecordType = errors.New("unable to determine record type")

// detectOrder is the order header markers are tested in.
var detectOrder = []RecordType{AccountAction, Event, Fault}

// Detect infers the record type from the header line of e.
func Detect(e entry.Entry) RecordType {
	header := e.Header()
	for _, t := range detectOrder {
		for _, marker := range layouts[t].markers {
			if strings.Contains(header, marker) {
				return t
			}
		}
	}
	return Unknown
}

// Options controls rendering and post-processing of summary lines.
type Options struct {
	// Full disables truncation of the affected object.
	Full bool

	// ShowDeletions keeps faults whose ind is "deletion".
	ShowDeletions bool

	// Space separates lines more than SpaceGap apart with a blank line.
	Space bool

	// Month spells out the month of a leading date.
	Month bool
}

// Summarize renders one line per entry using the layout for t, then applies
// the Space and Month passes if requested.
func Summarize(seq entry.Sequence, t RecordType, opts Options) ([]string, error) {
	l, ok := layouts[t]
	if !ok {
		return nil, ErrUnknownRecordType
	}

	lines := make([]string, 0, len(seq))
	for _, e := range seq {
		v := l.extract(e, opts.Full)
		if line, keep := l.render(v, opts); keep {
			lines = append(lines, line)
		}
	}

	if opts.Space {
		lines = Space(lines)
	}
	if opts.Month {
		for i, line := range lines {
			lines[i] = Month(line)
		}
	}

	return lines, nil
}
