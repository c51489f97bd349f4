package parser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ccollicutt/secparse/pkg/entry"
)

// TextNormalizer splits a line stream into entries at lines matching a
// start pattern.
type TextNormalizer struct {
	start      *regexp.Regexp
	allowEmpty bool
}

// NewTextNormalizer creates a normalizer for marker-delimited text.
func NewTextNormalizer(start *regexp.Regexp, allowEmpty bool) *TextNormalizer {
	return &TextNormalizer{start: start, allowEmpty: allowEmpty}
}

// Normalize reads r to the end. Lines before the first start line are
// dropped, a blank line closes the current entry unless empty lines are
// allowed, and an entry still open at EOF is kept.
func (n *TextNormalizer) Normalize(ctx context.Context, r io.Reader) (entry.Sequence, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	var (
		seq     entry.Sequence
		current *strings.Builder
		lineNum int
	)

	flush := func() {
		if current != nil {
			seq = append(seq, entry.Entry(current.String()))
			current = nil
		}
	}

	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading line %d: %w", lineNum+1, err)
		}
		if line == "" && err != nil {
			break
		}
		lineNum++
		if lineNum%4096 == 0 {
			if cerr := ctx.Err(); cerr != nil {
				return nil, cerr
			}
		}

		if strings.HasSuffix(line, "\r\n") {
			line = line[:len(line)-2] + "\n"
		}

		// RE2 "$" only matches at end of text, so match without the newline.
		switch {
		case n.start.MatchString(strings.TrimSuffix(line, "\n")):
			flush()
			current = &strings.Builder{}
			current.WriteString(line)
		case current == nil:
			// Not inside a record yet.
		case !n.allowEmpty && strings.TrimSpace(line) == "":
			flush()
		default:
			current.WriteString(line)
		}

		if err != nil {
			break
		}
	}

	flush()
	return seq, nil
}
