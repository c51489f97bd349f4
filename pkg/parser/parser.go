package parser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/ccollicutt/secparse/pkg/entry"
)

// sniffSize is how much of an input is inspected when the format is auto.
const sniffSize = 8 * 1024

// Loader reads inputs in a fixed format and concatenates their entries.
type Loader struct {
	format     Format
	delimiter  string
	pattern    *regexp.Regexp
	allowEmpty bool
	sniffer    Sniffer
	logger     zerolog.Logger

	start map[Format]*regexp.Regexp
}

// Option configures a Loader.
type Option func(*Loader)

// WithDelimiter overrides the record-start pattern of the text formats.
func WithDelimiter(pattern string) Option {
	return func(l *Loader) {
		l.delimiter = pattern
	}
}

// WithStartPattern is WithDelimiter for an already compiled pattern. A nil
// pattern is ignored; a pattern string set with WithDelimiter wins.
func WithStartPattern(re *regexp.Regexp) Option {
	return func(l *Loader) {
		l.pattern = re
	}
}

// WithAllowEmptyLines keeps blank lines inside text records.
func WithAllowEmptyLines(allow bool) Option {
	return func(l *Loader) {
		l.allowEmpty = allow
	}
}

// WithSniffer sets the encoding guesser used for FormatAuto.
func WithSniffer(s Sniffer) Option {
	return func(l *Loader) {
		l.sniffer = s
	}
}

// WithLogger sets the logger for timing and count diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader for the given format.
func NewLoader(format Format, opts ...Option) (*Loader, error) {
	l := &Loader{
		format: format,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}

	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	if format == FormatAuto && l.sniffer == nil {
		return nil, errors.New("auto format requires a sniffer")
	}

	l.start = map[Format]*regexp.Regexp{
		FormatMoquery: regexp.MustCompile(DefaultMarkerPattern),
		FormatText:    regexp.MustCompile(DefaultDelimiterPattern),
	}
	re := l.pattern
	if l.delimiter != "" {
		var err error
		if re, err = regexp.Compile(l.delimiter); err != nil {
			return nil, fmt.Errorf("invalid delimiter: %w", err)
		}
	}
	if re != nil {
		l.start[FormatMoquery] = re
		l.start[FormatText] = re
	}

	return l, nil
}

// Normalizer returns the normalizer for a concrete format.
func (l *Loader) Normalizer(format Format) (Normalizer, error) {
	switch format {
	case FormatMoquery, FormatText:
		return NewTextNormalizer(l.start[format], l.allowEmpty), nil
	case FormatXML:
		return NewXMLNormalizer(), nil
	case FormatJSON:
		return NewJSONNormalizer(), nil
	default:
		return nil, fmt.Errorf("no normalizer for format %q", format)
	}
}

// Load normalizes a single stream. name is used in diagnostics only.
func (l *Loader) Load(ctx context.Context, r io.Reader, name string) (entry.Sequence, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	format := l.format
	if format == FormatAuto {
		sample, err := br.Peek(sniffSize)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		format = l.sniffer.Sniff(sample)
		l.logger.Debug().Str("source", name).Str("format", string(format)).Msg("detected input format")
	}

	n, err := l.Normalizer(format)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	seq, err := n.Normalize(ctx, br)
	if err != nil {
		return nil, fmt.Errorf("parsing %s as %s: %w", name, format, err)
	}

	l.logger.Debug().
		Str("source", name).
		Str("format", string(format)).
		Int("entries", len(seq)).
		Dur("elapsed", time.Since(start)).
		Msg("built entries")

	return seq, nil
}

// LoadFiles normalizes each file in order and concatenates the results.
// Each file is closed before the next one is opened.
func (l *Loader) LoadFiles(ctx context.Context, paths []string) (entry.Sequence, error) {
	var all entry.Sequence
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seq, err := l.loadFile(ctx, path)
		if err != nil {
			return nil, err
		}
		all = append(all, seq...)
	}
	return all, nil
}

func (l *Loader) loadFile(ctx context.Context, path string) (entry.Sequence, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening input file %s: %w", path, err)
	}
	defer f.Close()

	return l.Load(ctx, f, path)
}
