// Package search runs the filter, sort and summarize stages over a
// normalized entry sequence.
package search

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ccollicutt/secparse/pkg/entry"
	"github.com/ccollicutt/secparse/pkg/filter"
	"github.com/ccollicutt/secparse/pkg/retro"
)

// Options configures a single run.
type Options struct {
	Filter filter.Options

	// Retro enables one-line summaries for known record types.
	Retro        bool
	RetroOptions retro.Options

	// Logger receives stage timings at debug level. The zero value logs
	// nothing.
	Logger *zerolog.Logger
}

// Stats counts what each stage saw.
type Stats struct {
	Entries     int `json:"entries"`
	Matches     int `json:"matches"`
	SortMatches int `json:"sort_matches"`
	Output      int `json:"output"`
}

// Result is the outcome of Run. Exactly one of Entries or Lines is the
// output: Lines when Summarized is true, Entries otherwise.
type Result struct {
	Entries    entry.Sequence
	Lines      []string
	Summarized bool
	RecordType retro.RecordType
	Stats      Stats
}

// Run filters and sorts seq, then summarizes it when retro mode is on and
// the record type of the first remaining entry is known.
func Run(ctx context.Context, seq entry.Sequence, opts Options) (*Result, error) {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	f, err := filter.New(opts.Filter)
	if err != nil {
		return nil, err
	}

	result := &Result{Stats: Stats{Entries: len(seq)}}

	start := time.Now()
	matched, n := f.Match(seq)
	result.Stats.Matches = n
	logger.Debug().
		Int("entries", len(seq)).
		Int("matches", n).
		Dur("elapsed", time.Since(start)).
		Msg("regex matching complete")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Record type comes from the first entry before sorting reorders them.
	if opts.Retro && len(matched) > 0 {
		result.RecordType = retro.Detect(matched[0])
	}

	start = time.Now()
	sorted, keyed := f.Sort(matched)
	result.Stats.SortMatches = keyed
	if opts.Filter.SortPattern != "" {
		logger.Debug().
			Int("sort_matches", keyed).
			Dur("elapsed", time.Since(start)).
			Msg("sorting complete")
	}
	result.Entries = sorted

	if !opts.Retro || len(sorted) == 0 {
		result.Stats.Output = len(result.Entries)
		return result, nil
	}

	if result.RecordType == retro.Unknown {
		logger.Warn().Msg("unable to determine record type, printing entries as-is")
		result.Stats.Output = len(result.Entries)
		return result, nil
	}

	start = time.Now()
	lines, err := retro.Summarize(sorted, result.RecordType, opts.RetroOptions)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Str("record_type", result.RecordType.String()).
		Int("lines", len(lines)).
		Dur("elapsed", time.Since(start)).
		Msg("summary complete")

	result.Lines = lines
	result.Summarized = true
	result.Stats.Output = len(lines)
	return result, nil
}
