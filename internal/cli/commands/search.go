package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/secparse/pkg/config"
	"github.com/ccollicutt/secparse/pkg/entry"
	"github.com/ccollicutt/secparse/pkg/filter"
	"github.com/ccollicutt/secparse/pkg/output"
	"github.com/ccollicutt/secparse/pkg/retro"
	"github.com/ccollicutt/secparse/pkg/search"
)

// SearchOptions holds command-line options for the search command.
type SearchOptions struct {
	Input InputOptions

	Regex      string
	Negative   bool
	IgnoreCase bool
	Sort       string
	SortRegex  string
	Restore    string

	Retro     bool
	Full      bool
	Deletions bool
	Space     bool
	Month     bool

	Output  string
	Verbose bool
}

// NewSearchCommand creates the search command.
func NewSearchCommand(global *GlobalOptions) *cobra.Command {
	opts := &SearchOptions{}

	cmd := &cobra.Command{
		Use:     "search [file|dir|glob ...]",
		Aliases: []string{"s"},
		Short:   "Filter, sort and summarize record dumps",
		Long: `Normalize moquery text, XML or JSON output into entries, then filter,
sort and optionally summarize them.

Input is read from the given files, directories or globs, or from standard
input when none are given.

Retro mode prints one line per eventRecord, aaaModLR or faultRecord entry:
  event:  created severity trig %affected: ""descr""
  aaa:    created user %affected: ""descr""
  fault:  created code 'lc' origSeverity/severity %affected: ""descr""

Example:
  moquery -c aaaModLR | secparse search --retro
  secparse search -r 'tn-prod' --sort dn faults.xml
  secparse search -f json --retro --space --month events.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args, global, opts)
		},
	}

	addInputFlags(cmd, &opts.Input)

	cmd.Flags().StringVarP(&opts.Regex, "regex", "r", "", "Only show entries matching this regex")
	cmd.Flags().BoolVar(&opts.Negative, "negative", false, "Only show entries NOT matching --regex")
	cmd.Flags().BoolVarP(&opts.IgnoreCase, "ignore-case", "i", false, "Case-insensitive --regex")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "Sort entries by the value of this attribute")
	cmd.Flags().StringVar(&opts.SortRegex, "sortr", "", "Sort entries by the text matching this regex")
	cmd.Flags().StringVar(&opts.Restore, "restore", "", "Read entries from a dump file instead of parsing input")

	cmd.Flags().BoolVar(&opts.Retro, "retro", false, "Summarize event, aaaModLR and fault records")
	cmd.Flags().BoolVar(&opts.Full, "full", false, "Do not truncate the affected object in retro mode")
	cmd.Flags().BoolVar(&opts.Deletions, "deletion", false, "Include fault deletions in retro mode")
	cmd.Flags().BoolVar(&opts.Space, "space", false, "Separate retro lines at least 3s apart with a blank line")
	cmd.Flags().BoolVar(&opts.Month, "month", false, "Spell out the month in retro timestamps")

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include stage counters in JSON output")

	cmd.MarkFlagsMutuallyExclusive("sort", "sortr")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string, global *GlobalOptions, opts *SearchOptions) error {
	e, err := global.setup(cmd)
	if err != nil {
		return err
	}
	opts.Input.merge(cmd, e.cfg)
	opts.mergeRetro(cmd, e.cfg.Retro)
	if !cmd.Flags().Changed("output") {
		opts.Output = e.cfg.Output
	}

	formatter, err := output.New(opts.Output, output.FormatOptions{Verbose: opts.Verbose})
	if err != nil {
		return err
	}

	var seq entry.Sequence
	if opts.Restore != "" {
		seq, err = restoreFile(opts.Restore)
	} else {
		seq, err = readInput(cmd, e, &opts.Input, args)
	}
	if errors.Is(err, errInteractive) {
		return cmd.Usage()
	}
	if err != nil {
		return err
	}

	result, err := search.Run(e.ctx, seq, opts.searchOptions(e))
	if err != nil {
		return err
	}

	e.logger.Debug().
		Int("entries", result.Stats.Entries).
		Int("matches", result.Stats.Matches).
		Int("output", result.Stats.Output).
		Msg("search complete")

	if err := formatter.Format(e.ctx, result, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	return nil
}

// mergeRetro takes retro settings from the config unless set on the
// command line.
func (o *SearchOptions) mergeRetro(cmd *cobra.Command, rc config.RetroConfig) {
	flags := cmd.Flags()
	if !flags.Changed("full") {
		o.Full = rc.Full
	}
	if !flags.Changed("deletion") {
		o.Deletions = rc.Deletions
	}
	if !flags.Changed("space") {
		o.Space = rc.Space
	}
	if !flags.Changed("month") {
		o.Month = rc.Month
	}
}

func (o *SearchOptions) searchOptions(e *env) search.Options {
	f := filter.Options{
		Pattern:    o.Regex,
		IgnoreCase: o.IgnoreCase,
		Invert:     o.Negative,
	}
	switch {
	case o.Sort != "":
		f.SortPattern = filter.SortByAttribute(o.Sort)
	case o.SortRegex != "":
		f.SortPattern = filter.SortByRegex(o.SortRegex)
	}

	return search.Options{
		Filter: f,
		Retro:  o.Retro,
		RetroOptions: retro.Options{
			Full:          o.Full,
			ShowDeletions: o.Deletions,
			Space:         o.Space,
			Month:         o.Month,
		},
		Logger: &e.logger,
	}
}
