package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/secparse/internal/logging"
	"github.com/ccollicutt/secparse/pkg/config"
	"github.com/ccollicutt/secparse/pkg/detector"
	"github.com/ccollicutt/secparse/pkg/entry"
	"github.com/ccollicutt/secparse/pkg/parser"
)

// stdinName labels standard input in diagnostics.
const stdinName = "<stdin>"

// errInteractive is returned when input would be read from a terminal.
var errInteractive = errors.New("no input: standard input is a terminal")

// GlobalOptions holds the persistent flags of the root command.
type GlobalOptions struct {
	ConfigPath string
	LogLevel   string
}

// env is the per-invocation state shared by commands.
type env struct {
	ctx    context.Context
	cfg    *config.Config
	logger zerolog.Logger
}

// setup loads the configuration and builds the logger. --debug wins over
// the configured log level.
func (g *GlobalOptions) setup(cmd *cobra.Command) (*env, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx, g.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level := cfg.LogLevel
	if g.LogLevel != "" {
		level = g.LogLevel
	}
	logger, err := logging.New(level, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	return &env{ctx: ctx, cfg: cfg, logger: logger}, nil
}

// InputOptions holds the flags that control normalization.
type InputOptions struct {
	Format     string
	Delimiter  string
	AllowEmpty bool

	// startPattern is the configured delimiter, compiled by config.Validate.
	startPattern *regexp.Regexp
}

func addInputFlags(cmd *cobra.Command, opts *InputOptions) {
	cmd.Flags().StringVarP(&opts.Format, "format", "f", config.DefaultFormat, "Input format (moquery|text|xml|json|auto)")
	cmd.Flags().StringVar(&opts.Delimiter, "delim", "", "Record start regex for text input")
	cmd.Flags().BoolVar(&opts.AllowEmpty, "allow-empty", false, "Keep blank lines inside text records")
}

// merge fills options that were not set on the command line from cfg.
func (o *InputOptions) merge(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("format") {
		o.Format = cfg.Input.Format
	}
	if !flags.Changed("delim") {
		o.Delimiter = ""
		o.startPattern = cfg.Input.CompiledDelimiter()
	}
	if !flags.Changed("allow-empty") {
		o.AllowEmpty = cfg.Input.AllowEmpty
	}
}

func (o *InputOptions) loader(logger zerolog.Logger) (*parser.Loader, error) {
	format, err := parser.ParseFormat(o.Format)
	if err != nil {
		return nil, err
	}
	return parser.NewLoader(format,
		parser.WithDelimiter(o.Delimiter),
		parser.WithStartPattern(o.startPattern),
		parser.WithAllowEmptyLines(o.AllowEmpty),
		parser.WithSniffer(detector.New()),
		parser.WithLogger(logger),
	)
}

// readInput normalizes the named files, or standard input when there are
// none. It returns errInteractive if standard input is a terminal.
func readInput(cmd *cobra.Command, e *env, opts *InputOptions, args []string) (entry.Sequence, error) {
	loader, err := opts.loader(e.logger)
	if err != nil {
		return nil, err
	}

	if len(args) == 0 {
		in := cmd.InOrStdin()
		if logging.IsTerminal(in) {
			return nil, errInteractive
		}
		return loader.Load(e.ctx, in, stdinName)
	}

	paths, err := parser.ExpandPaths(args)
	if err != nil {
		return nil, err
	}
	e.logger.Debug().Strs("paths", paths).Msg("expanded inputs")

	return loader.LoadFiles(e.ctx, paths)
}

func restoreFile(path string) (entry.Sequence, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening restore file: %w", err)
	}
	defer f.Close()

	return entry.Restore(f)
}
