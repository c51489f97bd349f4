package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/secparse/pkg/entry"
)

// DumpOptions holds command-line options for the dump command.
type DumpOptions struct {
	Input InputOptions
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(global *GlobalOptions) *cobra.Command {
	opts := &DumpOptions{}

	cmd := &cobra.Command{
		Use:   "dump [file|dir|glob ...]",
		Short: "Write normalized entries as a JSON bundle",
		Long: `Normalize the input and print it as {"entries": [...]}.

The bundle can be read back with 'secparse search --restore <file>',
skipping normalization.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, args, global, opts)
		},
	}

	addInputFlags(cmd, &opts.Input)

	return cmd
}

func runDump(cmd *cobra.Command, args []string, global *GlobalOptions, opts *DumpOptions) error {
	e, err := global.setup(cmd)
	if err != nil {
		return err
	}
	opts.Input.merge(cmd, e.cfg)

	seq, err := readInput(cmd, e, &opts.Input, args)
	if errors.Is(err, errInteractive) {
		return cmd.Usage()
	}
	if err != nil {
		return err
	}

	return entry.Dump(cmd.OutOrStdout(), seq)
}
