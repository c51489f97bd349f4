// Package cli provides the command-line interface for secparse.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/secparse/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	global := &commands.GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "secparse",
		Short: "Filter and summarize network device record dumps",
		Long: `secparse normalizes moquery text, XML and JSON output into a uniform list
of entries that can be filtered by regex, sorted by attribute and reduced
to one-line summaries of events, audit logs and faults.

Configuration is read from --config (YAML) and SECPARSE_* environment
variables; command-line flags take precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&global.ConfigPath, "config", "", "Configuration file (YAML)")
	rootCmd.PersistentFlags().StringVar(&global.LogLevel, "debug", "", "Log level (debug|info|warn|error)")

	// Add subcommands
	rootCmd.AddCommand(commands.NewSearchCommand(global))
	rootCmd.AddCommand(commands.NewDumpCommand(global))
	rootCmd.AddCommand(commands.NewDetectCommand(global))
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
