package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/secparse/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a secparse configuration file and print the settings it produces.

Checks:
  - YAML syntax
  - Allowed values for log_level, output and input.format
  - Regex validity of input.delimiter

Environment overrides (SECPARSE_FORMAT, SECPARSE_LOG_LEVEL, SECPARSE_DELIMITER)
are applied before validation.`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(cmd.Context(), configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	delim := cfg.Input.Delimiter
	if delim == "" {
		delim = "(format default)"
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Log level:   %s\n", cfg.LogLevel)
	fmt.Fprintf(w, "  Output:      %s\n", cfg.Output)
	fmt.Fprintf(w, "  Format:      %s\n", cfg.Input.Format)
	fmt.Fprintf(w, "  Delimiter:   %s\n", delim)
	fmt.Fprintf(w, "  Allow empty: %t\n", cfg.Input.AllowEmpty)
	fmt.Fprintf(w, "\nRetro:\n")
	fmt.Fprintf(w, "  full=%t deletions=%t space=%t month=%t\n",
		cfg.Retro.Full, cfg.Retro.Deletions, cfg.Retro.Space, cfg.Retro.Month)

	return nil
}
