package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for wcagcatalog. Run without a
// subcommand it behaves like generate.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wcagcatalog",
		Short: "Build a machine-readable catalog of WCAG test pages",
		Long: `wcagcatalog scans a directory of accessibility test pages and writes a
single catalog (test-catalog.json) describing every test page listed on the
master index: its WCAG criteria, conformance level, category, layout and
expected results.

Run without a subcommand it generates the catalog for the current directory.`,
		Version:       getVersion(),
		Args:          cobra.NoArgs,
		RunE:          runGenerateCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	addGenerateFlags(cmd)

	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
