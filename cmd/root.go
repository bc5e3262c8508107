// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-contrib-badges/internal/clierr"
)

// version is set at build time with -ldflags "-X .../cmd.version=...".
var version = "0.0.0-dev"

// NewRootCmd constructs the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contrib-badges",
		Short: "Count GitHub contributions and render them as badges.",
		Long: `contrib-badges reads a list of GitHub pull request and commit links,
counts the contributions of the user behind each link per repository and
renders the counts as shields.io badges, an HTML snippet, JSON or a table.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add a persistent flag for verbose output, available to all commands.
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "contrib-badges version %s\n", version)
		},
	})
	cmd.AddCommand(newCountCmd())

	return cmd
}

// Execute runs the root command and exits with the code carried by its error.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(clierr.ExitCodeOf(err))
	}
}
