package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/storyviz/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "storyviz",
	Short: "Visualize dialogue training stories as a flow graph",
	Long: `storyviz reads a policy configuration, a domain and Markdown training stories,
merges the stories into a single dialogue flow graph and writes it to a file
(HTML, Mermaid, Markdown or Graphviz DOT) that is opened in the browser.

Running storyviz without a subcommand is the same as "storyviz visualize".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runVisualize,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Be verbose. Sets logging level to INFO")
	rootCmd.PersistentFlags().Bool("debug", false, "Print lots of debugging statements. Sets logging level to DEBUG")
	rootCmd.PersistentFlags().Bool("quiet", false, "Only print errors. Sets logging level to ERROR")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable coloured log output")

	addVisualizeFlags(rootCmd)
}

// newLogger builds the logger from the persistent logging flags.
func newLogger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	debug, _ := cmd.Flags().GetBool("debug")
	quiet, _ := cmd.Flags().GetBool("quiet")
	noColor, _ := cmd.Flags().GetBool("no-color")

	return logging.NewWithOptions(logging.LevelFromFlags(verbose, debug, quiet), logging.Options{
		Writer:  cmd.ErrOrStderr(),
		NoColor: noColor,
	})
}
