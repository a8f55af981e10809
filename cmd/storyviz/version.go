package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/storyviz"
	"github.com/aretw0/storyviz/internal/presentation/tui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of storyviz",
	Run: func(cmd *cobra.Command, args []string) {
		tui.PrintBanner(cmd.OutOrStdout(), strings.TrimSpace(storyviz.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
