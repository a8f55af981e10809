package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/storyviz"
	"github.com/aretw0/storyviz/internal/validator"
	"github.com/aretw0/storyviz/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check stories against the domain",
	Long: `Reports intents and actions missing from the domain, checkpoints that are
never continued and stories that can never be reached. Exits with status 1
when any issue is found.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)

		in, err := readInputs(cmd)
		if err != nil {
			return err
		}
		defer in.Close()

		policies, err := config.Load(in.ConfigPath)
		if err != nil {
			return err
		}
		agent, err := storyviz.New(in.DomainPath, policies, storyviz.WithLogger(logger))
		if err != nil {
			return err
		}

		steps, err := agent.Steps(cmd.Context(), in.Stories)
		if err != nil {
			return err
		}
		if err := validator.ValidateStories(agent.Domain, steps); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d story steps are valid\n", len(steps))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addInputFlags(validateCmd, true)
}
