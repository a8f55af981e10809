package main

import (
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/storyviz/internal/cli"
	"github.com/aretw0/storyviz/pkg/domain"
)

// addInputFlags registers the flags describing what to visualize.
// storiesRequired makes one of --stories/--url mandatory.
func addInputFlags(cmd *cobra.Command, storiesRequired bool) {
	cmd.Flags().StringP("config", "c", "", "The policy and NLU pipeline configuration of your bot")
	cmd.Flags().StringP("domain", "d", "", "Domain specification (yml file)")
	cmd.Flags().StringP("stories", "s", "", "File, directory or glob containing your training stories")
	cmd.Flags().String("url", "", "URL from which to retrieve training stories")
	cmd.Flags().String("nlu-data", "", "File or folder containing your NLU training data; examples replace intent names in the graph")
	cmd.Flags().Var(cli.NewPositiveInt(cli.DefaultMaxHistory), "max-history", "Max history to consider when merging paths in the output graph")

	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("domain")
	_ = cmd.MarkFlagFilename("config", "yml", "yaml")
	_ = cmd.MarkFlagFilename("domain", "yml", "yaml")
	cmd.MarkFlagsMutuallyExclusive("stories", "url")
	if storiesRequired {
		cmd.MarkFlagsOneRequired("stories", "url")
	}
}

// inputs is what addInputFlags collects.
type inputs struct {
	ConfigPath  string
	DomainPath  string
	NLUDataPath string
	MaxHistory  int
	Stories     domain.StoriesSource
	cleanup     func()
}

// readInputs resolves the input flags, downloading --url if given.
// Callers must invoke Close when done.
func readInputs(cmd *cobra.Command) (*inputs, error) {
	in := &inputs{cleanup: func() {}}
	in.ConfigPath, _ = cmd.Flags().GetString("config")
	in.DomainPath, _ = cmd.Flags().GetString("domain")
	in.NLUDataPath, _ = cmd.Flags().GetString("nlu-data")
	in.MaxHistory = cmd.Flags().Lookup("max-history").Value.(*cli.PositiveInt).Int()

	stories, _ := cmd.Flags().GetString("stories")
	url, _ := cmd.Flags().GetString("url")
	if stories == "" && url == "" {
		return in, nil
	}

	client := &http.Client{Timeout: 60 * time.Second}
	src, err := cli.StoriesFromArgs(cmd.Context(), stories, url, client)
	if err != nil {
		return nil, err
	}
	in.Stories = src
	if url != "" {
		in.cleanup = func() { _ = os.Remove(string(src)) }
	}
	return in, nil
}

// Close removes any downloaded stories file.
func (in *inputs) Close() {
	in.cleanup()
}
