package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/storyviz"
	"github.com/aretw0/storyviz/internal/cli"
	"github.com/aretw0/storyviz/internal/presentation/tui"
	"github.com/aretw0/storyviz/internal/visualization"
	"github.com/aretw0/storyviz/pkg/domain"
	"github.com/aretw0/storyviz/pkg/ports"
)

var visualizeCmd = &cobra.Command{
	Use:   "visualize",
	Short: "Visualize stories",
	Long: `Builds a graph of the training stories and writes it to --output.
The output format follows the file extension: .html (default), .mmd, .md or .dot.`,
	Example: `  storyviz visualize -c config.yml -d domain.yml -s data/stories.md
  storyviz visualize -c config.yml -d domain.yml -s "data/**/*.md" --nlu-data data/nlu.md -o graph.dot`,
	Args: cobra.NoArgs,
	RunE: runVisualize,
}

func init() {
	rootCmd.AddCommand(visualizeCmd)
	addVisualizeFlags(visualizeCmd)
}

func addVisualizeFlags(cmd *cobra.Command) {
	addInputFlags(cmd, true)
	cmd.Flags().StringP("output", "o", cli.DefaultOutput, "Filename of the output path, e.g. 'graph.html'")
	cmd.Flags().Bool("no-browser", false, "Do not open the graph in the browser; print its URI instead")
	cmd.Flags().Bool("print", false, "Print a summary of the graph to the terminal")
}

func runVisualize(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)

	in, err := readInputs(cmd)
	if err != nil {
		return err
	}
	defer in.Close()

	output, _ := cmd.Flags().GetString("output")
	noBrowser, _ := cmd.Flags().GetBool("no-browser")
	printSummary, _ := cmd.Flags().GetBool("print")

	var built *visualization.Graph
	var policies *domain.PolicySet
	opts := []cli.Option{
		cli.WithLogger(logger),
		cli.WithAgentFactory(func(domainPath string, p *domain.PolicySet) (ports.Visualizer, error) {
			policies = p
			agent, err := storyviz.New(domainPath, p,
				storyviz.WithLogger(logger),
				storyviz.WithGraphHook(func(g *visualization.Graph) { built = g }),
			)
			if err != nil {
				return nil, err
			}
			return agent, nil
		}),
	}
	if noBrowser {
		opts = append(opts, cli.WithBrowser(nil))
	}

	uri, err := cli.NewDriver(opts...).Visualize(cmd.Context(), cli.Params{
		ConfigPath:  in.ConfigPath,
		DomainPath:  in.DomainPath,
		Stories:     in.Stories,
		NLUDataPath: in.NLUDataPath,
		OutputPath:  output,
		MaxHistory:  in.MaxHistory,
	})
	if err != nil {
		return err
	}

	if printSummary && built != nil {
		return printGraphSummary(cmd, tui.Summary{
			URI:        uri,
			Stories:    string(in.Stories),
			Domain:     in.DomainPath,
			Policies:   policies.Names(),
			MaxHistory: in.MaxHistory,
			NLUData:    in.NLUDataPath,
			Nodes:      built.NodeCount(),
			Edges:      built.EdgeCount(),
			Actions:    built.ActionLabels(),
		})
	}
	if noBrowser {
		fmt.Fprintln(cmd.OutOrStdout(), uri)
	}
	return nil
}

func printGraphSummary(cmd *cobra.Command, summary tui.Summary) error {
	render, err := tui.NewRenderer()
	if err != nil {
		return err
	}
	out, err := render(summary.Markdown())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
