package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	httpAdapter "github.com/aretw0/storyviz/pkg/adapters/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Render the stories once and serve the graph over HTTP",
	Long: `Builds the story graph and serves it over HTTP:

  /            HTML page rendering the graph
  /graph.mmd   Mermaid source
  /graph.md    Markdown with a fenced Mermaid block
  /graph.dot   Graphviz DOT
  /graph.json  nodes and edges
  /metrics     Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)
		addr, _ := cmd.Flags().GetString("addr")

		in, err := readInputs(cmd)
		if err != nil {
			return err
		}
		defer in.Close()

		agent, nluRef, err := loadAgent(in, logger)
		if err != nil {
			return err
		}
		g, err := agent.Graph(cmd.Context(), in.Stories, in.MaxHistory, nluRef)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           httpAdapter.NewHandler(g, "Stories of "+agent.Name, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			fmt.Fprintf(cmd.OutOrStdout(), "Serving story graph on http://%s\n", displayAddr(addr))
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return err
		case <-cmd.Context().Done():
			logger.Info("Start shutdown...")

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "error", err)
				return errors.Join(err, srv.Close())
			}
			logger.Info("Server stopped gracefully")
			return nil
		}
	},
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addInputFlags(serveCmd, true)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
}
