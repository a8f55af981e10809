package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/storyviz"
	"github.com/aretw0/storyviz/internal/presentation/graph"
	"github.com/aretw0/storyviz/internal/visualization"
	"github.com/aretw0/storyviz/pkg/adapters/memory"
	"github.com/aretw0/storyviz/pkg/domain"
	"github.com/aretw0/storyviz/pkg/ports"
)

// GraphURI is the resource holding the graph of the configured stories.
const GraphURI = "storyviz://graph"

// MaxHistoryLimit bounds the max_history tool argument.
const MaxHistoryLimit = 1000

// VisualizeResponse is the structured result of the visualize_stories tool.
type VisualizeResponse struct {
	Format  string   `json:"format" jsonschema_description:"Encoding of the graph field: mermaid, dot or markdown"`
	Graph   string   `json:"graph" jsonschema_description:"The rendered story graph"`
	Nodes   int      `json:"nodes" jsonschema_description:"Number of nodes in the graph"`
	Edges   int      `json:"edges" jsonschema_description:"Number of edges in the graph"`
	Actions []string `json:"actions" jsonschema_description:"Distinct bot actions appearing in the graph"`
}

// Agent is what the MCP server needs from a storyviz.Agent.
type Agent interface {
	Graph(ctx context.Context, stories domain.StoriesSource, maxHistory int, nlu domain.NLUDataRef) (*visualization.Graph, error)
	GraphFrom(ctx context.Context, loader ports.StoryLoader, maxHistory int, nlu domain.NLUDataRef) (*visualization.Graph, error)
}

// Config carries the defaults used when a tool call leaves them out.
type Config struct {
	Stories    domain.StoriesSource // backs GraphURI; "" disables the resource content
	MaxHistory int
	NLU        domain.NLUDataRef
	Logger     *slog.Logger
	// MaxStoriesSize bounds the stories tool argument in bytes; 0 means DefaultMaxStoriesSize.
	MaxStoriesSize int
}

// Server exposes story visualization as MCP tools and resources.
type Server struct {
	agent     Agent
	cfg       Config
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(agent Agent, cfg Config) *Server {
	if cfg.MaxHistory < 1 {
		cfg.MaxHistory = 2
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	s := &Server{
		agent:     agent,
		cfg:       cfg,
		mcpServer: server.NewMCPServer("storyviz-mcp", strings.TrimSpace(storyviz.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	visualizeTool := mcp.NewTool("visualize_stories",
		mcp.WithDescription("Render Markdown training stories as a dialogue flow graph."),
		mcp.WithString("stories", mcp.Required(), mcp.Description("Stories in Markdown story format (## name, * intent, - action)")),
		mcp.WithString("format", mcp.Description("Output encoding: mermaid (default), dot or markdown")),
		mcp.WithNumber("max_history", mcp.Description("Fingerprint depth used when merging nodes (default from server)")),
		mcp.WithOutputSchema[VisualizeResponse](),
	)
	s.mcpServer.AddTool(visualizeTool, mcp.NewStructuredToolHandler(s.handleVisualize))
}

func (s *Server) handleVisualize(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (VisualizeResponse, error) {
	stories, _ := args["stories"].(string)
	stories, err := SanitizeStories(stories, s.cfg.MaxStoriesSize)
	if err != nil {
		return VisualizeResponse{}, err
	}
	if strings.TrimSpace(stories) == "" {
		return VisualizeResponse{}, errors.New("stories must not be empty")
	}

	format := graph.FormatMermaid
	if f, ok := args["format"].(string); ok && f != "" {
		format = graph.Format(f)
	}
	if format == graph.FormatHTML {
		return VisualizeResponse{}, errors.New("html output is not supported over MCP")
	}

	maxHistory := s.cfg.MaxHistory
	if mh, ok := args["max_history"].(float64); ok {
		if mh < 1 || mh > MaxHistoryLimit || mh != math.Trunc(mh) {
			return VisualizeResponse{}, fmt.Errorf("max_history must be an integer between 1 and %d, got %v", MaxHistoryLimit, mh)
		}
		maxHistory = int(mh)
	}

	loader := memory.NewLoader(map[string]string{"stories.md": stories})
	g, err := s.agent.GraphFrom(ctx, loader, maxHistory, s.cfg.NLU)
	if err != nil {
		return VisualizeResponse{}, fmt.Errorf("visualize failed: %w", err)
	}

	out, err := graph.Render(g, format, "")
	if err != nil {
		return VisualizeResponse{}, err
	}

	s.cfg.Logger.Debug("MCP visualize_stories", "format", format, "nodes", g.NodeCount())
	return VisualizeResponse{
		Format:  string(format),
		Graph:   out,
		Nodes:   g.NodeCount(),
		Edges:   g.EdgeCount(),
		Actions: g.ActionLabels(),
	}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Story Graph",
		mcp.WithResourceDescription("Mermaid flowchart of the configured stories"),
		mcp.WithMIMEType("text/vnd.mermaid"),
	), s.readGraph)
}

func (s *Server) readGraph(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if s.cfg.Stories == "" {
		return nil, errors.New("no stories configured; start the server with --stories")
	}
	g, err := s.agent.Graph(ctx, s.cfg.Stories, s.cfg.MaxHistory, s.cfg.NLU)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GraphURI,
			MIMEType: "text/vnd.mermaid",
			Text:     graph.GenerateMermaid(g),
		},
	}, nil
}
