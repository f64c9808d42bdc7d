package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/layerdisplay"
	"github.com/aretw0/layerdisplay/pkg/domain"
	"github.com/aretw0/layerdisplay/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// StateReader exposes the layer currently displayed.
type StateReader interface {
	Get() domain.Layer
}

// LayerStatus is the payload of get_current_layer.
type LayerStatus struct {
	Layer domain.Layer `json:"layer" jsonschema_description:"Index of the displayed layer"`
	Label string       `json:"label" jsonschema_description:"Label the status screen shows"`
}

// Server exposes a node's layer display as an MCP Server.
type Server struct {
	state      StateReader
	dispatcher ports.Dispatcher
	namer      ports.LayerNamer
	behavior   string
	mcpServer  *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithBehavior overrides the name set_layer invokes.
func WithBehavior(name string) Option {
	return func(s *Server) {
		s.behavior = name
	}
}

// NewServer creates a new MCP Server instance. namer may be nil.
func NewServer(state StateReader, dispatcher ports.Dispatcher, namer ports.LayerNamer, opts ...Option) *Server {
	s := &Server{
		state:      state,
		dispatcher: dispatcher,
		namer:      namer,
		behavior:   domain.BehaviorLayerDisplay,
		mcpServer:  server.NewMCPServer("layerdisplay-mcp", strings.TrimSpace(layerdisplay.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	// TOOL: get_current_layer
	s.mcpServer.AddTool(mcp.NewTool("get_current_layer",
		mcp.WithDescription("Get the layer currently shown on this node's display."),
	), s.handleGetLayer)

	// TOOL: set_layer
	s.mcpServer.AddTool(mcp.NewTool("set_layer",
		mcp.WithDescription("Invoke the layer display behavior, as a key bound to it would."),
		mcp.WithNumber("layer", mcp.Required(), mcp.Description("Layer index (0-255)"), mcp.Min(0), mcp.Max(255)),
	), s.handleSetLayer)
}

func (s *Server) status() LayerStatus {
	layer := s.state.Get()
	label := ""
	if s.namer != nil {
		label = s.namer.Name(layer)
	}
	if label == "" {
		label = fmt.Sprintf("Layer %d", layer)
	}
	return LayerStatus{Layer: layer, Label: label}
}

func (s *Server) handleGetLayer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonBytes, _ := json.Marshal(s.status())
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleSetLayer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := request.GetArguments()["layer"].(float64)
	if !ok {
		return mcp.NewToolResultError("layer must be a number"), nil
	}
	if raw < 0 || raw >= domain.MaxLayers || raw != float64(int(raw)) {
		return mcp.NewToolResultError(fmt.Sprintf("layer out of range: %v", raw)), nil
	}

	binding := domain.LayerBinding(domain.Layer(raw))
	binding.Behavior = s.behavior
	inv := domain.Invocation{
		Binding:    binding,
		Pressed:    true,
		WaitForAck: true,
	}
	if err := s.dispatcher.Dispatch(ctx, inv); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invoke failed: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(s.status())
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
