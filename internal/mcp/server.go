// ABOUTME: MCP server exposing wellness logging and insights to assistants.
// ABOUTME: Acts for a single configured user over the stdio transport.
package mcp

import (
	"context"
	"fmt"

	"github.com/harperreed/wellsync/internal/insights"
	"github.com/harperreed/wellsync/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with the insight service.
type Server struct {
	mcpServer *mcp.Server
	svc       *insights.Service
	reader    storage.SignalReader
	userID    string
}

// NewServer creates a new MCP server acting for userID.
func NewServer(svc *insights.Service, reader storage.SignalReader, userID string) (*Server, error) {
	if svc == nil || reader == nil {
		return nil, fmt.Errorf("mcp: service and reader are required")
	}
	if userID == "" {
		return nil, fmt.Errorf("mcp: user id is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "wellsync",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		svc:       svc,
		reader:    reader,
		userID:    userID,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
