// Package mcp implements a Model Context Protocol (MCP) server that exposes
// signpdf's document generation, upload validation, probing, flattening and
// session persistence as tools for AI assistants.
//
// The protocol itself is handled by github.com/mark3labs/mcp-go; this
// package only registers tools and resources.
//
// # Usage with Claude Desktop
//
// Add to your claude_desktop_config.json:
//
//	{
//	  "mcpServers": {
//	    "signpdf": {
//	      "command": "signpdf-mcp"
//	    }
//	  }
//	}
package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/afero"

	"github.com/lvillar/signpdf/config"
	"github.com/lvillar/signpdf/store"
)

// ServerName is reported to clients during initialization.
const ServerName = "signpdf-mcp"

// Server is an MCP server exposing signpdf operations.
type Server struct {
	cfg       *config.Config
	fs        afero.Fs
	store     store.Store
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithFs sets the filesystem document paths are resolved against. The
// default is the operating system filesystem.
func WithFs(fs afero.Fs) Option {
	return func(s *Server) { s.fs = fs }
}

// WithLogger sets the logger used for tool failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a server backed by cfg and st.
func NewServer(cfg *config.Config, st store.Store, version string, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("mcp: config cannot be nil")
	}
	if st == nil {
		return nil, errors.New("mcp: store cannot be nil")
	}
	s := &Server{
		cfg:    cfg,
		fs:     afero.NewOsFs(),
		store:  st,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcpServer = server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)
	s.registerTools()
	s.registerResources()
	return s, nil
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio serves the protocol on standard input and output until stdin
// is closed.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Listen serves the protocol over the given streams until ctx is done or in
// is exhausted.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcpServer).Listen(ctx, in, out)
}
