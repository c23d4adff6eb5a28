package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lvillar/signpdf/pagesize"
	"github.com/lvillar/signpdf/store"
)

const (
	pageSizesURI     = "signpdf://page-sizes"
	sessionsTemplate = "signpdf://sessions/{document}"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(pageSizesURI, "Page Sizes",
		mcp.WithResourceDescription("Named page sizes accepted by generate_document, in points"),
		mcp.WithMIMEType("application/json"),
	), s.handlePageSizes)

	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(sessionsTemplate, "Saved Session",
		mcp.WithTemplateDescription("Saved editing state of a document, as written by save_session"),
		mcp.WithTemplateMIMEType("application/json"),
	), s.handleSessionResource)
}

func (s *Server) handlePageSizes(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sizes := make(map[string]pagesize.Size, len(pagesize.Names()))
	for _, name := range pagesize.Names() {
		sz, _ := pagesize.Lookup(name)
		sizes[name] = sz
	}
	data, err := json.MarshalIndent(sizes, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{mcp.TextResourceContents{
		URI:      req.Params.URI,
		MIMEType: "application/json",
		Text:     string(data),
	}}, nil
}

func (s *Server) handleSessionResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	doc := templateArg(req.Params.Arguments, "document")
	if doc == "" {
		return nil, fmt.Errorf("missing document name in %s", req.Params.URI)
	}
	st, err := s.store.Load(ctx, store.Key(doc))
	if err != nil {
		return nil, fmt.Errorf("loading session %q: %w", doc, err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{mcp.TextResourceContents{
		URI:      req.Params.URI,
		MIMEType: "application/json",
		Text:     string(data),
	}}, nil
}

// templateArg returns a matched URI template variable. Matches arrive as
// string slices.
func templateArg(args map[string]any, name string) string {
	switch v := args[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}
