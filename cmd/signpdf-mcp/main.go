// Command signpdf-mcp is an MCP (Model Context Protocol) server that exposes
// document generation, upload validation, field flattening and session
// persistence to AI assistants.
//
// # Installation
//
//	go install github.com/lvillar/signpdf/cmd/signpdf-mcp@latest
//
// # Configuration for Claude Desktop
//
// Add to ~/.config/claude/claude_desktop_config.json:
//
//	{
//	  "mcpServers": {
//	    "signpdf": {
//	      "command": "signpdf-mcp",
//	      "args": ["--data-dir", "/home/me/.signpdf"]
//	    }
//	  }
//	}
//
// # Available Tools
//
//   - generate_document: Generate a sample PDF from layout options
//   - validate_pdf: Check size, MIME type and header of a candidate upload
//   - pdf_info: Page count, page sizes and version
//   - pdf_text: Extract page text
//   - flatten_fields: Draw fields permanently into a PDF
//   - save_session / load_session: Persist the editing state of a document
//
// # Available Resources
//
//   - signpdf://page-sizes : Named page sizes in points
//   - signpdf://sessions/{document} : Saved editing state
//
// Every flag can also be set through a SIGNPDF_* environment variable, e.g.
// SIGNPDF_DATA_DIR. Logs go to standard error.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/lvillar/signpdf/config"
	"github.com/lvillar/signpdf/mcp"
	"github.com/lvillar/signpdf/store"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "signpdf-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}
	logger := cfg.Logger(os.Stderr)

	fs := afero.NewOsFs()
	st, err := store.NewFileStore(fs, cfg.DataDir, logger)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(cfg, st, version, mcp.WithFs(fs), mcp.WithLogger(logger))
	if err != nil {
		return err
	}
	logger.Info("serving on stdio", "version", version, "data_dir", cfg.DataDir)
	return server.ServeStdio()
}
