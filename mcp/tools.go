package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/afero"

	"github.com/lvillar/signpdf"
	"github.com/lvillar/signpdf/doctpl"
	"github.com/lvillar/signpdf/fields"
	"github.com/lvillar/signpdf/pageops"
	"github.com/lvillar/signpdf/store"
	"github.com/lvillar/signpdf/validate"
)

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("generate_document",
		mcp.WithDescription("Generate a sample PDF from layout options (pages, size, title, body text, watermark, borders, footer, page numbers). Returns the PDF as base64 unless outputPath is given."),
		mcp.WithString("title", mcp.Description("Document title")),
		mcp.WithObject("options", mcp.Description("Generation options, same shape as the JSON accepted by doctpl.Render")),
		mcp.WithString("outputPath", mcp.Description("Optional file path to save the PDF")),
	), s.handleGenerate)

	s.mcpServer.AddTool(mcp.NewTool("validate_pdf",
		mcp.WithDescription("Check a candidate upload: size limit, MIME allow-list and %PDF- header."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the file")),
		mcp.WithString("mimeType", mcp.Description("Declared MIME type; derived from the extension when omitted")),
	), s.handleValidate)

	s.mcpServer.AddTool(mcp.NewTool("pdf_info",
		mcp.WithDescription("Report page count, page sizes in points and PDF version of a document."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the PDF file")),
	), s.handleInfo)

	s.mcpServer.AddTool(mcp.NewTool("pdf_text",
		mcp.WithDescription("Extract the plain text of each page of a PDF, e.g. to check where field placeholders landed."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the PDF file")),
		mcp.WithNumber("page", mcp.Description("Only extract this 1-based page")),
	), s.handleText)

	s.mcpServer.AddTool(mcp.NewTool("flatten_fields",
		mcp.WithDescription("Draw signature, text, checkbox and date fields permanently into a PDF. Fields come from the 'fields' argument or from a saved session."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the source PDF")),
		mcp.WithObject("fields", mcp.Description("Fields by 1-based page number: {\"1\": [{\"id\":\"a\",\"type\":\"signature\",\"x\":0.1,\"y\":0.1,\"w\":0.25,\"h\":0.08}]}")),
		mcp.WithString("session", mcp.Description("Name of a saved session to take fields and signature from")),
		mcp.WithString("signatureDataUrl", mcp.Description("Signature image as a data URL")),
		mcp.WithBoolean("audit", mcp.Description("Append an audit certificate page")),
		mcp.WithString("outputPath", mcp.Description("Optional file path to save the result")),
	), s.handleFlatten)

	s.mcpServer.AddTool(mcp.NewTool("save_session",
		mcp.WithDescription("Save the editing state (fields, signers, signature) of a document."),
		mcp.WithString("document", mcp.Required(), mcp.Description("Document name")),
		mcp.WithObject("state", mcp.Required(), mcp.Description("Editing state: {fields, signers, signatureDataUrl}")),
	), s.handleSaveSession)

	s.mcpServer.AddTool(mcp.NewTool("load_session",
		mcp.WithDescription("Load the saved editing state of a document."),
		mcp.WithString("document", mcp.Required(), mcp.Description("Document name")),
	), s.handleLoadSession)
}

// fail logs a tool failure and turns it into an error result.
func (s *Server) fail(tool string, err error) (*mcp.CallToolResult, error) {
	s.logger.Error("tool failed", slog.String("tool", tool), slog.Any("err", err))
	return mcp.NewToolResultError(err.Error()), nil
}

// decodeArg re-decodes an object argument into target. It reports false
// when the argument is absent.
func decodeArg(req mcp.CallToolRequest, name string, target any) (bool, error) {
	v, ok := req.GetArguments()[name]
	if !ok || v == nil {
		return false, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return true, fmt.Errorf("encoding '%s': %w", name, err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return true, fmt.Errorf("invalid '%s': %w", name, err)
	}
	return true, nil
}

// deliver writes data to outputPath, or returns it base64 encoded.
func (s *Server) deliver(what string, data []byte, outputPath, summary string) (*mcp.CallToolResult, error) {
	if outputPath != "" {
		if err := afero.WriteFile(s.fs, outputPath, data, 0o644); err != nil {
			return s.fail(what, fmt.Errorf("writing file: %w", err))
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s: %s (%d bytes)\n%s", what, outputPath, len(data), summary)), nil
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	return mcp.NewToolResultText(fmt.Sprintf("%s (%d bytes)\n%s\nBase64 data:\n%s", what, len(data), summary, encoded)), nil
}

func asJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func (s *Server) handleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var opts doctpl.Options
	if _, err := decodeArg(req, "options", &opts); err != nil {
		return s.fail("generate_document", err)
	}
	if title := req.GetString("title", ""); title != "" {
		opts.Title = title
	}
	if opts.Title == "" {
		opts.Title = doctpl.DefaultTitle
	}
	if opts.Size == "" && opts.CustomSize == nil {
		opts.Size = s.cfg.PageSize
	}
	if opts.AppName == "" {
		opts.AppName = s.cfg.AppName
	}

	var buf bytes.Buffer
	if err := doctpl.RenderOptions(&buf, opts); err != nil {
		return s.fail("generate_document", fmt.Errorf("rendering PDF: %w", err))
	}
	return s.deliver("PDF created successfully", buf.Bytes(), req.GetString("outputPath", ""), "")
}

func (s *Server) handleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fh, err := s.fs.Open(path)
	if err != nil {
		return s.fail("validate_pdf", fmt.Errorf("opening %s: %w", path, err))
	}
	defer fh.Close()
	st, err := fh.Stat()
	if err != nil {
		return s.fail("validate_pdf", fmt.Errorf("stat %s: %w", path, err))
	}

	mimeType := req.GetString("mimeType", "")
	if mimeType == "" {
		mimeType = validate.MIMETypeOf(path)
	}
	res, err := validate.Check(&validate.File{
		Name:     filepath.Base(path),
		MIMEType: mimeType,
		Size:     st.Size(),
		Content:  fh,
	}, s.cfg.ValidateOptions()...)
	if err != nil {
		return s.fail("validate_pdf", err)
	}
	return mcp.NewToolResultText(asJSON(res)), nil
}

func (s *Server) handleInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return s.fail("pdf_info", fmt.Errorf("reading %s: %w", path, err))
	}
	info, err := pageops.Probe(data)
	if err != nil {
		return s.fail("pdf_info", err)
	}
	return mcp.NewToolResultText(asJSON(info)), nil
}

func (s *Server) handleText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return s.fail("pdf_text", fmt.Errorf("reading %s: %w", path, err))
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return s.fail("pdf_text", fmt.Errorf("parsing %s: %w", path, err))
	}

	first, last := 1, r.NumPage()
	if n := req.GetInt("page", 0); n != 0 {
		if n < 1 || n > last {
			return mcp.NewToolResultError(fmt.Sprintf("page %d out of range (1-%d)", n, last)), nil
		}
		first, last = n, n
	}

	var sb strings.Builder
	for i := first; i <= last; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return s.fail("pdf_text", fmt.Errorf("page %d: %w", i, err))
		}
		fmt.Fprintf(&sb, "--- Page %d ---\n%s\n", i, strings.TrimSpace(text))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleFlatten(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	src, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return s.fail("flatten_fields", fmt.Errorf("reading %s: %w", path, err))
	}

	var (
		fbp     fields.FieldsByPage
		sigURL  = req.GetString("signatureDataUrl", "")
		signers []fields.Signer
	)
	if name := req.GetString("session", ""); name != "" {
		st, err := s.store.Load(ctx, store.Key(name))
		if err != nil {
			return s.fail("flatten_fields", fmt.Errorf("loading session %q: %w", name, err))
		}
		fbp, signers = st.Fields, st.Signers
		if sigURL == "" {
			sigURL = st.SignatureDataURL
		}
	}
	// explicit fields replace the session's fields instead of merging
	var explicit fields.FieldsByPage
	found, err := decodeArg(req, "fields", &explicit)
	if err != nil {
		return s.fail("flatten_fields", err)
	}
	if found {
		fbp = explicit
	}

	docName := filepath.Base(path)
	cfg := *s.cfg
	cfg.AuditTrail = req.GetBool("audit", s.cfg.AuditTrail)
	opts := cfg.ExportOptions(s.logger, docName)
	if sigURL != "" {
		opts = append(opts, signpdf.WithSignatureDataURL(sigURL))
	}
	if cfg.AuditTrail {
		sym, _ := signpdf.ParseSymbology(s.cfg.AuditSymbology)
		if len(signers) == 0 {
			signers = fields.DefaultSigners()
		}
		opts = append(opts, signpdf.WithAuditTrail(signpdf.AuditOptions{
			DocumentName: docName,
			Symbology:    sym,
			Signers:      signers,
		}))
	}

	res, err := signpdf.Flatten(ctx, src, fbp, opts...)
	if err != nil {
		return s.fail("flatten_fields", err)
	}

	out := req.GetString("outputPath", "")
	return s.deliver("PDF flattened successfully", res.Data, out, asJSON(res))
}

func (s *Server) handleSaveSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if strings.TrimSpace(name) == "" {
		return mcp.NewToolResultError("document name cannot be empty"), nil
	}
	var st fields.EditingState
	found, err := decodeArg(req, "state", &st)
	if err != nil {
		return s.fail("save_session", err)
	}
	if !found {
		return mcp.NewToolResultError("missing 'state' argument"), nil
	}

	// normalize through a session so stored rectangles are always valid
	sess := fields.NewSession()
	sess.Restore(st)
	st = sess.State(st.SignatureDataURL)

	if err := s.store.Save(ctx, store.Key(name), st); err != nil {
		return s.fail("save_session", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Session saved: %s (%d fields)", store.Key(name), st.Fields.Count())), nil
}

func (s *Server) handleLoadSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	st, err := s.store.Load(ctx, store.Key(name))
	if errors.Is(err, store.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no saved session for %q", name)), nil
	}
	if err != nil {
		return s.fail("load_session", err)
	}
	return mcp.NewToolResultText(asJSON(st)), nil
}
