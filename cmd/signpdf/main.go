// Command signpdf generates sample documents, validates uploads and flattens
// signature fields into PDFs from the command line.
//
// Usage:
//
//	signpdf generate [flags] [options.json]
//	signpdf validate [flags] file.pdf
//	signpdf info file.pdf
//	signpdf flatten --fields fields.json [--signature sig.png] -o out.pdf in.pdf
//
// Shared settings (log level, upload limits, page size, audit trail) come
// from flags or SIGNPDF_* environment variables.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"github.com/lvillar/signpdf"
	"github.com/lvillar/signpdf/config"
	"github.com/lvillar/signpdf/doctpl"
	"github.com/lvillar/signpdf/fields"
	"github.com/lvillar/signpdf/pageops"
	"github.com/lvillar/signpdf/store"
	"github.com/lvillar/signpdf/validate"
)

var errUsage = errors.New("usage: signpdf <generate|validate|info|flatten> [flags] [args]")

type command func(ctx context.Context, env *env, args []string) error

var commands = map[string]command{
	"generate": runGenerate,
	"validate": runValidate,
	"info":     runInfo,
	"flatten":  runFlatten,
}

// env carries what every subcommand needs.
type env struct {
	fs     afero.Fs
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	e := &env{fs: afero.NewOsFs(), stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	if err := run(ctx, e, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "signpdf: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, e *env, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q\n%w", args[0], errUsage)
	}
	return cmd(ctx, e, args[1:])
}

// parse registers the shared configuration flags next to the command's own,
// parses args and loads the configuration.
func (e *env) parse(fs *pflag.FlagSet, args []string) error {
	config.AddFlags(fs)
	fs.SetOutput(e.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := config.FromFlags(fs)
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.logger = cfg.Logger(e.stderr)
	return nil
}

// output writes data to path, or to stdout when path is "" or "-".
func (e *env) output(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := e.stdout.Write(data)
		return err
	}
	if err := afero.WriteFile(e.fs, path, data, 0o644); err != nil {
		return err
	}
	e.logger.Info("wrote document", "path", path, "bytes", len(data))
	return nil
}

func (e *env) printJSON(v any) error {
	enc := json.NewEncoder(e.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runGenerate(ctx context.Context, e *env, args []string) error {
	fs := pflag.NewFlagSet("generate", pflag.ContinueOnError)
	out := fs.StringP("output", "o", "", "Output file (default stdout)")
	title := fs.String("title", "", "Document title")
	pages := fs.Int("pages", 0, "Number of pages")
	if err := e.parse(fs, args); err != nil {
		return err
	}

	var opts doctpl.Options
	if fs.NArg() > 0 {
		data, err := afero.ReadFile(e.fs, fs.Arg(0))
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, &opts); err != nil {
			return fmt.Errorf("parsing %s: %w", fs.Arg(0), err)
		}
	}
	if *title != "" {
		opts.Title = *title
	}
	if *pages > 0 {
		opts.Pages = *pages
	}
	if opts.Size == "" && opts.CustomSize == nil {
		opts.Size = e.cfg.PageSize
	}
	if opts.AppName == "" {
		opts.AppName = e.cfg.AppName
	}

	data, err := doctpl.GenerateBytes(opts.Title, opts)
	if err != nil {
		return err
	}
	return e.output(*out, data)
}

func runValidate(ctx context.Context, e *env, args []string) error {
	fs := pflag.NewFlagSet("validate", pflag.ContinueOnError)
	mimeType := fs.String("mime-type", "", "Declared MIME type (default derived from the file extension)")
	if err := e.parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("validate: expected exactly one file")
	}
	path := fs.Arg(0)

	fh, err := e.fs.Open(path)
	if err != nil {
		return err
	}
	defer fh.Close()
	st, err := fh.Stat()
	if err != nil {
		return err
	}
	mt := *mimeType
	if mt == "" {
		mt = validate.MIMETypeOf(path)
	}
	res, err := validate.Check(&validate.File{Name: filepath.Base(path), MIMEType: mt, Size: st.Size(), Content: fh}, e.cfg.ValidateOptions()...)
	if err != nil {
		return err
	}
	if err := e.printJSON(res); err != nil {
		return err
	}
	if !res.OK {
		return fmt.Errorf("%s rejected: %s", path, strings.Join(res.Errors, "; "))
	}
	return nil
}

func runInfo(ctx context.Context, e *env, args []string) error {
	fs := pflag.NewFlagSet("info", pflag.ContinueOnError)
	if err := e.parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("info: expected exactly one file")
	}
	data, err := afero.ReadFile(e.fs, fs.Arg(0))
	if err != nil {
		return err
	}
	info, err := pageops.Probe(data)
	if err != nil {
		return err
	}
	return e.printJSON(info)
}

func runFlatten(ctx context.Context, e *env, args []string) error {
	fs := pflag.NewFlagSet("flatten", pflag.ContinueOnError)
	out := fs.StringP("output", "o", "", "Output file (default stdout)")
	fieldsPath := fs.String("fields", "", "JSON file with fields by page, or a saved editing state")
	session := fs.String("session", "", "Take fields and signature from the saved session of this document")
	sigPath := fs.String("signature", "", "Signature image (PNG/JPEG) or a file holding a data URL")
	summary := fs.Bool("summary", false, "Print the placement summary as JSON on stderr")
	if err := e.parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("flatten: expected exactly one input file")
	}
	in := fs.Arg(0)

	src, err := afero.ReadFile(e.fs, in)
	if err != nil {
		return err
	}

	var state fields.EditingState
	if *session != "" {
		st, err := store.NewFileStore(e.fs, e.cfg.DataDir, e.logger)
		if err != nil {
			return err
		}
		if state, err = st.Load(ctx, store.Key(*session)); err != nil {
			return fmt.Errorf("loading session %q: %w", *session, err)
		}
	}
	if *fieldsPath != "" {
		data, err := afero.ReadFile(e.fs, *fieldsPath)
		if err != nil {
			return err
		}
		if state.Fields, err = parseFields(data); err != nil {
			return fmt.Errorf("parsing %s: %w", *fieldsPath, err)
		}
	}

	docName := filepath.Base(in)
	opts := e.cfg.ExportOptions(e.logger, docName)
	switch {
	case *sigPath != "":
		data, err := afero.ReadFile(e.fs, *sigPath)
		if err != nil {
			return err
		}
		opts = append(opts, signpdf.WithSignatureImage(data))
	case state.SignatureDataURL != "":
		opts = append(opts, signpdf.WithSignatureDataURL(state.SignatureDataURL))
	}
	if e.cfg.AuditTrail && len(state.Signers) > 0 {
		sym, _ := signpdf.ParseSymbology(e.cfg.AuditSymbology)
		opts = append(opts, signpdf.WithAuditTrail(signpdf.AuditOptions{
			DocumentName: docName,
			Symbology:    sym,
			Signers:      state.Signers,
		}))
	}

	res, err := signpdf.Flatten(ctx, src, state.Fields, opts...)
	if err != nil {
		return err
	}
	if res.SignatureFallback {
		fmt.Fprintln(e.stderr, "signpdf: signature image unusable, placeholders drawn instead")
	}
	if *summary {
		enc := json.NewEncoder(e.stderr)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	}
	return e.output(*out, res.Data)
}

// parseFields accepts either a bare fields-by-page object or a full editing
// state with a "fields" member.
func parseFields(data []byte) (fields.FieldsByPage, error) {
	var st struct {
		Fields fields.FieldsByPage `json:"fields"`
	}
	if err := json.Unmarshal(data, &st); err == nil && st.Fields != nil {
		return st.Fields, nil
	}
	var fbp fields.FieldsByPage
	if err := json.Unmarshal(data, &fbp); err != nil {
		return nil, err
	}
	return fbp, nil
}
