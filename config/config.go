// Package config loads the settings shared by the signpdf binaries.
//
// Values are layered: built-in defaults, then SIGNPDF_* environment
// variables, then command line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lvillar/signpdf"
	"github.com/lvillar/signpdf/pagesize"
	"github.com/lvillar/signpdf/validate"
)

const (
	EnvPrefix = "SIGNPDF"

	DefaultAppName   = "SignPDF"
	DefaultLogLevel  = "info"
	DefaultDataDir   = ".signpdf"
	DefaultPageSize  = pagesize.Letter
	DefaultSymbology = string(signpdf.SymbologyQR)
)

// Flag names. Environment variables use the same names upper-cased, with
// dashes replaced by underscores and the SIGNPDF_ prefix.
const (
	KeyAppName         = "app-name"
	KeyLogLevel        = "log-level"
	KeyMaxUploadBytes  = "max-upload-bytes"
	KeyAllowedMIME     = "allowed-mime"
	KeySniffHeader     = "sniff-header"
	KeyStructuralCheck = "structural-check"
	KeyDataDir         = "data-dir"
	KeyPageSize        = "page-size"
	KeyAuditTrail      = "audit-trail"
	KeyAuditSymbology  = "audit-symbology"
)

// Config holds the settings of a signpdf process.
type Config struct {
	AppName         string
	LogLevel        string
	MaxUploadBytes  int64
	AllowedMIME     []string
	SniffHeader     bool
	StructuralCheck bool
	DataDir         string
	PageSize        string
	AuditTrail      bool
	AuditSymbology  string
}

// Default returns a configuration with the built-in defaults.
func Default() *Config {
	return &Config{
		AppName:         DefaultAppName,
		LogLevel:        DefaultLogLevel,
		MaxUploadBytes:  validate.DefaultMaxSize,
		AllowedMIME:     []string{validate.PDFMIMEType},
		SniffHeader:     true,
		StructuralCheck: false,
		DataDir:         DefaultDataDir,
		PageSize:        DefaultPageSize,
		AuditTrail:      false,
		AuditSymbology:  DefaultSymbology,
	}
}

// AddFlags registers the configuration flags on fs.
func AddFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String(KeyAppName, d.AppName, "Application name written into generated documents")
	fs.String(KeyLogLevel, d.LogLevel, "Log level (debug, info, warn, error)")
	fs.Int64(KeyMaxUploadBytes, d.MaxUploadBytes, "Maximum accepted document size in bytes")
	fs.StringSlice(KeyAllowedMIME, d.AllowedMIME, "Accepted document MIME types")
	fs.Bool(KeySniffHeader, d.SniffHeader, "Require the %PDF- header on uploads")
	fs.Bool(KeyStructuralCheck, d.StructuralCheck, "Parse uploads and reject structurally broken documents")
	fs.String(KeyDataDir, d.DataDir, "Directory for saved editing sessions")
	fs.String(KeyPageSize, d.PageSize, "Default page size for generated documents ("+strings.Join(pagesize.Names(), ", ")+")")
	fs.Bool(KeyAuditTrail, d.AuditTrail, "Append an audit certificate page when flattening")
	fs.String(KeyAuditSymbology, d.AuditSymbology, "Audit certificate code symbology (qr, pdf417)")
}

// FromFlags resolves the configuration from the already parsed fs, the
// environment and the defaults, and validates it. fs must have been set up
// with AddFlags.
func FromFlags(fs *pflag.FlagSet) (*Config, error) {
	v := newViper()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("config: binding flags: %w", err)
	}

	cfg := &Config{
		AppName:         v.GetString(KeyAppName),
		LogLevel:        strings.ToLower(v.GetString(KeyLogLevel)),
		MaxUploadBytes:  v.GetInt64(KeyMaxUploadBytes),
		AllowedMIME:     splitList(v.GetStringSlice(KeyAllowedMIME)),
		SniffHeader:     v.GetBool(KeySniffHeader),
		StructuralCheck: v.GetBool(KeyStructuralCheck),
		DataDir:         v.GetString(KeyDataDir),
		PageSize:        strings.ToUpper(v.GetString(KeyPageSize)),
		AuditTrail:      v.GetBool(KeyAuditTrail),
		AuditSymbology:  strings.ToLower(v.GetString(KeyAuditSymbology)),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Load parses args with a fresh flag set and resolves the configuration.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("signpdf", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	AddFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return FromFlags(fs)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault(KeyAppName, d.AppName)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyMaxUploadBytes, d.MaxUploadBytes)
	v.SetDefault(KeyAllowedMIME, d.AllowedMIME)
	v.SetDefault(KeySniffHeader, d.SniffHeader)
	v.SetDefault(KeyStructuralCheck, d.StructuralCheck)
	v.SetDefault(KeyDataDir, d.DataDir)
	v.SetDefault(KeyPageSize, d.PageSize)
	v.SetDefault(KeyAuditTrail, d.AuditTrail)
	v.SetDefault(KeyAuditSymbology, d.AuditSymbology)
	return v
}

// splitList accepts both repeated values and comma separated environment
// values.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("maximum upload size must be positive")
	}
	if len(c.AllowedMIME) == 0 {
		return errors.New("at least one MIME type must be allowed")
	}
	if !pagesize.Known(c.PageSize) {
		return fmt.Errorf("unknown page size %q (must be one of: %s)", c.PageSize, strings.Join(pagesize.Names(), ", "))
	}
	if c.DataDir == "" {
		return errors.New("data directory cannot be empty")
	}
	if _, err := signpdf.ParseSymbology(c.AuditSymbology); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a log level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", s)
}

// Logger returns a text logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ValidateOptions returns the upload validation options for this
// configuration.
func (c *Config) ValidateOptions() []validate.Option {
	return []validate.Option{
		validate.WithMaxSize(c.MaxUploadBytes),
		validate.WithAllowedMIMETypes(c.AllowedMIME...),
		validate.WithHeaderSniff(c.SniffHeader),
		validate.WithStructuralCheck(c.StructuralCheck),
	}
}

// ExportOptions returns the flatten options implied by this configuration.
// The audit certificate is only requested when AuditTrail is set.
func (c *Config) ExportOptions(logger *slog.Logger, documentName string) []signpdf.Option {
	opts := []signpdf.Option{
		signpdf.WithAppName(c.AppName),
		signpdf.WithLogger(logger),
	}
	if c.AuditTrail {
		sym, _ := signpdf.ParseSymbology(c.AuditSymbology)
		opts = append(opts, signpdf.WithAuditTrail(signpdf.AuditOptions{
			DocumentName: documentName,
			Symbology:    sym,
		}))
	}
	return opts
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{AppName: %s, LogLevel: %s, MaxUploadBytes: %d, AllowedMIME: %v, SniffHeader: %t, DataDir: %s, PageSize: %s, AuditTrail: %t}",
		c.AppName, c.LogLevel, c.MaxUploadBytes, c.AllowedMIME, c.SniffHeader, c.DataDir, c.PageSize, c.AuditTrail)
}
