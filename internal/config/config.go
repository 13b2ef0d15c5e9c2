package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/mcp-form-analyzer/internal/forms"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort         = 8080
	DefaultHost         = "127.0.0.1"
	DefaultLogLevel     = "info"
	DefaultMaxInputSize = 20 * 1024 * 1024 // 20MB

	// Directory permissions
	DefaultDirPerm = 0o750

	envPrefix = "FORM_ANALYZER"
)

// Config holds all configuration for the form analyzer
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Documents directory holding raw analysis files and source PDFs
	DocumentsDirectory string

	// Application configuration
	Version      string
	ServerName   string
	LogLevel     string
	MaxInputSize int64 // Maximum input file size in bytes

	// Analysis defaults
	Unit              string
	Scale             float64 // 0 derives the scale from the raw result's unit
	FontFamily        string
	FontSize          float64
	DefaultConfidence float64
	TablesFile        string // optional YAML extension of the built-in tables
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:               ModeStdio, // Default to stdio mode for MCP compatibility
		Host:               DefaultHost,
		Port:               DefaultPort,
		DocumentsDirectory: currentDir,
		Version:            "1.0.0",
		ServerName:         "mcp-form-analyzer",
		LogLevel:           DefaultLogLevel,
		MaxInputSize:       DefaultMaxInputSize,
		Unit:               string(forms.UnitPixel),
		Scale:              0,
		FontFamily:         forms.DefaultFontFamily,
		FontSize:           forms.DefaultFontSize,
		DefaultConfidence:  forms.DefaultConfidence,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.DocumentsDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.DocumentsDirectory); err == nil {
			cfg.DocumentsDirectory = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.DocumentsDirectory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxinputsize", cfg.MaxInputSize)
	viper.SetDefault("unit", cfg.Unit)
	viper.SetDefault("scale", cfg.Scale)
	viper.SetDefault("fontfamily", cfg.FontFamily)
	viper.SetDefault("fontsize", cfg.FontSize)
	viper.SetDefault("defaultconfidence", cfg.DefaultConfidence)
	viper.SetDefault("tables", cfg.TablesFile)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	// Define flags with Viper
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for streamable HTTP")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.DocumentsDirectory, "Directory containing raw analysis files and source PDFs")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxinputsize", cfg.MaxInputSize, "Maximum input file size in bytes")
	pflag.String("unit", cfg.Unit, "Output coordinate unit: 'pixel' or 'page_fraction'")
	pflag.Float64("scale", cfg.Scale, "Source-to-pixel scale factor (0 derives it from the raw result's unit)")
	pflag.String("fontfamily", cfg.FontFamily, "Default font family for capacity estimation")
	pflag.Float64("fontsize", cfg.FontSize, "Default font size for capacity estimation")
	pflag.Float64("defaultconfidence", cfg.DefaultConfidence, "Confidence assumed for primitives that report none")
	pflag.String("tables", cfg.TablesFile, "YAML file extending the font width and classification tables")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "host", "port", "dir", "loglevel", "maxinputsize",
		"unit", "scale", "fontfamily", "fontsize", "defaultconfidence", "tables",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMCP Form Analyzer - turns raw form detection output into overlay-ready fields\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                          "+
			"# stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/srv/forms --unit=page_fraction    "+
			"# normalized coordinates\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --port=8081                # streamable HTTP server\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  %s_MODE, %s_HOST, %s_PORT, %s_DIR, %s_LOGLEVEL,\n",
			envPrefix, envPrefix, envPrefix, envPrefix, envPrefix)
		fmt.Fprintf(os.Stderr, "  %s_MAXINPUTSIZE, %s_UNIT, %s_SCALE, %s_FONTFAMILY,\n",
			envPrefix, envPrefix, envPrefix, envPrefix)
		fmt.Fprintf(os.Stderr, "  %s_FONTSIZE, %s_DEFAULTCONFIDENCE, %s_TABLES\n",
			envPrefix, envPrefix, envPrefix)
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.DocumentsDirectory = viper.GetString("dir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxInputSize = viper.GetInt64("maxinputsize")
	cfg.Unit = viper.GetString("unit")
	cfg.Scale = viper.GetFloat64("scale")
	cfg.FontFamily = viper.GetString("fontfamily")
	cfg.FontSize = viper.GetFloat64("fontsize")
	cfg.DefaultConfidence = viper.GetFloat64("defaultconfidence")
	cfg.TablesFile = viper.GetString("tables")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate documents directory
	if c.DocumentsDirectory == "" {
		return errors.New("documents directory cannot be empty")
	}

	// Check if documents directory exists, create if it doesn't
	if _, err := os.Stat(c.DocumentsDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.DocumentsDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create documents directory %s: %w", c.DocumentsDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access documents directory %s: %w", c.DocumentsDirectory, err)
	}

	// Validate max input size
	if c.MaxInputSize <= 0 {
		return errors.New("maximum input size must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	// Validate tables file
	if c.TablesFile != "" {
		if _, err := os.Stat(c.TablesFile); err != nil {
			return fmt.Errorf("cannot access tables file %s: %w", c.TablesFile, err)
		}
	}

	// Tables are checked when they are loaded; check the rest here
	opts := forms.DefaultOptions()
	c.applyAnalysisDefaults(&opts)
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid analysis defaults: %w", err)
	}

	return nil
}

// AnalysisOptions builds the default analysis options, loading the tables
// extension when one is configured
func (c *Config) AnalysisOptions() (forms.Options, error) {
	opts := forms.DefaultOptions()
	c.applyAnalysisDefaults(&opts)

	if c.TablesFile != "" {
		tables, err := forms.LoadTables(c.TablesFile)
		if err != nil {
			return forms.Options{}, err
		}
		opts.Tables = tables
	}

	if err := opts.Validate(); err != nil {
		return forms.Options{}, err
	}
	return opts, nil
}

func (c *Config) applyAnalysisDefaults(opts *forms.Options) {
	opts.Unit = forms.Unit(c.Unit)
	opts.Scale = c.Scale
	opts.FontFamily = c.FontFamily
	opts.FontSize = c.FontSize
	opts.DefaultConfidence = c.DefaultConfidence
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, DocumentsDirectory: %s, LogLevel: %s, MaxInputSize: %d, "+
		"Unit: %s, Scale: %g, FontFamily: %s, FontSize: %g, TablesFile: %s}",
		c.Mode, c.Host, c.Port, c.DocumentsDirectory, c.LogLevel, c.MaxInputSize,
		c.Unit, c.Scale, c.FontFamily, c.FontSize, c.TablesFile)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
