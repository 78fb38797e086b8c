package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort            = 8080
	DefaultHost            = "127.0.0.1"
	DefaultLogLevel        = "info"
	DefaultMaxFileSize     = 100 * 1024 * 1024 // 100MB
	DefaultHeadingScale    = 1.3
	DefaultRightAlignRatio = 0.85

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the paper auditor MCP server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Paper configuration
	PaperDirectory string
	MaxFileSize    int64 // Maximum paper file size in bytes

	// Layout analysis thresholds
	HeadingScale    float64 // Font ratio above which a line counts as a heading
	RightAlignRatio float64 // Fraction of the page right edge a formula must reach

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:            ModeStdio, // Default to stdio mode for MCP compatibility
		Host:            DefaultHost,
		Port:            DefaultPort,
		PaperDirectory:  currentDir,
		MaxFileSize:     DefaultMaxFileSize,
		HeadingScale:    DefaultHeadingScale,
		RightAlignRatio: DefaultRightAlignRatio,
		Version:         "1.0.0",
		ServerName:      "mcp-paper-auditor",
		LogLevel:        DefaultLogLevel,
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
	if cfg.PaperDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PaperDirectory); err == nil {
			cfg.PaperDirectory = expandedPath
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
	viper.SetEnvPrefix("PAPER_AUDIT")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.PaperDirectory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("headingscale", cfg.HeadingScale)
	viper.SetDefault("rightalignratio", cfg.RightAlignRatio)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.PaperDirectory, "Directory containing papers to audit")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum paper file size in bytes")
	pflag.Float64("headingscale", cfg.HeadingScale, "Font size ratio above which a line counts as a heading")
	pflag.Float64("rightalignratio", cfg.RightAlignRatio, "Fraction of the page right edge a numbered formula must reach")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("dir", pflag.Lookup("dir"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
	_ = viper.BindPFlag("headingscale", pflag.Lookup("headingscale"))
	_ = viper.BindPFlag("rightalignratio", pflag.Lookup("rightalignratio"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMCP Paper Auditor - A Model Context Protocol server for auditing paper layout\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                         "+
			"# stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/papers                   "+
			"# stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --dir=/path/to/papers     # server mode\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --host=0.0.0.0 --port=8081 # server on all interfaces\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  PAPER_AUDIT_MODE            Server mode\n")
		fmt.Fprintf(os.Stderr, "  PAPER_AUDIT_HOST            Server host\n")
		fmt.Fprintf(os.Stderr, "  PAPER_AUDIT_PORT            Server port\n")
		fmt.Fprintf(os.Stderr, "  PAPER_AUDIT_DIR             Paper directory\n")
		fmt.Fprintf(os.Stderr, "  PAPER_AUDIT_LOGLEVEL        Log level\n")
		fmt.Fprintf(os.Stderr, "  PAPER_AUDIT_MAXFILESIZE     Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  PAPER_AUDIT_HEADINGSCALE    Heading font ratio\n")
		fmt.Fprintf(os.Stderr, "  PAPER_AUDIT_RIGHTALIGNRATIO Formula alignment ratio\n")
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
	cfg.PaperDirectory = viper.GetString("dir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.HeadingScale = viper.GetFloat64("headingscale")
	cfg.RightAlignRatio = viper.GetFloat64("rightalignratio")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.PaperDirectory == "" {
		return errors.New("paper directory cannot be empty")
	}

	// Create the paper directory if it does not exist yet
	if _, err := os.Stat(c.PaperDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.PaperDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create paper directory %s: %w", c.PaperDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access paper directory %s: %w", c.PaperDirectory, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.HeadingScale <= 1.0 {
		return errors.New("heading scale must be greater than 1.0")
	}

	if c.RightAlignRatio <= 0 || c.RightAlignRatio > 1 {
		return errors.New("right align ratio must be in (0, 1]")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
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
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, PaperDirectory: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.PaperDirectory, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
