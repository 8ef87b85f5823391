// Package config loads and validates the mdpages server configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxAddrLength      = 255  // host:port
	MaxURLLength       = 2048 // Browser limit
	MaxPathLength      = 4096 // PATH_MAX
	MaxStyleNameLength = 64   // "default", "monokai"
	MaxLevelLength     = 10   // "debug", "warn"
	MaxPaperLength     = 10   // "letter", "a4", "legal"
)

// Range limits.
const (
	MaxMathSpanLimit  = 100_000
	MaxTokenLimit     = 16 << 20
	MaxBodyBytesLimit = 64 << 20
	MaxExportSlots    = 8
)

// AppName names the per-user config directory.
const AppName = "go-mdpages"

// Config holds the server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Render  RenderConfig  `yaml:"render"`
	Share   ShareConfig   `yaml:"share"`
	Session SessionConfig `yaml:"session"`
	Export  ExportConfig  `yaml:"export"`
	Assets  AssetsConfig  `yaml:"assets"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	BaseURL         string   `yaml:"baseURL"` // Origin used in share URLs (empty = from request)
	ReadTimeout     Duration `yaml:"readTimeout"`
	WriteTimeout    Duration `yaml:"writeTimeout"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout"`
	MaxBodyBytes    int64    `yaml:"maxBodyBytes"`
}

// RenderConfig defines render pipeline options.
type RenderConfig struct {
	RawHTML        bool   `yaml:"rawHTML"`   // Pass inline HTML through to the sanitizer
	HardWraps      bool   `yaml:"hardWraps"` // Render newlines as <br>
	MaxMathSpan    int    `yaml:"maxMathSpan"`
	KatexCSS       string `yaml:"katexCSS"`
	HighlightStyle string `yaml:"highlightStyle"` // chroma style name
}

// ShareConfig defines share token limits.
type ShareConfig struct {
	MaxTokenLength int `yaml:"maxTokenLength"`
}

// SessionConfig defines live session behavior.
type SessionConfig struct {
	IdleTimeout Duration `yaml:"idleTimeout"`
	EditRate    float64  `yaml:"editRate"` // renders per second, 0 = unthrottled
	EditBurst   int      `yaml:"editBurst"`
}

// ExportConfig defines PDF export.
type ExportConfig struct {
	Enabled bool     `yaml:"enabled"`
	Timeout Duration `yaml:"timeout"`
	Paper   string   `yaml:"paper"` // "letter", "a4", "legal" (default: "letter")
	Slots   int      `yaml:"slots"` // Concurrent exports, 0 = from GOMAXPROCS
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
	Style    string `yaml:"style"`    // Page stylesheet name
}

// LogConfig defines logging options.
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "text" or "json"
}

// DefaultKatexCSS is the stylesheet KaTeX output needs in the browser.
const DefaultKatexCSS = "https://cdn.jsdelivr.net/npm/katex@0.16.11/dist/katex.min.css"

// DefaultConfig returns a configuration that serves on localhost with
// export disabled.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ReadTimeout:     Duration(10 * time.Second),
			WriteTimeout:    Duration(60 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
			MaxBodyBytes:    1 << 20,
		},
		Render: RenderConfig{
			RawHTML:        true,
			MaxMathSpan:    1000,
			KatexCSS:       DefaultKatexCSS,
			HighlightStyle: "monokai",
		},
		Share:   ShareConfig{MaxTokenLength: 64 << 10},
		Session: SessionConfig{IdleTimeout: Duration(30 * time.Minute)},
		Export:  ExportConfig{Enabled: false, Timeout: Duration(30 * time.Second), Paper: "letter"},
		Assets:  AssetsConfig{Style: "default"},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig.
func (c *Config) Validate() error {
	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if err := validateFieldLength("server.baseURL", c.Server.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if c.Server.BaseURL != "" {
		u, err := url.Parse(c.Server.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: server.baseURL must be an absolute http(s) URL, got %q", ErrInvalidValue, c.Server.BaseURL)
		}
	}
	for name, d := range map[string]Duration{
		"server.readTimeout":     c.Server.ReadTimeout,
		"server.writeTimeout":    c.Server.WriteTimeout,
		"server.shutdownTimeout": c.Server.ShutdownTimeout,
		"session.idleTimeout":    c.Session.IdleTimeout,
		"export.timeout":         c.Export.Timeout,
	} {
		if d < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %s", ErrInvalidValue, name, d)
		}
	}
	if err := validateRange("server.maxBodyBytes", c.Server.MaxBodyBytes, MaxBodyBytesLimit); err != nil {
		return err
	}

	if err := validateRange("render.maxMathSpan", int64(c.Render.MaxMathSpan), MaxMathSpanLimit); err != nil {
		return err
	}
	if err := validateFieldLength("render.katexCSS", c.Render.KatexCSS, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.highlightStyle", c.Render.HighlightStyle, MaxStyleNameLength); err != nil {
		return err
	}

	if err := validateRange("share.maxTokenLength", int64(c.Share.MaxTokenLength), MaxTokenLimit); err != nil {
		return err
	}

	if c.Session.EditRate < 0 {
		return fmt.Errorf("%w: session.editRate must not be negative, got %.2f", ErrInvalidValue, c.Session.EditRate)
	}
	if c.Session.EditBurst < 0 {
		return fmt.Errorf("%w: session.editBurst must not be negative, got %d", ErrInvalidValue, c.Session.EditBurst)
	}

	if err := validateFieldLength("export.paper", c.Export.Paper, MaxPaperLength); err != nil {
		return err
	}
	if c.Export.Paper != "" {
		switch strings.ToLower(c.Export.Paper) {
		case "letter", "a4", "legal":
		default:
			return fmt.Errorf("%w: export.paper %q (must be letter, a4, or legal)", ErrInvalidValue, c.Export.Paper)
		}
	}
	if err := validateRange("export.slots", int64(c.Export.Slots), MaxExportSlots); err != nil {
		return err
	}

	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.style", c.Assets.Style, MaxStyleNameLength); err != nil {
		return err
	}

	if err := validateFieldLength("log.level", c.Log.Level, MaxLevelLength); err != nil {
		return err
	}
	if c.Log.Level != "" {
		switch strings.ToLower(c.Log.Level) {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("%w: log.level %q (must be debug, info, warn, or error)", ErrInvalidValue, c.Log.Level)
		}
	}
	if c.Log.Format != "" {
		switch strings.ToLower(c.Log.Format) {
		case "text", "json":
		default:
			return fmt.Errorf("%w: log.format %q (must be text or json)", ErrInvalidValue, c.Log.Format)
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateRange checks 0 <= value <= limit. Zero means "use the default".
func validateRange(fieldName string, value, limit int64) error {
	if value < 0 || value > limit {
		return fmt.Errorf("%w: %s must be between 0 and %d, got %d", ErrInvalidValue, fieldName, limit, value)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := decodeStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-mdpages/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppName, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
