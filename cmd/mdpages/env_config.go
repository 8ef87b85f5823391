package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alnah/go-mdpages/internal/config"
	"github.com/alnah/go-mdpages/internal/hints"
)

// envPrefix starts every environment variable the CLI reads.
const envPrefix = "MDPAGES_"

// envConfig holds configuration from environment variables.
// Provides container-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // MDPAGES_CONFIG: config file name or path
	Addr       string // MDPAGES_ADDR: listen address
	BaseURL    string // MDPAGES_BASE_URL: origin for share URLs
	LogLevel   string // MDPAGES_LOG_LEVEL: debug, info, warn, error
	LogFormat  string // MDPAGES_LOG_FORMAT: text, json
	AssetPath  string // MDPAGES_ASSET_PATH: custom asset directory
	Export     *bool  // MDPAGES_EXPORT: enable PDF export
}

// knownEnvVars lists valid MDPAGES_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDPAGES_CONFIG":     true,
	"MDPAGES_ADDR":       true,
	"MDPAGES_BASE_URL":   true,
	"MDPAGES_LOG_LEVEL":  true,
	"MDPAGES_LOG_FORMAT": true,
	"MDPAGES_ASSET_PATH": true,
	"MDPAGES_EXPORT":     true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("MDPAGES_CONFIG"),
		Addr:       getenv("MDPAGES_ADDR"),
		BaseURL:    getenv("MDPAGES_BASE_URL"),
		LogLevel:   getenv("MDPAGES_LOG_LEVEL"),
		LogFormat:  getenv("MDPAGES_LOG_FORMAT"),
		AssetPath:  getenv("MDPAGES_ASSET_PATH"),
	}

	// Unparseable booleans are ignored, like unset ones.
	if v := getenv("MDPAGES_EXPORT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Export = &b
		}
	}

	return cfg
}

// warnUnknownEnvVars prints a warning for each unrecognized MDPAGES_* variable.
// Helps catch typos like MDPAGES_ADRESS.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies set environment variables over the loaded config.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if env.BaseURL != "" {
		cfg.Server.BaseURL = env.BaseURL
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Log.Format = env.LogFormat
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.Export != nil {
		cfg.Export.Enabled = *env.Export
	}
}

// resolveConfig builds the effective config: the named file (or defaults),
// then environment overrides, then flag overrides, then validation.
func resolveConfig(common commonFlags, env *Environment, applyFlags func(*config.Config)) (*config.Config, error) {
	warnUnknownEnvVars(env.Stderr, env.Environ())
	envCfg := loadEnvConfig(env.Getenv)

	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(userConfigPaths(name)))
			}
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	if applyFlags != nil {
		applyFlags(cfg)
	}
	if common.verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// userConfigPaths returns the per-user location searched for a config name.
func userConfigPaths(name string) []string {
	if strings.ContainsAny(name, `/\`) {
		return nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, config.AppName, name+".yaml")}
}

// applyRenderSettings applies render flag overrides.
func applyRenderSettings(f renderSettingsFlags, cfg *config.Config) {
	if f.hardWraps {
		cfg.Render.HardWraps = true
	}
	if f.noRawHTML {
		cfg.Render.RawHTML = false
	}
	if f.highlightStyle != "" {
		cfg.Render.HighlightStyle = f.highlightStyle
	}
}
