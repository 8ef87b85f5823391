package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("Server.Addr = %q, want 127.0.0.1:8080", cfg.Server.Addr)
	}
	if !cfg.Render.RawHTML {
		t.Error("Render.RawHTML = false, want true")
	}
	if cfg.Render.MaxMathSpan != 1000 {
		t.Errorf("Render.MaxMathSpan = %d, want 1000", cfg.Render.MaxMathSpan)
	}
	if cfg.Share.MaxTokenLength != 64<<10 {
		t.Errorf("Share.MaxTokenLength = %d, want %d", cfg.Share.MaxTokenLength, 64<<10)
	}
	if cfg.Session.IdleTimeout.Std() != 30*time.Minute {
		t.Errorf("Session.IdleTimeout = %s, want 30m", cfg.Session.IdleTimeout)
	}
	if cfg.Export.Enabled {
		t.Error("Export.Enabled = true, want false")
	}
	if cfg.Assets.BasePath != "" {
		t.Errorf("Assets.BasePath = %q, want empty", cfg.Assets.BasePath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{name: "empty value is valid", value: "", maxLength: 10},
		{name: "value at limit is valid", value: "1234567890", maxLength: 10},
		{name: "value over limit returns error", value: "12345678901", maxLength: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFieldLength("test.field", tt.value, tt.maxLength)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldTooLong) {
					t.Errorf("error = %v, want ErrFieldTooLong", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:   "zero values fall back to defaults",
			mutate: func(c *Config) { *c = Config{} },
		},
		{
			name:   "https base URL",
			mutate: func(c *Config) { c.Server.BaseURL = "https://pages.example.com" },
		},
		{
			name:    "relative base URL",
			mutate:  func(c *Config) { c.Server.BaseURL = "/pages" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "ftp base URL",
			mutate:  func(c *Config) { c.Server.BaseURL = "ftp://example.com" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "base URL too long",
			mutate:  func(c *Config) { c.Server.BaseURL = "https://" + strings.Repeat("a", MaxURLLength) },
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = Duration(-time.Second) },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative body limit",
			mutate:  func(c *Config) { c.Server.MaxBodyBytes = -1 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "math span above limit",
			mutate:  func(c *Config) { c.Render.MaxMathSpan = MaxMathSpanLimit + 1 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "token length above limit",
			mutate:  func(c *Config) { c.Share.MaxTokenLength = MaxTokenLimit + 1 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative edit rate",
			mutate:  func(c *Config) { c.Session.EditRate = -1 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative edit burst",
			mutate:  func(c *Config) { c.Session.EditBurst = -1 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "style name too long",
			mutate:  func(c *Config) { c.Render.HighlightStyle = strings.Repeat("x", MaxStyleNameLength+1) },
			wantErr: ErrFieldTooLong,
		},
		{
			name:   "a4 paper",
			mutate: func(c *Config) { c.Export.Paper = "A4" },
		},
		{
			name:    "unknown paper",
			mutate:  func(c *Config) { c.Export.Paper = "tabloid" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "too many export slots",
			mutate:  func(c *Config) { c.Export.Slots = MaxExportSlots + 1 },
			wantErr: ErrInvalidValue,
		},
		{
			name:   "log level is case insensitive",
			mutate: func(c *Config) { c.Log.Level = "DEBUG" },
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads config over defaults", func(t *testing.T) {
		path := writeConfig(t, "test.yaml", `server:
  addr: ":9000"
  shutdownTimeout: 3s
render:
  rawHTML: false
  highlightStyle: github
session:
  idleTimeout: 5m
  editRate: 4
`)

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Server.Addr != ":9000" {
			t.Errorf("Server.Addr = %q, want :9000", cfg.Server.Addr)
		}
		if cfg.Server.ShutdownTimeout.Std() != 3*time.Second {
			t.Errorf("Server.ShutdownTimeout = %s, want 3s", cfg.Server.ShutdownTimeout)
		}
		if cfg.Render.RawHTML {
			t.Error("Render.RawHTML = true, want false")
		}
		if cfg.Render.HighlightStyle != "github" {
			t.Errorf("Render.HighlightStyle = %q, want github", cfg.Render.HighlightStyle)
		}
		if cfg.Session.IdleTimeout.Std() != 5*time.Minute {
			t.Errorf("Session.IdleTimeout = %s, want 5m", cfg.Session.IdleTimeout)
		}
		if cfg.Session.EditRate != 4 {
			t.Errorf("Session.EditRate = %v, want 4", cfg.Session.EditRate)
		}
		// Untouched sections keep their defaults.
		if cfg.Render.MaxMathSpan != 1000 {
			t.Errorf("Render.MaxMathSpan = %d, want default 1000", cfg.Render.MaxMathSpan)
		}
		if cfg.Log.Format != "text" {
			t.Errorf("Log.Format = %q, want default text", cfg.Log.Format)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		path := writeConfig(t, "invalid.yaml", "server: [unclosed")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		path := writeConfig(t, "unknown.yaml", "server:\n  addr: \":1\"\n  unknownField: x\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("bad duration returns ErrConfigParse", func(t *testing.T) {
		path := writeConfig(t, "duration.yaml", "session:\n  idleTimeout: soon\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("empty file returns ErrConfigParse", func(t *testing.T) {
		path := writeConfig(t, "empty.yaml", "")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("oversized file returns ErrConfigParse", func(t *testing.T) {
		path := writeConfig(t, "big.yaml", "# "+strings.Repeat("x", MaxInputSize))
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value returns ErrInvalidValue", func(t *testing.T) {
		path := writeConfig(t, "level.yaml", "log:\n  level: loud\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("unreadable file returns read error not ErrConfigNotFound", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("root ignores file permissions")
		}
		path := writeConfig(t, "unreadable.yaml", "log:\n  level: info\n")
		if err := os.Chmod(path, 0000); err != nil {
			t.Fatalf("setup chmod: %v", err)
		}
		defer os.Chmod(path, 0600)

		_, err := LoadConfig(path)
		if err == nil {
			t.Fatal("expected error for unreadable file")
		}
		if errors.Is(err, ErrConfigNotFound) {
			t.Error("error should not be ErrConfigNotFound for permission error")
		}
	})

	t.Run("config name resolves yml in current directory", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "local.yml"), []byte("server:\n  addr: \":7000\"\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}
		t.Chdir(dir)

		cfg, err := LoadConfig("local")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Server.Addr != ":7000" {
			t.Errorf("Server.Addr = %q, want :7000", cfg.Server.Addr)
		}
	})

	t.Run("unknown config name lists tried paths", func(t *testing.T) {
		t.Chdir(t.TempDir())

		_, err := LoadConfig("missing-config")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "missing-config.yaml") || !strings.Contains(err.Error(), "missing-config.yml") {
			t.Errorf("error = %v, want both extensions listed", err)
		}
	})
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	out, err := Marshal(DefaultConfig())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{"127.0.0.1:8080", "30m0s", "monokai", "katexCSS:"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("Marshal() output missing %q:\n%s", want, out)
		}
	}

	cfg := DefaultConfig()
	if err := decodeStrict(out, cfg); err != nil {
		t.Fatalf("decodeStrict(Marshal()) error = %v", err)
	}
	if cfg.Session.IdleTimeout.Std() != 30*time.Minute {
		t.Errorf("IdleTimeout after reload = %s", cfg.Session.IdleTimeout)
	}
}

func TestDuration_UnmarshalText(t *testing.T) {
	t.Parallel()

	var d Duration
	if err := d.UnmarshalText([]byte("1m30s")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if d.Std() != 90*time.Second {
		t.Errorf("d = %s, want 1m30s", d)
	}
	if err := d.UnmarshalText([]byte("90")); err == nil {
		t.Error("UnmarshalText(\"90\") expected error for missing unit")
	}
}
