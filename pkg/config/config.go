// Package config loads cmd/attach's optional JSON configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

// Config holds everything cmd/attach needs beyond what's passed on the
// command line. Command-line flags, when given, take precedence over the
// values loaded here (see cmd/attach/main.go).
type Config struct {
	// SocketPath is the default Unix domain socket to attach to when
	// -socket is not given on the command line.
	SocketPath string `json:"socket_path,omitempty"`

	// NoErrorMode mirrors attach.Ctx.NoErrorMode.
	NoErrorMode bool `json:"no_error_mode,omitempty"`

	// LogLevel is one of the pkg/common.LogLevel names ("debug", "info",
	// "warn", "error").
	LogLevel string `json:"log_level,omitempty"`

	// LogFile, if set, redirects the plain-text logger to a file instead of
	// stderr. cmd/attach's structured log always goes to stderr.
	LogFile string `json:"log_file,omitempty"`
}

// Default returns the configuration cmd/attach uses when no config file is
// given. Load starts from it, so fields a file omits keep these values; a
// config file that is given but missing is an error, not a fallback.
func Default() Config {
	return Config{LogLevel: "info"}
}

// Load reads and parses the JSON configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := sonic.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as indented JSON, creating or truncating the
// file as needed.
func Save(path string, cfg Config) error {
	data, err := sonic.ConfigStd.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
