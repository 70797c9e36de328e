// Package config loads translayer settings from a config file, the
// environment and a .env file next to the executable.
//
// Precedence, highest first: command-line flags bound by the CLI, TRANSLAYER_*
// environment variables (a .env file only fills in variables that are not
// already set), translayer.yaml, built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"regexp"
	"strings"

	"github.com/ironsheep/translayer/internal/region"
)

// Config holds every setting.
type Config struct {
	// ProcessName is the executable whose window is read.
	ProcessName string `mapstructure:"process_name"`

	// Language is the Tesseract language code.
	Language string `mapstructure:"language"`

	// TessdataPrefix is the directory holding *.traineddata. Empty uses the
	// engine default.
	TessdataPrefix string `mapstructure:"tessdata_prefix"`

	// Region is the catalogue region read by the hotkey watcher.
	Region string `mapstructure:"region"`

	// CatalogueFile replaces the built-in region catalogue when set.
	CatalogueFile string `mapstructure:"catalogue_file"`

	Hotkey     string `mapstructure:"hotkey"`
	ListenAddr string `mapstructure:"listen_addr"`
	Clipboard  bool   `mapstructure:"clipboard"`
	LogLevel   string `mapstructure:"log_level"`

	// CaptureDir is where captures requested over MCP are written.
	CaptureDir string `mapstructure:"capture_dir"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		ProcessName: "masterduel.exe",
		Language:    "eng",
		Region:      string(region.CardNameDeckEdit),
		Hotkey:      "ctrl+shift+r",
		ListenAddr:  "127.0.0.1:8787",
		Clipboard:   true,
		LogLevel:    "info",
		CaptureDir:  "captures",
	}
}

var languagePattern = regexp.MustCompile(`^[a-z]{3}(_[a-z]+)?(\+[a-z]{3}(_[a-z]+)?)*$`)

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.ProcessName) == "" {
		errs = append(errs, errors.New("process_name must not be empty"))
	}
	if !languagePattern.MatchString(c.Language) {
		errs = append(errs, fmt.Errorf("invalid language %q: want a tesseract code such as eng or eng+deu", c.Language))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.ListenAddr != "" {
		if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
			errs = append(errs, fmt.Errorf("invalid listen_addr %q: %w", c.ListenAddr, err))
		}
	}

	cat, err := c.Catalogue()
	if err != nil {
		errs = append(errs, err)
	} else if c.Region != "" && !cat.Has(region.Name(c.Region)) {
		errs = append(errs, fmt.Errorf("%w: %s", region.ErrUnknownRegion, c.Region))
	}

	return errors.Join(errs...)
}

// Catalogue returns the region catalogue: CatalogueFile when set, otherwise
// the built-in one.
func (c *Config) Catalogue() (*region.Catalogue, error) {
	if c.CatalogueFile == "" {
		return region.DefaultCatalogue(), nil
	}
	cat, err := region.LoadCatalogue(c.CatalogueFile)
	if err != nil {
		return nil, fmt.Errorf("catalogue_file: %w", err)
	}
	return cat, nil
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() slog.Level {
	l, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log_level %q: want debug, info, warn or error", s)
}
