package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "translayer"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "TRANSLAYER"

	// EnvFileVar names an alternative .env file.
	EnvFileVar = "TRANSLAYER_ENV_FILE"
)

// Loader handles loading configuration from various sources.
type Loader struct {
	v       *viper.Viper
	envPath string
}

// NewLoader creates a loader on v. A nil v uses the global viper instance,
// which is the one cobra flags are bound to.
func NewLoader(v *viper.Viper) *Loader {
	if v == nil {
		v = viper.GetViper()
	}
	return &Loader{v: v}
}

// Load reads configFile, or searches the standard locations when configFile
// is empty, and returns the validated configuration.
func (l *Loader) Load(configFile string) (*Config, error) {
	l.loadDotenv()
	l.setupEnvironmentVariables()
	l.setDefaults()

	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", configFile)
		}
		l.v.SetConfigFile(configFile)
	} else {
		l.v.SetConfigName(ConfigFileName)
		l.v.SetConfigType("yaml")
		l.addConfigPaths()
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// ConfigFileUsed returns the path of the config file read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// EnvFileUsed returns the path of the .env file loaded, if any.
func (l *Loader) EnvFileUsed() string {
	return l.envPath
}

// loadDotenv loads a .env next to the executable, or the file named by
// TRANSLAYER_ENV_FILE. Variables already in the environment win.
func (l *Loader) loadDotenv() {
	path := resolveEnvPath()
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err == nil {
		l.envPath = path
	}
}

func resolveEnvPath() string {
	if alt := os.Getenv(EnvFileVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}
	return ""
}

func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")

	if configDir, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		l.v.AddConfigPath(filepath.Join(configDir, "translayer"))
	} else if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".config", "translayer"))
	}

	if appData, ok := os.LookupEnv("APPDATA"); ok {
		l.v.AddConfigPath(filepath.Join(appData, "translayer"))
	}
}

func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func (l *Loader) setDefaults() {
	d := DefaultConfig()

	l.v.SetDefault("process_name", d.ProcessName)
	l.v.SetDefault("language", d.Language)
	l.v.SetDefault("tessdata_prefix", d.TessdataPrefix)
	l.v.SetDefault("region", d.Region)
	l.v.SetDefault("catalogue_file", d.CatalogueFile)
	l.v.SetDefault("hotkey", d.Hotkey)
	l.v.SetDefault("listen_addr", d.ListenAddr)
	l.v.SetDefault("clipboard", d.Clipboard)
	l.v.SetDefault("log_level", d.LogLevel)
	l.v.SetDefault("capture_dir", d.CaptureDir)
}
