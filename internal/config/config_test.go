package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/translayer/internal/region"
)

// isolate runs the test in an empty directory with no config, env or .env
// sources leaking in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv(EnvFileVar, "")
	for _, key := range []string{"PROCESS_NAME", "LANGUAGE", "TESSDATA_PREFIX", "REGION", "CATALOGUE_FILE",
		"HOTKEY", "LISTEN_ADDR", "CLIPBOARD", "LOG_LEVEL", "CAPTURE_DIR"} {
		t.Setenv(EnvPrefix+"_"+key, "")
		os.Unsetenv(EnvPrefix + "_" + key)
	}
	return dir
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := NewLoader(viper.New()).Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
	assert.Equal(t, "masterduel.exe", cfg.ProcessName)
	assert.Equal(t, "card_name_deck_edit", cfg.Region)
	assert.True(t, cfg.Clipboard)
}

func TestLoadSearchedFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "translayer.yaml"), `
process_name: other.exe
log_level: debug
region: main_menu_duel
clipboard: false
`)

	l := NewLoader(viper.New())
	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, "other.exe", cfg.ProcessName)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, "main_menu_duel", cfg.Region)
	assert.False(t, cfg.Clipboard)
	assert.Equal(t, "eng", cfg.Language, "unset keys keep defaults")
	assert.NotEmpty(t, l.ConfigFileUsed())
}

func TestLoadExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, filepath.Join(dir, "custom.yaml"), "language: eng+deu\n")

	cfg, err := NewLoader(viper.New()).Load(path)
	require.NoError(t, err)
	assert.Equal(t, "eng+deu", cfg.Language)

	_, err = NewLoader(viper.New()).Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "does not exist")
}

func TestLoadMalformedFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "translayer.yaml"), "log_level: [unclosed\n")

	_, err := NewLoader(viper.New()).Load("")
	assert.Error(t, err)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "translayer.yaml"), "process_name: file.exe\n")
	t.Setenv("TRANSLAYER_PROCESS_NAME", "env.exe")
	t.Setenv("TRANSLAYER_LISTEN_ADDR", ":9000")

	cfg, err := NewLoader(viper.New()).Load("")
	require.NoError(t, err)
	assert.Equal(t, "env.exe", cfg.ProcessName)
	assert.Equal(t, ":9000", cfg.ListenAddr)
}

func TestDotenv(t *testing.T) {
	dir := isolate(t)
	envFile := writeFile(t, filepath.Join(dir, "settings.env"),
		"TRANSLAYER_CAPTURE_DIR=from-dotenv\nTRANSLAYER_LOG_LEVEL=debug\n")
	t.Setenv(EnvFileVar, envFile)
	t.Setenv("TRANSLAYER_LOG_LEVEL", "warn")
	t.Cleanup(func() { os.Unsetenv("TRANSLAYER_CAPTURE_DIR") })

	l := NewLoader(viper.New())
	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.CaptureDir)
	assert.Equal(t, "warn", cfg.LogLevel, "existing environment wins over .env")
	assert.Equal(t, envFile, l.EnvFileUsed())
}

func TestLoadCustomCatalogue(t *testing.T) {
	dir := isolate(t)
	cat := writeFile(t, filepath.Join(dir, "regions.yaml"), `
design: {width: 1920, height: 1080}
regions:
  card_text: {left: 10, top: 10, right: 200, bottom: 40}
`)
	writeFile(t, filepath.Join(dir, "translayer.yaml"), "catalogue_file: "+cat+"\nregion: card_text\n")

	cfg, err := NewLoader(viper.New()).Load("")
	require.NoError(t, err)

	c, err := cfg.Catalogue()
	require.NoError(t, err)
	assert.Equal(t, region.Resolution{Width: 1920, Height: 1080}, c.Design())
	assert.True(t, c.Has("card_text"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"empty process", func(c *Config) { c.ProcessName = " " }, "process_name"},
		{"bad language", func(c *Config) { c.Language = "English" }, "invalid language"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "invalid log_level"},
		{"bad addr", func(c *Config) { c.ListenAddr = "localhost" }, "invalid listen_addr"},
		{"unknown region", func(c *Config) { c.Region = "nowhere" }, "unknown region"},
		{"missing catalogue", func(c *Config) { c.CatalogueFile = "/nonexistent/regions.yaml" }, "catalogue_file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}

	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	cfg.ListenAddr = ""
	cfg.Region = ""
	assert.NoError(t, cfg.Validate(), "empty listen_addr and region are allowed")
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug, "INFO": slog.LevelInfo, "": slog.LevelInfo,
		"warn": slog.LevelWarn, "warning": slog.LevelWarn, "error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("trace")
	assert.Error(t, err)

	cfg := Config{LogLevel: "bogus"}
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}
