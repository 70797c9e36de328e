package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ironsheep/translayer/internal/capture"
	"github.com/ironsheep/translayer/internal/config"
	"github.com/ironsheep/translayer/internal/ocr"
	"github.com/ironsheep/translayer/internal/pipeline"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"

	cfgFile      string
	globalConfig *config.Config
	configLoader *config.Loader
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "translayer",
	Short: "Read on-screen text from a game window",
	Long: `translayer captures a running application's window and reads text out of
a region of it with Tesseract OCR.

Without a subcommand it runs the MCP server over stdin/stdout.

Examples:
  translayer read --region card_name_deck_edit
  translayer capture --out frame.bmp --delay 3s
  translayer read --bitmap frame.bmp --rect 59,168,424,201
  translayer watch --hotkey ctrl+shift+r`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCommand returns the root command for tests.
func GetRootCommand() *cobra.Command {
	return rootCmd
}

// SetVersionInfo records build information for the version command.
func SetVersionInfo(v, c, built string) {
	version, commit, buildTime = v, c, built
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, built)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is translayer.yaml in ., $HOME/.config/translayer, %APPDATA%/translayer)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("process", "", "executable name of the target process")
	rootCmd.PersistentFlags().String("language", "", "Tesseract language")
	rootCmd.PersistentFlags().String("tessdata-prefix", "", "directory holding traineddata files")
	rootCmd.PersistentFlags().String("catalogue", "", "YAML region catalogue replacing the built-in one")

	bindFlag(rootCmd, "log_level", "log-level")
	bindFlag(rootCmd, "process_name", "process")
	bindFlag(rootCmd, "language", "language")
	bindFlag(rootCmd, "tessdata_prefix", "tessdata-prefix")
	bindFlag(rootCmd, "catalogue_file", "catalogue")
}

// bindFlag binds a persistent or local flag of cmd to a viper key.
func bindFlag(cmd *cobra.Command, key, flag string) {
	f := cmd.PersistentFlags().Lookup(flag)
	if f == nil {
		f = cmd.Flags().Lookup(flag)
	}
	if err := viper.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag, err))
	}
}

// setup loads the configuration and installs the default logger. Logs go to
// stderr because stdout carries MCP traffic and command output.
func setup(cmd *cobra.Command, args []string) error {
	configLoader = config.NewLoader(nil)
	cfg, err := configLoader.Load(cfgFile)
	if err != nil {
		return err
	}
	globalConfig = cfg

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)

	if used := configLoader.ConfigFileUsed(); used != "" {
		logger.Debug("config loaded", "file", used)
	}
	if env := configLoader.EnvFileUsed(); env != "" {
		logger.Debug("environment loaded", "file", env)
	}
	return nil
}

// GetConfig returns the loaded configuration, or the defaults before setup
// has run.
func GetConfig() *config.Config {
	if globalConfig == nil {
		d := config.DefaultConfig()
		return &d
	}
	return globalConfig
}

func newRecognizer(cfg *config.Config) *ocr.Recognizer {
	return ocr.New(ocr.Options{
		Language:       cfg.Language,
		TessdataPrefix: cfg.TessdataPrefix,
	}, slog.Default())
}

func newReader(cfg *config.Config) (*pipeline.Reader, *ocr.Recognizer, error) {
	catalogue, err := cfg.Catalogue()
	if err != nil {
		return nil, nil, err
	}
	rec := newRecognizer(cfg)
	return pipeline.NewReader(capture.New(slog.Default()), rec, catalogue, slog.Default()), rec, nil
}
