package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ironsheep/translayer/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdin/stdout",
	Long: `Run the Model Context Protocol server. Requests are read from stdin and
responses written to stdout, one JSON-RPC message per line. Configure it as
a stdio server in your MCP client.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	cfg := GetConfig()
	reader, rec, err := newReader(cfg)
	if err != nil {
		return err
	}

	slog.Info("MCP server starting", "version", version, "process", cfg.ProcessName)
	srv := server.New(server.Options{
		Reader:      reader,
		Recognizer:  rec,
		ProcessName: cfg.ProcessName,
		CaptureDir:  cfg.CaptureDir,
		Version:     version,
		In:          cmd.InOrStdin(),
		Out:         cmd.OutOrStdout(),
		Logger:      slog.Default(),
	})
	return srv.Run()
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
