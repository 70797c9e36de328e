package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and OCR engine information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "translayer %s\n", version)
		_, _ = fmt.Fprintf(out, "  Build time: %s\n", buildTime)
		_, _ = fmt.Fprintf(out, "  Git commit: %s\n", commit)

		info := newRecognizer(GetConfig()).Info()
		if info.Available {
			_, _ = fmt.Fprintf(out, "  Tesseract:  %s (%s)\n", info.Version, info.Language)
		} else {
			_, _ = fmt.Fprintf(out, "  Tesseract:  unavailable: %s\n", info.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
