package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/translayer/internal/capture"
)

var errNotForeground = errors.New("target window is not in the foreground")

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Save the target window as a 32-bit BMP",
	Long: `Capture the target process window and write it as an uncompressed 32-bit
bitmap. The window must be in the foreground; use --delay to switch to it
first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		out, _ := cmd.Flags().GetString("out")
		delay, _ := cmd.Flags().GetDuration("delay")
		if out == "" {
			out = filepath.Join(cfg.CaptureDir, "capture-"+time.Now().Format("20060102-150405")+".bmp")
		}

		reader, _, err := newReader(cfg)
		if err != nil {
			return err
		}
		target, err := capture.Attach(cfg.ProcessName)
		if err != nil {
			return err
		}
		slog.Debug("attached", "pid", target.Process.PID, "window", target.Window)

		if delay > 0 {
			time.Sleep(delay)
		}
		frame, ok, err := reader.Snapshot(target.Window, out)
		if err != nil {
			return err
		}
		if !ok {
			return errNotForeground
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %dx%d\n", out, frame.Width, frame.Height)
		return nil
	},
}

func init() {
	captureCmd.Flags().StringP("out", "o", "", "output file (default: a timestamped file in capture_dir)")
	captureCmd.Flags().Duration("delay", 0, "wait before capturing")
	rootCmd.AddCommand(captureCmd)
}
