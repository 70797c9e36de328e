//go:build !windows

package capture

import (
	"log/slog"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/ironsheep/translayer/internal/bitmap"
)

func declareDPIAwareness(*slog.Logger) {}

func foregroundWindow() Window {
	return Window{}
}

func captureWindow(Window, *slog.Logger) (*bitmap.PixelBuffer, bool, error) {
	return nil, false, ErrUnsupported
}

// FindWindow returns the first visible top-level window owned by pid.
func FindWindow(uint32) (Window, error) {
	return Window{}, ErrUnsupported
}

func processAlive(pid uint32) (bool, error) {
	return process.PidExists(int32(pid))
}
