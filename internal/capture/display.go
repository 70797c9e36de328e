package capture

import (
	"errors"
	"log/slog"

	"github.com/kbinani/screenshot"

	"github.com/ironsheep/translayer/internal/region"
)

// ErrNoDisplay is returned when no active display is attached.
var ErrNoDisplay = errors.New("no active displays found")

// DisplayResolution returns the pixel size of the primary display.
func DisplayResolution() (region.Resolution, error) {
	declareDPIAwareness(slog.Default())
	if screenshot.NumActiveDisplays() == 0 {
		return region.Resolution{}, ErrNoDisplay
	}
	b := screenshot.GetDisplayBounds(0)
	return region.Resolution{Width: b.Dx(), Height: b.Dy()}, nil
}
