package capture

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ironsheep/translayer/internal/bitmap"
)

var (
	// ErrUnsupported is returned on platforms without a window capture backend.
	ErrUnsupported = errors.New("window capture is not supported on this platform")

	// ErrProcessNotFound is returned when no running process has the requested name.
	ErrProcessNotFound = errors.New("process not found")

	// ErrWindowNotFound is returned when a process owns no visible top-level window.
	ErrWindowNotFound = errors.New("window not found")

	errCallFailed = errors.New("call reported failure")
)

// OpError records which operating system call failed during a capture.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("capture: %s failed: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Window is an opaque top-level window handle.
type Window struct {
	handle uintptr
}

// IsZero reports whether w refers to no window.
func (w Window) IsZero() bool {
	return w.handle == 0
}

// String formats the handle in hex, the form ParseWindow accepts.
func (w Window) String() string {
	return fmt.Sprintf("0x%X", w.handle)
}

// ParseWindow parses a handle printed by Window.String.
func ParseWindow(s string) (Window, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 64)
	if err != nil {
		return Window{}, fmt.Errorf("invalid window handle %q: %w", s, err)
	}
	if v == 0 {
		return Window{}, fmt.Errorf("invalid window handle %q: zero", s)
	}
	return Window{handle: uintptr(v)}, nil
}

// Capturer snapshots windows.
type Capturer struct {
	logger *slog.Logger
}

// New returns a Capturer that logs through logger (slog.Default when nil).
func New(logger *slog.Logger) *Capturer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Capturer{logger: logger}
}

// Capture snapshots the client area of w.
//
// It returns ok == false with a nil error when w is not the foreground window.
// Any failing OS call aborts the capture with an *OpError; no partial buffer is
// returned.
func (c *Capturer) Capture(w Window) (pb *bitmap.PixelBuffer, ok bool, err error) {
	if w.IsZero() {
		return nil, false, errors.New("capture: zero window handle")
	}
	pb, ok, err = captureWindow(w, c.logger)
	switch {
	case err != nil:
		c.logger.Warn("capture failed", "window", w, "error", err)
	case !ok:
		c.logger.Debug("window not in foreground", "window", w)
	default:
		c.logger.Debug("window captured", "window", w, "width", pb.Width, "height", pb.Height)
	}
	return pb, ok, err
}

// IsForeground reports whether w currently has input focus.
func IsForeground(w Window) bool {
	return !w.IsZero() && foregroundWindow() == w
}

// Target is an attached process and its main window.
type Target struct {
	Process Process `json:"process"`
	Window  Window  `json:"-"`
}

// Attach finds the process called name and its first visible top-level window.
//
// The process is opened once to check it can be queried; the handle is closed
// before Attach returns.
func Attach(name string) (*Target, error) {
	p, err := FindProcess(name)
	if err != nil {
		return nil, err
	}
	alive, err := processAlive(p.PID)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", name, err)
	}
	if !alive {
		return nil, fmt.Errorf("%w: %s exited", ErrProcessNotFound, name)
	}
	w, err := FindWindow(p.PID)
	if err != nil {
		return nil, fmt.Errorf("unable to find window of %s: %w", name, err)
	}
	return &Target{Process: p, Window: w}, nil
}

// Alive reports whether the target process is still running.
func (t *Target) Alive() (bool, error) {
	return processAlive(t.Process.PID)
}
