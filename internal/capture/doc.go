// Package capture snapshots the client area of a foreground window and finds the
// window that belongs to a named process.
//
// # Foreground Guard
//
// Capture only reads a window while it has input focus. Reading a background
// window through the screen device context returns whatever is drawn on top of
// it, so a window that is not in the foreground yields ok == false instead of an
// error and no graphics resources are acquired. Callers retry on their next
// trigger.
//
// # Geometry
//
// The process is declared per-monitor DPI aware (v2) before any geometry query,
// so every rectangle is in physical pixels. The captured area is the window's
// DWM extended frame bounds rather than GetWindowRect, which includes the
// invisible resize border added by the compositor.
//
// # Resources
//
// Every device context and GDI object acquired during a capture is released
// before Capture returns, on success and on every error path. Capture is
// expected to run many times per session.
//
// # Platforms
//
// Capture and FindWindow are implemented with GDI/user32/DWM and only work on
// Windows. Other platforms return ErrUnsupported. FindProcess uses gopsutil and
// works everywhere.
package capture
