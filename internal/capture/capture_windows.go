//go:build windows

package capture

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"github.com/ironsheep/translayer/internal/bitmap"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procSetProcessDpiAwarenessContext = user32.NewProc("SetProcessDpiAwarenessContext")
	procSetProcessDPIAware            = user32.NewProc("SetProcessDPIAware")
)

// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2 is ((DPI_AWARENESS_CONTEXT)-4).
const dpiAwarenessPerMonitorV2 = ^uintptr(3)

var dpiOnce sync.Once

// declareDPIAwareness runs once per process. A manifest or an earlier call may
// already have fixed the awareness level, in which case the call fails and the
// existing level stays.
func declareDPIAwareness(logger *slog.Logger) {
	dpiOnce.Do(func() {
		if procSetProcessDpiAwarenessContext.Find() == nil {
			ret, _, callErr := procSetProcessDpiAwarenessContext.Call(dpiAwarenessPerMonitorV2)
			if ret != 0 {
				logger.Debug("DPI awareness set", "level", "per-monitor-v2")
			} else {
				logger.Debug("DPI awareness unchanged", "error", callErr)
			}
			return
		}
		ret, _, _ := procSetProcessDPIAware.Call()
		logger.Debug("DPI awareness set", "level", "system", "ok", ret != 0)
	})
}

func foregroundWindow() Window {
	return Window{handle: uintptr(windows.GetForegroundWindow())}
}

func captureWindow(w Window, logger *slog.Logger) (*bitmap.PixelBuffer, bool, error) {
	if foregroundWindow() != w {
		return nil, false, nil
	}
	declareDPIAwareness(logger)

	frame, err := frameBounds(windows.HWND(w.handle))
	if err != nil {
		return nil, false, err
	}
	width, height := frame.Right-frame.Left, frame.Bottom-frame.Top
	if width <= 0 || height <= 0 {
		return nil, false, &OpError{Op: "DwmGetWindowAttribute", Err: fmt.Errorf("empty frame %dx%d", width, height)}
	}

	screenDC := win.GetDC(0)
	if screenDC == 0 {
		return nil, false, &OpError{Op: "GetDC", Err: errCallFailed}
	}
	defer win.ReleaseDC(0, screenDC)

	memDC := win.CreateCompatibleDC(screenDC)
	if memDC == 0 {
		return nil, false, &OpError{Op: "CreateCompatibleDC", Err: errCallFailed}
	}
	defer win.DeleteDC(memDC)

	hbm := win.CreateCompatibleBitmap(screenDC, width, height)
	if hbm == 0 {
		return nil, false, &OpError{Op: "CreateCompatibleBitmap", Err: errCallFailed}
	}
	defer win.DeleteObject(win.HGDIOBJ(hbm))

	if err := blit(memDC, screenDC, hbm, frame); err != nil {
		return nil, false, err
	}

	// The bitmap must not be selected into a DC while GetDIBits reads it.
	pix, err := readBits(screenDC, hbm, width, height)
	if err != nil {
		return nil, false, err
	}
	pb, err := bitmap.NewPixelBuffer(int(width), int(height), pix)
	if err != nil {
		return nil, false, err
	}
	return pb, true, nil
}

// frameBounds returns the visible window rectangle in physical screen pixels.
func frameBounds(hwnd windows.HWND) (windows.Rect, error) {
	var rect windows.Rect
	err := windows.DwmGetWindowAttribute(hwnd, windows.DWMWA_EXTENDED_FRAME_BOUNDS,
		unsafe.Pointer(&rect), uint32(unsafe.Sizeof(rect)))
	if err != nil {
		return rect, &OpError{Op: "DwmGetWindowAttribute", Err: err}
	}
	return rect, nil
}

// blit copies the frame area of the screen into hbm. hbm is deselected before
// blit returns.
func blit(memDC, screenDC win.HDC, hbm win.HBITMAP, frame windows.Rect) error {
	old := win.SelectObject(memDC, win.HGDIOBJ(hbm))
	if old == 0 {
		return &OpError{Op: "SelectObject", Err: errCallFailed}
	}
	defer win.SelectObject(memDC, old)

	width, height := frame.Right-frame.Left, frame.Bottom-frame.Top
	if !win.BitBlt(memDC, 0, 0, width, height, screenDC, frame.Left, frame.Top, win.SRCCOPY) {
		return &OpError{Op: "BitBlt", Err: errCallFailed}
	}
	return nil
}

// readBits extracts bottom-up 32 bpp BI_RGB rows from hbm.
func readBits(dc win.HDC, hbm win.HBITMAP, width, height int32) ([]byte, error) {
	var hdr win.BITMAPINFOHEADER
	hdr.BiSize = uint32(unsafe.Sizeof(hdr))
	hdr.BiWidth = width
	hdr.BiHeight = height
	hdr.BiPlanes = 1
	hdr.BiBitCount = bitmap.BitsPerPixel
	hdr.BiCompression = win.BI_RGB
	hdr.BiSizeImage = uint32(width) * uint32(height) * bitmap.BytesPerPixel

	pix := make([]byte, int(hdr.BiSizeImage))
	lines := win.GetDIBits(dc, hbm, 0, uint32(height), &pix[0],
		(*win.BITMAPINFO)(unsafe.Pointer(&hdr)), win.DIB_RGB_COLORS)
	if lines == 0 {
		return nil, &OpError{Op: "GetDIBits", Err: errCallFailed}
	}
	if lines != height {
		return nil, &OpError{Op: "GetDIBits", Err: fmt.Errorf("copied %d of %d scan lines", lines, height)}
	}
	return pix, nil
}
