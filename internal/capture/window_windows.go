//go:build windows

package capture

import (
	"fmt"
	"sync"

	"golang.org/x/sys/windows"
)

const stillActive = 259

// EnumWindows takes a C callback, so the search state is package level and
// guarded by enumMu.
var (
	enumMu    sync.Mutex
	enumPID   uint32
	enumFound windows.HWND

	enumCallback = windows.NewCallback(func(hwnd windows.HWND, _ uintptr) uintptr {
		var pid uint32
		if _, err := windows.GetWindowThreadProcessId(hwnd, &pid); err != nil {
			return 1
		}
		if pid != enumPID || !windows.IsWindowVisible(hwnd) {
			return 1
		}
		enumFound = hwnd
		return 0
	})
)

// FindWindow returns the first visible top-level window owned by pid.
func FindWindow(pid uint32) (Window, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumPID, enumFound = pid, 0
	err := windows.EnumWindows(enumCallback, nil)
	// Stopping the enumeration early makes EnumWindows report failure.
	if enumFound != 0 {
		return Window{handle: uintptr(enumFound)}, nil
	}
	if err != nil {
		return Window{}, &OpError{Op: "EnumWindows", Err: err}
	}
	return Window{}, fmt.Errorf("%w: pid %d", ErrWindowNotFound, pid)
}

func processAlive(pid uint32) (bool, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return false, &OpError{Op: "OpenProcess", Err: err}
	}
	defer windows.CloseHandle(h)

	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil {
		return false, &OpError{Op: "GetExitCodeProcess", Err: err}
	}
	return code == stillActive, nil
}
