package capture

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// Process identifies a running process.
type Process struct {
	PID  uint32 `json:"pid"`
	Name string `json:"name"`
}

// FindProcess returns the first running process whose executable name equals
// name, ignoring case.
func FindProcess(name string) (Process, error) {
	if name == "" {
		return Process{}, fmt.Errorf("%w: empty name", ErrProcessNotFound)
	}
	procs, err := process.Processes()
	if err != nil {
		return Process{}, fmt.Errorf("failed to list processes: %w", err)
	}
	for _, p := range procs {
		n, err := p.Name()
		if err != nil {
			// exited or access denied between listing and reading
			continue
		}
		if strings.EqualFold(n, name) {
			return Process{PID: uint32(p.Pid), Name: n}, nil
		}
	}
	return Process{}, fmt.Errorf("%w: %s", ErrProcessNotFound, name)
}
