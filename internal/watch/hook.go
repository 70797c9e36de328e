//go:build cgo

package watch

import (
	hook "github.com/robotn/gohook"
)

// keyEvents starts the global keyboard hook. stop ends the hook and must be
// called exactly once.
func keyEvents() (<-chan keyEvent, func(), error) {
	raw := hook.Start()
	if raw == nil {
		return nil, nil, ErrHookUnavailable
	}

	out := make(chan keyEvent, 16)
	done := make(chan struct{})
	go func() {
		defer close(out)
		for {
			select {
			case <-done:
				return
			case ev, ok := <-raw:
				if !ok {
					return
				}
				var down bool
				switch ev.Kind {
				case hook.KeyDown, hook.KeyHold:
					down = true
				case hook.KeyUp:
				default:
					continue
				}
				select {
				case out <- keyEvent{down: down, rawcode: ev.Rawcode}:
				case <-done:
					return
				}
			}
		}
	}()

	stop := func() {
		close(done)
		hook.End()
	}
	return out, stop, nil
}
