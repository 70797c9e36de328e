package watch

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

// Clipboard receives recognized text.
type Clipboard interface {
	Write(text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct {
	once    sync.Once
	initErr error
	mu      sync.Mutex
}

// Write replaces the clipboard contents with text.
func (c *SystemClipboard) Write(text string) error {
	c.once.Do(func() {
		c.initErr = clipboard.Init()
	})
	if c.initErr != nil {
		return fmt.Errorf("failed to initialize clipboard: %w", c.initErr)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
