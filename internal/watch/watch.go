// Package watch reads a catalogue region whenever a global hotkey is pressed,
// then copies the text to the clipboard and publishes it to the feed.
//
// The keyboard hook runs on its own goroutine. Reads are started off that
// goroutine and at most one runs at a time; a hotkey pressed while a read is
// in flight is ignored.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ironsheep/translayer/internal/capture"
	"github.com/ironsheep/translayer/internal/feed"
	"github.com/ironsheep/translayer/internal/pipeline"
	"github.com/ironsheep/translayer/internal/region"
)

// ErrHookUnavailable is returned by Run when the global keyboard hook cannot
// be installed, including builds without cgo.
var ErrHookUnavailable = errors.New("watch: keyboard hook unavailable")

type keyEvent struct {
	down    bool
	rawcode uint16
}

// Reader reads a named region of a window.
type Reader interface {
	ReadRegion(w capture.Window, name region.Name) (pipeline.Result, bool, error)
}

// Publisher receives every recognized text.
type Publisher interface {
	Publish(msg feed.Message) error
}

// Options configures a Watcher.
type Options struct {
	ProcessName string
	Region      region.Name
	Hotkey      Hotkey

	Reader    Reader
	Publisher Publisher // optional
	Clipboard Clipboard // optional

	// Attach finds the target window. Defaults to capture.Attach.
	Attach func(name string) (*capture.Target, error)

	Logger *slog.Logger
}

// Watcher ties the hotkey to the read pipeline.
type Watcher struct {
	opts Options

	mu     sync.Mutex
	target *capture.Target
	busy   atomic.Bool
	wg     sync.WaitGroup
}

// New validates opts and returns a Watcher.
func New(opts Options) (*Watcher, error) {
	if opts.Reader == nil {
		return nil, errors.New("watch: reader is required")
	}
	if opts.ProcessName == "" {
		return nil, errors.New("watch: process name is required")
	}
	if opts.Region == "" {
		return nil, errors.New("watch: region is required")
	}
	if opts.Attach == nil {
		opts.Attach = capture.Attach
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Watcher{opts: opts}, nil
}

// Run listens for the hotkey until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	events, stop, err := keyEvents()
	if err != nil {
		return err
	}
	defer stop()

	w.opts.Logger.Info("watching for hotkey", "hotkey", w.opts.Hotkey, "region", w.opts.Region, "process", w.opts.ProcessName)
	return w.listen(ctx, events)
}

// listen feeds key events through the hotkey matcher until ctx is cancelled
// or events closes. In-flight reads finish before it returns.
func (w *Watcher) listen(ctx context.Context, events <-chan keyEvent) error {
	m := newMatcher(w.opts.Hotkey)
	defer w.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return errors.New("watch: keyboard hook stopped")
			}
			if m.feed(ev.down, ev.rawcode) {
				w.fire()
			}
		}
	}
}

// fire starts a read unless one is already running.
func (w *Watcher) fire() {
	if !w.busy.CompareAndSwap(false, true) {
		w.opts.Logger.Debug("hotkey ignored, read in progress")
		return
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.busy.Store(false)
		if _, _, err := w.Trigger(); err != nil {
			w.opts.Logger.Warn("hotkey read failed", "error", err)
		}
	}()
}

// Trigger performs one read and delivers the text. ok is false when the
// target window was not in the foreground.
func (w *Watcher) Trigger() (pipeline.Result, bool, error) {
	target, err := w.attach()
	if err != nil {
		return pipeline.Result{}, false, err
	}

	res, ok, err := w.opts.Reader.ReadRegion(target.Window, w.opts.Region)
	if err != nil || !ok {
		return res, ok, err
	}

	if w.opts.Clipboard != nil && res.Text != "" {
		if err := w.opts.Clipboard.Write(res.Text); err != nil {
			w.opts.Logger.Warn("clipboard write failed", "error", err)
		}
	}
	if w.opts.Publisher != nil {
		msg := feed.Message{ID: res.ID, Text: res.Text, Region: string(res.Region), At: res.At}
		if err := w.opts.Publisher.Publish(msg); err != nil {
			w.opts.Logger.Warn("feed publish failed", "error", err)
		}
	}
	return res, true, nil
}

// attach returns the cached target while its process lives, attaching again
// after it exits.
func (w *Watcher) attach() (*capture.Target, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.target != nil {
		alive, err := w.target.Alive()
		if err == nil && alive {
			return w.target, nil
		}
		w.opts.Logger.Info("target process gone, attaching again", "pid", w.target.Process.PID)
		w.target = nil
	}

	t, err := w.opts.Attach(w.opts.ProcessName)
	if err != nil {
		return nil, fmt.Errorf("failed to attach to %s: %w", w.opts.ProcessName, err)
	}
	w.opts.Logger.Info("attached", "process", t.Process.Name, "pid", t.Process.PID, "window", t.Window)
	w.target = t
	return t, nil
}
