package pipeline

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/translayer/internal/bitmap"
	"github.com/ironsheep/translayer/internal/capture"
	"github.com/ironsheep/translayer/internal/region"
)

// Capturer snapshots a window. It returns ok == false when the window is not
// in the foreground.
type Capturer interface {
	Capture(w capture.Window) (pb *bitmap.PixelBuffer, ok bool, err error)
}

// Recognizer extracts text from an image, optionally restricted to rect.
type Recognizer interface {
	Recognize(img image.Image, rect *region.Rectangle) (string, error)
}

// Result is the outcome of one successful read.
type Result struct {
	ID     string            `json:"id"`
	Text   string            `json:"text"`
	Region region.Name       `json:"region,omitempty"`
	Rect   *region.Rectangle `json:"rect,omitempty"`
	Width  int               `json:"width"`
	Height int               `json:"height"`
	At     time.Time         `json:"at"`
	Took   time.Duration     `json:"took"`
}

// Frame is an encoded capture kept for inspection.
type Frame struct {
	ID      string
	At      time.Time
	Encoded []byte
	Width   int
	Height  int
}

// Reader runs the capture and recognition pipeline.
type Reader struct {
	capturer   Capturer
	recognizer Recognizer
	catalogue  *region.Catalogue
	logger     *slog.Logger

	mu   sync.Mutex
	last *Frame
}

// NewReader wires a Reader. A nil catalogue means region.DefaultCatalogue and
// a nil logger means slog.Default.
func NewReader(c Capturer, r Recognizer, catalogue *region.Catalogue, logger *slog.Logger) *Reader {
	if catalogue == nil {
		catalogue = region.DefaultCatalogue()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{capturer: c, recognizer: r, catalogue: catalogue, logger: logger}
}

// Catalogue returns the region catalogue used by ReadRegion.
func (r *Reader) Catalogue() *region.Catalogue {
	return r.catalogue
}

// Read captures w and recognizes the text inside rect, or the whole frame when
// rect is nil. ok is false when w was not in the foreground.
func (r *Reader) Read(w capture.Window, rect *region.Rectangle) (Result, bool, error) {
	return r.read(w, "", func(region.Resolution) (*region.Rectangle, error) {
		return rect, nil
	})
}

// ReadRegion reads the catalogue region called name, scaled to the size of the
// captured frame.
func (r *Reader) ReadRegion(w capture.Window, name region.Name) (Result, bool, error) {
	if !r.catalogue.Has(name) {
		return Result{}, false, fmt.Errorf("%w: %s", region.ErrUnknownRegion, name)
	}
	return r.read(w, name, func(frame region.Resolution) (*region.Rectangle, error) {
		rect, err := r.catalogue.Lookup(name, frame)
		if err != nil {
			return nil, err
		}
		return &rect, nil
	})
}

// Snapshot captures w and writes the encoded bitmap to path.
func (r *Reader) Snapshot(w capture.Window, path string) (Frame, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	logger := r.logger.With("read_id", id)

	frame, ok, err := r.captureFrame(w, id)
	if err != nil || !ok {
		return Frame{}, ok, err
	}
	if err := bitmap.WriteEncoded(path, frame.Encoded); err != nil {
		readsTotal.WithLabelValues(outcomeError).Inc()
		return Frame{}, false, err
	}
	readsTotal.WithLabelValues(outcomeCaptured).Inc()
	logger.Info("snapshot written", "path", path, "width", frame.Width, "height", frame.Height)
	return *frame, true, nil
}

// Last returns the most recent captured frame, if any.
func (r *Reader) Last() (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return Frame{}, false
	}
	return *r.last, true
}

func (r *Reader) read(w capture.Window, name region.Name, resolve func(region.Resolution) (*region.Rectangle, error)) (Result, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	id := uuid.NewString()
	logger := r.logger.With("read_id", id)

	frame, ok, err := r.captureFrame(w, id)
	if err != nil || !ok {
		return Result{}, ok, err
	}

	stage := time.Now()
	img, err := bitmap.DecodeImage(frame.Encoded)
	if err != nil {
		readsTotal.WithLabelValues(outcomeError).Inc()
		return Result{}, false, fmt.Errorf("failed to decode capture: %w", err)
	}
	readDuration.WithLabelValues("decode").Observe(time.Since(stage).Seconds())

	rect, err := resolve(region.Resolution{Width: frame.Width, Height: frame.Height})
	if err != nil {
		readsTotal.WithLabelValues(outcomeError).Inc()
		return Result{}, false, err
	}

	stage = time.Now()
	text, err := r.recognizer.Recognize(img, rect)
	if err != nil {
		readsTotal.WithLabelValues(outcomeError).Inc()
		logger.Warn("recognition failed", "error", err)
		return Result{}, false, fmt.Errorf("failed to recognize text: %w", err)
	}
	readDuration.WithLabelValues("recognize").Observe(time.Since(stage).Seconds())
	recognizedChars.Observe(float64(len(text)))

	res := Result{
		ID:     id,
		Text:   text,
		Region: name,
		Rect:   rect,
		Width:  frame.Width,
		Height: frame.Height,
		At:     frame.At,
		Took:   time.Since(start),
	}
	readsTotal.WithLabelValues(outcomeCaptured).Inc()
	logger.Info("text read", "region", name, "rect", rect, "text", text, "took", res.Took)
	return res, true, nil
}

// captureFrame captures and encodes w, remembering the frame as Last. The
// caller holds r.mu.
func (r *Reader) captureFrame(w capture.Window, id string) (*Frame, bool, error) {
	stage := time.Now()
	pb, ok, err := r.capturer.Capture(w)
	if err != nil {
		readsTotal.WithLabelValues(outcomeError).Inc()
		return nil, false, err
	}
	if !ok {
		readsTotal.WithLabelValues(outcomeNotForeground).Inc()
		r.logger.Debug("read skipped, window not in foreground", "read_id", id, "window", w)
		return nil, false, nil
	}
	if pb == nil {
		readsTotal.WithLabelValues(outcomeError).Inc()
		return nil, false, errors.New("capturer returned no pixels")
	}
	readDuration.WithLabelValues("capture").Observe(time.Since(stage).Seconds())

	stage = time.Now()
	data, err := bitmap.Encode(pb)
	if err != nil {
		readsTotal.WithLabelValues(outcomeError).Inc()
		return nil, false, fmt.Errorf("failed to encode capture: %w", err)
	}
	readDuration.WithLabelValues("encode").Observe(time.Since(stage).Seconds())

	frame := &Frame{ID: id, At: time.Now(), Encoded: data, Width: pb.Width, Height: pb.Height}
	r.last = frame
	return frame, true, nil
}
