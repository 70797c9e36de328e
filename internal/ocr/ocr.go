package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/translayer/internal/bitmap"
	"github.com/ironsheep/translayer/internal/region"
)

// DefaultLanguage is the Tesseract language code used when none is configured.
const DefaultLanguage = "eng"

// Whitelist holds every printable ASCII character, space through tilde.
var Whitelist = func() string {
	var b strings.Builder
	for c := byte(0x20); c <= 0x7E; c++ {
		b.WriteByte(c)
	}
	return b.String()
}()

// ErrOCRNotEnabled is returned by binaries built without cgo.
var ErrOCRNotEnabled = errors.New("OCR not enabled: built without cgo, tesseract unavailable")

// Options configures a Recognizer.
type Options struct {
	// Language is a Tesseract language code. Defaults to DefaultLanguage.
	Language string

	// TessdataPrefix is the directory holding *.traineddata files. Empty
	// means the engine's built-in search path.
	TessdataPrefix string

	// Whitelist restricts the characters the engine may emit. Defaults to
	// Whitelist.
	Whitelist string
}

func (o Options) withDefaults() Options {
	if o.Language == "" {
		o.Language = DefaultLanguage
	}
	if o.Whitelist == "" {
		o.Whitelist = Whitelist
	}
	return o
}

// Recognizer extracts text from images.
type Recognizer struct {
	opts   Options
	logger *slog.Logger
}

// New returns a Recognizer. A nil logger means slog.Default.
func New(opts Options, logger *slog.Logger) *Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recognizer{opts: opts.withDefaults(), logger: logger}
}

// Options returns the effective settings.
func (r *Recognizer) Options() Options {
	return r.opts
}

// Recognize returns the text found in img, restricted to rect when rect is
// not nil.
//
// Parameters:
//   - img: The image to read, usually a decoded capture.
//   - rect: Optional area relative to the image's top-left corner. nil reads
//     the whole image.
//
// Returns:
//   - string: The recognized line, reduced to the configured whitelist with
//     surrounding whitespace trimmed. Empty when nothing was found.
//   - error: Non-nil if rect does not fit the image or the engine fails.
//     Builds without cgo always return ErrOCRNotEnabled.
func (r *Recognizer) Recognize(img image.Image, rect *region.Rectangle) (string, error) {
	data, err := prepare(img, rect)
	if err != nil {
		return "", err
	}
	raw, err := r.recognize(data)
	if err != nil {
		return "", err
	}
	text := sanitize(raw, r.opts.Whitelist)
	r.logger.Debug("text recognized", "rect", rect, "raw", raw, "text", text)
	return text, nil
}

// RecognizeBitmap decodes an encoded bitmap and recognizes text in it.
func (r *Recognizer) RecognizeBitmap(data []byte, rect *region.Rectangle) (string, error) {
	img, err := bitmap.DecodeImage(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode bitmap: %w", err)
	}
	return r.Recognize(img, rect)
}

// RecognizeFile recognizes text in an image file. BMP, PNG, JPEG, GIF and
// TIFF are accepted.
func (r *Recognizer) RecognizeFile(path string, rect *region.Rectangle) (string, error) {
	img, err := openImage(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	return r.Recognize(img, rect)
}

// openImage reads path, decoding capture bitmaps through the bitmap package
// and everything else, other bitmap layouts included, through imaging.Open.
func openImage(path string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".bmp") {
		pb, err := bitmap.ReadFile(path)
		switch {
		case err == nil:
			return pb.Image()
		case !errors.Is(err, bitmap.ErrInvalidBitmap):
			return nil, err
		}
	}
	return imaging.Open(path)
}

// prepare crops img to rect and encodes the result as PNG for the engine.
func prepare(img image.Image, rect *region.Rectangle) ([]byte, error) {
	if img == nil {
		return nil, errors.New("no image to recognize")
	}
	b := img.Bounds()
	if rect != nil {
		if err := rect.Validate(); err != nil {
			return nil, err
		}
		if rect.Empty() || !rect.Within(image.Rect(0, 0, b.Dx(), b.Dy())) {
			return nil, fmt.Errorf("recognition region %s outside %dx%d image", rect, b.Dx(), b.Dy())
		}
		img = imaging.Crop(img, rect.Bounds().Add(b.Min))
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitize drops characters outside allowed and trims the result.
//
// The engine is contracted to return UTF-8. Anything else is a broken engine
// build and panics.
func sanitize(raw, allowed string) string {
	if !utf8.ValidString(raw) {
		panic(fmt.Sprintf("ocr: engine returned invalid UTF-8: %q", raw))
	}
	text := strings.Map(func(c rune) rune {
		if c == '\n' || c == '\t' {
			return ' '
		}
		if !strings.ContainsRune(allowed, c) {
			return -1
		}
		return c
	}, raw)
	return strings.TrimSpace(text)
}

// Info describes the OCR backend.
type Info struct {
	Available      bool   `json:"available"`
	Version        string `json:"version,omitempty"`
	Error          string `json:"error,omitempty"`
	Backend        string `json:"backend"`
	Language       string `json:"language"`
	TessdataPrefix string `json:"tessdata_prefix,omitempty"`
	PageSegMode    string `json:"page_seg_mode"`
}

// Info reports whether the engine can be used with the current settings.
func (r *Recognizer) Info() Info {
	info := Info{
		Backend:        "gosseract",
		Language:       r.opts.Language,
		TessdataPrefix: r.opts.TessdataPrefix,
		PageSegMode:    "raw_line",
	}
	version, err := Version()
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Version = version
	info.Available = true
	return info
}
