package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"

	_ "golang.org/x/image/bmp" // Register BMP format decoder

	"github.com/ironsheep/translayer/internal/bitmap"
)

// ImageCache holds decoded frames keyed by file path or capture ID.
//
// Captures taken in-process are stored with Put under their read ID so tools
// can refer to them without a round trip through the filesystem. Entries
// remain until Evict or Clear.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load returns the image stored under key, reading it from disk when key is
// not cached. BMP, PNG and JPEG files are supported.
func (c *ImageCache) Load(key string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[key]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	data, err := os.ReadFile(key)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 ||
		uint64(cfg.Width)*uint64(cfg.Height)*bitmap.BytesPerPixel > bitmap.MaxImageSize {
		return nil, fmt.Errorf("image dimensions %dx%d are not supported", cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.mu.Lock()
	c.images[key] = img
	c.mu.Unlock()

	return img, nil
}

// Put stores an encoded capture under key.
func (c *ImageCache) Put(key string, encoded []byte) (image.Image, error) {
	img, err := bitmap.DecodeImage(encoded)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.images[key] = img
	c.mu.Unlock()
	return img, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes key from the cache. Unknown keys are ignored.
func (c *ImageCache) Evict(key string) {
	c.mu.Lock()
	delete(c.images, key)
	c.mu.Unlock()
}

// BitmapInfo describes an image file and, for bitmaps, its header fields.
type BitmapInfo struct {
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Format        string `json:"format"`
	FileSizeBytes int64  `json:"file_size_bytes"`

	// Capture is true when the file follows the capture layout: 32 bpp,
	// uncompressed, 54-byte header.
	Capture      bool   `json:"capture"`
	BitsPerPixel int    `json:"bits_per_pixel,omitempty"`
	TopDown      bool   `json:"top_down,omitempty"`
	LayoutError  string `json:"layout_error,omitempty"`
}

// LoadBitmapInfo reads the header of the file at path and reports its
// dimensions and whether it matches the capture layout.
func LoadBitmapInfo(path string) (*BitmapInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	info := &BitmapInfo{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Format:        format,
		FileSizeBytes: int64(len(data)),
	}
	if format != "bmp" {
		return info, nil
	}

	_, ih, err := bitmap.DecodeHeaders(data)
	if err != nil {
		info.LayoutError = err.Error()
		return info, nil
	}
	info.Capture = true
	info.BitsPerPixel = int(ih.BitCount)
	info.TopDown = ih.Height < 0
	return info, nil
}
