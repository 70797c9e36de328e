package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/translayer/internal/region"
)

// CropResult contains the cropped region as PNG.
type CropResult struct {
	Region      region.Name      `json:"region,omitempty"`
	Rect        region.Rectangle `json:"rect"`
	Width       int              `json:"width"`
	Height      int              `json:"height"`
	ImageBase64 string           `json:"image_base64"`
	MimeType    string           `json:"mime_type"`
}

// Crop extracts rect from img, optionally resized by scale.
//
// Parameters:
//   - img: The source image.
//   - rect: The area to keep, relative to the image's top-left corner.
//   - scale: Resize factor for the cropped area. 0 or 1 keeps the original size.
//
// Returns:
//   - *CropResult: The cropped area as base64 PNG with its final size.
//   - error: Non-nil if rect is empty, inverted or outside the image, or
//     scale is negative.
func Crop(img image.Image, rect region.Rectangle, scale float64) (*CropResult, error) {
	bounds := img.Bounds()
	frame := image.Rect(0, 0, bounds.Dx(), bounds.Dy())

	if err := rect.Validate(); err != nil {
		return nil, err
	}
	if rect.Empty() {
		return nil, fmt.Errorf("crop region %s is empty", rect)
	}
	if !rect.Within(frame) {
		return nil, fmt.Errorf("crop region %s outside image bounds %dx%d", rect, frame.Dx(), frame.Dy())
	}
	if scale < 0 {
		return nil, fmt.Errorf("invalid scale %g", scale)
	}

	cropped := imaging.Crop(img, rect.Bounds().Add(bounds.Min))

	if scale != 1.0 && scale > 0 {
		newWidth := max(1, int(float64(cropped.Bounds().Dx())*scale))
		newHeight := max(1, int(float64(cropped.Bounds().Dy())*scale))
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	data, err := encodePNG(cropped)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		Rect:        rect,
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: data,
		MimeType:    "image/png",
	}, nil
}

// CropRegion extracts a catalogue region, scaled to the size of img.
func CropRegion(img image.Image, catalogue *region.Catalogue, name region.Name, scale float64) (*CropResult, error) {
	b := img.Bounds()
	rect, err := catalogue.Lookup(name, region.Resolution{Width: b.Dx(), Height: b.Dy()})
	if err != nil {
		return nil, err
	}
	res, err := Crop(img, rect, scale)
	if err != nil {
		return nil, fmt.Errorf("region %s: %w", name, err)
	}
	res.Region = name
	return res, nil
}

func encodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
