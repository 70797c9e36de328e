package imaging

import (
	"errors"
	"image"
	"testing"

	"github.com/ironsheep/translayer/internal/region"
)

func TestCrop(t *testing.T) {
	img := createPatternImage(100, 100)

	result, err := Crop(img, region.Rectangle{Left: 10, Top: 10, Right: 50, Bottom: 30}, 1.0)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if result.Width != 40 || result.Height != 20 {
		t.Errorf("dimensions: got %dx%d, want 40x20", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}
	cropped := decodeResult(t, result.ImageBase64)
	if got := rgbAt(cropped, 0, 0); got != [3]uint8{255, 0, 0} {
		t.Errorf("crop content: got %v, want red", got)
	}
}

func TestCrop_Scale(t *testing.T) {
	img := createPatternImage(100, 100)
	rect := region.Rectangle{Left: 0, Top: 0, Right: 40, Bottom: 20}

	tests := []struct {
		scale         float64
		width, height int
	}{
		{0, 40, 20},
		{1, 40, 20},
		{2, 80, 40},
		{0.5, 20, 10},
	}
	for _, tt := range tests {
		result, err := Crop(img, rect, tt.scale)
		if err != nil {
			t.Fatalf("Crop(scale=%g) failed: %v", tt.scale, err)
		}
		if result.Width != tt.width || result.Height != tt.height {
			t.Errorf("scale %g: got %dx%d, want %dx%d", tt.scale, result.Width, result.Height, tt.width, tt.height)
		}
	}
}

func TestCrop_Invalid(t *testing.T) {
	img := createPatternImage(100, 100)
	tests := []struct {
		name  string
		rect  region.Rectangle
		scale float64
	}{
		{"outside", region.Rectangle{Left: 50, Top: 50, Right: 150, Bottom: 150}, 1},
		{"negative", region.Rectangle{Left: -1, Top: 0, Right: 10, Bottom: 10}, 1},
		{"inverted", region.Rectangle{Left: 50, Top: 10, Right: 10, Bottom: 50}, 1},
		{"empty", region.Rectangle{Left: 10, Top: 10, Right: 10, Bottom: 50}, 1},
		{"negative scale", region.Rectangle{Left: 0, Top: 0, Right: 10, Bottom: 10}, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Crop(img, tt.rect, tt.scale); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCrop_OffsetImage(t *testing.T) {
	// Sub-images keep parent coordinates; crop rectangles stay frame relative.
	parent := createPatternImage(100, 100)
	sub := parent.SubImage(image.Rect(50, 0, 100, 50))

	result, err := Crop(sub, region.Rectangle{Left: 0, Top: 0, Right: 10, Bottom: 10}, 1)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if got := rgbAt(decodeResult(t, result.ImageBase64), 0, 0); got != [3]uint8{0, 255, 0} {
		t.Errorf("crop content: got %v, want green", got)
	}
}

func TestCropRegion(t *testing.T) {
	// half of the design resolution
	img := createInMemoryImage(1024, 576, image.White.C)

	result, err := CropRegion(img, region.DefaultCatalogue(), region.MainMenuDuel, 1)
	if err != nil {
		t.Fatalf("CropRegion failed: %v", err)
	}
	want := region.Rectangle{Left: 70, Top: 113, Right: 195, Bottom: 150}
	if result.Rect != want {
		t.Errorf("Rect: got %v, want %v", result.Rect, want)
	}
	if result.Region != region.MainMenuDuel {
		t.Errorf("Region: got %s", result.Region)
	}
	if result.Width != 125 || result.Height != 37 {
		t.Errorf("dimensions: got %dx%d, want 125x37", result.Width, result.Height)
	}
}

func TestCropRegion_Unknown(t *testing.T) {
	img := createInMemoryImage(10, 10, image.White.C)
	_, err := CropRegion(img, region.DefaultCatalogue(), "missing", 1)
	if !errors.Is(err, region.ErrUnknownRegion) {
		t.Errorf("got %v, want ErrUnknownRegion", err)
	}
}
