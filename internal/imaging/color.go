package imaging

import (
	"fmt"
	"image"
	"math"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/translayer/internal/region"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor represents a color in HSL color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex string   `json:"hex"`
	RGB RGBColor `json:"rgb"`
	HSL HSLColor `json:"hsl"`
}

// SampleColor returns the colour of the pixel at (x, y), relative to the
// image's top-left corner.
//
// Parameters:
//   - img: The image to sample, usually a decoded capture.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *ColorResult: The colour as hex, RGB and HSL.
//   - error: Non-nil if (x, y) is outside the image.
//
// Captured frames carry no alpha, so alpha is ignored.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < 0 || y < 0 || x >= bounds.Dx() || y >= bounds.Dy() {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", x, y, bounds.Dx(), bounds.Dy())
	}

	r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
	return newColorResult(uint8(r>>8), uint8(g>>8), uint8(b>>8)), nil
}

func newColorResult(r, g, b uint8) *ColorResult {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, l := c.Hsl()
	return &ColorResult{
		Hex: strings.ToUpper(c.Hex()),
		RGB: RGBColor{R: r, G: g, B: b},
		HSL: HSLColor{H: int(h), S: int(math.Round(s * 100)), L: int(math.Round(l * 100))},
	}
}

// LabeledPoint is a pixel coordinate with an optional label.
type LabeledPoint struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label string `json:"label,omitempty"`

	// Expect is an optional "#RRGGBB" colour the pixel is compared against.
	Expect string `json:"expect,omitempty"`
}

// LabeledColorResult combines a colour sample with its location.
type LabeledColorResult struct {
	Label string      `json:"label,omitempty"`
	X     int         `json:"x"`
	Y     int         `json:"y"`
	Color ColorResult `json:"color"`

	// Distance is the CIEDE2000 difference to the expected colour, when one
	// was given. Values under about 0.02 are indistinguishable by eye.
	Distance *float64 `json:"distance,omitempty"`
}

// SampleColors samples every point, in order. Any point outside the image
// fails the whole call.
func SampleColors(img image.Image, points []LabeledPoint) ([]LabeledColorResult, error) {
	results := make([]LabeledColorResult, 0, len(points))

	for _, p := range points {
		c, err := SampleColor(img, p.X, p.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", p.X, p.Y, err)
		}
		res := LabeledColorResult{Label: p.Label, X: p.X, Y: p.Y, Color: *c}
		if p.Expect != "" {
			d, err := colorDistance(c.Hex, p.Expect)
			if err != nil {
				return nil, err
			}
			res.Distance = &d
		}
		results = append(results, res)
	}

	return results, nil
}

func colorDistance(gotHex, wantHex string) (float64, error) {
	got, err := colorful.Hex(gotHex)
	if err != nil {
		return 0, fmt.Errorf("invalid colour %q: %w", gotHex, err)
	}
	want, err := colorful.Hex(wantHex)
	if err != nil {
		return 0, fmt.Errorf("invalid colour %q: %w", wantHex, err)
	}
	return got.DistanceCIEDE2000(want), nil
}

// ColorFrequency is a quantized colour and its share of a region.
type ColorFrequency struct {
	Hex        string  `json:"hex"`
	Percentage float64 `json:"percentage"`
}

// DominantColors returns the count most common colours inside rect, most
// common first. Components are quantized to multiples of 16 so anti-aliased
// text edges group with their neighbours.
func DominantColors(img image.Image, rect region.Rectangle, count int) ([]ColorFrequency, error) {
	bounds := img.Bounds()
	if rect.Empty() || !rect.Within(image.Rect(0, 0, bounds.Dx(), bounds.Dy())) {
		return nil, fmt.Errorf("region %s outside image bounds %dx%d", rect, bounds.Dx(), bounds.Dy())
	}
	area := rect.Bounds().Add(bounds.Min)

	counts := make(map[[3]uint8]int)
	total := 0
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			counts[[3]uint8{uint8(r>>8) &^ 0x0F, uint8(g>>8) &^ 0x0F, uint8(b>>8) &^ 0x0F}]++
			total++
		}
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for rgb, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        newColorResult(rgb[0], rgb[1], rgb[2]).Hex,
			Percentage: float64(n) / float64(total) * 100,
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if count > 0 && len(colors) > count {
		colors = colors[:count]
	}
	return colors, nil
}
