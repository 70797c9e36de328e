package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/translayer/internal/region"
)

// DefaultOverlayColor is used when no outline colour is given.
const DefaultOverlayColor = "#FF0000"

// OverlayResult contains the frame with region outlines drawn on it.
type OverlayResult struct {
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	ImageBase64 string         `json:"image_base64"`
	MimeType    string         `json:"mime_type"`
	Regions     []region.Entry `json:"regions"`
}

// Overlay outlines every catalogue region on a copy of img, scaled to the
// image size, and labels each outline with its name.
func Overlay(img image.Image, catalogue *region.Catalogue, outlineHex string) (*OverlayResult, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	outline, err := parseHexColor(outlineHex)
	if err != nil {
		return nil, err
	}

	result := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	entries := catalogue.Scaled(region.Resolution{Width: width, Height: height})
	for _, e := range entries {
		drawOutline(result, e.Rectangle.Bounds(), outline)
		drawLabel(result, e.Rectangle.Left, e.Rectangle.Top, string(e.Name), outline)
	}

	data, err := encodePNG(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &OverlayResult{
		Width:       width,
		Height:      height,
		ImageBase64: data,
		MimeType:    "image/png",
		Regions:     entries,
	}, nil
}

// parseHexColor parses "#RRGGBB". An empty string means DefaultOverlayColor.
func parseHexColor(hex string) (color.RGBA, error) {
	if hex == "" {
		hex = DefaultOverlayColor
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// drawOutline draws a one pixel border just inside r, clipped to img.
func drawOutline(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, c)
		img.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, c)
		img.SetRGBA(r.Max.X-1, y, c)
	}
}

// drawLabel writes text on a filled box sitting on top of (x, y), or just
// below it when there is no room above.
func drawLabel(img *image.RGBA, x, y int, text string, bg color.RGBA) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil() + 4
	h := face.Height + 2

	top := y - h
	if top < img.Bounds().Min.Y {
		top = y
	}
	box := image.Rect(x, top, x+w, top+h).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(contrastColor(bg)),
		Face: face,
		Dot:  fixed.P(x+2, top+face.Ascent+1),
	}
	d.DrawString(text)
}

// contrastColor picks black or white, whichever reads better on bg.
func contrastColor(bg color.RGBA) color.Color {
	c, _ := colorful.MakeColor(bg)
	if _, _, l := c.Hsl(); l > 0.6 {
		return color.Black
	}
	return color.White
}
