package region

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
)

// Rectangle is a pixel region in window client-area coordinates.
type Rectangle struct {
	Left   int `json:"left" yaml:"left"`
	Top    int `json:"top" yaml:"top"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`
}

// Resolution is the pixel size of a display or a captured frame.
type Resolution struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// String formats the resolution as WIDTHxHEIGHT.
func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Width returns Right - Left.
func (r Rectangle) Width() int {
	return r.Right - r.Left
}

// Height returns Bottom - Top.
func (r Rectangle) Height() int {
	return r.Bottom - r.Top
}

// Empty reports whether the rectangle covers no pixels.
func (r Rectangle) Empty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Bounds converts the rectangle into an image.Rectangle.
func (r Rectangle) Bounds() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right, r.Bottom)
}

// Validate reports an inverted rectangle.
func (r Rectangle) Validate() error {
	if r.Right < r.Left || r.Bottom < r.Top {
		return fmt.Errorf("invalid rectangle %s: right must be >= left and bottom must be >= top", r)
	}
	return nil
}

// Within reports whether the rectangle lies completely inside bounds.
func (r Rectangle) Within(bounds image.Rectangle) bool {
	return r.Bounds().In(bounds)
}

// String formats the rectangle as (left,top)-(right,bottom).
func (r Rectangle) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}

// ScaleBy multiplies horizontal coordinates by rx and vertical coordinates by ry,
// rounding each edge to the nearest pixel.
func (r Rectangle) ScaleBy(rx, ry float64) Rectangle {
	return Rectangle{
		Left:   int(math.Round(float64(r.Left) * rx)),
		Top:    int(math.Round(float64(r.Top) * ry)),
		Right:  int(math.Round(float64(r.Right) * rx)),
		Bottom: int(math.Round(float64(r.Bottom) * ry)),
	}
}

// Scale maps a rectangle measured at resolution from onto resolution to.
//
// The ratios are to.Width/from.Width and to.Height/from.Height. A zero-sized
// source resolution leaves the rectangle unchanged.
func (r Rectangle) Scale(from, to Resolution) Rectangle {
	if from.Width <= 0 || from.Height <= 0 {
		return r
	}
	rx := float64(to.Width) / float64(from.Width)
	ry := float64(to.Height) / float64(from.Height)
	return r.ScaleBy(rx, ry)
}

// FromBounds converts an image.Rectangle into a Rectangle.
func FromBounds(b image.Rectangle) Rectangle {
	return Rectangle{Left: b.Min.X, Top: b.Min.Y, Right: b.Max.X, Bottom: b.Max.Y}
}

// Parse reads a rectangle written as "left,top,right,bottom".
func Parse(s string) (Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Rectangle{}, fmt.Errorf("invalid rectangle %q: want left,top,right,bottom", s)
	}
	var vals [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Rectangle{}, fmt.Errorf("invalid rectangle %q: %w", s, err)
		}
		vals[i] = v
	}
	r := Rectangle{Left: vals[0], Top: vals[1], Right: vals[2], Bottom: vals[3]}
	if err := r.Validate(); err != nil {
		return Rectangle{}, err
	}
	return r, nil
}
