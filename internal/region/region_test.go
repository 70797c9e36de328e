package region

import (
	"image"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectangleGeometry(t *testing.T) {
	tests := []struct {
		name   string
		rect   Rectangle
		width  int
		height int
	}{
		{"card name", Rectangle{Left: 59, Top: 168, Right: 424, Bottom: 201}, 365, 33},
		{"origin", Rectangle{Left: 0, Top: 0, Right: 190, Bottom: 33}, 190, 33},
		{"zero area", Rectangle{Left: 10, Top: 10, Right: 10, Bottom: 10}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.width, tt.rect.Width())
			assert.Equal(t, tt.height, tt.rect.Height())
			assert.Equal(t, tt.rect.Right-tt.rect.Left, tt.rect.Width())
			assert.Equal(t, tt.rect.Bottom-tt.rect.Top, tt.rect.Height())
		})
	}
}

func TestRectangleValidate(t *testing.T) {
	assert.NoError(t, Rectangle{Left: 1, Top: 2, Right: 3, Bottom: 4}.Validate())
	assert.NoError(t, Rectangle{}.Validate())
	assert.Error(t, Rectangle{Left: 5, Right: 4, Bottom: 1}.Validate())
	assert.Error(t, Rectangle{Top: 5, Right: 4, Bottom: 1}.Validate())
}

func TestRectangleEmpty(t *testing.T) {
	assert.True(t, Rectangle{}.Empty())
	assert.True(t, Rectangle{Right: 10}.Empty())
	assert.False(t, Rectangle{Right: 1, Bottom: 1}.Empty())
}

func TestRectangleBounds(t *testing.T) {
	r := Rectangle{Left: 1, Top: 2, Right: 30, Bottom: 40}
	assert.Equal(t, image.Rect(1, 2, 30, 40), r.Bounds())
	assert.Equal(t, r, FromBounds(r.Bounds()))
	assert.True(t, r.Within(image.Rect(0, 0, 30, 40)))
	assert.False(t, r.Within(image.Rect(0, 0, 29, 40)))
}

func TestScaleToLargerResolution(t *testing.T) {
	r := Rectangle{Left: 59, Top: 168, Right: 424, Bottom: 201}
	scaled := r.Scale(Resolution{2048, 1152}, Resolution{4096, 2304})
	assert.Equal(t, Rectangle{Left: 118, Top: 336, Right: 848, Bottom: 402}, scaled)
}

func TestScaleIndependentAxes(t *testing.T) {
	r := Rectangle{Left: 100, Top: 100, Right: 200, Bottom: 200}
	scaled := r.Scale(Resolution{1000, 1000}, Resolution{2000, 500})
	assert.Equal(t, Rectangle{Left: 200, Top: 50, Right: 400, Bottom: 100}, scaled)
}

func TestScaleZeroSourceResolution(t *testing.T) {
	r := Rectangle{Left: 1, Top: 2, Right: 3, Bottom: 4}
	assert.Equal(t, r, r.Scale(Resolution{}, Resolution{1920, 1080}))
}

func TestScaleRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	targets := []Resolution{{1920, 1080}, {2560, 1440}, {1280, 720}, {3840, 2160}, {1366, 768}}

	for i := 0; i < 500; i++ {
		left := rng.Intn(1800)
		top := rng.Intn(1000)
		r := Rectangle{Left: left, Top: top, Right: left + rng.Intn(240), Bottom: top + rng.Intn(150)}
		target := targets[i%len(targets)]

		rx := float64(target.Width) / float64(DesignResolution.Width)
		ry := float64(target.Height) / float64(DesignResolution.Height)
		back := r.ScaleBy(rx, ry).ScaleBy(1/rx, 1/ry)

		// one pixel of rounding in the forward pass is at most 1/r pixels back
		tolX := 0.5/rx + 0.5 + 1e-9
		tolY := 0.5/ry + 0.5 + 1e-9
		assert.InDelta(t, r.Left, back.Left, tolX, "left %v at %s", r, target)
		assert.InDelta(t, r.Right, back.Right, tolX, "right %v at %s", r, target)
		assert.InDelta(t, r.Top, back.Top, tolY, "top %v at %s", r, target)
		assert.InDelta(t, r.Bottom, back.Bottom, tolY, "bottom %v at %s", r, target)
	}
}

func TestParse(t *testing.T) {
	r, err := Parse("0, 0, 190, 33")
	require.NoError(t, err)
	assert.Equal(t, Rectangle{Left: 0, Top: 0, Right: 190, Bottom: 33}, r)

	_, err = Parse("1,2,3")
	assert.Error(t, err)
	_, err = Parse("a,b,c,d")
	assert.Error(t, err)
	_, err = Parse("10,0,5,5")
	assert.Error(t, err)
}

func TestResolutionString(t *testing.T) {
	assert.Equal(t, "2048x1152", DesignResolution.String())
}
