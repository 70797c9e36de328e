package bitmap

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"

	"golang.org/x/image/bmp"
)

// DecodeImage decodes an encoded bitmap into an image.Image held in memory.
func DecodeImage(data []byte) (image.Image, error) {
	if _, _, err := DecodeHeaders(data); err != nil {
		return nil, err
	}
	img, err := bmp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode bitmap: %w", err)
	}
	return img, nil
}

// Image encodes pb and decodes it as an image.Image.
func (pb *PixelBuffer) Image() (image.Image, error) {
	data, err := Encode(pb)
	if err != nil {
		return nil, err
	}
	return DecodeImage(data)
}

// FromImage converts img into a bottom-up 32 bpp PixelBuffer.
//
// Alpha is discarded; the fourth byte of every pixel is 0xFF.
func FromImage(img image.Image) *PixelBuffer {
	b := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)

	width, height := b.Dx(), b.Dy()
	stride := width * BytesPerPixel
	pix := make([]byte, stride*height)
	for y := 0; y < height; y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+stride]
		dst := pix[(height-1-y)*stride : (height-y)*stride]
		for x := 0; x < stride; x += BytesPerPixel {
			dst[x+0] = src[x+2]
			dst[x+1] = src[x+1]
			dst[x+2] = src[x+0]
			dst[x+3] = 0xFF
		}
	}
	return &PixelBuffer{Width: width, Height: height, BitsPerPixel: BitsPerPixel, Pix: pix}
}
