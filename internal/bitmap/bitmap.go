package bitmap

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	// FileType is the "BM" tag at the start of every bitmap file.
	FileType uint16 = 0x4D42

	// FileHeaderSize is the size of FileHeader on the wire.
	FileHeaderSize = 14

	// InfoHeaderSize is the size of InfoHeader on the wire.
	InfoHeaderSize = 40

	// PixelOffset is where the pixel array starts.
	PixelOffset = FileHeaderSize + InfoHeaderSize

	// BitsPerPixel is the only pixel depth captured and encoded.
	BitsPerPixel = 32

	// BytesPerPixel matches BitsPerPixel.
	BytesPerPixel = BitsPerPixel / 8

	// MaxImageSize bounds the pixel array a decoded header may describe.
	MaxImageSize = math.MaxInt32 - PixelOffset

	// compressionRGB is BI_RGB, uncompressed.
	compressionRGB = 0
)

// ErrInvalidBitmap is returned when decoded bytes do not follow the fixed layout.
var ErrInvalidBitmap = errors.New("invalid bitmap")

// FileHeader mirrors BITMAPFILEHEADER.
type FileHeader struct {
	Type      uint16 // Must be FileType.
	Size      uint32 // Total file size in bytes.
	Reserved1 uint16
	Reserved2 uint16
	OffBits   uint32 // Offset of the pixel array.
}

// InfoHeader mirrors BITMAPINFOHEADER.
type InfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32 // Positive = bottom-up rows, negative = top-down.
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

// PixelBuffer is a dense 32 bpp pixel array produced by one capture.
//
// Pix holds Width*Height*4 bytes in B, G, R, X order. Rows are bottom-up unless
// TopDown is set. A PixelBuffer is not modified after creation.
type PixelBuffer struct {
	Width        int
	Height       int
	BitsPerPixel int
	TopDown      bool
	Pix          []byte
}

// NewPixelBuffer wraps pix after checking its length against the dimensions.
func NewPixelBuffer(width, height int, pix []byte) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidBitmap, width, height)
	}
	if want := width * height * BytesPerPixel; len(pix) != want {
		return nil, fmt.Errorf("%w: pixel data is %d bytes, want %d", ErrInvalidBitmap, len(pix), want)
	}
	return &PixelBuffer{Width: width, Height: height, BitsPerPixel: BitsPerPixel, Pix: pix}, nil
}

// Stride returns the number of bytes per row.
func (pb *PixelBuffer) Stride() int {
	return pb.Width * BytesPerPixel
}

// ImageSize returns the number of pixel bytes.
func (pb *PixelBuffer) ImageSize() int {
	return pb.Width * pb.Height * BytesPerPixel
}

func (pb *PixelBuffer) validate() error {
	if pb == nil {
		return fmt.Errorf("%w: nil pixel buffer", ErrInvalidBitmap)
	}
	if pb.BitsPerPixel != BitsPerPixel {
		return fmt.Errorf("%w: %d bits per pixel, want %d", ErrInvalidBitmap, pb.BitsPerPixel, BitsPerPixel)
	}
	if pb.Width <= 0 || pb.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidBitmap, pb.Width, pb.Height)
	}
	if pb.ImageSize() > MaxImageSize {
		return fmt.Errorf("%w: %dx%d exceeds %d pixel bytes", ErrInvalidBitmap, pb.Width, pb.Height, MaxImageSize)
	}
	if len(pb.Pix) != pb.ImageSize() {
		return fmt.Errorf("%w: pixel data is %d bytes, want %d", ErrInvalidBitmap, len(pb.Pix), pb.ImageSize())
	}
	return nil
}

// NewHeaders derives the file and info headers for pb.
func NewHeaders(pb *PixelBuffer) (FileHeader, InfoHeader) {
	size := uint32(pb.ImageSize())
	height := int32(pb.Height)
	if pb.TopDown {
		height = -height
	}
	return FileHeader{
			Type:    FileType,
			Size:    PixelOffset + size,
			OffBits: PixelOffset,
		}, InfoHeader{
			Size:        InfoHeaderSize,
			Width:       int32(pb.Width),
			Height:      height,
			Planes:      1,
			BitCount:    BitsPerPixel,
			Compression: compressionRGB,
			SizeImage:   size,
		}
}

// Encode serializes pb into the fixed bitmap layout.
//
// Parameters:
//   - pb: A 32 bpp pixel buffer. Rows are written in the order they are
//     stored, and TopDown is recorded as a negative height.
//
// Returns:
//   - []byte: The 14 byte file header, the 40 byte info header, then the
//     pixel rows with no padding.
//   - error: Wraps ErrInvalidBitmap if pb is nil or inconsistent.
func Encode(pb *PixelBuffer) ([]byte, error) {
	if err := pb.validate(); err != nil {
		return nil, err
	}
	fh, ih := NewHeaders(pb)

	buf := bytes.NewBuffer(make([]byte, 0, int(fh.Size)))
	// binary.Write of a struct of fixed-size fields emits no padding.
	if err := binary.Write(buf, binary.LittleEndian, fh); err != nil {
		return nil, fmt.Errorf("failed to write file header: %w", err)
	}
	if err := binary.Write(buf, binary.LittleEndian, ih); err != nil {
		return nil, fmt.Errorf("failed to write info header: %w", err)
	}
	buf.Write(pb.Pix)
	return buf.Bytes(), nil
}

// DecodeHeaders reads and validates the two headers at the start of data.
//
// Parameters:
//   - data: The encoded bitmap, headers first.
//
// Returns:
//   - FileHeader, InfoHeader: The parsed headers.
//   - error: Wraps ErrInvalidBitmap if the headers disagree with the fixed
//     layout or describe more than MaxImageSize pixel bytes, or if data is
//     too short to hold the pixel array they describe.
func DecodeHeaders(data []byte) (FileHeader, InfoHeader, error) {
	var fh FileHeader
	var ih InfoHeader
	if len(data) < PixelOffset {
		return fh, ih, fmt.Errorf("%w: %d bytes is shorter than the headers", ErrInvalidBitmap, len(data))
	}
	r := bytes.NewReader(data)
	if err := binary.Read(r, binary.LittleEndian, &fh); err != nil {
		return fh, ih, fmt.Errorf("%w: %v", ErrInvalidBitmap, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &ih); err != nil {
		return fh, ih, fmt.Errorf("%w: %v", ErrInvalidBitmap, err)
	}

	switch {
	case fh.Type != FileType:
		return fh, ih, fmt.Errorf("%w: file type 0x%04X", ErrInvalidBitmap, fh.Type)
	case fh.OffBits != PixelOffset:
		return fh, ih, fmt.Errorf("%w: pixel offset %d, want %d", ErrInvalidBitmap, fh.OffBits, PixelOffset)
	case ih.Size != InfoHeaderSize:
		return fh, ih, fmt.Errorf("%w: info header size %d, want %d", ErrInvalidBitmap, ih.Size, InfoHeaderSize)
	case ih.BitCount != BitsPerPixel:
		return fh, ih, fmt.Errorf("%w: %d bits per pixel, want %d", ErrInvalidBitmap, ih.BitCount, BitsPerPixel)
	case ih.Compression != compressionRGB:
		return fh, ih, fmt.Errorf("%w: compression %d is not supported", ErrInvalidBitmap, ih.Compression)
	case ih.Planes != 1:
		return fh, ih, fmt.Errorf("%w: %d planes", ErrInvalidBitmap, ih.Planes)
	case ih.Width <= 0 || ih.Height == 0:
		return fh, ih, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidBitmap, ih.Width, ih.Height)
	}

	size, err := pixelSize(ih)
	if err != nil {
		return fh, ih, err
	}
	switch {
	case uint64(ih.SizeImage) != size:
		return fh, ih, fmt.Errorf("%w: image size %d, want %d", ErrInvalidBitmap, ih.SizeImage, size)
	case uint64(fh.Size) != PixelOffset+size:
		return fh, ih, fmt.Errorf("%w: file size %d, want %d", ErrInvalidBitmap, fh.Size, PixelOffset+size)
	case uint64(len(data)) < PixelOffset+size:
		return fh, ih, fmt.Errorf("%w: truncated pixel data (%d of %d bytes)", ErrInvalidBitmap, len(data)-PixelOffset, size)
	}
	return fh, ih, nil
}

// pixelSize is the pixel array length ih describes, computed without
// overflow and capped at MaxImageSize.
func pixelSize(ih InfoHeader) (uint64, error) {
	height := int64(ih.Height)
	if height < 0 {
		height = -height
	}
	size := uint64(ih.Width) * uint64(height) * BytesPerPixel
	if size > MaxImageSize {
		return 0, fmt.Errorf("%w: %dx%d exceeds %d pixel bytes", ErrInvalidBitmap, ih.Width, ih.Height, uint64(MaxImageSize))
	}
	return size, nil
}

// Decode parses an encoded bitmap back into a PixelBuffer.
//
// Parameters:
//   - data: An encoded bitmap as produced by Encode.
//
// Returns:
//   - *PixelBuffer: A copy of the pixel rows, with TopDown set from the sign
//     of the stored height.
//   - error: Wraps ErrInvalidBitmap for any header or length mismatch.
func Decode(data []byte) (*PixelBuffer, error) {
	_, ih, err := DecodeHeaders(data)
	if err != nil {
		return nil, err
	}

	height := int(ih.Height)
	topDown := height < 0
	if topDown {
		height = -height
	}
	width := int(ih.Width)
	size := int(ih.SizeImage)

	pix := make([]byte, size)
	copy(pix, data[PixelOffset:PixelOffset+size])
	return &PixelBuffer{
		Width:        width,
		Height:       height,
		BitsPerPixel: int(ih.BitCount),
		TopDown:      topDown,
		Pix:          pix,
	}, nil
}
