// Package bitmap serializes captured pixel buffers into the device-independent
// bitmap (DIB/BMP) layout and reads them back.
//
// The layout is fixed: a 14-byte file header, a 40-byte BITMAPINFOHEADER and
// the raw 32-bit pixel array, all little-endian with no padding. Identical
// input always encodes to identical bytes, so encoded captures can be compared
// directly against fixture files.
//
// Pixels are stored exactly as GDI returns them for a 32 bpp BI_RGB bitmap:
// four bytes per pixel in B, G, R, X order, rows bottom-up when the header
// height is positive and top-down when it is negative.
//
// DecodeImage turns an encoded bitmap into an image.Image without touching
// the filesystem; this is the form the OCR recognizer consumes.
package bitmap
