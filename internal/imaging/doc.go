// Package imaging inspects captured frames: it loads bitmaps, previews and
// outlines catalogue regions, and samples colours.
//
// These operations exist for calibrating the region catalogue against real
// captures. They are not part of the read pipeline, which hands frames
// straight to the recognizer without any processing.
//
// # Coordinate System
//
// All pixel coordinates are relative to the top-left corner of the frame:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (Left,Top) is inclusive and (Right,Bottom) is exclusive
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual image operations
// are stateless and can be called concurrently.
//
// # Colour Representation
//
// Sampled colours are reported as:
//   - Hex: "#RRGGBB" (alpha excluded)
//   - RGB: 8-bit components (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// # Output Images
//
// Previews and overlays are returned as base64-encoded PNG so they can be
// embedded directly in tool results.
package imaging
