// Package ocr reads a single line of text out of an image using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2). Each call to
// Recognize creates its own engine client and closes it before returning, so a
// Recognizer holds no native state and is safe to share.
//
// # Prerequisites
//
// Tesseract and its English language data must be installed:
//   - Windows: https://github.com/UB-Mannheim/tesseract/wiki
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// When the language data lives outside the default search path, set
// Options.TessdataPrefix to the directory containing eng.traineddata.
//
// Binaries built with CGO_ENABLED=0 compile without the engine; every
// recognition call then returns ErrOCRNotEnabled.
//
// # Recognition Settings
//
// The engine runs with:
//   - language "eng" unless configured otherwise
//   - a character whitelist of printable ASCII (0x20 through 0x7E)
//   - page segmentation mode "raw line" (PSM 13): the input is one line of
//     text, with no layout analysis
//
// Characters outside the whitelist are also dropped from the engine output,
// and the result is trimmed of surrounding whitespace. An image with no
// legible text yields an empty string, not an error.
//
// # Regions
//
// Recognize takes an optional rectangle in image coordinates. The image is
// cropped to it before being handed to the engine. A rectangle that does not
// lie inside the image is an error.
package ocr
