//go:build !cgo

package ocr

func (r *Recognizer) recognize([]byte) (string, error) {
	return "", ErrOCRNotEnabled
}

// Version returns the linked Tesseract version.
func Version() (string, error) {
	return "", ErrOCRNotEnabled
}
