package bitmap

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile encodes pb and writes it to path, creating parent directories.
func WriteFile(path string, pb *PixelBuffer) error {
	data, err := Encode(pb)
	if err != nil {
		return err
	}
	return WriteEncoded(path, data)
}

// WriteEncoded writes an already encoded bitmap to path, creating parent
// directories.
func WriteEncoded(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write bitmap: %w", err)
	}
	return nil
}

// ReadFile reads and decodes a bitmap written by WriteFile.
func ReadFile(path string) (*PixelBuffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bitmap: %w", err)
	}
	return Decode(data)
}
