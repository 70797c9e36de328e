package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/translayer/internal/bitmap"
	"github.com/ironsheep/translayer/internal/region"
)

func TestWhitelist(t *testing.T) {
	if len(Whitelist) != 95 {
		t.Fatalf("Whitelist has %d characters, want 95", len(Whitelist))
	}
	if Whitelist[0] != ' ' || Whitelist[len(Whitelist)-1] != '~' {
		t.Errorf("Whitelist runs %q..%q, want ' '..'~'", Whitelist[0], Whitelist[len(Whitelist)-1])
	}
	for _, c := range []string{`\`, "A", "z", "0", "'", "\""} {
		if !strings.Contains(Whitelist, c) {
			t.Errorf("Whitelist missing %q", c)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	r := New(Options{}, nil)
	opts := r.Options()
	if opts.Language != "eng" {
		t.Errorf("Language = %q, want eng", opts.Language)
	}
	if opts.Whitelist != Whitelist {
		t.Error("Whitelist not defaulted")
	}

	r = New(Options{Language: "deu", TessdataPrefix: "/opt/tessdata"}, nil)
	if r.Options().Language != "deu" || r.Options().TessdataPrefix != "/opt/tessdata" {
		t.Errorf("explicit options overwritten: %+v", r.Options())
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "DUEL", "DUEL"},
		{"trailing newline", "Drytron Alpha Thuban\n", "Drytron Alpha Thuban"},
		{"surrounding space", "  \tDUEL \n\n", "DUEL"},
		{"empty", "", ""},
		{"only whitespace", " \n ", ""},
		{"non ascii dropped", "Caf\u00e9 \u00b7 Menu", "Caf  Menu"},
		{"control dropped", "A\x00B\x7fC", "ABC"},
		{"inner newline", "two\nlines", "two lines"},
		{"symbols kept", `!"#$%&'()*+,-./:;<=>?@[\]^_{|}~`, `!"#$%&'()*+,-./:;<=>?@[\]^_{|}~`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitize(tt.raw, Whitelist)
			if got != tt.want {
				t.Errorf("sanitize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
			for _, c := range got {
				if c < 0x20 || c > 0x7E {
					t.Errorf("sanitize(%q) kept %U", tt.raw, c)
				}
			}
		})
	}
}

func TestSanitizeCustomWhitelist(t *testing.T) {
	if got := sanitize("ABC-123", "0123456789"); got != "123" {
		t.Errorf("got %q, want 123", got)
	}
}

func TestSanitizePanicsOnInvalidUTF8(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("sanitize did not panic on invalid UTF-8")
		}
	}()
	sanitize("ok\xff\xfe", Whitelist)
}

func testImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	// mark the top-left pixel so crops can be located
	img.Set(10, 5, color.Black)
	return img
}

func TestPrepareWholeImage(t *testing.T) {
	data, err := prepare(testImage(40, 20), nil)
	if err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("prepare produced invalid PNG: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 20 {
		t.Errorf("size = %v, want 40x20", img.Bounds())
	}
}

func TestPrepareCrop(t *testing.T) {
	rect := &region.Rectangle{Left: 10, Top: 5, Right: 30, Bottom: 15}
	data, err := prepare(testImage(40, 20), rect)
	if err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("prepare produced invalid PNG: %v", err)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 10 {
		t.Errorf("size = %v, want 20x10", img.Bounds())
	}
	r, g, b, _ := img.At(img.Bounds().Min.X, img.Bounds().Min.Y).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Error("crop does not start at the rectangle origin")
	}
}

func TestPrepareCropOffsetImage(t *testing.T) {
	// Sub-images keep their parent's coordinates; rectangles stay relative.
	parent := testImage(40, 20)
	sub := parent.SubImage(image.Rect(10, 5, 40, 20))
	data, err := prepare(sub, &region.Rectangle{Left: 0, Top: 0, Right: 5, Bottom: 5})
	if err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("prepare produced invalid PNG: %v", err)
	}
	r, _, _, _ := img.At(img.Bounds().Min.X, img.Bounds().Min.Y).RGBA()
	if r != 0 {
		t.Error("crop is not relative to the image origin")
	}
}

func TestPrepareRejectsBadRegions(t *testing.T) {
	img := testImage(40, 20)
	bad := []region.Rectangle{
		{Left: 0, Top: 0, Right: 41, Bottom: 10},
		{Left: -1, Top: 0, Right: 10, Bottom: 10},
		{Left: 10, Top: 10, Right: 10, Bottom: 15},
		{Left: 20, Top: 0, Right: 10, Bottom: 10},
	}
	for _, rect := range bad {
		if _, err := prepare(img, &rect); err == nil {
			t.Errorf("prepare accepted %s", rect)
		}
	}
	if _, err := prepare(nil, nil); err == nil {
		t.Error("prepare accepted nil image")
	}
}

func TestRecognizeBitmapRejectsGarbage(t *testing.T) {
	_, err := New(Options{}, nil).RecognizeBitmap([]byte("garbage"), nil)
	if err == nil {
		t.Error("RecognizeBitmap accepted garbage")
	}
}

func TestRecognizeFileMissing(t *testing.T) {
	_, err := New(Options{}, nil).RecognizeFile("/nonexistent/path/image.bmp", nil)
	if err == nil {
		t.Error("RecognizeFile should fail for non-existent file")
	}
}

func TestOpenImageCaptureBitmap(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	draw.Draw(src, src.Bounds(), &image.Uniform{color.NRGBA{R: 0x80, G: 0x40, B: 0x20, A: 0xFF}}, image.Point{}, draw.Src)
	path := filepath.Join(t.TempDir(), "frame.BMP")
	if err := bitmap.WriteFile(path, bitmap.FromImage(src)); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	img, err := openImage(path)
	if err != nil {
		t.Fatalf("openImage: %v", err)
	}
	if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 4 {
		t.Errorf("bounds: got %v", img.Bounds())
	}
	r, g, b, _ := img.At(2, 1).RGBA()
	if r>>8 != 0x80 || g>>8 != 0x40 || b>>8 != 0x20 {
		t.Errorf("pixel: got %02x%02x%02x, want 804020", r>>8, g>>8, b>>8)
	}
}

func TestOpenImageFallsBackForOtherFormats(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 5))
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	img, err := openImage(path)
	if err != nil {
		t.Fatalf("openImage: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 5 {
		t.Errorf("bounds: got %v", img.Bounds())
	}
}

func TestOpenImageMissingBitmap(t *testing.T) {
	if _, err := openImage(filepath.Join(t.TempDir(), "missing.bmp")); err == nil {
		t.Error("openImage should fail for a missing bitmap")
	}
}
