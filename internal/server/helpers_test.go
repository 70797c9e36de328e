package server

import (
	"encoding/json"
	"image"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/ironsheep/translayer/internal/bitmap"
	"github.com/ironsheep/translayer/internal/capture"
	"github.com/ironsheep/translayer/internal/ocr"
	"github.com/ironsheep/translayer/internal/pipeline"
	"github.com/ironsheep/translayer/internal/region"
)

const (
	testWidth  = 1024
	testHeight = 576
)

// fakeCapturer returns a frame filled with bgra, #804020 when unset.
type fakeCapturer struct {
	ok   bool
	err  error
	bgra [4]byte
}

func (f *fakeCapturer) Capture(capture.Window) (*bitmap.PixelBuffer, bool, error) {
	if f.err != nil || !f.ok {
		return nil, false, f.err
	}
	fill := f.bgra
	if fill == ([4]byte{}) {
		fill = [4]byte{0x20, 0x40, 0x80, 0xFF}
	}
	pix := make([]byte, testWidth*testHeight*bitmap.BytesPerPixel)
	for i := 0; i < len(pix); i += bitmap.BytesPerPixel {
		copy(pix[i:i+bitmap.BytesPerPixel], fill[:])
	}
	pb, err := bitmap.NewPixelBuffer(testWidth, testHeight, pix)
	return pb, err == nil, err
}

type fakeRecognizer struct {
	mu    sync.Mutex
	text  string
	rects []*region.Rectangle
}

func (f *fakeRecognizer) Recognize(_ image.Image, rect *region.Rectangle) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rects = append(f.rects, rect)
	return f.text, nil
}

func (f *fakeRecognizer) Info() ocr.Info {
	return ocr.Info{Available: true, Backend: "fake", Language: "eng", PageSegMode: "raw_line"}
}

func (f *fakeRecognizer) lastRect() *region.Rectangle {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.rects) == 0 {
		return nil
	}
	return f.rects[len(f.rects)-1]
}

type testEnv struct {
	server     *Server
	capturer   *fakeCapturer
	recognizer *fakeRecognizer
	dir        string
	attached   []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		capturer:   &fakeCapturer{ok: true},
		recognizer: &fakeRecognizer{text: "Drytron Alpha Thuban"},
		dir:        t.TempDir(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reader := pipeline.NewReader(env.capturer, env.recognizer, nil, logger)

	env.server = New(Options{
		Reader:      reader,
		Recognizer:  env.recognizer,
		ProcessName: "masterduel.exe",
		CaptureDir:  env.dir,
		Attach: func(name string) (*capture.Target, error) {
			env.attached = append(env.attached, name)
			if name == "missing.exe" {
				return nil, capture.ErrProcessNotFound
			}
			w, err := capture.ParseWindow("0x10")
			if err != nil {
				return nil, err
			}
			return &capture.Target{
				Process: capture.Process{PID: uint32(os.Getpid()), Name: name},
				Window:  w,
			}, nil
		},
		Version: "1.2.3",
		Logger:  logger,
	})
	return env
}

// callTool runs a tools/call request and returns the raw response.
func callTool(t *testing.T, s *Server, name string, args interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{"name": name}
	if args != nil {
		params["arguments"] = args
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// mustCallTool runs a tool that must succeed and decodes its JSON result into v.
func mustCallTool(t *testing.T, s *Server, name string, args interface{}, v interface{}) {
	t.Helper()

	resp := callTool(t, s, name, args)
	if resp.Error != nil {
		t.Fatalf("%s: unexpected error: %s: %v", name, resp.Error.Message, resp.Error.Data)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("%s: result should be a map, got %T", name, resp.Result)
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("%s: unexpected content %v", name, result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("%s: content type: got %v, want text", name, content[0]["type"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("%s: failed to decode result %q: %v", name, text, err)
	}
}

// expectToolError runs a tool that must fail with a tool execution error.
func expectToolError(t *testing.T, s *Server, name string, args interface{}) *MCPError {
	t.Helper()

	resp := callTool(t, s, name, args)
	if resp.Error == nil {
		t.Fatalf("%s: expected error, got result %v", name, resp.Result)
	}
	return resp.Error
}
