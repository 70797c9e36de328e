package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ironsheep/translayer/internal/capture"
	"github.com/ironsheep/translayer/internal/imaging"
	"github.com/ironsheep/translayer/internal/pipeline"
	"github.com/ironsheep/translayer/internal/region"
)

const notForegroundReason = "window is not in the foreground"

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "window_read_text").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}
	if len(params.Arguments) == 0 {
		params.Arguments = json.RawMessage("{}")
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.opts.Logger.Warn("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Window
	case "window_find":
		return s.handleWindowFind(args)
	case "window_capture":
		return s.handleWindowCapture(args)
	case "window_read_text":
		return s.handleWindowReadText(args)

	// Bitmap
	case "bitmap_info":
		return s.handleBitmapInfo(args)
	case "bitmap_read_text":
		return s.handleBitmapReadText(args)
	case "bitmap_sample_color":
		return s.handleBitmapSampleColor(args)

	// Region catalogue
	case "region_list":
		return s.handleRegionList(args)
	case "region_preview":
		return s.handleRegionPreview(args)
	case "region_overlay":
		return s.handleRegionOverlay(args)
	case "region_dominant_colors":
		return s.handleRegionDominantColors(args)

	case "ocr_info":
		return s.handleOCRInfo()

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func (s *Server) catalogue() *region.Catalogue {
	if s.opts.Reader != nil {
		return s.opts.Reader.Catalogue()
	}
	return region.DefaultCatalogue()
}

func (s *Server) reader() (Reader, error) {
	if s.opts.Reader == nil {
		return nil, errors.New("window reads are not configured")
	}
	return s.opts.Reader, nil
}

func (s *Server) recognizer() (Recognizer, error) {
	if s.opts.Recognizer == nil {
		return nil, errors.New("text recognition is not configured")
	}
	return s.opts.Recognizer, nil
}

func (s *Server) attach(processName string) (*capture.Target, error) {
	if processName == "" {
		processName = s.opts.ProcessName
	}
	if processName == "" {
		return nil, errors.New("process_name is required")
	}
	return s.opts.Attach(processName)
}

// resolveRect picks the rectangle for a read. A region name is scaled to
// frame; a literal rect is used as given; neither means the whole frame.
func resolveRect(c *region.Catalogue, name region.Name, rect *region.Rectangle, frame region.Resolution) (*region.Rectangle, error) {
	if name != "" && rect != nil {
		return nil, errors.New("region and rect are mutually exclusive")
	}
	if name == "" {
		return rect, nil
	}
	r, err := c.Lookup(name, frame)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func resolution(img image.Image) region.Resolution {
	b := img.Bounds()
	return region.Resolution{Width: b.Dx(), Height: b.Dy()}
}

// === Window Handlers ===

type windowArgs struct {
	ProcessName string `json:"process_name"`
}

type windowFindResult struct {
	Process    string `json:"process"`
	PID        uint32 `json:"pid"`
	Window     string `json:"window"`
	Foreground bool   `json:"foreground"`
}

func (s *Server) handleWindowFind(args json.RawMessage) (interface{}, error) {
	var a windowArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	t, err := s.attach(a.ProcessName)
	if err != nil {
		return nil, err
	}
	return &windowFindResult{
		Process:    t.Process.Name,
		PID:        t.Process.PID,
		Window:     t.Window.String(),
		Foreground: capture.IsForeground(t.Window),
	}, nil
}

type windowCaptureArgs struct {
	ProcessName string `json:"process_name"`
	Path        string `json:"path"`
}

type windowCaptureResult struct {
	Captured bool   `json:"captured"`
	Reason   string `json:"reason,omitempty"`
	ID       string `json:"id,omitempty"`
	Path     string `json:"path,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

func (s *Server) handleWindowCapture(args json.RawMessage) (interface{}, error) {
	var a windowCaptureArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	r, err := s.reader()
	if err != nil {
		return nil, err
	}
	t, err := s.attach(a.ProcessName)
	if err != nil {
		return nil, err
	}
	if a.Path == "" {
		a.Path = filepath.Join(s.opts.CaptureDir, "capture-"+uuid.NewString()+".bmp")
	}

	frame, ok, err := r.Snapshot(t.Window, a.Path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &windowCaptureResult{Reason: notForegroundReason}, nil
	}
	// The file at a.Path changed; drop whatever was decoded from it before.
	s.cache.Evict(a.Path)
	// Later bitmap_* calls may refer to the capture by ID. Only the latest
	// capture is held in memory.
	if _, err := s.cache.Put(frame.ID, frame.Encoded); err != nil {
		return nil, err
	}
	if prev := s.swapLastCapture(frame.ID); prev != "" && prev != frame.ID {
		s.cache.Evict(prev)
	}
	return &windowCaptureResult{
		Captured: true,
		ID:       frame.ID,
		Path:     a.Path,
		Width:    frame.Width,
		Height:   frame.Height,
	}, nil
}

type windowReadTextArgs struct {
	ProcessName string            `json:"process_name"`
	Region      region.Name       `json:"region"`
	Rect        *region.Rectangle `json:"rect"`
}

type readTextResult struct {
	Captured bool   `json:"captured"`
	Reason   string `json:"reason,omitempty"`
	*pipeline.Result
}

func (s *Server) handleWindowReadText(args json.RawMessage) (interface{}, error) {
	var a windowReadTextArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Region != "" && a.Rect != nil {
		return nil, errors.New("region and rect are mutually exclusive")
	}
	r, err := s.reader()
	if err != nil {
		return nil, err
	}
	t, err := s.attach(a.ProcessName)
	if err != nil {
		return nil, err
	}

	var (
		res pipeline.Result
		ok  bool
	)
	if a.Region != "" {
		res, ok, err = r.ReadRegion(t.Window, a.Region)
	} else {
		res, ok, err = r.Read(t.Window, a.Rect)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return &readTextResult{Reason: notForegroundReason}, nil
	}
	return &readTextResult{Captured: true, Result: &res}, nil
}

// === Bitmap Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleBitmapInfo(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadBitmapInfo(a.Path)
}

type bitmapReadTextArgs struct {
	Path   string            `json:"path"`
	Region region.Name       `json:"region"`
	Rect   *region.Rectangle `json:"rect"`
}

type bitmapReadTextResult struct {
	Text   string            `json:"text"`
	Region region.Name       `json:"region,omitempty"`
	Rect   *region.Rectangle `json:"rect,omitempty"`
	Width  int               `json:"width"`
	Height int               `json:"height"`
}

func (s *Server) handleBitmapReadText(args json.RawMessage) (interface{}, error) {
	var a bitmapReadTextArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	rec, err := s.recognizer()
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	res := resolution(img)
	rect, err := resolveRect(s.catalogue(), a.Region, a.Rect, res)
	if err != nil {
		return nil, err
	}
	text, err := rec.Recognize(img, rect)
	if err != nil {
		return nil, err
	}
	return &bitmapReadTextResult{
		Text:   text,
		Region: a.Region,
		Rect:   rect,
		Width:  res.Width,
		Height: res.Height,
	}, nil
}

type bitmapSampleColorArgs struct {
	Path   string                 `json:"path"`
	X      int                    `json:"x"`
	Y      int                    `json:"y"`
	Points []imaging.LabeledPoint `json:"points"`
}

func (s *Server) handleBitmapSampleColor(args json.RawMessage) (interface{}, error) {
	var a bitmapSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	if len(a.Points) > 0 {
		return imaging.SampleColors(img, a.Points)
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

// === Region Catalogue Handlers ===

type regionListArgs struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type regionListResult struct {
	Design     region.Resolution `json:"design"`
	Resolution region.Resolution `json:"resolution"`
	Regions    []region.Entry    `json:"regions"`
}

func (s *Server) handleRegionList(args json.RawMessage) (interface{}, error) {
	var a regionListArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	c := s.catalogue()
	target := c.Design()
	if a.Width != 0 || a.Height != 0 {
		target = region.Resolution{Width: a.Width, Height: a.Height}
		if target.Width <= 0 || target.Height <= 0 {
			return nil, fmt.Errorf("invalid resolution %s", target)
		}
	}
	return &regionListResult{
		Design:     c.Design(),
		Resolution: target,
		Regions:    c.Scaled(target),
	}, nil
}

type regionPreviewArgs struct {
	Path   string      `json:"path"`
	Region region.Name `json:"region"`
	Scale  float64     `json:"scale"`
}

func (s *Server) handleRegionPreview(args json.RawMessage) (interface{}, error) {
	var a regionPreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.CropRegion(img, s.catalogue(), a.Region, a.Scale)
}

type regionOverlayArgs struct {
	Path  string `json:"path"`
	Color string `json:"color"`
}

func (s *Server) handleRegionOverlay(args json.RawMessage) (interface{}, error) {
	var a regionOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Overlay(img, s.catalogue(), a.Color)
}

type regionDominantColorsArgs struct {
	Path   string            `json:"path"`
	Region region.Name       `json:"region"`
	Rect   *region.Rectangle `json:"rect"`
	Count  int               `json:"count"`
}

func (s *Server) handleRegionDominantColors(args json.RawMessage) (interface{}, error) {
	var a regionDominantColorsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	res := resolution(img)
	rect, err := resolveRect(s.catalogue(), a.Region, a.Rect, res)
	if err != nil {
		return nil, err
	}
	if rect == nil {
		rect = &region.Rectangle{Right: res.Width, Bottom: res.Height}
	}
	return imaging.DominantColors(img, *rect, a.Count)
}

func (s *Server) handleOCRInfo() (interface{}, error) {
	rec, err := s.recognizer()
	if err != nil {
		return nil, err
	}
	return rec.Info(), nil
}
