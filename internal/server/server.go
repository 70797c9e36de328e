package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/ironsheep/translayer/internal/capture"
	"github.com/ironsheep/translayer/internal/imaging"
	"github.com/ironsheep/translayer/internal/ocr"
	"github.com/ironsheep/translayer/internal/pipeline"
	"github.com/ironsheep/translayer/internal/region"
)

// ProtocolVersion is the MCP revision the server speaks.
const ProtocolVersion = "2024-11-05"

// Reader runs window reads for the window_* tools.
type Reader interface {
	Read(w capture.Window, rect *region.Rectangle) (pipeline.Result, bool, error)
	ReadRegion(w capture.Window, name region.Name) (pipeline.Result, bool, error)
	Snapshot(w capture.Window, path string) (pipeline.Frame, bool, error)
	Catalogue() *region.Catalogue
}

// Recognizer reads text out of stored bitmaps for the bitmap_* tools.
type Recognizer interface {
	Recognize(img image.Image, rect *region.Rectangle) (string, error)
	Info() ocr.Info
}

// Options wires a Server.
type Options struct {
	Reader     Reader
	Recognizer Recognizer

	// ProcessName is the target used when a tool call names none.
	ProcessName string
	// CaptureDir receives window_capture bitmaps without an explicit path.
	CaptureDir string

	// Attach locates a process window. Defaults to capture.Attach.
	Attach func(name string) (*capture.Target, error)

	Name    string
	Version string

	In     io.Reader
	Out    io.Writer
	Logger *slog.Logger
}

// Server handles MCP protocol communication
type Server struct {
	opts  Options
	cache *imaging.ImageCache

	mu          sync.Mutex
	lastCapture string
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a new MCP server instance
func New(opts Options) *Server {
	if opts.Attach == nil {
		opts.Attach = capture.Attach
	}
	if opts.Name == "" {
		opts.Name = "translayer"
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Server{
		opts:  opts,
		cache: imaging.NewImageCache(),
	}
}

// swapLastCapture records id as the newest in-memory capture and returns
// the one it replaces.
func (s *Server) swapLastCapture(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.lastCapture
	s.lastCapture = id
	return prev
}

// Run reads requests until the input closes.
func (s *Server) Run() error {
	scanner := bufio.NewScanner(s.opts.In)
	// Requests carrying point lists can exceed the default token size.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(s.opts.Out)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.opts.Logger.Warn("failed to parse request", "error", err)
			if err := encoder.Encode(s.errorResponse(nil, -32700, "Parse error", err.Error())); err != nil {
				s.opts.Logger.Error("failed to encode response", "error", err)
			}
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.opts.Logger.Error("failed to encode response", "error", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	s.opts.Logger.Debug("request", "method", req.Method, "id", req.ID)

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": ProtocolVersion,
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    s.opts.Name,
				"version": s.opts.Version,
			},
		},
	}
}
