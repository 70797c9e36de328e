// Package server implements the MCP (Model Context Protocol) server that
// exposes window capture and text recognition as tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Logging goes to stderr so it never interleaves with responses.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Window:
//   - window_find: Locate the target process window
//   - window_capture: Save the foreground window as a bitmap
//   - window_read_text: Capture and read a region, rectangle or the whole window
//
// Bitmap:
//   - bitmap_info: Dimensions and capture-layout check
//   - bitmap_read_text: Read text from a stored image
//   - bitmap_sample_color: Colour at one or more pixels
//
// Region catalogue:
//   - region_list: Regions scaled to a resolution
//   - region_preview: Crop of one region
//   - region_overlay: All regions drawn over an image
//   - region_dominant_colors: Colour palette of a region
//
// Engine:
//   - ocr_info: Tesseract availability and settings
//
// Window tools only read the foreground window. When the target is in the
// background they succeed with captured set to false.
//
// # Image Caching
//
// Images are cached by path, and captures by the id window_capture returns,
// for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
package server
