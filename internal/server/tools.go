package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

var (
	processNameProperty = map[string]interface{}{
		"type":        "string",
		"description": "Executable name of the target process (e.g. masterduel.exe). Defaults to the configured process.",
	}
	imagePathProperty = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to a BMP, PNG or JPEG file, or the id returned by window_capture",
	}
	regionProperty = map[string]interface{}{
		"type":        "string",
		"description": "Catalogue region name (see region_list). Scaled to the image size.",
	}
	rectProperty = map[string]interface{}{
		"type":        "object",
		"description": "Pixel rectangle relative to the top-left of the window client area. Right and bottom are exclusive.",
		"properties": map[string]interface{}{
			"left":   map[string]interface{}{"type": "integer"},
			"top":    map[string]interface{}{"type": "integer"},
			"right":  map[string]interface{}{"type": "integer"},
			"bottom": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"left", "top", "right", "bottom"},
	}
)

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Window
		{
			Name:        "window_find",
			Description: "Find the first visible window of a running process and report whether it is in the foreground.",
			InputSchema: objectSchema(map[string]interface{}{
				"process_name": processNameProperty,
			}),
		},
		{
			Name:        "window_capture",
			Description: "Capture the target window as a 32-bit BMP. Only the foreground window is captured; otherwise captured is false and nothing is written. The returned id can be used as path in the bitmap_* and region_* tools.",
			InputSchema: objectSchema(map[string]interface{}{
				"process_name": processNameProperty,
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Where to write the bitmap. Defaults to a new file in the capture directory.",
				},
			}),
		},
		{
			Name:        "window_read_text",
			Description: "Capture the target window and read one line of text from a catalogue region, a rectangle, or the whole window. Only the foreground window is read.",
			InputSchema: objectSchema(map[string]interface{}{
				"process_name": processNameProperty,
				"region":       regionProperty,
				"rect":         rectProperty,
			}),
		},

		// Bitmap
		{
			Name:        "bitmap_info",
			Description: "Report the dimensions and format of an image file, and whether a BMP follows the capture layout (32 bpp, uncompressed, 54-byte header).",
			InputSchema: objectSchema(map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the image file",
				},
			}, "path"),
		},
		{
			Name:        "bitmap_read_text",
			Description: "Read text from a stored image, optionally restricted to a catalogue region or a rectangle.",
			InputSchema: objectSchema(map[string]interface{}{
				"path":   imagePathProperty,
				"region": regionProperty,
				"rect":   rectProperty,
			}, "path"),
		},
		{
			Name:        "bitmap_sample_color",
			Description: "Get the exact colour at a pixel, or at several labelled points. A point with an expected hex colour also reports its CIEDE2000 distance.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": imagePathProperty,
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (0-based, from left)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (0-based, from top)",
				},
				"points": map[string]interface{}{
					"type":        "array",
					"description": "Points to sample instead of x and y",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x":      map[string]interface{}{"type": "integer"},
							"y":      map[string]interface{}{"type": "integer"},
							"label":  map[string]interface{}{"type": "string"},
							"expect": map[string]interface{}{"type": "string", "description": "Expected colour as #RRGGBB"},
						},
						"required": []string{"x", "y"},
					},
				},
			}, "path"),
		},

		// Region catalogue
		{
			Name:        "region_list",
			Description: "List the catalogue regions, scaled to a resolution. Defaults to the design resolution.",
			InputSchema: objectSchema(map[string]interface{}{
				"width":  map[string]interface{}{"type": "integer", "description": "Target width in pixels"},
				"height": map[string]interface{}{"type": "integer", "description": "Target height in pixels"},
			}),
		},
		{
			Name:        "region_preview",
			Description: "Crop a catalogue region from an image and return it as base64-encoded PNG, to check the region lines up with the text.",
			InputSchema: objectSchema(map[string]interface{}{
				"path":   imagePathProperty,
				"region": regionProperty,
				"scale": map[string]interface{}{
					"type":        "number",
					"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
					"default":     1.0,
				},
			}, "path", "region"),
		},
		{
			Name:        "region_overlay",
			Description: "Draw every catalogue region, labelled, over an image and return it as base64-encoded PNG.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": imagePathProperty,
				"color": map[string]interface{}{
					"type":        "string",
					"description": "Outline colour as #RRGGBB. Default #FF0000",
				},
			}, "path"),
		},
		{
			Name:        "region_dominant_colors",
			Description: "List the most common colours inside a catalogue region, a rectangle, or the whole image.",
			InputSchema: objectSchema(map[string]interface{}{
				"path":   imagePathProperty,
				"region": regionProperty,
				"rect":   rectProperty,
				"count": map[string]interface{}{
					"type":        "integer",
					"description": "Number of colours to return. Default 5",
					"default":     5,
				},
			}, "path"),
		},

		{
			Name:        "ocr_info",
			Description: "Report whether the OCR engine is available, its version and the recognition settings.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
