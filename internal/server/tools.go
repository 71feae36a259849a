package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var (
	pathProperty = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
	maskIDProperty = map[string]interface{}{
		"type":        "string",
		"description": "Id of a stored mask, as returned by a selection tool",
	}
	targetMaskProperty = map[string]interface{}{
		"type":        "string",
		"description": "Optional id of a stored mask to combine the new selection into. Omit to create a new mask.",
	}
	modeProperty = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"replace", "union", "subtract"},
		"description": "How the new selection combines with mask_id. Default replace",
		"default":     "replace",
	}
)

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached for the selection and inpaint tools.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Selection
		{
			Name:        "region_select_color",
			Description: "Magic-wand selection: select pixels whose RGB color is within tolerance of the color at a seed point. Contiguous mode grows a connected region from the seed; otherwise every matching pixel in the image is selected. Returns a mask summary with its mask_id.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"x": map[string]interface{}{
						"type":        "number",
						"description": "Seed X coordinate (pixels, or 0-1 when normalized)",
					},
					"y": map[string]interface{}{
						"type":        "number",
						"description": "Seed Y coordinate (pixels, or 0-1 when normalized)",
					},
					"tolerance": map[string]interface{}{
						"type":        "number",
						"description": "Maximum Euclidean RGB distance from the seed color (0-442). Default 32",
						"default":     defaultColorTolerance,
					},
					"contiguous": map[string]interface{}{
						"type":        "boolean",
						"description": "Only select pixels connected to the seed. Default true",
						"default":     true,
					},
					"normalized": map[string]interface{}{
						"type":        "boolean",
						"description": "Interpret x and y as fractions of the image size",
						"default":     false,
					},
					"mode":    modeProperty,
					"mask_id": targetMaskProperty,
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "region_select_rect",
			Description: "Select a rectangle given in image-relative coordinates (0-1). Negative width or height extend to the left or up.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"x": map[string]interface{}{
						"type":        "number",
						"description": "Left edge as a fraction of the image width",
					},
					"y": map[string]interface{}{
						"type":        "number",
						"description": "Top edge as a fraction of the image height",
					},
					"width": map[string]interface{}{
						"type":        "number",
						"description": "Width as a fraction of the image width",
					},
					"height": map[string]interface{}{
						"type":        "number",
						"description": "Height as a fraction of the image height",
					},
					"mode":    modeProperty,
					"mask_id": targetMaskProperty,
				},
				"required": []string{"path", "x", "y", "width", "height"},
			},
		},
		{
			Name:        "region_select_text",
			Description: "Select the lettering Tesseract OCR finds in the image, as word or block boxes. Returns a mask summary plus the recognised boxes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"level": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"word", "block"},
						"description": "Box granularity. Default word",
						"default":     "word",
					},
					"min_confidence": map[string]interface{}{
						"type":        "number",
						"description": "Minimum OCR confidence (0.0-1.0). Default 0",
						"default":     0.0,
					},
					"padding": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels added around each box. Default 0",
						"default":     0,
					},
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code. Defaults to the server setting",
					},
					"mode":    modeProperty,
					"mask_id": targetMaskProperty,
				},
				"required": []string{"path"},
			},
		},

		// Mask editing
		{
			Name:        "mask_paint",
			Description: "Paint onto (or erase from) a stored mask with a round brush dragged through the given points.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"mask_id": maskIDProperty,
					"points": map[string]interface{}{
						"type":        "array",
						"description": "Stroke points in order",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x": map[string]interface{}{"type": "number"},
								"y": map[string]interface{}{"type": "number"},
							},
							"required": []string{"x", "y"},
						},
					},
					"radius": map[string]interface{}{
						"type":        "number",
						"description": "Brush radius in pixels. Default 3",
						"default":     defaultBrushRadius,
					},
					"erase": map[string]interface{}{
						"type":        "boolean",
						"description": "Remove the stroke from the selection instead of adding it",
						"default":     false,
					},
					"normalized": map[string]interface{}{
						"type":        "boolean",
						"description": "Interpret points as fractions of the image size",
						"default":     false,
					},
				},
				"required": []string{"mask_id", "points"},
			},
		},
		{
			Name:        "mask_grow",
			Description: "Grow a stored mask by radius pixels, or shrink it when radius is negative.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"mask_id": maskIDProperty,
					"radius": map[string]interface{}{
						"type":        "number",
						"description": "Pixels to grow by; negative values shrink",
					},
				},
				"required": []string{"mask_id", "radius"},
			},
		},
		{
			Name:        "mask_clean",
			Description: "Fill enclosed holes in a stored mask, such as the gaps inside a speech bubble left around lettering.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"mask_id": maskIDProperty,
				},
				"required": []string{"mask_id"},
			},
		},
		{
			Name:        "mask_discard",
			Description: "Forget a stored mask.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"mask_id": maskIDProperty,
				},
				"required": []string{"mask_id"},
			},
		},

		// Consumers
		{
			Name:        "region_vectorize",
			Description: "Trace the outline of every selected region of a mask into closed paths. Points are anchors with Bezier handles, in image-relative coordinates (0-1). Holes are filled first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"mask_id": maskIDProperty,
					"tolerance": map[string]interface{}{
						"type":        "number",
						"description": "Simplification tolerance in squared pixels. Defaults to the server setting (1.5)",
					},
				},
				"required": []string{"mask_id"},
			},
		},
		{
			Name:        "region_inpaint",
			Description: "Repaint the selected pixels of an image. Auto mode fills each region with its own dominant color; manual mode uses the given color. Holes in the mask are filled first. Returns the result as base64 PNG, or writes it to output_path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file. Defaults to the image the mask was made from",
					},
					"mask_id": maskIDProperty,
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"auto", "manual"},
						"description": "Fill strategy. Default auto",
						"default":     "auto",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Fill color for manual mode (#RRGGBB or #RGB)",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file to write; the format follows the extension",
					},
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return base64 PNG when output_path is set",
						"default":     false,
					},
				},
				"required": []string{"mask_id"},
			},
		},
		{
			Name:        "region_crop",
			Description: "Crop the image to the bounding box of a mask and return it as base64 PNG. With cutout, pixels outside the selection are made transparent.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file. Defaults to the image the mask was made from",
					},
					"mask_id": maskIDProperty,
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
					"padding": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels of context added around the selection. Default 0",
						"default":     0,
					},
					"cutout": map[string]interface{}{
						"type":        "boolean",
						"description": "Make unselected pixels transparent",
						"default":     false,
					},
				},
				"required": []string{"mask_id"},
			},
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
