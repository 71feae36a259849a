package server

import (
	"encoding/json"
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/region-tools-mcp/internal/imaging"
	"github.com/ironsheep/region-tools-mcp/internal/inpaint"
	"github.com/ironsheep/region-tools-mcp/internal/logging"
	"github.com/ironsheep/region-tools-mcp/internal/ocr"
	"github.com/ironsheep/region-tools-mcp/internal/selection"
	"github.com/ironsheep/region-tools-mcp/internal/vectorize"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "region_select_color").
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

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		logging.Logger().Debug("tool failed", "tool", params.Name, "error", err)
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

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Validates them and applies default values for optional parameters
//  3. Loads images from cache and masks from the mask store as needed
//  4. Calls the selection/vectorize/inpaint/ocr functions
//  5. Stores any resulting mask and returns a summary or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)

	// Selection
	case "region_select_color":
		return s.handleSelectColor(args)
	case "region_select_rect":
		return s.handleSelectRect(args)
	case "region_select_text":
		return s.handleSelectText(args)

	// Mask editing
	case "mask_paint":
		return s.handleMaskPaint(args)
	case "mask_grow":
		return s.handleMaskGrow(args)
	case "mask_clean":
		return s.handleMaskClean(args)
	case "mask_discard":
		return s.handleMaskDiscard(args)

	// Consumers
	case "region_vectorize":
		return s.handleVectorize(args)
	case "region_inpaint":
		return s.handleInpaint(args)
	case "region_crop":
		return s.handleCrop(args)

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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Mask bookkeeping ===

// Bounds is a pixel rectangle; X2 and Y2 are exclusive.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// MaskSummary describes a stored mask without shipping its cells.
type MaskSummary struct {
	MaskID   string  `json:"mask_id"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Selected int     `json:"selected"`
	Bounds   *Bounds `json:"bounds,omitempty"`
	Source   string  `json:"source,omitempty"`
}

func summarize(id string, m *selection.Mask, source string) *MaskSummary {
	sum := &MaskSummary{
		MaskID:   id,
		Width:    m.Width,
		Height:   m.Height,
		Selected: m.Count(),
		Source:   source,
	}
	if sum.Selected > 0 {
		r := m.Bounds()
		sum.Bounds = &Bounds{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
	}
	return sum
}

// storeSelection merges a freshly computed mask into the store.
//
// With an empty id a new mask is created (a Subtract into nothing yields an
// empty mask). With an existing id the incoming mask is combined into the
// stored one using mode.
func (s *Server) storeSelection(id, mode string, incoming *selection.Mask, source string) (*MaskSummary, error) {
	cm, err := selection.ParseCombineMode(mode)
	if err != nil {
		return nil, err
	}

	if id == "" {
		m := selection.Combine(nil, incoming, cm)
		newID := s.masks.Create(m, source)
		return summarize(newID, m, source), nil
	}

	existing, src, err := s.masks.Get(id)
	if err != nil {
		return nil, err
	}
	if existing.Width != incoming.Width || existing.Height != incoming.Height {
		return nil, fmt.Errorf("mask %s is %dx%d but the selection is %dx%d",
			id, existing.Width, existing.Height, incoming.Width, incoming.Height)
	}

	m := selection.Combine(existing, incoming, cm)
	if err := s.masks.Replace(id, m); err != nil {
		return nil, err
	}
	return summarize(id, m, src), nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Selection Handlers ===

type selectColorArgs struct {
	Path       string   `json:"path"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Tolerance  *float64 `json:"tolerance"`
	Contiguous *bool    `json:"contiguous"`
	Normalized bool     `json:"normalized"`
	Mode       string   `json:"mode"`
	MaskID     string   `json:"mask_id"`
}

// defaultColorTolerance is the RGB distance used when none is given.
const defaultColorTolerance = 32.0

func (s *Server) handleSelectColor(args json.RawMessage) (interface{}, error) {
	var a selectColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	tolerance := defaultColorTolerance
	if a.Tolerance != nil {
		tolerance = *a.Tolerance
	}
	if tolerance < 0 {
		return nil, fmt.Errorf("tolerance must be non-negative, got %v", tolerance)
	}
	contiguous := true
	if a.Contiguous != nil {
		contiguous = *a.Contiguous
	}

	buf, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	x, y, err := toPixel(a.X, a.Y, a.Normalized, buf.Width, buf.Height)
	if err != nil {
		return nil, err
	}

	mask := selection.Select(buf, x, y, tolerance, contiguous)
	return s.storeSelection(a.MaskID, a.Mode, mask, a.Path)
}

// toPixel converts a client coordinate into an in-bounds pixel position.
// Normalised coordinates are fractions of the image size; 1.0 maps onto
// the last pixel.
func toPixel(x, y float64, normalized bool, width, height int) (int, int, error) {
	if normalized {
		if x < 0 || x > 1 || y < 0 || y > 1 {
			return 0, 0, fmt.Errorf("normalized point (%v, %v) outside [0,1]", x, y)
		}
		px := min(int(x*float64(width)), width-1)
		py := min(int(y*float64(height)), height-1)
		return px, py, nil
	}

	px, py := int(math.Floor(x)), int(math.Floor(y))
	if px < 0 || py < 0 || px >= width || py >= height {
		return 0, 0, fmt.Errorf("point (%d, %d) outside %dx%d image", px, py, width, height)
	}
	return px, py, nil
}

type selectRectArgs struct {
	Path   string  `json:"path"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Mode   string  `json:"mode"`
	MaskID string  `json:"mask_id"`
}

func (s *Server) handleSelectRect(args json.RawMessage) (interface{}, error) {
	var a selectRectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	buf, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	r := selection.NormRect{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}
	mask := selection.SelectRect(buf.Width, buf.Height, r)
	return s.storeSelection(a.MaskID, a.Mode, mask, a.Path)
}

type selectTextArgs struct {
	Path          string  `json:"path"`
	MinConfidence float64 `json:"min_confidence"`
	Padding       int     `json:"padding"`
	Level         string  `json:"level"`
	Language      string  `json:"language"`
	Mode          string  `json:"mode"`
	MaskID        string  `json:"mask_id"`
}

// SelectTextResult is a mask summary plus the text boxes that built it.
type SelectTextResult struct {
	*MaskSummary
	Regions []ocr.TextRegion `json:"regions"`
}

func (s *Server) handleSelectText(args json.RawMessage) (interface{}, error) {
	var a selectTextArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	level, err := ocr.ParseLevel(a.Level)
	if err != nil {
		return nil, err
	}
	lang := a.Language
	if lang == "" {
		lang = s.cfg.OCRLanguage
	}

	buf, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	regions, err := ocr.DetectTextRegions(buf, ocr.Options{
		Language:      lang,
		Level:         level,
		MinConfidence: a.MinConfidence,
	})
	if err != nil {
		return nil, err
	}

	mask := ocr.TextMask(buf.Width, buf.Height, regions, a.Padding)
	sum, err := s.storeSelection(a.MaskID, a.Mode, mask, a.Path)
	if err != nil {
		return nil, err
	}
	return &SelectTextResult{MaskSummary: sum, Regions: regions}, nil
}

// === Mask Editing Handlers ===

type maskPaintArgs struct {
	MaskID string `json:"mask_id"`
	Points []struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"points"`
	Radius     *float64 `json:"radius"`
	Erase      bool     `json:"erase"`
	Normalized bool     `json:"normalized"`
}

// defaultBrushRadius is the stroke radius in pixels used when none is given.
const defaultBrushRadius = 3.0

func (s *Server) handleMaskPaint(args json.RawMessage) (interface{}, error) {
	var a maskPaintArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Points) == 0 {
		return nil, fmt.Errorf("points must contain at least one point")
	}
	radius := defaultBrushRadius
	if a.Radius != nil {
		radius = *a.Radius
	}
	if radius < 0 {
		return nil, fmt.Errorf("radius must be non-negative, got %v", radius)
	}

	m, src, err := s.masks.Get(a.MaskID)
	if err != nil {
		return nil, err
	}

	stroke := make([]image.Point, len(a.Points))
	for i, p := range a.Points {
		x, y := p.X, p.Y
		if a.Normalized {
			x *= float64(m.Width)
			y *= float64(m.Height)
		}
		// Strokes may leave the image; Paint clips them.
		stroke[i] = image.Pt(int(math.Floor(x)), int(math.Floor(y)))
	}

	painted := selection.Paint(m, stroke, radius, a.Erase)
	if err := s.masks.Replace(a.MaskID, painted); err != nil {
		return nil, err
	}
	return summarize(a.MaskID, painted, src), nil
}

type maskGrowArgs struct {
	MaskID string  `json:"mask_id"`
	Radius float64 `json:"radius"`
}

func (s *Server) handleMaskGrow(args json.RawMessage) (interface{}, error) {
	var a maskGrowArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	m, src, err := s.masks.Get(a.MaskID)
	if err != nil {
		return nil, err
	}

	var out *selection.Mask
	if a.Radius < 0 {
		out = selection.Shrink(m, -a.Radius)
	} else {
		out = selection.Grow(m, a.Radius)
	}
	if err := s.masks.Replace(a.MaskID, out); err != nil {
		return nil, err
	}
	return summarize(a.MaskID, out, src), nil
}

type maskIDArgs struct {
	MaskID string `json:"mask_id"`
}

func (s *Server) handleMaskClean(args json.RawMessage) (interface{}, error) {
	var a maskIDArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	m, src, err := s.masks.Get(a.MaskID)
	if err != nil {
		return nil, err
	}

	cleaned := selection.Clean(m)
	if err := s.masks.Replace(a.MaskID, cleaned); err != nil {
		return nil, err
	}
	return summarize(a.MaskID, cleaned, src), nil
}

func (s *Server) handleMaskDiscard(args json.RawMessage) (interface{}, error) {
	var a maskIDArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := s.masks.Delete(a.MaskID); err != nil {
		return nil, err
	}
	return map[string]interface{}{"mask_id": a.MaskID, "discarded": true}, nil
}

// === Consumer Handlers ===

type vectorizeArgs struct {
	MaskID    string   `json:"mask_id"`
	Tolerance *float64 `json:"tolerance"`
}

// VectorizeResult holds the traced outlines of a mask in image-relative
// [0,1] coordinates.
type VectorizeResult struct {
	MaskID string           `json:"mask_id"`
	Width  int              `json:"width"`
	Height int              `json:"height"`
	Count  int              `json:"count"`
	Paths  []vectorize.Path `json:"paths"`
}

func (s *Server) handleVectorize(args json.RawMessage) (interface{}, error) {
	var a vectorizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	tolerance := s.cfg.SimplifyTolerance
	if a.Tolerance != nil {
		tolerance = *a.Tolerance
	}
	if tolerance < 0 {
		return nil, fmt.Errorf("tolerance must be non-negative, got %v", tolerance)
	}

	m, _, err := s.masks.Get(a.MaskID)
	if err != nil {
		return nil, err
	}

	paths := vectorize.TraceWithTolerance(selection.Clean(m), tolerance)
	norm := vectorize.Normalize(paths, m.Width, m.Height)
	if norm == nil {
		norm = []vectorize.Path{}
	}
	return &VectorizeResult{
		MaskID: a.MaskID,
		Width:  m.Width,
		Height: m.Height,
		Count:  len(norm),
		Paths:  norm,
	}, nil
}

type inpaintArgs struct {
	Path         string `json:"path"`
	MaskID       string `json:"mask_id"`
	Mode         string `json:"mode"`
	Color        string `json:"color"`
	OutputPath   string `json:"output_path"`
	IncludeImage bool   `json:"include_image"`
}

// InpaintResult reports where the repainted image went.
type InpaintResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Mode        string `json:"mode"`
	Repainted   int    `json:"repainted"`
	OutputPath  string `json:"output_path,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

func (s *Server) handleInpaint(args json.RawMessage) (interface{}, error) {
	var a inpaintArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	mode, err := inpaint.ParseMode(a.Mode)
	if err != nil {
		return nil, err
	}

	m, src, err := s.masks.Get(a.MaskID)
	if err != nil {
		return nil, err
	}
	path := a.Path
	if path == "" {
		path = src
	}

	buf, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	if buf.Width != m.Width || buf.Height != m.Height {
		return nil, fmt.Errorf("mask %s is %dx%d but %s is %dx%d",
			a.MaskID, m.Width, m.Height, path, buf.Width, buf.Height)
	}

	out, err := inpaint.Inpaint(buf, m, inpaint.Options{Mode: mode, Color: a.Color})
	if err != nil {
		return nil, err
	}

	result := &InpaintResult{
		Width:     out.Width,
		Height:    out.Height,
		Mode:      mode.String(),
		Repainted: selection.Clean(m).Count(),
	}

	if a.OutputPath != "" {
		if err := imaging.Save(out, a.OutputPath); err != nil {
			return nil, err
		}
		// The file may be one we have cached, possibly the source itself.
		s.cache.Evict(a.OutputPath)
		result.OutputPath = a.OutputPath
	}
	if a.OutputPath == "" || a.IncludeImage {
		encoded, err := imaging.EncodePNGBase64(out)
		if err != nil {
			return nil, err
		}
		result.ImageBase64 = encoded
	}
	return result, nil
}

type cropArgs struct {
	Path    string  `json:"path"`
	MaskID  string  `json:"mask_id"`
	Scale   float64 `json:"scale"`
	Padding int     `json:"padding"`
	Cutout  bool    `json:"cutout"`
}

// CropResult is the cropped selection plus where it came from.
type CropResult struct {
	*imaging.CropResult
	Bounds Bounds `json:"bounds"`
}

func (s *Server) handleCrop(args json.RawMessage) (interface{}, error) {
	var a cropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	if a.Padding < 0 {
		return nil, fmt.Errorf("padding must be non-negative, got %d", a.Padding)
	}

	m, src, err := s.masks.Get(a.MaskID)
	if err != nil {
		return nil, err
	}
	if m.Empty() {
		return nil, fmt.Errorf("mask %s selects nothing", a.MaskID)
	}
	path := a.Path
	if path == "" {
		path = src
	}

	buf, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	if buf.Width != m.Width || buf.Height != m.Height {
		return nil, fmt.Errorf("mask %s is %dx%d but %s is %dx%d",
			a.MaskID, m.Width, m.Height, path, buf.Width, buf.Height)
	}

	r := m.Bounds().Inset(-a.Padding).Intersect(image.Rect(0, 0, m.Width, m.Height))
	var keep []uint8
	if a.Cutout {
		keep = m.Bits
	}

	cropped, err := imaging.Crop(buf, r, a.Scale, keep)
	if err != nil {
		return nil, err
	}
	return &CropResult{
		CropResult: cropped,
		Bounds:     Bounds{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y},
	}, nil
}
