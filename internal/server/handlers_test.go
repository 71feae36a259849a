package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// createTestImageFile creates a test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return writeTestImage(t, img)
}

// createSquareImageFile creates a 10x10 white image with a 3x3 black square
// at (4,4)-(6,6).
func createSquareImageFile(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(4, 4, 7, 7), image.Black, image.Point{}, draw.Src)
	return writeTestImage(t, img)
}

func writeTestImage(t *testing.T, img image.Image) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "handler-test-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return tmpFile.Name()
}

// callTool runs a tools/call request and decodes the JSON text content of a
// successful response.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) (map[string]interface{}, *MCPError) {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	resp := s.handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp.Error != nil {
		return nil, resp.Error
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("unexpected content: %v", result["content"])
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &decoded); err != nil {
		t.Fatalf("content is not JSON: %v", err)
	}
	return decoded, nil
}

// mustCallTool is callTool for calls expected to succeed.
func mustCallTool(t *testing.T, s *Server, name string, args map[string]interface{}) map[string]interface{} {
	t.Helper()
	result, mcpErr := callTool(t, s, name, args)
	if mcpErr != nil {
		t.Fatalf("%s failed: %s (%v)", name, mcpErr.Message, mcpErr.Data)
	}
	return result
}

func selected(t *testing.T, result map[string]interface{}) int {
	t.Helper()
	n, ok := result["selected"].(float64)
	if !ok {
		t.Fatalf("result has no selected count: %v", result)
	}
	return int(n)
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	result := mustCallTool(t, s, "image_load", map[string]interface{}{"path": imgPath})

	if result["width"] != float64(100) || result["height"] != float64(80) {
		t.Errorf("dimensions: got %vx%v, want 100x80", result["width"], result["height"])
	}
	if result["format"] != "png" {
		t.Errorf("format: got %v, want png", result["format"])
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := New()

	_, mcpErr := callTool(t, s, "image_load", map[string]interface{}{"path": "/nonexistent/image.png"})
	if mcpErr == nil {
		t.Fatal("expected an error for a missing file")
	}
	if mcpErr.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", mcpErr.Code)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New()
	resp := s.handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`"not an object"`),
	})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("expected -32602, got %+v", resp.Error)
	}
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	s := New()
	_, mcpErr := callTool(t, s, "image_crop", map[string]interface{}{})
	if mcpErr == nil || !strings.Contains(mcpErr.Data.(string), "unknown tool") {
		t.Errorf("expected unknown tool error, got %+v", mcpErr)
	}
}

func TestSelectColor_BlackSquare(t *testing.T) {
	s := New()
	imgPath := createSquareImageFile(t)

	result := mustCallTool(t, s, "region_select_color", map[string]interface{}{
		"path":      imgPath,
		"x":         5,
		"y":         5,
		"tolerance": 10,
	})

	if got := selected(t, result); got != 9 {
		t.Errorf("selected = %d, want 9", got)
	}
	if result["mask_id"] != "mask-1" {
		t.Errorf("mask_id = %v, want mask-1", result["mask_id"])
	}
	bounds, ok := result["bounds"].(map[string]interface{})
	if !ok {
		t.Fatal("missing bounds")
	}
	for k, want := range map[string]float64{"x1": 4, "y1": 4, "x2": 7, "y2": 7} {
		if bounds[k] != want {
			t.Errorf("bounds.%s = %v, want %v", k, bounds[k], want)
		}
	}
}

func TestSelectColor_Normalized(t *testing.T) {
	s := New()
	imgPath := createSquareImageFile(t)

	result := mustCallTool(t, s, "region_select_color", map[string]interface{}{
		"path":       imgPath,
		"x":          0.5,
		"y":          0.5,
		"tolerance":  0,
		"normalized": true,
	})
	if got := selected(t, result); got != 9 {
		t.Errorf("selected = %d, want 9", got)
	}

	// The white field wraps around the square as one region.
	result = mustCallTool(t, s, "region_select_color", map[string]interface{}{
		"path":       imgPath,
		"x":          1.0,
		"y":          1.0,
		"normalized": true,
	})
	if got := selected(t, result); got != 91 {
		t.Errorf("selected = %d, want 91", got)
	}
}

func TestSelectColor_NonContiguous(t *testing.T) {
	s := New()
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(1, 1, 5, 5), image.Black, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(10, 1, 14, 5), image.Black, image.Point{}, draw.Src)
	imgPath := writeTestImage(t, img)

	contiguous := mustCallTool(t, s, "region_select_color", map[string]interface{}{
		"path": imgPath, "x": 2, "y": 2, "tolerance": 0,
	})
	global := mustCallTool(t, s, "region_select_color", map[string]interface{}{
		"path": imgPath, "x": 2, "y": 2, "tolerance": 0, "contiguous": false,
	})

	if got := selected(t, contiguous); got != 16 {
		t.Errorf("contiguous selected = %d, want 16", got)
	}
	if got := selected(t, global); got != 32 {
		t.Errorf("global selected = %d, want 32", got)
	}
}

func TestSelectColor_Errors(t *testing.T) {
	s := New()
	imgPath := createSquareImageFile(t)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"negative tolerance", map[string]interface{}{"path": imgPath, "x": 1, "y": 1, "tolerance": -1}},
		{"outside image", map[string]interface{}{"path": imgPath, "x": 10, "y": 1}},
		{"negative coordinate", map[string]interface{}{"path": imgPath, "x": -1, "y": 1}},
		{"normalized out of range", map[string]interface{}{"path": imgPath, "x": 1.5, "y": 0.5, "normalized": true}},
		{"unknown mode", map[string]interface{}{"path": imgPath, "x": 1, "y": 1, "mode": "xor"}},
		{"unknown mask", map[string]interface{}{"path": imgPath, "x": 1, "y": 1, "mask_id": "mask-99"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, mcpErr := callTool(t, s, "region_select_color", tt.args); mcpErr == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSelectRect_CombineModes(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 10, 10, color.White)

	first := mustCallTool(t, s, "region_select_rect", map[string]interface{}{
		"path": imgPath, "x": 0.0, "y": 0.0, "width": 0.5, "height": 0.5,
	})
	if got := selected(t, first); got != 25 {
		t.Fatalf("selected = %d, want 25", got)
	}
	id := first["mask_id"]

	union := mustCallTool(t, s, "region_select_rect", map[string]interface{}{
		"path": imgPath, "x": 0.5, "y": 0.5, "width": 0.5, "height": 0.5,
		"mode": "union", "mask_id": id,
	})
	if got := selected(t, union); got != 50 {
		t.Errorf("after union selected = %d, want 50", got)
	}
	if union["mask_id"] != id {
		t.Errorf("union should keep mask id %v, got %v", id, union["mask_id"])
	}

	subtract := mustCallTool(t, s, "region_select_rect", map[string]interface{}{
		"path": imgPath, "x": 0.0, "y": 0.0, "width": 1.0, "height": 0.2,
		"mode": "subtract", "mask_id": id,
	})
	if got := selected(t, subtract); got != 40 {
		t.Errorf("after subtract selected = %d, want 40", got)
	}

	replace := mustCallTool(t, s, "region_select_rect", map[string]interface{}{
		"path": imgPath, "x": 0.9, "y": 0.9, "width": -0.2, "height": -0.2,
		"mask_id": id,
	})
	if got := selected(t, replace); got != 4 {
		t.Errorf("after replace selected = %d, want 4", got)
	}

	if s.masks.Len() != 1 {
		t.Errorf("store holds %d masks, want 1", s.masks.Len())
	}
}

func TestSelectRect_SizeMismatch(t *testing.T) {
	s := New()
	small := createTestImageFile(t, 10, 10, color.White)
	large := createTestImageFile(t, 20, 20, color.White)

	first := mustCallTool(t, s, "region_select_rect", map[string]interface{}{
		"path": small, "x": 0.0, "y": 0.0, "width": 1.0, "height": 1.0,
	})
	_, mcpErr := callTool(t, s, "region_select_rect", map[string]interface{}{
		"path": large, "x": 0.0, "y": 0.0, "width": 1.0, "height": 1.0,
		"mode": "union", "mask_id": first["mask_id"],
	})
	if mcpErr == nil {
		t.Error("combining masks of different sizes should fail")
	}
}

func TestSelectRect_EmptyArea(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 10, 10, color.White)

	result := mustCallTool(t, s, "region_select_rect", map[string]interface{}{
		"path": imgPath, "x": 0.3, "y": 0.3, "width": 0, "height": 0.5,
	})
	if got := selected(t, result); got != 0 {
		t.Errorf("selected = %d, want 0", got)
	}
	if _, ok := result["bounds"]; ok {
		t.Error("an empty mask should have no bounds")
	}
}

func TestSelectText(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 120, 60, color.White)

	result, mcpErr := callTool(t, s, "region_select_text", map[string]interface{}{
		"path":  imgPath,
		"level": "block",
	})
	if mcpErr != nil {
		t.Skipf("Tesseract not available: %v", mcpErr.Data)
	}
	if got := selected(t, result); got != 0 {
		t.Errorf("blank image selected %d cells", got)
	}
	if _, ok := result["regions"]; !ok {
		t.Error("result should list regions")
	}
}

func TestSelectText_InvalidLevel(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 20, 20, color.White)

	if _, mcpErr := callTool(t, s, "region_select_text", map[string]interface{}{
		"path": imgPath, "level": "paragraph",
	}); mcpErr == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestMaskPaint(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 10, 10, color.White)

	empty := mustCallTool(t, s, "region_select_rect", map[string]interface{}{
		"path": imgPath, "x": 0.0, "y": 0.0, "width": 0.0, "height": 0.0,
	})
	id := empty["mask_id"]

	painted := mustCallTool(t, s, "mask_paint", map[string]interface{}{
		"mask_id": id,
		"points":  []map[string]interface{}{{"x": 1, "y": 1}, {"x": 8, "y": 1}},
		"radius":  1,
	})
	if got := selected(t, painted); got != 26 {
		t.Errorf("selected after paint = %d, want 26", got)
	}

	erased := mustCallTool(t, s, "mask_paint", map[string]interface{}{
		"mask_id":    id,
		"points":     []map[string]interface{}{{"x": 0.0, "y": 0.1}, {"x": 0.99, "y": 0.1}},
		"radius":     0,
		"erase":      true,
		"normalized": true,
	})
	if got := selected(t, erased); got != 16 {
		t.Errorf("selected after erase = %d, want 16", got)
	}
}

func TestMaskPaint_Errors(t *testing.T) {
	s := New()

	if _, mcpErr := callTool(t, s, "mask_paint", map[string]interface{}{
		"mask_id": "mask-1",
		"points":  []map[string]interface{}{{"x": 1, "y": 1}},
	}); mcpErr == nil {
		t.Error("painting an unknown mask should fail")
	}
	if _, mcpErr := callTool(t, s, "mask_paint", map[string]interface{}{
		"mask_id": "mask-1",
	}); mcpErr == nil {
		t.Error("a stroke without points should fail")
	}
}

func TestMaskGrow(t *testing.T) {
	s := New()
	imgPath := createSquareImageFile(t)

	sel := mustCallTool(t, s, "region_select_color", map[string]interface{}{
		"path": imgPath, "x": 5, "y": 5, "tolerance": 10,
	})
	id := sel["mask_id"]

	grown := mustCallTool(t, s, "mask_grow", map[string]interface{}{"mask_id": id, "radius": 1})
	if got := selected(t, grown); got <= 9 {
		t.Errorf("grown selection = %d, want more than 9", got)
	}

	shrunk := mustCallTool(t, s, "mask_grow", map[string]interface{}{"mask_id": id, "radius": -1})
	if got := selected(t, shrunk); got >= selected(t, grown) {
		t.Errorf("shrunk selection = %d, want fewer than %d", got, selected(t, grown))
	}
}

func TestMaskClean(t *testing.T) {
	s := New()
	img := image.NewRGBA(image.Rect(0, 0, 9, 9))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(2, 2, 7, 7), image.Black, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(3, 3, 6, 6), image.White, image.Point{}, draw.Src)
	imgPath := writeTestImage(t, img)

	ring := mustCallTool(t, s, "region_select_color", map[string]interface{}{
		"path": imgPath, "x": 2, "y": 2, "tolerance": 0,
	})
	if got := selected(t, ring); got != 16 {
		t.Fatalf("ring selected = %d, want 16", got)
	}

	cleaned := mustCallTool(t, s, "mask_clean", map[string]interface{}{"mask_id": ring["mask_id"]})
	if got := selected(t, cleaned); got != 25 {
		t.Errorf("cleaned selected = %d, want 25", got)
	}
}

func TestMaskDiscard(t *testing.T) {
	s := New()
	imgPath := createSquareImageFile(t)

	sel := mustCallTool(t, s, "region_select_color", map[string]interface{}{
		"path": imgPath, "x": 5, "y": 5,
	})
	id := sel["mask_id"]

	result := mustCallTool(t, s, "mask_discard", map[string]interface{}{"mask_id": id})
	if result["discarded"] != true {
		t.Errorf("discard result = %v", result)
	}

	if _, mcpErr := callTool(t, s, "mask_clean", map[string]interface{}{"mask_id": id}); mcpErr == nil {
		t.Error("a discarded mask should no longer be usable")
	}
	if _, mcpErr := callTool(t, s, "mask_discard", map[string]interface{}{"mask_id": id}); mcpErr == nil {
		t.Error("discarding twice should fail")
	}
}

func TestVectorize_Square(t *testing.T) {
	s := New()
	imgPath := createSquareImageFile(t)

	sel := mustCallTool(t, s, "region_select_color", map[string]interface{}{
		"path": imgPath, "x": 5, "y": 5, "tolerance": 10,
	})

	result := mustCallTool(t, s, "region_vectorize", map[string]interface{}{"mask_id": sel["mask_id"]})
	if result["count"] != float64(1) {
		t.Fatalf("count = %v, want 1", result["count"])
	}

	paths := result["paths"].([]interface{})
	points := paths[0].([]interface{})
	if len(points) != 5 {
		t.Fatalf("path has %d points, want 5", len(points))
	}

	first := points[0].(map[string]interface{})["anchor"].(map[string]interface{})
	last := points[4].(map[string]interface{})["anchor"].(map[string]interface{})
	if first["x"] != 0.4 || first["y"] != 0.4 {
		t.Errorf("first anchor = %v, want (0.4, 0.4)", first)
	}
	if first["x"] != last["x"] || first["y"] != last["y"] {
		t.Error("path is not closed")
	}
}

func TestVectorize_EmptyMask(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 10, 10, color.White)

	sel := mustCallTool(t, s, "region_select_rect", map[string]interface{}{
		"path": imgPath, "x": 0.0, "y": 0.0, "width": 0.0, "height": 0.0,
	})
	result := mustCallTool(t, s, "region_vectorize", map[string]interface{}{"mask_id": sel["mask_id"]})

	if result["count"] != float64(0) {
		t.Errorf("count = %v, want 0", result["count"])
	}
	if paths, ok := result["paths"].([]interface{}); !ok || len(paths) != 0 {
		t.Errorf("paths = %v, want an empty list", result["paths"])
	}
}

func TestInpaint_ManualToBase64(t *testing.T) {
	s := New()
	imgPath := createSquareImageFile(t)

	sel := mustCallTool(t, s, "region_select_color", map[string]interface{}{
		"path": imgPath, "x": 5, "y": 5, "tolerance": 10,
	})

	result := mustCallTool(t, s, "region_inpaint", map[string]interface{}{
		"mask_id": sel["mask_id"],
		"mode":    "manual",
		"color":   "#FFFFFF",
	})
	if result["repainted"] != float64(9) {
		t.Errorf("repainted = %v, want 9", result["repainted"])
	}

	data, err := base64.StdEncoding.DecodeString(result["image_base64"].(string))
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid PNG: %v", err)
	}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if r, g, b, _ := img.At(x, y).RGBA(); r != 0xffff || g != 0xffff || b != 0xffff {
				t.Fatalf("pixel (%d,%d) is not white", x, y)
			}
		}
	}
}

func TestInpaint_AutoToFile(t *testing.T) {
	s := New()
	imgPath := createSquareImageFile(t)
	outPath := filepath.Join(t.TempDir(), "out.png")

	sel := mustCallTool(t, s, "region_select_rect", map[string]interface{}{
		"path": imgPath, "x": 0.0, "y": 0.0, "width": 0.3, "height": 0.3,
	})

	result := mustCallTool(t, s, "region_inpaint", map[string]interface{}{
		"path":        imgPath,
		"mask_id":     sel["mask_id"],
		"output_path": outPath,
	})
	if result["output_path"] != outPath {
		t.Errorf("output_path = %v, want %s", result["output_path"], outPath)
	}
	if _, ok := result["image_base64"]; ok {
		t.Error("image should not be inlined when written to a file")
	}

	loaded := mustCallTool(t, s, "image_load", map[string]interface{}{"path": outPath})
	if loaded["width"] != float64(10) || loaded["height"] != float64(10) {
		t.Errorf("written image is %vx%v, want 10x10", loaded["width"], loaded["height"])
	}
}

func TestInpaint_Errors(t *testing.T) {
	s := New()
	imgPath := createSquareImageFile(t)
	other := createTestImageFile(t, 20, 20, color.White)

	sel := mustCallTool(t, s, "region_select_color", map[string]interface{}{
		"path": imgPath, "x": 5, "y": 5, "tolerance": 10,
	})
	id := sel["mask_id"]

	tests := []struct {
		name    string
		args    map[string]interface{}
		errText string
	}{
		{"invalid color", map[string]interface{}{"mask_id": id, "mode": "manual", "color": "#12"}, "invalid color"},
		{"unknown mode", map[string]interface{}{"mask_id": id, "mode": "smart"}, "unknown inpaint mode"},
		{"unknown mask", map[string]interface{}{"mask_id": "mask-42"}, "mask not found"},
		{"size mismatch", map[string]interface{}{"mask_id": id, "path": other}, "but"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mcpErr := callTool(t, s, "region_inpaint", tt.args)
			if mcpErr == nil {
				t.Fatal("expected an error")
			}
			if data, _ := mcpErr.Data.(string); !strings.Contains(data, tt.errText) {
				t.Errorf("error data %q should mention %q", data, tt.errText)
			}
		})
	}
}

func TestCrop_CutoutSquare(t *testing.T) {
	s := New()
	imgPath := createSquareImageFile(t)

	sel := mustCallTool(t, s, "region_select_color", map[string]interface{}{
		"path": imgPath, "x": 5, "y": 5, "tolerance": 10,
	})

	result := mustCallTool(t, s, "region_crop", map[string]interface{}{
		"mask_id": sel["mask_id"],
		"padding": 1,
		"cutout":  true,
	})
	if result["width"] != float64(5) || result["height"] != float64(5) {
		t.Fatalf("crop is %vx%v, want 5x5", result["width"], result["height"])
	}

	data, err := base64.StdEncoding.DecodeString(result["image_base64"].(string))
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid PNG: %v", err)
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Errorf("padding pixel alpha = %d, want 0", a)
	}
	if r, _, _, a := img.At(2, 2).RGBA(); a != 0xffff || r != 0 {
		t.Errorf("selected pixel = r%d a%d, want opaque black", r, a)
	}
}

func TestCrop_Errors(t *testing.T) {
	s := New()
	imgPath := createSquareImageFile(t)

	empty := mustCallTool(t, s, "region_select_rect", map[string]interface{}{
		"path": imgPath, "x": 0.5, "y": 0.5, "width": 0.0, "height": 0.0,
	})

	tests := []struct {
		name    string
		args    map[string]interface{}
		errText string
	}{
		{"empty mask", map[string]interface{}{"mask_id": empty["mask_id"]}, "selects nothing"},
		{"unknown mask", map[string]interface{}{"mask_id": "mask-42"}, "mask not found"},
		{"negative padding", map[string]interface{}{"mask_id": empty["mask_id"], "padding": -2}, "padding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mcpErr := callTool(t, s, "region_crop", tt.args)
			if mcpErr == nil {
				t.Fatal("expected an error")
			}
			if data, _ := mcpErr.Data.(string); !strings.Contains(data, tt.errText) {
				t.Errorf("error data %q should mention %q", data, tt.errText)
			}
		})
	}
}
