// Package server implements the MCP (Model Context Protocol) server for
// region selection, vectorizing and inpainting.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//
// Selection (each returns a mask summary with a mask_id):
//   - region_select_color: Magic-wand selection by color
//   - region_select_rect: Rectangle in image-relative coordinates
//   - region_select_text: Boxes around OCR-detected lettering
//
// Mask Editing:
//   - mask_paint: Brush strokes onto or off a mask
//   - mask_grow: Grow or shrink a mask
//   - mask_clean: Fill enclosed holes
//   - mask_discard: Forget a mask
//
// Consumers:
//   - region_vectorize: Trace a mask into closed, normalised paths
//   - region_inpaint: Repaint the selected pixels
//   - region_crop: Crop to a mask's bounds, optionally cut out
//
// # Masks
//
// Selections are kept server-side in a MaskStore and referred to by id, so a
// client can build one up over several calls: a selection tool given an
// existing mask_id combines its result into that mask (replace, union or
// subtract). Stored masks are replaced, never edited in place, and the store
// evicts the oldest mask once Config.MaxMasks is reached.
//
// Requests are handled one at a time in arrival order, so edits to a shared
// mask never interleave.
//
// # Image Caching
//
// The server maintains an in-memory cache of decoded images keyed by path.
// Writing an inpaint result to a path evicts that path from the cache.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	cfg, err := server.ConfigFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.NewWithConfig(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
