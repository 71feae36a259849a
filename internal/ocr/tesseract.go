package ocr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/region-tools-mcp/internal/imaging"
	"github.com/ironsheep/region-tools-mcp/internal/logging"
)

// ErrUnknownLevel is returned by ParseLevel for an unrecognised name.
var ErrUnknownLevel = errors.New("unknown text level")

// Level is the granularity of detected text boxes.
type Level int

const (
	// Word yields one box per recognised word.
	Word Level = iota
	// Block yields one box per paragraph-like block of text.
	Block
)

func (l Level) String() string {
	switch l {
	case Word:
		return "word"
	case Block:
		return "block"
	default:
		return "unknown"
	}
}

func (l Level) iteratorLevel() gosseract.PageIteratorLevel {
	if l == Block {
		return gosseract.RIL_BLOCK
	}
	return gosseract.RIL_WORD
}

// ParseLevel maps "word" or "block" onto a Level. The empty string means
// Word.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "word":
		return Word, nil
	case "block":
		return Block, nil
	default:
		return Word, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge (exclusive)
	Y2 int `json:"y2"` // Bottom edge (exclusive)
}

// TextRegion is a word or text block with its location and OCR confidence.
type TextRegion struct {
	// Text is the recognized text content. Block-level regions may carry
	// several lines.
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Bounds is the bounding box around this text in the image.
	Bounds Bounds `json:"bounds"`
}

// Options controls DetectTextRegions.
type Options struct {
	// Language is the Tesseract language code, "eng" when empty.
	Language string

	// Level selects word or block boxes.
	Level Level

	// MinConfidence drops regions scoring below it (0.0 to 1.0).
	MinConfidence float64
}

// DetectTextRegions runs Tesseract over buf and returns the boxes of the
// text it finds, in reading order.
//
// The buffer is handed to Tesseract as an in-memory PNG, so no temporary
// files are written. Regions whose text is blank or whose confidence is
// below opts.MinConfidence are dropped.
//
// # Prerequisites
//
// Tesseract and the training data for opts.Language must be installed; the
// returned error says so when they are not.
func DetectTextRegions(buf *imaging.Buffer, opts Options) ([]TextRegion, error) {
	lang := opts.Language
	if lang == "" {
		lang = "eng"
	}

	data, err := imaging.EncodePNG(buf)
	if err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(opts.Level.iteratorLevel())
	if err != nil {
		return nil, fmt.Errorf("failed to get text regions: %w", err)
	}

	regions := make([]TextRegion, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		confidence := float64(box.Confidence) / 100.0
		if text == "" || confidence < opts.MinConfidence {
			continue
		}
		regions = append(regions, TextRegion{
			Text:       text,
			Confidence: confidence,
			Bounds: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}

	logging.Logger().Debug("detected text regions",
		"level", opts.Level, "boxes", len(boxes), "kept", len(regions))
	return regions, nil
}
