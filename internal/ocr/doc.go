// Package ocr finds lettering in an image so it can be selected and
// painted out.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2).
// DetectTextRegions returns word or block bounding boxes with confidence
// scores, and TextMask turns those boxes into a selection mask.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr libtesseract-dev
//   - macOS: brew install tesseract
//
// Language data files are required for each language:
//   - Ubuntu/Debian: apt-get install tesseract-ocr-eng (for English)
//   - Other languages: tesseract-ocr-<lang> packages
//
// The default language is English ("eng").
package ocr
