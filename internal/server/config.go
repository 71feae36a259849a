package server

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/ironsheep/region-tools-mcp/internal/vectorize"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvConfigFile        = "REGION_MCP_CONFIG"
	EnvOCRLanguage       = "REGION_MCP_OCR_LANG"
	EnvSimplifyTolerance = "REGION_MCP_SIMPLIFY_TOLERANCE"
	EnvMaxMasks          = "REGION_MCP_MAX_MASKS"
)

// Config holds the server settings.
type Config struct {
	// OCRLanguage is the Tesseract language used by region_select_text.
	OCRLanguage string `toml:"ocr_language"`

	// SimplifyTolerance is the default squared-pixel tolerance used by
	// region_vectorize.
	SimplifyTolerance float64 `toml:"simplify_tolerance"`

	// MaxMasks bounds the number of stored masks; the oldest is evicted
	// when a new mask would exceed it.
	MaxMasks int `toml:"max_masks"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		OCRLanguage:       "eng",
		SimplifyTolerance: vectorize.DefaultTolerance,
		MaxMasks:          64,
	}
}

// LoadConfigFile overlays the settings found in a TOML file onto cfg.
// Keys missing from the file keep their current values.
//
//	ocr_language = "deu"
//	simplify_tolerance = 2.0
//	max_masks = 16
func LoadConfigFile(cfg Config, path string) (Config, error) {
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

// ConfigFromEnv builds a Config from DefaultConfig, the optional TOML file
// named by REGION_MCP_CONFIG, and finally the individual REGION_MCP_*
// variables, which take precedence.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv(EnvConfigFile); path != "" {
		var err error
		if cfg, err = LoadConfigFile(cfg, path); err != nil {
			return cfg, err
		}
	}

	if v := os.Getenv(EnvOCRLanguage); v != "" {
		cfg.OCRLanguage = v
	}
	if v := os.Getenv(EnvSimplifyTolerance); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", EnvSimplifyTolerance, err)
		}
		cfg.SimplifyTolerance = f
	}
	if v := os.Getenv(EnvMaxMasks); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", EnvMaxMasks, err)
		}
		cfg.MaxMasks = n
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.OCRLanguage == "" {
		return fmt.Errorf("ocr_language must not be empty")
	}
	if c.SimplifyTolerance < 0 {
		return fmt.Errorf("simplify_tolerance must be non-negative, got %v", c.SimplifyTolerance)
	}
	if c.MaxMasks < 1 {
		return fmt.Errorf("max_masks must be at least 1, got %d", c.MaxMasks)
	}
	return nil
}
