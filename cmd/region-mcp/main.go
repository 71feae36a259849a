package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/ironsheep/region-tools-mcp/internal/logging"
	"github.com/ironsheep/region-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("region-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("region-tools-mcp - MCP server for region selection, vectorizing and inpainting")
			fmt.Println()
			fmt.Println("Usage: region-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  REGION_MCP_LOG_LEVEL=debug          Log level (debug, info, warn, error)")
			fmt.Println("  REGION_MCP_CONFIG=<file.toml>       Read settings from a TOML file")
			fmt.Println("  REGION_MCP_OCR_LANG=eng             Tesseract language for text selection")
			fmt.Println("  REGION_MCP_SIMPLIFY_TOLERANCE=1.5   Default outline simplification tolerance")
			fmt.Println("  REGION_MCP_MAX_MASKS=64             Number of masks kept before the oldest is dropped")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	logLevel := os.Getenv("REGION_MCP_LOG_LEVEL")
	level := logging.ParseLevel(logLevel)
	logging.Set(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	if level <= slog.LevelDebug {
		log.Printf("Region MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	cfg, err := server.ConfigFromEnv()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	logging.Logger().Debug("configuration loaded",
		"ocr_language", cfg.OCRLanguage,
		"simplify_tolerance", cfg.SimplifyTolerance,
		"max_masks", cfg.MaxMasks)

	srv := server.NewWithConfig(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
