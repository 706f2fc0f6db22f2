package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/invoice-pipeline/internal/archive"
	"github.com/joseph-ayodele/invoice-pipeline/internal/common"
	"github.com/joseph-ayodele/invoice-pipeline/internal/export"
	"github.com/joseph-ayodele/invoice-pipeline/internal/extract"
	"github.com/joseph-ayodele/invoice-pipeline/internal/flatten"
	"github.com/joseph-ayodele/invoice-pipeline/internal/llm"
	"github.com/joseph-ayodele/invoice-pipeline/internal/llm/anthropic"
	"github.com/joseph-ayodele/invoice-pipeline/internal/llm/openai"
	"github.com/joseph-ayodele/invoice-pipeline/internal/ocr"
	"github.com/joseph-ayodele/invoice-pipeline/internal/pipeline"
	"github.com/joseph-ayodele/invoice-pipeline/internal/report"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		inputDir   = flag.String("input", "", "directory containing invoice files to process")
		outputDir  = flag.String("output", "", "directory to save processed results")
		archiveDir = flag.String("processed", "", "directory to move processed files to")
		logLevel   = flag.String("log-level", "info", "log level: debug|info|warn|error")
	)
	flag.Parse()

	// .env is optional; environment variables win either way
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(*logLevel),
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *inputDir != "" {
		cfg.Dirs.InputDir = *inputDir
	}
	if *outputDir != "" {
		cfg.Dirs.OutputDir = *outputDir
	}
	if *archiveDir != "" {
		cfg.Dirs.ArchiveDir = *archiveDir
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	for _, dir := range []string{cfg.Dirs.InputDir, cfg.Dirs.OutputDir, cfg.Dirs.ArchiveDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			printError("Error: cannot create directory %s: %v\n", dir, err)
			os.Exit(1)
		}
	}

	backends := buildBackends(cfg, logger)
	if len(backends) == 0 {
		logger.Warn("no structured-extraction backend configured; OCR text will be carried as placeholder records",
			"hint", "set OPENAI_API_KEY or ANTHROPIC_API_KEY")
	} else {
		names := make([]string, 0, len(backends))
		for _, b := range backends {
			names = append(names, b.Name())
		}
		logger.Info("structured-extraction backends ready", "backends", names)
	}

	textExtractor := ocr.NewExtractor(ocr.Config{
		Pdftotext: cfg.OCR.Pdftotext,
		Pdftoppm:  cfg.OCR.Pdftoppm,
		Tesseract: cfg.OCR.Tesseract,
		Language:  cfg.OCR.Language,
		DPI:       cfg.OCR.DPI,
		MaxPages:  cfg.OCR.MaxPages,
	}, logger)

	engine := report.NewEngine(nil, logger)
	orchestrator := pipeline.NewOrchestrator(
		textExtractor,
		extract.NewService(backends, logger),
		flatten.NewFlattener(nil),
		archive.NewArchiver(logger),
		export.NewService(cfg.Dirs.OutputDir, engine, nil, logger),
		logger,
	)

	msg, err := orchestrator.Run(context.Background(), cfg.Dirs.InputDir, cfg.Dirs.ArchiveDir)
	if err != nil {
		logger.Error("batch run failed", "error", err)
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(msg)
}

func buildBackends(cfg *common.Config, logger *slog.Logger) []llm.Completer {
	var backends []llm.Completer
	if cfg.LLM.OpenAIAPIKey != "" {
		backends = append(backends, openai.NewClient(openai.Config{
			Model:       cfg.LLM.OpenAIModel,
			APIKey:      cfg.LLM.OpenAIAPIKey,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxOutputTokens,
			Timeout:     cfg.LLM.Timeout,
		}, logger))
	}
	if cfg.LLM.AnthropicAPIKey != "" {
		backends = append(backends, anthropic.NewClient(anthropic.Config{
			Model:       cfg.LLM.AnthropicModel,
			APIKey:      cfg.LLM.AnthropicAPIKey,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxOutputTokens,
			Timeout:     cfg.LLM.Timeout,
		}, logger))
	}
	return backends
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
