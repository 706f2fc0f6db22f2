package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Dirs DirConfig
	OCR  OCRConfig
	LLM  LLMConfig
}

// DirConfig holds the batch directory layout
type DirConfig struct {
	InputDir   string
	OutputDir  string
	ArchiveDir string
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Pdftotext string
	Pdftoppm  string
	Tesseract string
	Language  string
	DPI       int
	MaxPages  int
}

// LLMConfig holds structured-extraction backend configuration
type LLMConfig struct {
	OpenAIModel     string
	OpenAIAPIKey    string
	AnthropicModel  string
	AnthropicAPIKey string
	Temperature     float32
	MaxOutputTokens int
	Timeout         time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Dirs: DirConfig{
			InputDir:   getEnv("INPUT_DIR", "data/input"),
			OutputDir:  getEnv("OUTPUT_DIR", "data/output"),
			ArchiveDir: getEnv("PROCESSED_DIR", "data/processed"),
		},
		OCR: OCRConfig{
			Pdftotext: getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:  getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract: getEnv("TESSERACT_BIN", "tesseract"),
			Language:  getEnv("TESSERACT_LANG", "eng"),
			DPI:       getEnvAsInt("OCR_DPI", 300),
			MaxPages:  getEnvAsInt("OCR_MAX_PAGES", 0),
		},
		LLM: LLMConfig{
			OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
			AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-3-haiku-20240307"),
			AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
			Temperature:     getEnvAsFloat32("LLM_TEMPERATURE", 0.1),
			MaxOutputTokens: getEnvAsInt("LLM_MAX_TOKENS", 2000),
			Timeout:         getEnvAsDuration("LLM_TIMEOUT", 45*time.Second),
		},
	}
}

// HasBackend reports whether at least one structured-extraction backend is configured.
func (c *Config) HasBackend() bool {
	return c.LLM.OpenAIAPIKey != "" || c.LLM.AnthropicAPIKey != ""
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Dirs.InputDir == "" {
		return NewAppError("CONFIG_ERROR", "INPUT_DIR is required", ErrInvalidInput)
	}
	if c.Dirs.OutputDir == "" {
		return NewAppError("CONFIG_ERROR", "OUTPUT_DIR is required", ErrInvalidInput)
	}
	if c.Dirs.ArchiveDir == "" {
		return NewAppError("CONFIG_ERROR", "PROCESSED_DIR is required", ErrInvalidInput)
	}
	if c.OCR.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_DPI must be positive", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
