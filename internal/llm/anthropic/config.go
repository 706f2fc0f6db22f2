package anthropic

import (
	"log/slog"
	"net/http"
	"time"
)

type Config struct {
	BaseURL     string // default https://api.anthropic.com/v1
	Model       string // default claude-3-haiku-20240307
	APIKey      string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// Client is the secondary structured-extraction backend, talking to the
// Anthropic messages API over plain HTTP.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "claude-3-haiku-20240307"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}

func (c *Client) Name() string { return "anthropic" }
