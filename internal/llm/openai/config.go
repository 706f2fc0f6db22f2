package openai

import (
	"log/slog"
	"net/http"
	"time"
)

type Config struct {
	BaseURL     string // default https://api.openai.com/v1
	Model       string // default gpt-4o-mini
	APIKey      string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// Client is the primary structured-extraction backend, talking to the OpenAI
// chat/completions API over plain HTTP.
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
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
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

func (c *Client) Name() string { return "openai" }
