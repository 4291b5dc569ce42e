package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Core
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Business databases, one per ERP module
	FinanceDatabaseURL     string `env:"FINANCE_DATABASE_URL,expand" envDefault:"${DATABASE_URL}"`
	HRMDatabaseURL         string `env:"HRM_DATABASE_URL,expand" envDefault:"${DATABASE_URL}"`
	SaleCRMDatabaseURL     string `env:"SALE_CRM_DATABASE_URL,expand" envDefault:"${DATABASE_URL}"`
	SupplyChainDatabaseURL string `env:"SUPPLY_CHAIN_DATABASE_URL,expand" envDefault:"${DATABASE_URL}"`

	// LLM
	LLMProvider   string `env:"LLM_PROVIDER" envDefault:"gemini"`
	GoogleAPIKey  string `env:"GOOGLE_API_KEY"`
	OpenRouterKey string `env:"OPENROUTER_API_KEY"`
	LLMModel      string `env:"LLM_MODEL" envDefault:"gemini-2.5-flash-lite"`

	// Embeddings
	EmbeddingProvider string `env:"EMBEDDING_PROVIDER" envDefault:"ollama"`
	EmbeddingModel    string `env:"EMBEDDING_MODEL" envDefault:"bge-m3"`
	OllamaURL         string `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	GeminiEmbedModel  string `env:"GEMINI_EMBEDDING_MODEL" envDefault:"text-embedding-004"`

	// Vector index
	VectorBackend string `env:"VECTOR_BACKEND" envDefault:"postgres"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"erpchat_vectors.db"`

	// Transports
	HTTPAddr     string `env:"HTTP_ADDR" envDefault:":8000"`
	BotToken     string `env:"BOT_TOKEN"`
	ChainEnabled bool   `env:"CHAIN_ENABLED" envDefault:"false"`

	// Demo identities, there is no auth layer
	DefaultEmployeeID int `env:"DEFAULT_EMPLOYEE_ID" envDefault:"1"`
	DefaultUserID     int `env:"DEFAULT_USER_ID" envDefault:"1"`

	// Sales-CRM review creation from a chat question
	ReviewOnRoute bool `env:"REVIEW_ON_ROUTE" envDefault:"true"`

	// Ingestion
	WatchDir  string `env:"WATCH_DIR"`
	UploadDir string `env:"UPLOAD_DIR" envDefault:"uploads"`
}

// Load reads an optional .env file and then parses the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	// A missing LLM key is not fatal: chat answers report the model as unconfigured.
	switch c.LLMProvider {
	case "gemini", "openrouter":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLMProvider)
	}

	switch c.EmbeddingProvider {
	case "ollama":
	case "gemini":
		if c.GoogleAPIKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY is required for embedding provider %q", c.EmbeddingProvider)
		}
	default:
		return fmt.Errorf("unknown embedding provider %q", c.EmbeddingProvider)
	}

	switch c.VectorBackend {
	case "postgres", "sqlite", "memory":
	default:
		return fmt.Errorf("unknown vector backend %q", c.VectorBackend)
	}
	return nil
}

// LLMKey returns the API key of the configured LLM provider, empty when unset.
func (c *Config) LLMKey() string {
	if c.LLMProvider == "openrouter" {
		return c.OpenRouterKey
	}
	return c.GoogleAPIKey
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
