package config

import (
	"log/slog"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://localhost/erp")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	for name, got := range map[string]string{
		"FINANCE_DATABASE_URL":      cfg.FinanceDatabaseURL,
		"HRM_DATABASE_URL":          cfg.HRMDatabaseURL,
		"SALE_CRM_DATABASE_URL":     cfg.SaleCRMDatabaseURL,
		"SUPPLY_CHAIN_DATABASE_URL": cfg.SupplyChainDatabaseURL,
	} {
		if got != "postgres://localhost/erp" {
			t.Errorf("%s = %q, want DATABASE_URL", name, got)
		}
	}
	if cfg.EmbeddingModel != "bge-m3" || cfg.VectorBackend != "postgres" || !cfg.ReviewOnRoute || cfg.ChainEnabled {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.DefaultEmployeeID != 1 || cfg.DefaultUserID != 1 {
		t.Errorf("demo identities = %d/%d, want 1/1", cfg.DefaultEmployeeID, cfg.DefaultUserID)
	}
	if cfg.LLMKey() != "" {
		t.Error("LLM key set without GOOGLE_API_KEY")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "no database", env: map[string]string{}, want: "DATABASE_URL"},
		{name: "bad llm", env: map[string]string{"LLM_PROVIDER": "claude"}, want: "unknown llm provider"},
		{name: "bad backend", env: map[string]string{"VECTOR_BACKEND": "faiss"}, want: "unknown vector backend"},
		{name: "gemini embeddings without key", env: map[string]string{"EMBEDDING_PROVIDER": "gemini"}, want: "GOOGLE_API_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("DATABASE_URL", "postgres://localhost/erp")
			if tt.name == "no database" {
				t.Setenv("DATABASE_URL", "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLLMKey(t *testing.T) {
	cfg := &Config{LLMProvider: "openrouter", OpenRouterKey: "or", GoogleAPIKey: "g"}
	if cfg.LLMKey() != "or" {
		t.Errorf("openrouter key = %q", cfg.LLMKey())
	}
	cfg.LLMProvider = "gemini"
	if cfg.LLMKey() != "g" {
		t.Errorf("gemini key = %q", cfg.LLMKey())
	}
}

func TestSlogLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	} {
		if got := (&Config{LogLevel: in}).SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
