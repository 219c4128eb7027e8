package config

import (
	"errors"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("APP_NAME", "freelance-match")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("APP_NAME", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	if !errors.Is(err, errMissingRequiredEnv) {
		t.Fatalf("expected errMissingRequiredEnv, got %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("EMBEDDING_PROVIDER", "")
	t.Setenv("IMAGE_FETCH_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Embedding.Provider != EmbeddingNone {
		t.Fatalf("unexpected provider %q", cfg.Embedding.Provider)
	}
	if cfg.Vision.FetchTimeout != 10*time.Second {
		t.Fatalf("unexpected fetch timeout %v", cfg.Vision.FetchTimeout)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	setRequired(t)
	t.Setenv("EMBEDDING_PROVIDER", "openai")
	t.Setenv("IMAGE_FETCH_TIMEOUT", "soon")

	_, err := Load()
	if !errors.Is(err, errInvalidEnv) {
		t.Fatalf("expected errInvalidEnv, got %v", err)
	}
}

func TestLoad_GeminiNeedsKey(t *testing.T) {
	setRequired(t)
	t.Setenv("EMBEDDING_PROVIDER", "gemini")
	t.Setenv("EMBEDDING_API_KEY", "")

	_, err := Load()
	if !errors.Is(err, errMissingRequiredEnv) {
		t.Fatalf("expected errMissingRequiredEnv, got %v", err)
	}
}
