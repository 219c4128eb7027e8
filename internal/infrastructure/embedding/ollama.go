package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"freelance-match/internal/domain/matching"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

var ErrCircuitOpen = errors.New("ollama circuit open")

type OllamaConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
	Retries int
	Backoff time.Duration

	CircuitFailureThreshold int
	CircuitReset            time.Duration
}

// OllamaEncoder calls the Ollama embed endpoint with retries and a failure-count circuit breaker.
type OllamaEncoder struct {
	api    *api.Client
	cfg    OllamaConfig
	logger *zap.Logger

	failures  atomic.Int32
	openUntil atomic.Int64
}

func NewOllamaEncoder(cfg OllamaConfig, httpClient *http.Client, logger *zap.Logger) (*OllamaEncoder, error) {
	u, err := url.ParseRequestURI(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base url: %w", err)
	}
	if cfg.Model == "" {
		return nil, errors.New("ollama model is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.CircuitFailureThreshold <= 0 {
		cfg.CircuitFailureThreshold = 5
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OllamaEncoder{api: api.NewClient(u, httpClient), cfg: cfg, logger: logger}, nil
}

// OllamaFactory checks that the model is present before handing out the encoder, so a missing model
// surfaces as an initialisation failure.
func OllamaFactory(cfg OllamaConfig, logger *zap.Logger) Factory {
	return func(ctx context.Context) (matching.TextEncoder, error) {
		enc, err := NewOllamaEncoder(cfg, nil, logger)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(ctx, enc.cfg.Timeout)
		defer cancel()
		if _, err := enc.api.Show(ctx, &api.ShowRequest{Model: cfg.Model}); err != nil {
			return nil, fmt.Errorf("show model %s: %w", cfg.Model, err)
		}
		return enc, nil
	}
}

func (e *OllamaEncoder) Model() string { return e.cfg.Model }

func (e *OllamaEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	if e.isCircuitOpen() {
		return nil, ErrCircuitOpen
	}

	var lastErr error
	for attempt := 0; attempt <= e.cfg.Retries; attempt++ {
		reqCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
		resp, err := e.api.Embed(reqCtx, &api.EmbedRequest{Model: e.cfg.Model, Input: text})
		cancel()

		if err == nil && resp != nil && len(resp.Embeddings) > 0 && len(resp.Embeddings[0]) > 0 {
			e.failures.Store(0)
			return resp.Embeddings[0], nil
		}
		if err == nil {
			err = errors.New("empty embedding result")
		}

		lastErr = err
		e.recordFailure()
		e.logger.Debug("ollama embed failed", zap.Int("attempt", attempt+1), zap.Error(err))

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if e.isCircuitOpen() {
			return nil, ErrCircuitOpen
		}
		if attempt < e.cfg.Retries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(e.cfg.Backoff * time.Duration(attempt+1)):
			}
		}
	}
	return nil, fmt.Errorf("ollama embed failed after retries: %w", lastErr)
}

func (e *OllamaEncoder) isCircuitOpen() bool {
	if e.failures.Load() < int32(e.cfg.CircuitFailureThreshold) {
		return false
	}
	if time.Now().UnixNano() < e.openUntil.Load() {
		return true
	}
	// half-open: let one request through
	e.failures.Store(0)
	return false
}

func (e *OllamaEncoder) recordFailure() {
	if e.failures.Add(1) >= int32(e.cfg.CircuitFailureThreshold) {
		e.openUntil.Store(time.Now().Add(e.cfg.CircuitReset).UnixNano())
	}
}
