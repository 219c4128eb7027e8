package embedding

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"freelance-match/internal/domain/matching"

	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("embedding provider not configured")

type Factory func(ctx context.Context) (matching.TextEncoder, error)

// Provider builds the encoder on first use and shares it afterwards. A failed build is retried by a
// later caller once the cool-down has passed.
type Provider struct {
	name     string
	factory  Factory
	cooldown time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	encoder  matching.TextEncoder
	lastErr  error
	failedAt time.Time
}

func NewProvider(name string, factory Factory, cooldown time.Duration, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		name:     name,
		factory:  factory,
		cooldown: cooldown,
		logger:   logger,
		now:      time.Now,
	}
}

func (p *Provider) Encoder(ctx context.Context) (matching.TextEncoder, error) {
	if p == nil || p.factory == nil {
		return nil, ErrNotConfigured
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.encoder != nil {
		return p.encoder, nil
	}
	if p.lastErr != nil && p.now().Sub(p.failedAt) < p.cooldown {
		return nil, p.lastErr
	}

	enc, err := p.factory(ctx)
	if err == nil && enc == nil {
		err = errors.New("factory returned no encoder")
	}
	if err != nil {
		p.lastErr = fmt.Errorf("init %s encoder: %w", p.name, err)
		p.failedAt = p.now()
		p.logger.Warn("embedding encoder unavailable", zap.String("provider", p.name), zap.Error(err))
		return nil, p.lastErr
	}

	p.encoder = enc
	p.lastErr = nil
	p.logger.Info("embedding encoder ready", zap.String("provider", p.name))
	return enc, nil
}

// Ready reports whether an encoder has been built, without triggering a build.
func (p *Provider) Ready() bool {
	if p == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.encoder != nil
}
