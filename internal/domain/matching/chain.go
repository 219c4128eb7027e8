package matching

import (
	"context"
	"fmt"
	"math"

	"freelance-match/internal/domain/marketplace"

	"go.uber.org/zap"
)

type Method string

const (
	MethodCustom    Method = "custom"
	MethodSemantic  Method = "semantic"
	MethodComponent Method = "component"
)

type CustomScorer interface {
	Score(ctx context.Context, p marketplace.Project, a marketplace.Application) (float64, error)
}

type CustomScorerFunc func(ctx context.Context, p marketplace.Project, a marketplace.Application) (float64, error)

func (f CustomScorerFunc) Score(ctx context.Context, p marketplace.Project, a marketplace.Application) (float64, error) {
	return f(ctx, p, a)
}

type Capabilities struct {
	CustomScorerAvailable bool
	EmbeddingAvailable    bool
}

type Resolution struct {
	Score     int
	Method    Method
	Anomalies []string
}

// Chain tries the custom scorer, then the semantic scorer, then the component blend. The last one
// never fails.
type Chain struct {
	custom  CustomScorer
	models  EncoderProvider
	weights ComponentWeights
	tuning  SemanticTuning
	logger  *zap.Logger

	caps   Capabilities
	active Method
}

type ChainOption func(*Chain)

func WithCustomScorer(s CustomScorer) ChainOption {
	return func(c *Chain) { c.custom = s }
}

func WithEncoderProvider(p EncoderProvider) ChainOption {
	return func(c *Chain) { c.models = p }
}

func WithComponentWeights(w ComponentWeights) ChainOption {
	return func(c *Chain) { c.weights = w }
}

func WithSemanticTuning(t SemanticTuning) ChainOption {
	return func(c *Chain) { c.tuning = t }
}

func WithLogger(l *zap.Logger) ChainOption {
	return func(c *Chain) { c.logger = l }
}

func NewChain(opts ...ChainOption) *Chain {
	c := &Chain{
		weights: DefaultComponentWeights(),
		tuning:  DefaultSemanticTuning(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.weights.isZero() {
		c.weights = DefaultComponentWeights()
	}
	c.tuning = c.tuning.WithDefaults()

	c.caps = Capabilities{
		CustomScorerAvailable: c.custom != nil,
		EmbeddingAvailable:    c.models != nil,
	}
	switch {
	case c.caps.CustomScorerAvailable:
		c.active = MethodCustom
	case c.caps.EmbeddingAvailable:
		c.active = MethodSemantic
	default:
		c.active = MethodComponent
	}

	c.logger.Info("scoring chain ready",
		zap.String("active_strategy", string(c.active)),
		zap.Bool("custom_scorer", c.caps.CustomScorerAvailable),
		zap.Bool("embedding", c.caps.EmbeddingAvailable),
	)
	return c
}

func (c *Chain) Capabilities() Capabilities { return c.caps }

// ActiveStrategy is the highest-priority strategy configured at construction. A call may still fall
// back further when that strategy fails.
func (c *Chain) ActiveStrategy() Method { return c.active }

func (c *Chain) Weights() ComponentWeights { return c.weights }

func (c *Chain) Resolve(ctx context.Context, p marketplace.Project, a marketplace.Application, comps ComponentScores) Resolution {
	var anomalies []string
	note := func(method Method, err error) {
		anomalies = append(anomalies, err.Error())
		c.logger.Warn("scoring strategy skipped",
			zap.String("strategy", string(method)),
			zap.String("application_id", a.ID.String()),
			zap.Error(err),
		)
	}

	if c.caps.CustomScorerAvailable {
		score, err := c.runCustom(ctx, p, a)
		if err == nil {
			return Resolution{Score: roundScore(score), Method: MethodCustom, Anomalies: anomalies}
		}
		note(MethodCustom, err)
	}

	if c.caps.EmbeddingAvailable {
		score, err := c.runSemantic(ctx, p, a)
		if err == nil {
			return Resolution{Score: roundScore(score), Method: MethodSemantic, Anomalies: anomalies}
		}
		note(MethodSemantic, err)
	}

	return Resolution{Score: roundScore(comps.Weighted(c.weights)), Method: MethodComponent, Anomalies: anomalies}
}

func (c *Chain) runCustom(ctx context.Context, p marketplace.Project, a marketplace.Application) (score float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			score, err = 0, fmt.Errorf("%w: custom scorer panicked: %v", ErrStrategyUnavailable, r)
		}
	}()

	v, err := c.custom.Score(ctx, p, a)
	if err != nil {
		return 0, fmt.Errorf("%w: custom scorer: %v", ErrStrategyUnavailable, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 100 {
		return 0, fmt.Errorf("%w: custom scorer returned %v outside [0,100]", ErrStrategyUnavailable, v)
	}
	return v, nil
}

func (c *Chain) runSemantic(ctx context.Context, p marketplace.Project, a marketplace.Application) (score float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			score, err = 0, fmt.Errorf("%w: semantic scorer panicked: %v", ErrStrategyUnavailable, r)
		}
	}()

	enc, err := c.models.Encoder(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: load encoder: %v", ErrStrategyUnavailable, err)
	}
	return NewSemanticScorer(enc, c.tuning).Score(ctx, p, a)
}
