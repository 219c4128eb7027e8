package app

import (
	"context"
	"fmt"
	"time"

	"freelance-match/internal/config"
	"freelance-match/internal/database"
	"freelance-match/internal/database/migration"
	dbpostgres "freelance-match/internal/database/postgres"
	"freelance-match/internal/domain/design"
	"freelance-match/internal/domain/matching"
	"freelance-match/internal/infrastructure/cache"
	"freelance-match/internal/infrastructure/embedding"
	"freelance-match/internal/infrastructure/scorer"
	"freelance-match/internal/infrastructure/vision"
	"freelance-match/internal/repository"
	"freelance-match/internal/usecase"
	"freelance-match/internal/ws"

	"go.uber.org/zap"
)

type Container struct {
	Config  config.Config
	Logger  *zap.Logger
	DB      database.DB
	Cache   *cache.Redis
	Hub     *ws.Hub
	Chain   *matching.Chain
	Ranking *usecase.Ranking
	Designs *usecase.DesignReview
}

func NewContainer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	profile, err := config.LoadScoringProfile(cfg.Scoring.ProfilePath)
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database, logger.Named("db"))
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		migCtx, migCancel := context.WithTimeout(ctx, 2*time.Minute)
		err := migration.Up(migCtx, db.SQLDB())
		migCancel()
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	redis := cache.NewRedis(ctx, cfg.Redis, logger.Named("cache"))
	hub := ws.NewHub(logger.Named("ws"))
	notifier := ws.NewNotifier(hub)

	chain, err := newChain(cfg, profile, redis, logger)
	if err != nil {
		_ = db.Close()
		_ = redis.Close()
		return nil, err
	}

	ranking := usecase.NewRankingUsecase(
		repository.NewPostgresProjectRepository(db),
		repository.NewPostgresApplicationRepository(db),
		matching.NewRanker(chain, logger.Named("ranker")),
		redis,
		notifier,
		cfg.Redis.TTL,
		logger.Named("ranking"),
	)

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Cache:   redis,
		Hub:     hub,
		Chain:   chain,
		Ranking: ranking,
	}

	evaluator, err := newEvaluator(cfg, profile, logger)
	if err != nil {
		logger.Warn("design evaluation disabled", zap.Error(err))
		return c, nil
	}
	c.Designs = usecase.NewDesignReviewUsecase(
		repository.NewPostgresProjectRepository(db),
		repository.NewPostgresShortlistRepository(db),
		evaluator,
		notifier,
		logger.Named("designs"),
	)
	return c, nil
}

func newChain(cfg config.Config, profile config.ScoringProfile, vectors embedding.VectorCache, logger *zap.Logger) (*matching.Chain, error) {
	opts := []matching.ChainOption{
		matching.WithComponentWeights(profile.Components),
		matching.WithSemanticTuning(profile.Semantic),
		matching.WithLogger(logger.Named("chain")),
	}

	if cfg.Scoring.CustomScorerURL != "" {
		hook, err := scorer.NewWebhook(cfg.Scoring.CustomScorerURL, cfg.Scoring.CustomScorerTime, logger.Named("custom_scorer"))
		if err != nil {
			return nil, err
		}
		opts = append(opts, matching.WithCustomScorer(hook))
	}

	var factory embedding.Factory
	switch cfg.Embedding.Provider {
	case config.EmbeddingOllama:
		factory = embedding.OllamaFactory(embedding.OllamaConfig{
			BaseURL:                 cfg.Embedding.BaseURL,
			Model:                   cfg.Embedding.Model,
			Timeout:                 cfg.Embedding.Timeout,
			Retries:                 cfg.Embedding.Retries,
			Backoff:                 cfg.Embedding.Backoff,
			CircuitFailureThreshold: cfg.Embedding.CircuitFailureThreshold,
			CircuitReset:            cfg.Embedding.CircuitReset,
		}, logger.Named("ollama"))
	case config.EmbeddingGemini:
		factory = embedding.GeminiFactory(cfg.Embedding.APIKey, cfg.Embedding.Model)
	}
	if factory != nil {
		factory = embedding.CachedFactory(factory, vectors, cfg.Embedding.Provider+":"+cfg.Embedding.Model, cfg.Embedding.CacheTTL, logger.Named("embedding_cache"))
		provider := embedding.NewProvider(cfg.Embedding.Provider, factory, cfg.Embedding.Cooldown, logger.Named("embedding"))
		opts = append(opts, matching.WithEncoderProvider(provider))
	}

	return matching.NewChain(opts...), nil
}

func newEvaluator(cfg config.Config, profile config.ScoringProfile, logger *zap.Logger) (*design.Evaluator, error) {
	clip, err := vision.NewClipClient(cfg.Vision.ClipEndpoint, cfg.Vision.FetchTimeout*3, logger.Named("clip"))
	if err != nil {
		return nil, err
	}
	fetcher := vision.NewHTTPFetcher(cfg.Vision.FetchTimeout, cfg.Vision.MaxImageBytes)
	figma := vision.NewFigmaResolver(fetcher, vision.FigmaOptions{ChromeEnabled: cfg.Vision.ChromeEnabled}, logger.Named("figma"))

	return design.NewEvaluator(clip, fetcher,
		design.WithFigmaPreview(figma),
		design.WithWeights(profile.Design),
		design.WithWorkers(cfg.Vision.Workers),
		design.WithFetchRate(cfg.Vision.FetchRPS),
		design.WithFetchTimeout(cfg.Vision.FetchTimeout),
		design.WithLogger(logger.Named("design")),
	), nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
