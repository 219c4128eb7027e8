package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freelance-match/internal/domain/marketplace"
	"freelance-match/internal/domain/matching"
	"freelance-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultRankingTTL = 5 * time.Minute
	rankingLockTTL    = 2 * time.Minute
)

type RankingUsecase interface {
	RankApplicants(ctx context.Context, projectID uuid.UUID, topN int) ([]matching.MatchResult, error)
	ExplainApplication(ctx context.Context, applicationID uuid.UUID) (matching.MatchResult, error)
	Recalculate(ctx context.Context, projectID uuid.UUID) (RecalculateSummary, error)
}

type RecalculateSummary struct {
	ProjectID  uuid.UUID       `json:"project_id"`
	Considered int             `json:"considered"`
	Scored     int             `json:"scored"`
	Skipped    int             `json:"skipped"`
	Method     matching.Method `json:"method"`
}

type Ranking struct {
	projects repository.ProjectRepository
	apps     repository.ApplicationRepository
	ranker   *matching.Ranker
	cache    RankingCache
	notifier Notifier
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewRankingUsecase(
	projects repository.ProjectRepository,
	apps repository.ApplicationRepository,
	ranker *matching.Ranker,
	cache RankingCache,
	notifier Notifier,
	ttl time.Duration,
	logger *zap.Logger,
) *Ranking {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ranker == nil {
		ranker = matching.NewRanker(nil, logger)
	}
	if cache == nil {
		cache = nopCache{}
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if ttl <= 0 {
		ttl = defaultRankingTTL
	}
	return &Ranking{
		projects: projects,
		apps:     apps,
		ranker:   ranker,
		cache:    cache,
		notifier: notifier,
		ttl:      ttl,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (u *Ranking) RankApplicants(ctx context.Context, projectID uuid.UUID, topN int) ([]matching.MatchResult, error) {
	if projectID == uuid.Nil || topN < 0 {
		return nil, ErrInvalidInput
	}

	key := rankingCacheKey(projectID, topN, string(u.ranker.Chain().ActiveStrategy()))
	var cached []matching.MatchResult
	if ok, err := u.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}

	rep, err := u.score(ctx, projectID)
	if err != nil {
		return nil, err
	}

	results := rep.Results
	if topN > 0 && len(results) > topN {
		results = results[:topN]
	}
	if err := u.cache.SetJSON(ctx, key, results, u.ttl); err != nil {
		u.logger.Warn("ranking cache write failed", zap.String("key", key), zap.Error(err))
	}
	u.notifier.RankingUpdated(projectID, len(rep.Results), string(methodOf(rep.Results, u.ranker)))
	return results, nil
}

func (u *Ranking) ExplainApplication(ctx context.Context, applicationID uuid.UUID) (matching.MatchResult, error) {
	if applicationID == uuid.Nil {
		return matching.MatchResult{}, ErrInvalidInput
	}

	app, err := u.apps.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return matching.MatchResult{}, ErrApplicationNotFound
		}
		return matching.MatchResult{}, fmt.Errorf("%w: load application: %v", ErrInternal, err)
	}
	p, err := u.loadProject(ctx, app.ProjectID)
	if err != nil {
		return matching.MatchResult{}, err
	}

	res, err := u.ranker.Explain(ctx, p, app)
	if err != nil {
		return matching.MatchResult{}, classify(err)
	}
	return res, nil
}

// Recalculate rescores every pending application and drops cached rankings for the project.
func (u *Ranking) Recalculate(ctx context.Context, projectID uuid.UUID) (RecalculateSummary, error) {
	if projectID == uuid.Nil {
		return RecalculateSummary{}, ErrInvalidInput
	}

	lock := rankingLockKey(projectID)
	acquired, err := u.cache.SetIfNotExists(ctx, lock, "1", rankingLockTTL)
	switch {
	case err != nil:
		u.logger.Warn("ranking lock unavailable, continuing without it", zap.Error(err))
	case !acquired:
		return RecalculateSummary{}, ErrRankingInProgress
	}
	defer func() {
		if err := u.cache.Delete(context.WithoutCancel(ctx), lock); err != nil {
			u.logger.Warn("ranking lock release failed", zap.String("key", lock), zap.Error(err))
		}
	}()

	rep, err := u.score(ctx, projectID)
	if err != nil {
		return RecalculateSummary{}, err
	}
	if err := u.cache.DeleteByPattern(ctx, rankingCachePattern(projectID)); err != nil {
		u.logger.Warn("ranking cache invalidation failed", zap.String("project_id", projectID.String()), zap.Error(err))
	}

	method := methodOf(rep.Results, u.ranker)
	u.notifier.RankingUpdated(projectID, len(rep.Results), string(method))
	u.logger.Info("rankings recalculated",
		zap.String("project_id", projectID.String()),
		zap.Int("considered", rep.Considered),
		zap.Int("scored", len(rep.Results)),
		zap.Int("skipped", len(rep.Skipped)),
	)
	return RecalculateSummary{
		ProjectID:  projectID,
		Considered: rep.Considered,
		Scored:     len(rep.Results),
		Skipped:    len(rep.Skipped),
		Method:     method,
	}, nil
}

// score ranks every pending application of the project and persists the results.
func (u *Ranking) score(ctx context.Context, projectID uuid.UUID) (matching.RankReport, error) {
	p, err := u.loadProject(ctx, projectID)
	if err != nil {
		return matching.RankReport{}, err
	}
	apps, err := u.apps.ListByProject(ctx, projectID)
	if err != nil {
		return matching.RankReport{}, fmt.Errorf("%w: load applications: %v", ErrInternal, err)
	}

	rep, err := u.ranker.RankDetailed(ctx, p, apps, 0)
	if err != nil {
		return matching.RankReport{}, classify(err)
	}
	if err := u.apps.SaveMatchResults(ctx, rep.Results, u.now()); err != nil {
		return matching.RankReport{}, fmt.Errorf("%w: save match results: %v", ErrInternal, err)
	}
	return rep, nil
}

func (u *Ranking) loadProject(ctx context.Context, id uuid.UUID) (marketplace.Project, error) {
	p, err := u.projects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return marketplace.Project{}, ErrProjectNotFound
		}
		return marketplace.Project{}, fmt.Errorf("%w: load project: %v", ErrInternal, err)
	}
	return p, nil
}

func classify(err error) error {
	var shape *marketplace.InputShapeError
	if errors.As(err, &shape) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, shape)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInternal, err)
}

func methodOf(results []matching.MatchResult, r *matching.Ranker) matching.Method {
	if len(results) > 0 {
		return results[0].Method
	}
	return r.Chain().ActiveStrategy()
}
