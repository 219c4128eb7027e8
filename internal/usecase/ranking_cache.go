package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type RankingCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

// Notifier receives completion events; the websocket hub is the production implementation.
type Notifier interface {
	RankingUpdated(projectID uuid.UUID, scored int, method string)
	DesignsEvaluated(projectID uuid.UUID, evaluated int)
}

func rankingCacheKey(projectID uuid.UUID, topN int, strategy string) string {
	return fmt.Sprintf("ranking:%s:%d:%s", projectID, topN, strategy)
}

func rankingCachePattern(projectID uuid.UUID) string {
	return "ranking:" + projectID.String() + ":*"
}

func rankingLockKey(projectID uuid.UUID) string {
	return "ranking:lock:" + projectID.String()
}

type nopCache struct{}

func (nopCache) GetJSON(context.Context, string, any) (bool, error)        { return false, nil }
func (nopCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (nopCache) Delete(context.Context, string) error                      { return nil }
func (nopCache) DeleteByPattern(context.Context, string) error             { return nil }
func (nopCache) SetIfNotExists(context.Context, string, string, time.Duration) (bool, error) {
	return true, nil
}

type nopNotifier struct{}

func (nopNotifier) RankingUpdated(uuid.UUID, int, string) {}
func (nopNotifier) DesignsEvaluated(uuid.UUID, int)       {}
