package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"freelance-match/internal/domain/design"
	"freelance-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DesignReviewUsecase interface {
	EvaluateShortlist(ctx context.Context, projectID uuid.UUID) ([]design.DesignEvaluation, error)
	EvaluateDesigns(ctx context.Context, description string, subs []design.Submission) ([]design.DesignEvaluation, error)
}

type DesignReview struct {
	projects   repository.ProjectRepository
	shortlists repository.ShortlistRepository
	evaluator  *design.Evaluator
	notifier   Notifier
	logger     *zap.Logger
	now        func() time.Time
}

func NewDesignReviewUsecase(
	projects repository.ProjectRepository,
	shortlists repository.ShortlistRepository,
	evaluator *design.Evaluator,
	notifier Notifier,
	logger *zap.Logger,
) *DesignReview {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &DesignReview{
		projects:   projects,
		shortlists: shortlists,
		evaluator:  evaluator,
		notifier:   notifier,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// EvaluateShortlist scores every submitted design of the project and overwrites stored scores.
func (u *DesignReview) EvaluateShortlist(ctx context.Context, projectID uuid.UUID) ([]design.DesignEvaluation, error) {
	if projectID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	p, err := u.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("%w: load project: %v", ErrInternal, err)
	}

	subs, err := u.shortlists.ListSubmitted(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%w: load shortlist: %v", ErrInternal, err)
	}
	if len(subs) == 0 {
		return []design.DesignEvaluation{}, nil
	}

	evals := u.evaluator.RankSubmissions(ctx, p.Description, subs)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := u.shortlists.SaveEvaluations(ctx, evals, u.now()); err != nil {
		return nil, fmt.Errorf("%w: save evaluations: %v", ErrInternal, err)
	}

	u.notifier.DesignsEvaluated(projectID, len(evals))
	u.logger.Info("design shortlist evaluated",
		zap.String("project_id", projectID.String()),
		zap.Int("submissions", len(evals)),
	)
	return evals, nil
}

// EvaluateDesigns ranks ad-hoc submissions without touching storage.
func (u *DesignReview) EvaluateDesigns(ctx context.Context, description string, subs []design.Submission) ([]design.DesignEvaluation, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	for i := range subs {
		if subs[i].ID == uuid.Nil {
			subs[i].ID = uuid.New()
		}
	}
	evals := u.evaluator.RankSubmissions(ctx, description, subs)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return evals, nil
}
