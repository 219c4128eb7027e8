package matching

import (
	"context"
	"errors"
	"sort"

	"freelance-match/internal/domain/marketplace"
	"freelance-match/internal/domain/skill"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MatchResult struct {
	ApplicationID  uuid.UUID       `json:"application_id"`
	ApplicantID    uuid.UUID       `json:"applicant_id"`
	ApplicantName  string          `json:"applicant_name"`
	OverallScore   int             `json:"overall_score"`
	Components     ComponentScores `json:"components"`
	Method         Method          `json:"method"`
	MatchingSkills []string        `json:"matching_skills"`
	MissingSkills  []string        `json:"missing_skills"`
	ExtraSkills    []string        `json:"extra_skills"`
	Reasoning      string          `json:"reasoning"`
	Anomalies      []string        `json:"anomalies,omitempty"`
	Rank           int             `json:"rank"`
}

type SkippedApplication struct {
	ApplicationID uuid.UUID
	Err           error
}

type RankReport struct {
	Results    []MatchResult
	Skipped    []SkippedApplication
	Considered int
}

type Ranker struct {
	components ComponentScorer
	chain      *Chain
	logger     *zap.Logger
}

func NewRanker(chain *Chain, logger *zap.Logger) *Ranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if chain == nil {
		chain = NewChain(WithLogger(logger))
	}
	return &Ranker{chain: chain, logger: logger}
}

func (r *Ranker) Chain() *Chain { return r.chain }

// Rank orders the pending applications by score. topN <= 0 means no limit; a positive topN
// returns at most that many results.
func (r *Ranker) Rank(ctx context.Context, p marketplace.Project, apps []marketplace.Application, topN int) ([]MatchResult, error) {
	rep, err := r.RankDetailed(ctx, p, apps, topN)
	if err != nil {
		return nil, err
	}
	return rep.Results, nil
}

func (r *Ranker) RankDetailed(ctx context.Context, p marketplace.Project, apps []marketplace.Application, topN int) (RankReport, error) {
	if err := p.Validate(); err != nil {
		return RankReport{}, err
	}

	rep := RankReport{Results: make([]MatchResult, 0, len(apps))}
	for _, a := range apps {
		if !a.IsPending() {
			continue
		}
		rep.Considered++

		res, err := r.evaluate(ctx, p, a)
		if err != nil {
			var shapeErr *marketplace.InputShapeError
			if !errors.As(err, &shapeErr) {
				return RankReport{}, err
			}
			r.logger.Warn("application skipped",
				zap.String("project_id", p.ID.String()),
				zap.String("application_id", a.ID.String()),
				zap.Error(err),
			)
			rep.Skipped = append(rep.Skipped, SkippedApplication{ApplicationID: a.ID, Err: err})
			continue
		}
		rep.Results = append(rep.Results, res)
	}

	sort.SliceStable(rep.Results, func(i, j int) bool {
		return rep.Results[i].OverallScore > rep.Results[j].OverallScore
	})
	if topN > 0 && len(rep.Results) > topN {
		rep.Results = rep.Results[:topN]
	}
	for i := range rep.Results {
		rep.Results[i].Rank = i + 1
	}
	return rep, nil
}

// Explain scores a single application regardless of its status. Rank is left at zero.
func (r *Ranker) Explain(ctx context.Context, p marketplace.Project, a marketplace.Application) (MatchResult, error) {
	if err := p.Validate(); err != nil {
		return MatchResult{}, err
	}
	if a.ProjectID != uuid.Nil && a.ProjectID != p.ID {
		return MatchResult{}, &marketplace.InputShapeError{Entity: "application", ID: a.ID, Field: "project_id", Reason: "does not belong to the project"}
	}
	return r.evaluate(ctx, p, a)
}

func (r *Ranker) evaluate(ctx context.Context, p marketplace.Project, a marketplace.Application) (MatchResult, error) {
	if err := a.Validate(); err != nil {
		return MatchResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return MatchResult{}, err
	}

	comps := r.components.Score(p, a)
	res := r.chain.Resolve(ctx, p, a, comps)

	required := skill.NormalizeList(p.TechStack)
	offered := skill.Normalize(a.Applicant.Skills)

	return MatchResult{
		ApplicationID:  a.ID,
		ApplicantID:    a.Applicant.ID,
		ApplicantName:  a.Applicant.Name,
		OverallScore:   res.Score,
		Components:     comps.Rounded(),
		Method:         res.Method,
		MatchingSkills: required.Intersect(offered).Sorted(),
		MissingSkills:  required.Difference(offered).Sorted(),
		ExtraSkills:    offered.Difference(required).Sorted(),
		Reasoning:      Reasoning(res.Score, comps, res.Method),
		Anomalies:      res.Anomalies,
	}, nil
}
