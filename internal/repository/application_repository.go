package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"freelance-match/internal/database"
	"freelance-match/internal/domain/marketplace"
	"freelance-match/internal/domain/matching"

	"github.com/google/uuid"
)

type ApplicationRepository interface {
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]marketplace.Application, error)
	FindByID(ctx context.Context, id uuid.UUID) (marketplace.Application, error)
	SaveMatchResults(ctx context.Context, results []matching.MatchResult, scoredAt time.Time) error
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

const applicationSelect = `SELECT a.id, a.project_id, a.cover_letter, a.proposed_rate, a.estimated_duration, a.status,
	d.user_id, d.name, d.title, d.bio, d.skills, d.years_experience, d.rating, d.total_projects, d.success_rate
	FROM project_applications a
	JOIN developer_profiles d ON d.user_id = a.developer_id`

func (r *PostgresApplicationRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]marketplace.Application, error) {
	rows, err := r.db.Query(ctx, applicationSelect+`
		WHERE a.project_id = $1
		ORDER BY a.applied_at ASC, a.id ASC`,
		projectID,
	)
	if err != nil {
		return nil, err
	}

	out := make([]marketplace.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range out {
		past, err := r.pastProjects(ctx, out[i].Applicant.ID)
		if err != nil {
			return nil, err
		}
		out[i].Applicant.PastProjects = past
	}
	return out, nil
}

func (r *PostgresApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (marketplace.Application, error) {
	a, err := scanApplication(r.db.QueryRow(ctx, applicationSelect+`
		WHERE a.id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return marketplace.Application{}, fmt.Errorf("application %s: %w", id, ErrNotFound)
		}
		return marketplace.Application{}, err
	}

	past, err := r.pastProjects(ctx, a.Applicant.ID)
	if err != nil {
		return marketplace.Application{}, err
	}
	a.Applicant.PastProjects = past
	return a, nil
}

func (r *PostgresApplicationRepository) pastProjects(ctx context.Context, developerID uuid.UUID) (string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT p.title, p.description
		 FROM project_applications a
		 JOIN projects p ON p.id = a.project_id
		 WHERE a.developer_id = $1 AND a.status = $2
		 ORDER BY a.applied_at DESC
		 LIMIT $3`,
		developerID,
		string(marketplace.StatusSelected),
		marketplace.PastProjectLimit,
	)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	items := make([]marketplace.PastProject, 0, marketplace.PastProjectLimit)
	for rows.Next() {
		var it marketplace.PastProject
		if err := rows.Scan(&it.Title, &it.Description); err != nil {
			return "", err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return marketplace.JoinPastProjects(items), nil
}

func (r *PostgresApplicationRepository) SaveMatchResults(ctx context.Context, results []matching.MatchResult, scoredAt time.Time) error {
	if len(results) == 0 {
		return nil
	}
	if scoredAt.IsZero() {
		scoredAt = time.Now().UTC()
	}

	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		for _, m := range results {
			matched, err := encodeStringList(m.MatchingSkills)
			if err != nil {
				return err
			}
			missing, err := encodeStringList(m.MissingSkills)
			if err != nil {
				return err
			}

			_, err = tx.Exec(ctx,
				`UPDATE project_applications SET
					match_score = $2,
					skill_match_score = $3,
					experience_fit_score = $4,
					portfolio_quality_score = $5,
					proposal_quality_score = $6,
					rate_fit_score = $7,
					matching_skills = $8,
					missing_skills = $9,
					ai_reasoning = $10,
					scoring_method = $11,
					scored_at = $12
				 WHERE id = $1`,
				m.ApplicationID,
				m.OverallScore,
				scoreColumn(m.Components.SkillMatch),
				scoreColumn(m.Components.ExperienceFit),
				scoreColumn(m.Components.PortfolioQuality),
				scoreColumn(m.Components.ProposalQuality),
				scoreColumn(m.Components.RateFit),
				matched,
				missing,
				m.Reasoning,
				string(m.Method),
				scoredAt,
			)
			if err != nil {
				return fmt.Errorf("save match result %s: %w", m.ApplicationID, err)
			}
		}
		return nil
	})
}

func scanApplication(row database.Row) (marketplace.Application, error) {
	var (
		a      marketplace.Application
		status string
	)
	err := row.Scan(
		&a.ID,
		&a.ProjectID,
		&a.CoverLetter,
		&a.ProposedRate,
		&a.EstimatedDuration,
		&status,
		&a.Applicant.ID,
		&a.Applicant.Name,
		&a.Applicant.Title,
		&a.Applicant.Bio,
		&a.Applicant.Skills,
		&a.Applicant.YearsExperience,
		&a.Applicant.Rating,
		&a.Applicant.TotalProjects,
		&a.Applicant.SuccessRate,
	)
	if err != nil {
		return marketplace.Application{}, err
	}
	a.Status = marketplace.ApplicationStatus(status)
	return a, nil
}

func scoreColumn(v float64) int {
	return int(math.Round(v))
}
