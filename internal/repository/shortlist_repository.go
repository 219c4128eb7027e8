package repository

import (
	"context"
	"fmt"
	"time"

	"freelance-match/internal/database"
	"freelance-match/internal/domain/design"

	"github.com/google/uuid"
)

type ShortlistRepository interface {
	ListSubmitted(ctx context.Context, projectID uuid.UUID) ([]design.Submission, error)
	SaveEvaluations(ctx context.Context, evals []design.DesignEvaluation, evaluatedAt time.Time) error
}

type PostgresShortlistRepository struct {
	db database.DB
}

func NewPostgresShortlistRepository(db database.DB) *PostgresShortlistRepository {
	return &PostgresShortlistRepository{db: db}
}

func (r *PostgresShortlistRepository) ListSubmitted(ctx context.Context, projectID uuid.UUID) ([]design.Submission, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, developer_id, figma_url, design_images
		 FROM figma_shortlists
		 WHERE project_id = $1
		   AND submitted_at IS NOT NULL
		   AND (figma_url IS NOT NULL OR design_images IS NOT NULL)
		 ORDER BY submitted_at ASC, id ASC`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]design.Submission, 0)
	for rows.Next() {
		var (
			s        design.Submission
			figmaURL *string
			images   []byte
		)
		if err := rows.Scan(&s.ID, &s.ApplicantID, &figmaURL, &images); err != nil {
			return nil, err
		}
		if figmaURL != nil {
			s.FigmaURL = *figmaURL
		}
		if s.Images, err = decodeStringList(images); err != nil {
			return nil, fmt.Errorf("shortlist %s design_images: %w", s.ID, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveEvaluations overwrites the previous score and rank of each shortlist entry.
func (r *PostgresShortlistRepository) SaveEvaluations(ctx context.Context, evals []design.DesignEvaluation, evaluatedAt time.Time) error {
	if len(evals) == 0 {
		return nil
	}
	if evaluatedAt.IsZero() {
		evaluatedAt = time.Now().UTC()
	}

	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		for _, ev := range evals {
			_, err := tx.Exec(ctx,
				`UPDATE figma_shortlists SET
					clip_score = $2,
					clip_rank = $3,
					evaluated_at = $4
				 WHERE id = $1`,
				ev.SubmissionID,
				ev.FinalScore,
				ev.Rank,
				evaluatedAt,
			)
			if err != nil {
				return fmt.Errorf("save design evaluation %s: %w", ev.SubmissionID, err)
			}
		}
		return nil
	})
}
