package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"freelance-match/internal/database"
	"freelance-match/internal/domain/marketplace"

	"github.com/google/uuid"
)

type ProjectRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (marketplace.Project, error)
}

type PostgresProjectRepository struct {
	db database.DB
}

func NewPostgresProjectRepository(db database.DB) *PostgresProjectRepository {
	return &PostgresProjectRepository{db: db}
}

func (r *PostgresProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (marketplace.Project, error) {
	var (
		p         marketplace.Project
		techStack []byte
	)
	err := r.db.QueryRow(ctx,
		`SELECT id, title, description, category, complexity, tech_stack, budget_min, budget_max
		 FROM projects
		 WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Title, &p.Description, &p.Category, &p.Complexity, &techStack, &p.BudgetMin, &p.BudgetMax)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return marketplace.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
		return marketplace.Project{}, err
	}

	stack, err := decodeStringList(techStack)
	if err != nil {
		return marketplace.Project{}, fmt.Errorf("project %s tech_stack: %w", id, err)
	}
	p.TechStack = stack
	return p, nil
}

// decodeStringList accepts a JSON array; NULL or empty input yields an empty list.
func decodeStringList(b []byte) ([]string, error) {
	out := []string{}
	if len(b) == 0 || string(b) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func encodeStringList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
