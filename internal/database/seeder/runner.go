package seeder

import (
	"context"
	"errors"
	"fmt"

	"freelance-match/internal/database"

	"go.uber.org/zap"
)

var errNilDB = errors.New("nil db")

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

// Runner applies seeders in order and stops at the first failure.
type Runner struct {
	Seeders []Seeder
	Logger  *zap.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return errNilDB
	}
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		log.Info("seeded", zap.String("seeder", s.Name()))
	}
	return nil
}
