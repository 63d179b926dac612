package repository

import (
	"context"

	"github.com/kemurphy3/ignite-fitness-sub004/internal/domain"
)

// Error constants for the catalog layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpsertFailed = RepositoryError("upsert failed")
)

// RepositoryError helps distinguish catalog storage errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// WorkoutCatalog defines the interface for the read-mostly template catalog
// the engine draws candidates from. The engine never creates templates;
// Upsert exists only for the startup import path.
type WorkoutCatalog interface {
	GetByModality(ctx context.Context, modality domain.Modality) ([]domain.WorkoutTemplate, error)
	GetByID(ctx context.Context, templateID string) (*domain.WorkoutTemplate, error)
	Upsert(ctx context.Context, template *domain.WorkoutTemplate) error
	CountByModality(ctx context.Context, modality domain.Modality) (int64, error)
}
