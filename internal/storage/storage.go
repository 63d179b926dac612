package storage

import (
	"context"

	"github.com/kemurphy3/ignite-fitness-sub004/internal/domain"
)

// TemplateSource defines the interface for external catalog seeds. A source
// holds a serialized set of workout templates that get imported into the
// catalog at startup.
type TemplateSource interface {
	// FetchTemplates retrieves and decodes the full template set.
	FetchTemplates(ctx context.Context) ([]domain.WorkoutTemplate, error)
}
