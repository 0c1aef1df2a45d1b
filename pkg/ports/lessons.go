package ports

import (
	"context"

	"github.com/biancatoto3/blockstep/pkg/domain"
)

// LessonSource defines how lesson content is retrieved. This allows the
// storage layer (Loam, Memory) to be decoupled from the engine and the CLI.
type LessonSource interface {
	// Get retrieves a lesson by ID. It returns domain.ErrLessonNotFound
	// when the ID does not resolve.
	Get(ctx context.Context, id string) (*domain.Lesson, error)

	// List returns all available lessons, sorted by ID.
	List(ctx context.Context) ([]domain.Lesson, error)
}
