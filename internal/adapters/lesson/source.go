// Package lesson adapts the loam document store to the LessonSource port.
// Lessons are markdown files: a YAML frontmatter describes the board, the
// body carries the instructions shown to the learner.
package lesson

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"

	"github.com/biancatoto3/blockstep/pkg/domain"
)

// Source reads lessons from a loam repository.
type Source struct {
	Repo *loam.TypedRepository[Metadata]
}

// New creates a lesson source over an initialized typed repository.
func New(repo *loam.TypedRepository[Metadata]) *Source {
	return &Source{Repo: repo}
}

// Open initializes a loam repository at dir and wraps it in a Source. The
// repository is opened read-only; the engine never writes lesson files.
func Open(dir string) (*Source, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid lesson path: %w", err)
	}

	repo, err := loam.Init(absPath, loam.WithReadOnly(true))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	return New(loam.NewTypedRepository[Metadata](repo)), nil
}

// Get retrieves one lesson. Loam resolves "walk" to walk.md on its own; the
// returned lesson always carries the normalized ID.
func (s *Source) Get(ctx context.Context, id string) (*domain.Lesson, error) {
	doc, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrLessonNotFound, id)
	}
	return s.convert(doc.ID, doc.Data, doc.Content), nil
}

// List returns every lesson in the repository, sorted by ID. Two documents
// resolving to the same ID is an authoring error and fails loudly.
func (s *Source) List(ctx context.Context) ([]domain.Lesson, error) {
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	lessons := make([]domain.Lesson, 0, len(docs))
	for _, doc := range docs {
		l := s.convert(doc.ID, doc.Data, doc.Content)
		if existing, ok := seen[l.ID]; ok {
			return nil, fmt.Errorf("collision detected: lesson ID %q is defined in both %q and %q", l.ID, existing, doc.ID)
		}
		seen[l.ID] = doc.ID
		lessons = append(lessons, *l)
	}

	sort.Slice(lessons, func(i, j int) bool { return lessons[i].ID < lessons[j].ID })
	return lessons, nil
}

func (s *Source) convert(docID string, meta Metadata, content string) *domain.Lesson {
	id := meta.ID
	if id == "" {
		id = docID
	}
	id = trimExtension(id)

	title := meta.Title
	if title == "" {
		title = id
	}

	return &domain.Lesson{
		ID:           id,
		Title:        title,
		Instructions: strings.TrimSpace(content),
		Rows:         meta.Rows,
		Cols:         meta.Cols,
		Start:        meta.Start,
		Goal:         meta.Goal,
		Starter:      meta.Starter,
	}
}

func trimExtension(id string) string {
	if ext := filepath.Ext(id); ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
