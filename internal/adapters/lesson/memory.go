package lesson

import (
	"context"
	"fmt"
	"sort"

	"github.com/biancatoto3/blockstep/pkg/domain"
)

// Memory implements the LessonSource port with an in-memory set. Useful for
// tests and for embedding a fixed curriculum without files on disk.
type Memory struct {
	lessons map[string]domain.Lesson
}

// NewMemory creates a memory source from the given lessons.
func NewMemory(lessons ...domain.Lesson) *Memory {
	m := &Memory{lessons: make(map[string]domain.Lesson, len(lessons))}
	for _, l := range lessons {
		m.lessons[l.ID] = l
	}
	return m
}

// Get retrieves a lesson by ID.
func (m *Memory) Get(_ context.Context, id string) (*domain.Lesson, error) {
	l, ok := m.lessons[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrLessonNotFound, id)
	}
	return &l, nil
}

// List returns all lessons sorted by ID.
func (m *Memory) List(_ context.Context) ([]domain.Lesson, error) {
	out := make([]domain.Lesson, 0, len(m.lessons))
	for _, l := range m.lessons {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
