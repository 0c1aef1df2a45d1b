package lesson

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biancatoto3/blockstep/pkg/domain"
)

// seedRepo writes lesson files into a temp dir and opens a Source over it.
func seedRepo(t *testing.T, files map[string]string) *Source {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	src, err := Open(dir)
	require.NoError(t, err)
	return src
}

func TestSourceGetDecodesFrontmatter(t *testing.T) {
	src := seedRepo(t, map[string]string{
		"walk.md": `---
id: walk
title: First Steps
rows: 3
cols: 4
start:
  x: 0
  y: 0
goal:
  x: 0
  y: 3
starter: walk.json
---

Guide the robot to the flag.

Use **move forward** blocks.`,
	})

	l, err := src.Get(context.Background(), "walk")
	require.NoError(t, err)

	assert.Equal(t, "walk", l.ID)
	assert.Equal(t, "First Steps", l.Title)
	assert.Equal(t, 3, l.Rows)
	assert.Equal(t, 4, l.Cols)
	assert.Equal(t, domain.Position{X: 0, Y: 3}, l.Goal)
	assert.Equal(t, "walk.json", l.Starter)
	assert.Contains(t, l.Instructions, "Guide the robot")
	assert.Contains(t, l.Instructions, "**move forward**")

	board := l.Board()
	assert.Equal(t, 4, board.Cols)
	assert.Equal(t, domain.Position{X: 0, Y: 3}, board.Goal)
}

func TestSourceGetUnknownLesson(t *testing.T) {
	src := seedRepo(t, map[string]string{})

	_, err := src.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrLessonNotFound)
}

func TestSourceDefaultsTitleAndBoard(t *testing.T) {
	src := seedRepo(t, map[string]string{
		"minimal.md": `---
goal:
  y: 2
---
Walk two cells.`,
	})

	l, err := src.Get(context.Background(), "minimal")
	require.NoError(t, err)

	// ID and title fall back to the filename.
	assert.Equal(t, "minimal", l.ID)
	assert.Equal(t, "minimal", l.Title)

	// Board dimensions fall back to the defaults.
	board := l.Board()
	assert.Equal(t, domain.DefaultRows, board.Rows)
	assert.Equal(t, domain.DefaultCols, board.Cols)
	assert.Equal(t, domain.Position{X: 0, Y: 2}, board.Goal)
}

func TestSourceListSortsAndNormalizes(t *testing.T) {
	src := seedRepo(t, map[string]string{
		"b-loops.md": `---
id: b-loops.md
title: Loops
---
Repeat yourself.`,
		"a-walk.md": `---
title: Walk
---
One step at a time.`,
	})

	lessons, err := src.List(context.Background())
	require.NoError(t, err)

	require.Len(t, lessons, 2)
	assert.Equal(t, "a-walk", lessons[0].ID, "extension stripped from filename ID")
	assert.Equal(t, "b-loops", lessons[1].ID, "extension stripped from explicit ID")
}

func TestSourceListDetectsCollisions(t *testing.T) {
	src := seedRepo(t, map[string]string{
		"walk.md": `---
type: whatever
---
Implicit id walk.`,
		"other.md": `---
id: walk
---
Explicit id walk.`,
	})

	_, err := src.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
	assert.Contains(t, err.Error(), "walk")
}

func TestMemorySource(t *testing.T) {
	mem := NewMemory(
		domain.Lesson{ID: "b", Title: "Second"},
		domain.Lesson{ID: "a", Title: "First"},
	)

	l, err := mem.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "First", l.Title)

	_, err = mem.Get(context.Background(), "zzz")
	assert.ErrorIs(t, err, domain.ErrLessonNotFound)

	lessons, err := mem.List(context.Background())
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, "a", lessons[0].ID)
	assert.Equal(t, "b", lessons[1].ID)
}
