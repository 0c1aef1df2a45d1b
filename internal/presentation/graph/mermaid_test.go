package graph_test

import (
	"strings"
	"testing"

	"github.com/biancatoto3/blockstep/internal/presentation/graph"
	"github.com/biancatoto3/blockstep/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		ws       *domain.Workspace
		contains []string
	}{
		{
			name: "Chain Arrows",
			ws: &domain.Workspace{Blocks: []*domain.Block{
				{ID: "a", Type: "move_forward", Next: &domain.Block{ID: "b", Type: "move_forward"}},
			}},
			contains: []string{
				"start((\"start\"))",
				"start --> a",
				"a[\"move_forward\"]",
				"a --> b",
			},
		},
		{
			name: "Wait Shape",
			ws: &domain.Workspace{Blocks: []*domain.Block{
				{ID: "w", Type: "wait_seconds", Fields: map[string]any{"SECONDS": 0.5}},
			}},
			contains: []string{
				"w[/\"wait_seconds SECONDS=0.5\"/]",
			},
		},
		{
			name: "Repeat Body",
			ws: &domain.Workspace{Blocks: []*domain.Block{
				{
					ID: "loop", Type: "repeat",
					Fields: map[string]any{"TIMES": 3},
					Inputs: map[string]*domain.Block{
						"DO": {ID: "inner", Type: "move_forward"},
					},
				},
			}},
			contains: []string{
				"loop[[\"repeat TIMES=3\"]]",
				"inner[\"move_forward\"]",
				"loop -. \"DO\" .-> inner",
			},
		},
		{
			name: "ID Sanitization",
			ws: &domain.Workspace{Blocks: []*domain.Block{
				{ID: "odd-id.1", Type: "say", Fields: map[string]any{"TEXT": `he said "hi"`}},
			}},
			contains: []string{
				"odd_id_1[\"say TEXT=he said 'hi'\"]",
			},
		},
		{
			name: "Generated IDs For Anonymous Blocks",
			ws: &domain.Workspace{Blocks: []*domain.Block{
				{Type: "move_forward", Next: &domain.Block{Type: "move_forward"}},
			}},
			contains: []string{
				"b1[\"move_forward\"]",
				"b1 --> b2",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.ws)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
		})
	}
}

func TestGenerateMermaidEmptyWorkspace(t *testing.T) {
	got := graph.GenerateMermaid(&domain.Workspace{})
	if !strings.HasPrefix(got, "graph TD\n") {
		t.Errorf("expected a graph header even without blocks, got %q", got)
	}
	if strings.Contains(got, "-->") {
		t.Errorf("empty workspace must not produce edges, got %q", got)
	}
}
