// Package graph renders a workspace as a Mermaid flowchart, which is handy
// for documenting a lesson solution or debugging a deeply nested program.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/biancatoto3/blockstep/pkg/blocks"
	"github.com/biancatoto3/blockstep/pkg/domain"
)

// GenerateMermaid produces Mermaid flowchart syntax for the workspace.
// Shapes carry meaning:
//   - start: ((Circle))
//   - wait_seconds: [/Parallelogram/] (the program can suspend here)
//   - repeat: [[Subroutine]]
//   - everything else: [Rectangle]
//
// Chain order uses solid arrows; input chains (loop bodies) hang off their
// container with a dotted arrow labeled by the input name.
func GenerateMermaid(ws *domain.Workspace) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    start((\"start\"))\n")

	g := &generator{ids: make(map[*domain.Block]string)}
	for _, top := range ws.Blocks {
		head := g.emitChain(&sb, top)
		if head != "" {
			sb.WriteString(fmt.Sprintf("    start --> %s\n", head))
		}
	}

	return sb.String()
}

type generator struct {
	ids  map[*domain.Block]string
	next int
}

// emitChain writes one chain of blocks and returns the Mermaid ID of its
// head, or "" for an empty chain.
func (g *generator) emitChain(sb *strings.Builder, head *domain.Block) string {
	var prev string
	var headID string

	for b := head; b != nil; b = b.Next {
		id := g.idFor(b)
		if headID == "" {
			headID = id
		}

		opener, closer := "[", "]"
		switch b.Type {
		case blocks.TypeWaitSeconds:
			opener, closer = "[/", "/]"
		case blocks.TypeRepeat:
			opener, closer = "[[", "]]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, blockLabel(b), closer))

		if prev != "" {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", prev, id))
		}
		prev = id

		for _, name := range sortedInputNames(b) {
			bodyHead := g.emitChain(sb, b.Inputs[name])
			if bodyHead != "" {
				sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> %s\n", id, name, bodyHead))
			}
		}
	}

	return headID
}

func (g *generator) idFor(b *domain.Block) string {
	if id, ok := g.ids[b]; ok {
		return id
	}
	g.next++
	id := sanitizeMermaidID(b.ID)
	if id == "" || id == "start" {
		id = fmt.Sprintf("b%d", g.next)
	}
	g.ids[b] = id
	return id
}

// blockLabel renders the block type plus its fields, compact enough for a
// node label. Double quotes would break Mermaid syntax and become singles.
func blockLabel(b *domain.Block) string {
	label := b.Type
	for _, key := range sortedFieldNames(b) {
		label += fmt.Sprintf(" %s=%v", key, b.Fields[key])
	}
	return strings.ReplaceAll(label, "\"", "'")
}

func sortedFieldNames(b *domain.Block) []string {
	names := make([]string, 0, len(b.Fields))
	for name := range b.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedInputNames(b *domain.Block) []string {
	names := make([]string, 0, len(b.Inputs))
	for name := range b.Inputs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return strings.Trim(sb.String(), "_")
}
