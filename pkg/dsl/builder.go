package dsl

import "github.com/biancatoto3/blockstep/pkg/domain"

// Builder manages the workspace construction. It wraps a main chain and any
// number of additional top-level chains.
type Builder struct {
	main  *ChainBuilder
	extra []*ChainBuilder
}

// New creates a new workspace builder.
func New() *Builder {
	return &Builder{main: Chain()}
}

// MoveForward appends a move block to the main chain.
func (b *Builder) MoveForward() *Builder {
	b.main.MoveForward()
	return b
}

// WaitSeconds appends a wait block to the main chain.
func (b *Builder) WaitSeconds(secs float64) *Builder {
	b.main.WaitSeconds(secs)
	return b
}

// Say appends a say block to the main chain.
func (b *Builder) Say(text string) *Builder {
	b.main.Say(text)
	return b
}

// Repeat appends a repeat block to the main chain.
func (b *Builder) Repeat(times int, body *ChainBuilder) *Builder {
	b.main.Repeat(times, body)
	return b
}

// Block appends a block of an arbitrary type to the main chain.
func (b *Builder) Block(blockType string, fields map[string]any) *Builder {
	b.main.Block(blockType, fields)
	return b
}

// Also adds an extra top-level chain to the workspace.
func (b *Builder) Also(chain *ChainBuilder) *Builder {
	if chain != nil {
		b.extra = append(b.extra, chain)
	}
	return b
}

// Build compiles the chains into a workspace.
func (b *Builder) Build() *domain.Workspace {
	ws := &domain.Workspace{}
	if head := b.main.Head(); head != nil {
		ws.Blocks = append(ws.Blocks, head)
	}
	for _, c := range b.extra {
		if head := c.Head(); head != nil {
			ws.Blocks = append(ws.Blocks, head)
		}
	}
	return ws
}
