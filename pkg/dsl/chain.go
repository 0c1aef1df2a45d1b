package dsl

import (
	"github.com/biancatoto3/blockstep/pkg/blocks"
	"github.com/biancatoto3/blockstep/pkg/domain"
)

// ChainBuilder provides a fluent API for assembling one chain of blocks.
type ChainBuilder struct {
	head *domain.Block
	tail *domain.Block
}

// Chain starts an empty chain, typically used for a repeat body or an extra
// top-level chain.
func Chain() *ChainBuilder {
	return &ChainBuilder{}
}

func (c *ChainBuilder) append(b *domain.Block) *ChainBuilder {
	if c.head == nil {
		c.head = b
	} else {
		c.tail.Next = b
	}
	c.tail = b
	return c
}

// MoveForward appends a move block.
func (c *ChainBuilder) MoveForward() *ChainBuilder {
	return c.append(&domain.Block{Type: blocks.TypeMoveForward})
}

// WaitSeconds appends a wait block.
func (c *ChainBuilder) WaitSeconds(secs float64) *ChainBuilder {
	return c.append(&domain.Block{
		Type:   blocks.TypeWaitSeconds,
		Fields: map[string]any{blocks.FieldSeconds: secs},
	})
}

// Say appends a say block.
func (c *ChainBuilder) Say(text string) *ChainBuilder {
	return c.append(&domain.Block{
		Type:   blocks.TypeSay,
		Fields: map[string]any{blocks.FieldText: text},
	})
}

// Repeat appends a repeat block wrapping the body chain.
func (c *ChainBuilder) Repeat(times int, body *ChainBuilder) *ChainBuilder {
	var do *domain.Block
	if body != nil {
		do = body.Head()
	}
	return c.append(&domain.Block{
		Type:   blocks.TypeRepeat,
		Fields: map[string]any{blocks.FieldTimes: times},
		Inputs: map[string]*domain.Block{blocks.InputDo: do},
	})
}

// Block appends a block of an arbitrary type. This is the escape hatch for
// custom blocks registered on the engine.
func (c *ChainBuilder) Block(blockType string, fields map[string]any) *ChainBuilder {
	return c.append(&domain.Block{Type: blockType, Fields: fields})
}

// Head returns the first block of the chain, nil when empty.
func (c *ChainBuilder) Head() *domain.Block {
	return c.head
}
