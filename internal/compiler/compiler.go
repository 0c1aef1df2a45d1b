package compiler

import (
	"fmt"
	"sort"
	"time"

	"github.com/biancatoto3/blockstep/pkg/blocks"
	"github.com/biancatoto3/blockstep/pkg/domain"
)

// Compiler turns a workspace snapshot into an executable program. Compilation
// is total and synchronous: decode, validate against the registry, emit.
type Compiler struct {
	registry *blocks.Registry
}

// New creates a compiler with the builtin block set.
func New() *Compiler {
	return NewWithRegistry(blocks.Builtins())
}

// NewWithRegistry creates a compiler over a custom block registry.
func NewWithRegistry(registry *blocks.Registry) *Compiler {
	return &Compiler{registry: registry}
}

// Registry exposes the block registry, e.g. for registering extra blocks.
func (c *Compiler) Registry() *blocks.Registry {
	return c.registry
}

// Compile generates a fresh program from the workspace. Unknown block types
// fail with *domain.UnknownBlockError; an empty workspace fails with
// domain.ErrEmptyWorkspace.
func (c *Compiler) Compile(ws *domain.Workspace) (domain.Program, error) {
	if ws == nil || len(ws.Blocks) == 0 {
		return domain.Program{}, domain.ErrEmptyWorkspace
	}

	gen := blocks.NewGenerator(c.registry)
	for _, head := range ws.Blocks {
		if err := gen.EmitChain(head); err != nil {
			return domain.Program{}, err
		}
	}

	return domain.Program{
		Source:     gen.Source(),
		Requires:   c.requires(ws),
		Blocks:     ws.Count(),
		CompiledAt: time.Now(),
	}, nil
}

// requires collects the host functions used by the workspace's blocks.
func (c *Compiler) requires(ws *domain.Workspace) []string {
	seen := make(map[string]bool)
	ws.Walk(func(b *domain.Block) bool {
		if def, ok := c.registry.Lookup(b.Type); ok {
			for _, name := range def.Requires {
				seen[name] = true
			}
		}
		return true
	})

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate inspects a workspace without generating code and reports every
// problem it finds. An empty result means the workspace compiles.
func (c *Compiler) Validate(ws *domain.Workspace) []domain.Diagnostic {
	var diags []domain.Diagnostic
	if ws == nil || len(ws.Blocks) == 0 {
		return []domain.Diagnostic{{Message: domain.ErrEmptyWorkspace.Error()}}
	}

	ws.Walk(func(b *domain.Block) bool {
		if _, ok := c.registry.Lookup(b.Type); !ok {
			msg := fmt.Sprintf("unknown block type %q", b.Type)
			if s := c.registry.Suggest(b.Type); s != "" {
				msg = fmt.Sprintf("%s, did you mean %q?", msg, s)
			}
			diags = append(diags, domain.Diagnostic{BlockID: b.ID, BlockType: b.Type, Message: msg})
			return true
		}

		switch b.Type {
		case blocks.TypeWaitSeconds:
			if b.Field(blocks.FieldSeconds, nil) != nil && blocks.FieldNumber(b, blocks.FieldSeconds, -1) < 0 {
				diags = append(diags, domain.Diagnostic{
					BlockID:   b.ID,
					BlockType: b.Type,
					Message:   "SECONDS must be a non-negative number",
				})
			}
		case blocks.TypeRepeat:
			if b.Inputs[blocks.InputDo] == nil {
				diags = append(diags, domain.Diagnostic{
					BlockID:   b.ID,
					BlockType: b.Type,
					Message:   "repeat block has an empty body",
				})
			}
			if b.Field(blocks.FieldTimes, nil) != nil && blocks.FieldNumber(b, blocks.FieldTimes, -1) < 0 {
				diags = append(diags, domain.Diagnostic{
					BlockID:   b.ID,
					BlockType: b.Type,
					Message:   "TIMES must be a non-negative number",
				})
			}
		}
		return true
	})

	return diags
}
