package blocks

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/biancatoto3/blockstep/pkg/domain"
)

// Definition describes one block type: the host bindings its generated code
// calls, and how to emit Lua for an instance of the block.
type Definition struct {
	// Type is the block type identifier, e.g. "move_forward".
	Type string
	// Requires lists the host function names the emitted code calls.
	Requires []string
	// Emit writes the Lua statements for one block instance. Successor
	// blocks are handled by the generator, not by Emit.
	Emit func(g *Generator, b *domain.Block) error
}

// Generator accumulates Lua source while walking a block chain. Definitions
// use it to emit lines at the current indentation level.
type Generator struct {
	registry *Registry
	buf      strings.Builder
	indent   int
}

// NewGenerator creates a generator that resolves block types against reg.
func NewGenerator(reg *Registry) *Generator {
	return &Generator{registry: reg}
}

// Line writes one indented line of Lua source.
func (g *Generator) Line(format string, args ...any) {
	for i := 0; i < g.indent; i++ {
		g.buf.WriteString("  ")
	}
	fmt.Fprintf(&g.buf, format, args...)
	g.buf.WriteByte('\n')
}

// Indented runs body with the indentation level raised by one.
func (g *Generator) Indented(body func() error) error {
	g.indent++
	err := body()
	g.indent--
	return err
}

// EmitChain emits a block and every successor linked through Next. Unknown
// block types abort generation with a suggestion when a close match exists.
func (g *Generator) EmitChain(b *domain.Block) error {
	for ; b != nil; b = b.Next {
		def, ok := g.registry.Lookup(b.Type)
		if !ok {
			return &domain.UnknownBlockError{
				Type:       b.Type,
				Suggestion: g.registry.Suggest(b.Type),
			}
		}
		if err := def.Emit(g, b); err != nil {
			return fmt.Errorf("emit %s: %w", b.Type, err)
		}
	}
	return nil
}

// Source returns the Lua source emitted so far.
func (g *Generator) Source() string {
	return g.buf.String()
}

// QuoteLua renders s as a double-quoted Lua string literal.
func QuoteLua(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// FormatLuaNumber renders f the way Lua prints numbers, without a trailing
// ".0" for integral values.
func FormatLuaNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FieldNumber reads a numeric field, tolerating JSON decoding artifacts.
func FieldNumber(b *domain.Block, name string, fallback float64) float64 {
	switch v := b.Field(name, nil).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// FieldString reads a string field with a fallback.
func FieldString(b *domain.Block, name, fallback string) string {
	if s, ok := b.Field(name, nil).(string); ok {
		return s
	}
	return fallback
}
