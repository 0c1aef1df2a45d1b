package blocks

import "github.com/biancatoto3/blockstep/pkg/domain"

// Block types understood by the built-in registry.
const (
	TypeMoveForward = "move_forward"
	TypeWaitSeconds = "wait_seconds"
	TypeRepeat      = "repeat"
	TypeSay         = "say"
)

// Host function names the built-in blocks compile down to.
const (
	HostMoveForward    = "moveForward"
	HostWaitForSeconds = "waitForSeconds"
	HostPrint          = "print"
)

// Field and input names used by the built-in blocks.
const (
	FieldSeconds = "SECONDS"
	FieldTimes   = "TIMES"
	FieldText    = "TEXT"
	InputDo      = "DO"
)

// Builtins returns a registry preloaded with the stock block set.
func Builtins() *Registry {
	reg := NewRegistry()
	reg.Register(Definition{
		Type:     TypeMoveForward,
		Requires: []string{HostMoveForward},
		Emit: func(g *Generator, _ *domain.Block) error {
			g.Line("%s()", HostMoveForward)
			return nil
		},
	})
	reg.Register(Definition{
		Type:     TypeWaitSeconds,
		Requires: []string{HostWaitForSeconds},
		Emit: func(g *Generator, b *domain.Block) error {
			secs := FieldNumber(b, FieldSeconds, 1)
			if secs < 0 {
				secs = 0
			}
			g.Line("%s(%s)", HostWaitForSeconds, FormatLuaNumber(secs))
			return nil
		},
	})
	reg.Register(Definition{
		Type:     TypeRepeat,
		Requires: nil,
		Emit: func(g *Generator, b *domain.Block) error {
			times := int(FieldNumber(b, FieldTimes, 0))
			if times < 0 {
				times = 0
			}
			g.Line("for _ = 1, %d do", times)
			if err := g.Indented(func() error {
				return g.EmitChain(b.Inputs[InputDo])
			}); err != nil {
				return err
			}
			g.Line("end")
			return nil
		},
	})
	reg.Register(Definition{
		Type:     TypeSay,
		Requires: []string{HostPrint},
		Emit: func(g *Generator, b *domain.Block) error {
			g.Line("%s(%s)", HostPrint, QuoteLua(FieldString(b, FieldText, "")))
			return nil
		},
	})
	return reg
}
