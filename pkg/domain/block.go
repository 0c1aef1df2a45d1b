package domain

// Block is one block in a workspace. Blocks form chains through Next and may
// own nested chains through named Inputs (e.g. the body of a repeat block).
type Block struct {
	Type   string            `json:"type" yaml:"type" mapstructure:"type"`
	ID     string            `json:"id,omitempty" yaml:"id,omitempty" mapstructure:"id"`
	Fields map[string]any    `json:"fields,omitempty" yaml:"fields,omitempty" mapstructure:"fields"`
	Inputs map[string]*Block `json:"inputs,omitempty" yaml:"inputs,omitempty" mapstructure:"inputs"`
	Next   *Block            `json:"next,omitempty" yaml:"next,omitempty" mapstructure:"next"`
}

// Chain linearizes the block and its Next successors, in order.
func (b *Block) Chain() []*Block {
	var chain []*Block
	for cur := b; cur != nil; cur = cur.Next {
		chain = append(chain, cur)
	}
	return chain
}

// Field returns a named field value, or the fallback when absent.
func (b *Block) Field(name string, fallback any) any {
	if v, ok := b.Fields[name]; ok {
		return v
	}
	return fallback
}

// Workspace is a snapshot of the learner's editor: the top-level block chains
// in the order they should execute.
type Workspace struct {
	Blocks []*Block `json:"blocks" yaml:"blocks" mapstructure:"blocks"`
}

// Walk visits every block in the workspace depth-first (chain order, inputs
// before successors). The visit stops early when fn returns false.
func (w *Workspace) Walk(fn func(*Block) bool) {
	var visit func(*Block) bool
	visit = func(b *Block) bool {
		for cur := b; cur != nil; cur = cur.Next {
			if !fn(cur) {
				return false
			}
			for _, in := range cur.Inputs {
				if in != nil && !visit(in) {
					return false
				}
			}
		}
		return true
	}
	for _, top := range w.Blocks {
		if top != nil && !visit(top) {
			return
		}
	}
}

// Count returns the total number of blocks in the workspace.
func (w *Workspace) Count() int {
	n := 0
	w.Walk(func(*Block) bool {
		n++
		return true
	})
	return n
}
