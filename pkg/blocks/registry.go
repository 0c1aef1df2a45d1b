package blocks

import (
	"sort"
	"sync"

	"github.com/agnivade/levenshtein"
)

// Registry manages the known block definitions. It is safe for concurrent
// use; registration typically happens once at startup. If a definition with
// the same type exists, it is overwritten.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds a definition to the registry.
func (r *Registry) Register(def Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[def.Type] = def
}

// Lookup returns the definition for a block type.
func (r *Registry) Lookup(blockType string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[blockType]
	return def, ok
}

// Types returns every registered block type, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.defs))
	for t := range r.defs {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// maxSuggestDistance bounds how far a typo may be from a known type before
// we stop suggesting it.
const maxSuggestDistance = 3

// Suggest returns the closest registered type within edit distance 3, or ""
// when nothing is close enough. Used for "did you mean" diagnostics.
func (r *Registry) Suggest(blockType string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, known := range r.Types() {
		d := levenshtein.ComputeDistance(blockType, known)
		if d < bestDist {
			best = known
			bestDist = d
		}
	}
	if bestDist > maxSuggestDistance {
		return ""
	}
	return best
}
