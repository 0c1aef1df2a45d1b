package domain

import "time"

// Program is the immutable artifact produced by compiling a workspace. Every
// run request compiles a fresh Program from the current workspace snapshot;
// programs are never edited in place.
type Program struct {
	// Source is the generated script text handed to the evaluator.
	Source string `json:"source"`

	// Requires lists the host function names the program calls. The
	// evaluator validates these against the API table before the first
	// slice runs.
	Requires []string `json:"requires,omitempty"`

	// Blocks is the number of blocks the program was compiled from.
	Blocks int `json:"blocks"`

	CompiledAt time.Time `json:"compiled_at"`
}

// Diagnostic is one validation finding, tied to the offending block.
type Diagnostic struct {
	BlockID   string `json:"block_id,omitempty"`
	BlockType string `json:"block_type,omitempty"`
	Message   string `json:"message"`
}
