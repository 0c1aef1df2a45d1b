package lesson

import "github.com/biancatoto3/blockstep/pkg/domain"

// Metadata is the frontmatter header of a lesson document. It uses
// "mapstructure" tags to match the YAML keys loam decodes.
type Metadata struct {
	ID    string `json:"id" mapstructure:"id"`
	Title string `json:"title" mapstructure:"title"`

	// Board layout. Zero dimensions fall back to the engine defaults.
	Rows  int             `json:"rows" mapstructure:"rows"`
	Cols  int             `json:"cols" mapstructure:"cols"`
	Start domain.Position `json:"start" mapstructure:"start"`
	Goal  domain.Position `json:"goal" mapstructure:"goal"`

	// Starter names a workspace file shipped next to the lesson.
	Starter string `json:"starter,omitempty" mapstructure:"starter"`
}
