package domain

// Lesson is one exercise: a board layout plus the instructions shown to the
// learner. Lessons are authored as markdown files with a YAML frontmatter;
// the adapters decode them into this struct.
type Lesson struct {
	ID    string `json:"id" yaml:"id" mapstructure:"id"`
	Title string `json:"title" yaml:"title" mapstructure:"title"`

	// Instructions is the markdown body of the lesson document.
	Instructions string `json:"instructions,omitempty" yaml:"instructions,omitempty" mapstructure:"instructions"`

	// Board layout. Zero dimensions fall back to the defaults.
	Rows  int      `json:"rows,omitempty" yaml:"rows,omitempty" mapstructure:"rows"`
	Cols  int      `json:"cols,omitempty" yaml:"cols,omitempty" mapstructure:"cols"`
	Start Position `json:"start" yaml:"start" mapstructure:"start"`
	Goal  Position `json:"goal" yaml:"goal" mapstructure:"goal"`

	// Starter optionally names a workspace file shipped with the lesson.
	Starter string `json:"starter,omitempty" yaml:"starter,omitempty" mapstructure:"starter"`
}

// Board builds the lesson's board.
func (l *Lesson) Board() *Board {
	rows, cols := l.Rows, l.Cols
	if rows == 0 {
		rows = DefaultRows
	}
	if cols == 0 {
		cols = DefaultCols
	}
	return NewBoardAt(rows, cols, l.Start, l.Goal)
}
