package domain

// Default board dimensions. The demo world is a small fixed grid so that a
// handful of blocks is enough to reach the goal.
const (
	DefaultRows = 3
	DefaultCols = 3
)

// Position is a cell on the board. X is the row, Y is the column.
type Position struct {
	X int `json:"x" yaml:"x" mapstructure:"x"`
	Y int `json:"y" yaml:"y" mapstructure:"y"`
}

// MoveOutcome classifies the effect of a single movement request.
type MoveOutcome string

const (
	MoveAdvanced    MoveOutcome = "advanced"      // Robot moved one cell forward
	MoveOutOfBounds MoveOutcome = "out_of_bounds" // Move would leave the board; flag raised, robot stayed
	MoveIgnored     MoveOutcome = "ignored"       // Board already flagged; mutation suppressed
)

// Board is the mutable world state of a run: the grid, the robot, the goal
// and the out-of-bounds flag. It is the only state a program can change, and
// only through exposed host functions.
//
// Board itself is not goroutine safe; the execution loop serializes access.
type Board struct {
	Rows int `json:"rows" yaml:"rows" mapstructure:"rows"`
	Cols int `json:"cols" yaml:"cols" mapstructure:"cols"`

	Robot Position `json:"robot" yaml:"robot" mapstructure:"robot"`
	Goal  Position `json:"goal" yaml:"goal" mapstructure:"goal"`

	// OutOfBounds latches after the first illegal move. While set, further
	// mutating host calls are no-ops until Reset.
	OutOfBounds bool `json:"out_of_bounds" yaml:"out_of_bounds" mapstructure:"out_of_bounds"`

	start Position
}

// NewBoard creates the default demo board: 3x3 cells, robot at the top-left
// corner, goal at the end of the first row.
func NewBoard() *Board {
	return NewBoardAt(DefaultRows, DefaultCols, Position{X: 0, Y: 0}, Position{X: 0, Y: 2})
}

// NewBoardAt creates a board with explicit dimensions, start and goal.
// Dimensions smaller than 1x1 are clamped; start and goal outside the grid
// are clamped onto it.
func NewBoardAt(rows, cols int, start, goal Position) *Board {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	b := &Board{
		Rows:  rows,
		Cols:  cols,
		Robot: clamp(start, rows, cols),
		Goal:  clamp(goal, rows, cols),
	}
	b.start = b.Robot
	return b
}

func clamp(p Position, rows, cols int) Position {
	if p.X < 0 {
		p.X = 0
	}
	if p.X > rows-1 {
		p.X = rows - 1
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if p.Y > cols-1 {
		p.Y = cols - 1
	}
	return p
}

// MoveForward advances the robot one cell along its row (toward higher Y).
// A move that would leave the board raises the OutOfBounds flag and leaves
// the robot in place. Once the flag is set every further move is ignored.
func (b *Board) MoveForward() MoveOutcome {
	if b.OutOfBounds {
		return MoveIgnored
	}
	if b.Robot.Y+1 > b.Cols-1 {
		b.OutOfBounds = true
		return MoveOutOfBounds
	}
	b.Robot.Y++
	return MoveAdvanced
}

// GoalReached reports whether the robot stands on the goal cell.
func (b *Board) GoalReached() bool {
	return b.Robot == b.Goal
}

// Reset puts the robot back on its start cell and clears the flag.
func (b *Board) Reset() {
	b.Robot = b.start
	b.OutOfBounds = false
}

// Start returns the cell the robot began on.
func (b *Board) Start() Position {
	return b.start
}

// Clone returns a value copy for read models. The copy shares nothing with
// the live board.
func (b *Board) Clone() Board {
	return *b
}
