package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/biancatoto3/blockstep/pkg/domain"
)

var (
	cellStyle  = lipgloss.NewStyle().Width(3).Align(lipgloss.Center)
	robotStyle = cellStyle.Foreground(lipgloss.Color("212")).Bold(true)
	crashStyle = cellStyle.Foreground(lipgloss.Color("9")).Bold(true)
	goalStyle  = cellStyle.Foreground(lipgloss.Color("220"))
	boardStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	verdictGood = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	verdictBad  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	systemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// RenderBoard draws the grid with the robot (R) and the goal (G). A robot
// that walked off the board shows as a crash marker (X) on its last cell.
func RenderBoard(b domain.Board) string {
	rows := make([]string, 0, b.Rows)
	for x := 0; x < b.Rows; x++ {
		cells := make([]string, 0, b.Cols)
		for y := 0; y < b.Cols; y++ {
			pos := domain.Position{X: x, Y: y}
			switch {
			case b.Robot == pos && b.OutOfBounds:
				cells = append(cells, crashStyle.Render("X"))
			case b.Robot == pos:
				cells = append(cells, robotStyle.Render("R"))
			case b.Goal == pos:
				cells = append(cells, goalStyle.Render("G"))
			default:
				cells = append(cells, cellStyle.Render("·"))
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return boardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// RenderMessage styles a learner-facing message by kind: verdicts get the
// loudest treatment, system warnings a cautionary one, program output none.
func RenderMessage(msg domain.Message) string {
	switch msg.Kind {
	case domain.MessageVerdict:
		if msg.Text == domain.TextGoalReached {
			return verdictGood.Render(msg.Text)
		}
		return verdictBad.Render(msg.Text)
	case domain.MessageSystem:
		return systemStyle.Render(msg.Text)
	default:
		return msg.Text
	}
}
