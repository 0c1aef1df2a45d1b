package domain

// MessageKind classifies one-way notifications toward the learner.
type MessageKind string

const (
	// MessageProgram is text the program itself emitted (the say block).
	MessageProgram MessageKind = "program"
	// MessageSystem is a domain notification, e.g. an illegal move.
	MessageSystem MessageKind = "system"
	// MessageVerdict is the terminal summary of a finished run.
	MessageVerdict MessageKind = "verdict"
)

// Message is a single notification. Delivery is fire-and-forget; no reply
// channel exists.
type Message struct {
	Kind MessageKind `json:"kind"`
	Text string      `json:"text"`
}

// Learner-facing texts.
const (
	TextGoalReached  = "You did it! The robot reached the goal."
	TextGoalMissed   = "The program finished, but the robot is not on the goal yet."
	TextOutOfBounds  = "Oops! The robot tried to move off the board."
	TextProgramError = "Something went wrong while running your program."
)

// Verdict summarizes a finished board: out of bounds wins over everything,
// then goal reached, then goal missed.
func Verdict(b *Board) Message {
	switch {
	case b.OutOfBounds:
		return Message{Kind: MessageVerdict, Text: TextOutOfBounds}
	case b.GoalReached():
		return Message{Kind: MessageVerdict, Text: TextGoalReached}
	default:
		return Message{Kind: MessageVerdict, Text: TextGoalMissed}
	}
}
