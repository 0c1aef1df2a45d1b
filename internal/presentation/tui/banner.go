package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner shown by interactive commands.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Teal-to-violet gradient, one color per line
	s1 := termenv.String("  _     _            _        _").Foreground(p.Color("#2dd4bf"))
	s2 := termenv.String(" | |__ | | ___   ___| | _____| |_ ___ _ __").Foreground(p.Color("#22d3ee"))
	s3 := termenv.String(" | '_ \\| |/ _ \\ / __| |/ / __| __/ _ \\ '_ \\").Foreground(p.Color("#38bdf8"))
	s4 := termenv.String(" | |_) | | (_) | (__|   <\\__ \\ ||  __/ |_) |").Foreground(p.Color("#60a5fa"))
	s5 := termenv.String(" |_.__/|_|\\___/ \\___|_|\\_\\___/\\__\\___| .__/").Foreground(p.Color("#818cf8"))
	s6 := termenv.String("                                     |_|").Foreground(p.Color("#a78bfa"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	fmt.Println()
}
