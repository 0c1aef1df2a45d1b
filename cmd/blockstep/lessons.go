package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/biancatoto3/blockstep/internal/adapters/lesson"
	"github.com/biancatoto3/blockstep/internal/presentation/tui"
)

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "Browse the lesson library",
	Long:  `List and inspect the lessons stored as markdown files in the lessons directory.`,
}

var lessonsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all available lessons",
	Run: func(cmd *cobra.Command, args []string) {
		src := getLessonSource(cmd)
		lessons, err := src.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing lessons: %v\n", err)
			os.Exit(1)
		}

		if len(lessons) == 0 {
			fmt.Println("No lessons found.")
			return
		}

		fmt.Println("Available Lessons:")
		for _, l := range lessons {
			fmt.Printf("- %s: %s\n", l.ID, l.Title)
		}
	},
}

var lessonsShowCmd = &cobra.Command{
	Use:   "show <lesson-id>",
	Short: "Show a lesson's board and instructions",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		src := getLessonSource(cmd)
		l, err := src.Get(cmd.Context(), args[0])
		if err != nil {
			fmt.Printf("Error loading lesson '%s': %v\n", args[0], err)
			os.Exit(1)
		}

		fmt.Printf("%s (%s)\n", l.Title, l.ID)
		fmt.Println(tui.RenderBoard(*l.Board()))

		if l.Instructions != "" {
			fmt.Print(tui.RenderInstructions(l.Instructions))
		}
	},
}

func init() {
	rootCmd.AddCommand(lessonsCmd)
	lessonsCmd.AddCommand(lessonsLsCmd)
	lessonsCmd.AddCommand(lessonsShowCmd)

	lessonsCmd.PersistentFlags().String("dir", "lessons", "Directory containing lesson files")
}

func getLessonSource(cmd *cobra.Command) *lesson.Source {
	dir, _ := cmd.Flags().GetString("dir")
	src, err := lesson.Open(dir)
	if err != nil {
		fmt.Printf("Error opening lessons directory '%s': %v\n", dir, err)
		os.Exit(1)
	}
	return src
}
