package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/biancatoto3/blockstep/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <workspace-file>",
	Short: "Execute a block workspace",
	Long: `Compiles the workspace (JSON or YAML) and runs the resulting program,
rendering the board after every move and announcing the verdict.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		quiet, _ := cmd.Flags().GetBool("quiet")
		watch, _ := cmd.Flags().GetBool("watch")
		lessonID, _ := cmd.Flags().GetString("lesson")
		lessonsDir, _ := cmd.Flags().GetString("lessons-dir")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		opts := cli.RunOptions{
			WorkspacePath: args[0],
			LessonsDir:    lessonsDir,
			LessonID:      lessonID,
			Debug:         debug,
			Quiet:         quiet,
			Watch:         watch,
			Timeout:       timeout,
		}

		if err := cli.Execute(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("watch", "w", false, "Re-run the workspace whenever the file changes")
	runCmd.Flags().String("lesson", "", "Lesson ID to load before running")
	runCmd.Flags().String("lessons-dir", "lessons", "Directory containing lesson files")
	runCmd.Flags().Duration("timeout", 10*time.Second, "Abort the run after this long")
}
