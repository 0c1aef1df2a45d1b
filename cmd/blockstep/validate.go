package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/biancatoto3/blockstep"
	"github.com/biancatoto3/blockstep/internal/compiler"
)

var validateCmd = &cobra.Command{
	Use:   "validate <workspace-file>",
	Short: "Check a workspace for problems",
	Long:  `Inspects every block and reports unknown types, bad field values, and empty loop bodies.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(args); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Workspace is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("workspace file required")
	}

	ws, err := compiler.DecodeFile(args[0])
	if err != nil {
		return err
	}

	diags := blockstep.New().Validate(ws)
	if len(diags) == 0 {
		return nil
	}

	for _, d := range diags {
		switch {
		case d.BlockID != "":
			fmt.Printf("- [%s] %s: %s\n", d.BlockID, d.BlockType, d.Message)
		case d.BlockType != "":
			fmt.Printf("- %s: %s\n", d.BlockType, d.Message)
		default:
			fmt.Printf("- %s\n", d.Message)
		}
	}
	return fmt.Errorf("%d problem(s) found", len(diags))
}
