package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/biancatoto3/blockstep"
	"github.com/biancatoto3/blockstep/internal/compiler"
)

// compileCmd represents the compile command
var compileCmd = &cobra.Command{
	Use:   "compile <workspace-file>",
	Short: "Print the script generated from a workspace",
	Long:  `Compiles the workspace without running it and writes the generated script to stdout.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ws, err := compiler.DecodeFile(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		program, err := blockstep.New().Compile(ws)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(program.Source)
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
}
