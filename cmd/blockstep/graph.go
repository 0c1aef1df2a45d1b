package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/biancatoto3/blockstep/internal/compiler"
	"github.com/biancatoto3/blockstep/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <workspace-file>",
	Short: "Export the workspace as a Mermaid diagram",
	Long:  `Outputs a Mermaid flowchart (graph TD) of the block chains, including loop bodies.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ws, err := compiler.DecodeFile(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(graph.GenerateMermaid(ws))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
