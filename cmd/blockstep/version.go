package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/biancatoto3/blockstep"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of blockstep",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("blockstep version %s\n", blockstep.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
