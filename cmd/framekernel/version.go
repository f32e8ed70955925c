package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is overridden at build time via -ldflags.
var Version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the framekernel version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("framekernel v%s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
