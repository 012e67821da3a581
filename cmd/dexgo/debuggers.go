package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dexgo/dexgo/debugger"
)

var debuggersCmd = &cobra.Command{
	Use:   "debuggers",
	Short: "List potential debuggers and whether they are available",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		infos := debugger.List()

		maxName := 0
		for _, d := range infos {
			if len(d.Name) > maxName {
				maxName = len(d.Name)
			}
		}
		for _, d := range infos {
			if d.Available {
				fmt.Printf("%-*s YES (%s)\n", maxName, d.Name, d.Version)
			} else {
				fmt.Printf("%-*s NO  (%s)\n", maxName, d.Name, d.Error)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(debuggersCmd)
}
