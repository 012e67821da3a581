package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dexgo/dexgo/debugger"
	"github.com/dexgo/dexgo/dextir"
)

var viewColor bool

var viewCmd = &cobra.Command{
	Use:   "view <trace-file>",
	Short: "Pretty-print a recorded step trace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		trace, err := debugger.LoadTraceFile(args[0])
		if err != nil {
			return err
		}
		dextir.Render(os.Stdout, trace, viewColor)
		return nil
	},
}

func init() {
	viewCmd.Flags().BoolVar(&viewColor, "color", false, "tint step runs by function")
	rootCmd.AddCommand(viewCmd)
}
