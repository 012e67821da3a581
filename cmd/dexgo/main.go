// dexgo - checks debugging-experience annotations in compiled test programs
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var verbosity int

var rootCmd = &cobra.Command{
	Use:   "dexgo",
	Short: "Debugging-experience testing for annotated C/C++ programs",
	Long: `dexgo parses DexLabel/DexExpectWatchValue/DexExpectStepKind annotations
embedded in test-program comments, captures (or loads) a debugger step
trace, and verifies that the watched expressions took the expected value
sequences at the annotated source points.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commonlog.Configure(verbosity, nil)
	},
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
