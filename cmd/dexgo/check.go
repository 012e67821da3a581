package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dexgo/dexgo/command"
	"github.com/dexgo/dexgo/debugger"
	"github.com/dexgo/dexgo/expect"
	"github.com/dexgo/dexgo/manifest"
)

var (
	checkTracePath string
	checkFailLt    float64
	checkNoHistory bool
)

var checkCmd = &cobra.Command{
	Use:   "check --trace <trace-file> <source>",
	Short: "Verify a source file's expectations against a recorded trace",
	Long: `check parses the directives in an annotated source file and verifies
them against a previously captured step trace (JSON or CBOR), without
needing a debugger installed.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkTracePath, "trace", "", "recorded trace to check against")
	checkCmd.Flags().Float64Var(&checkFailLt, "fail-lt", 0, "fail when the score drops below this (overrides manifest)")
	checkCmd.Flags().BoolVar(&checkNoHistory, "no-history", false, "do not record the run")
	checkCmd.MarkFlagRequired("trace")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	source := args[0]

	fc, err := command.ParseFile(source)
	if err != nil {
		if perr, ok := err.(*command.ParseError); ok {
			return fmt.Errorf("parser error: %s", perr.Pretty())
		}
		return err
	}

	trace, err := debugger.LoadTraceFile(checkTracePath)
	if err != nil {
		return err
	}

	failLt, _, err := effectiveConfig(fc, source)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("fail-lt") {
		failLt = checkFailLt
	}

	fr := expect.Check(fc, trace)
	printReport(fr, failLt)
	if !checkNoHistory {
		recordHistory(fr, trace.Debugger, failLt)
	}

	if !fr.Passed(failLt) {
		return fmt.Errorf("%s scored %.4f, below %.4f", source, fr.Score(), failLt)
	}
	return nil
}

// effectiveConfig loads the manifest near the source file and overlays the
// file's RUN: line, returning the pass threshold and the merged manifest.
func effectiveConfig(fc *command.FileCommands, source string) (float64, *manifest.Manifest, error) {
	m, err := manifest.FindAndLoad(filepath.Dir(source))
	if err != nil {
		return 0, nil, err
	}
	if fc.RunLine != "" {
		spec, err := manifest.ParseRunLine(fc.RunLine)
		if err != nil {
			return 0, nil, err
		}
		m = spec.Apply(m)
	}
	return m.Test.FailLt, m, nil
}
