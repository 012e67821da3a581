package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/dexgo/dexgo/builder"
	"github.com/dexgo/dexgo/command"
	"github.com/dexgo/dexgo/debugger"
	"github.com/dexgo/dexgo/expect"
)

var (
	testSaveTrace string
	testNoHistory bool
)

var testCmd = &cobra.Command{
	Use:   "test <source>...",
	Short: "Build, debug, and check annotated test programs",
	Long: `test compiles each annotated source with the configured builder, steps
the executable under the configured debugger to capture a trace, and
verifies the file's expectations against it. Build and debugger settings
come from dexgo.toml, overridden by the file's RUN: line.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTest,
}

func init() {
	testCmd.Flags().StringVar(&testSaveTrace, "save-trace", "", "write the captured trace to this file (.json for JSON, otherwise CBOR)")
	testCmd.Flags().BoolVar(&testNoHistory, "no-history", false, "do not record runs")
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	failed := 0
	for _, source := range args {
		if err := testOne(ctx, source); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", source, err)
			failed++
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d test(s) failed", failed, len(args))
	}
	return nil
}

func testOne(ctx context.Context, source string) error {
	fc, err := command.ParseFile(source)
	if err != nil {
		if perr, ok := err.(*command.ParseError); ok {
			return fmt.Errorf("parser error: %s", perr.Pretty())
		}
		return err
	}

	failLt, m, err := effectiveConfig(fc, source)
	if err != nil {
		return err
	}

	b, err := builder.ForName(m.Build.Builder, m.Build.CFlags, m.Build.LDFlags)
	if err != nil {
		return err
	}
	outDir, err := os.MkdirTemp("", "dexgo-build-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(outDir)

	exe, err := b.Build(ctx, source, outDir)
	if err != nil {
		return err
	}

	drv, err := debugger.Lookup(m.Debug.Debugger)
	if err != nil {
		return err
	}
	trace, err := drv.Capture(ctx, debugger.CaptureRequest{
		Executable:  exe,
		SourcePaths: []string{source},
		Expressions: fc.WatchExpressions(),
		MaxSteps:    m.Debug.MaxSteps,
		Pause:       time.Duration(m.Debug.Pause * float64(time.Second)),
	})
	if err != nil {
		return err
	}

	if testSaveTrace != "" {
		if err := debugger.SaveTraceFile(testSaveTrace, trace); err != nil {
			return err
		}
	}

	fr := expect.Check(fc, trace)
	printReport(fr, failLt)
	if !testNoHistory {
		recordHistory(fr, m.Debug.Debugger, failLt)
	}

	if !fr.Passed(failLt) {
		return fmt.Errorf("scored %.4f, below %.4f", fr.Score(), failLt)
	}
	return nil
}
