package main

import (
	"fmt"

	"github.com/dexgo/dexgo/expect"
	"github.com/dexgo/dexgo/store"
)

// printReport writes per-directive outcomes and the file's score.
func printReport(fr *expect.FileResult, failLt float64) {
	for _, r := range fr.Results {
		loc := r.Command.Loc()
		if r.Passed() {
			fmt.Printf("PASS  %s:%d  %s\n", loc.Path, loc.Line, r.Command)
			continue
		}
		fmt.Printf("FAIL  %s:%d  %s\n", loc.Path, loc.Line, r.Command)
		for _, v := range r.Violations {
			fmt.Printf("      - %s\n", v)
		}
	}

	verdict := "PASS"
	if !fr.Passed(failLt) {
		verdict = "FAIL"
	}
	fmt.Printf("%s: score %.4f (threshold %.4f, %d violation(s))\n",
		verdict, fr.Score(), failLt, fr.NumViolations())
}

// recordHistory appends a run to the history store. History failures are
// reported but never fail the check itself.
func recordHistory(fr *expect.FileResult, debuggerName string, failLt float64) {
	s, err := store.OpenDefault()
	if err != nil {
		fmt.Printf("warning: history unavailable: %v\n", err)
		return
	}
	defer s.Close()

	penalties := 0
	for _, r := range fr.Results {
		penalties += r.Penalty()
	}
	_, err = s.RecordRun(store.Run{
		File:      fr.Path,
		Debugger:  debuggerName,
		Score:     fr.Score(),
		Passed:    fr.Passed(failLt),
		Penalties: penalties,
	})
	if err != nil {
		fmt.Printf("warning: could not record run: %v\n", err)
	}
}
