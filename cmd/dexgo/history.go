package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dexgo/dexgo/store"
)

var (
	historyLimit     int
	historyPruneDays int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent check runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of runs to show")
	historyCmd.Flags().IntVar(&historyPruneDays, "prune", 0, "delete runs older than this many days first")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := store.OpenDefault()
	if err != nil {
		return err
	}
	defer s.Close()

	if historyPruneDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -historyPruneDays)
		n, err := s.PruneOlderThan(cutoff)
		if err != nil {
			return err
		}
		fmt.Printf("pruned %d run(s)\n", n)
	}

	runs, err := s.RecentRuns(historyLimit)
	if errors.Is(err, store.ErrNoRuns) {
		fmt.Println("no runs recorded")
		return nil
	}
	if err != nil {
		return err
	}

	for _, r := range runs {
		verdict := "PASS"
		if !r.Passed {
			verdict = "FAIL"
		}
		fmt.Printf("%s  %s  %-8s score %.4f  %s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			verdict, r.Debugger, r.Score, r.File)
	}
	return nil
}
