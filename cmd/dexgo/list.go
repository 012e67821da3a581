package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dexgo/dexgo/command"
)

// sourceExts are the file types scanned for directives when a directory is
// given.
var sourceExts = map[string]bool{
	".c":   true,
	".cc":  true,
	".cpp": true,
	".cxx": true,
	".h":   true,
	".hpp": true,
}

var listCmd = &cobra.Command{
	Use:   "list <path>...",
	Short: "List the annotation directives found in source files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	files, err := expandSources(args)
	if err != nil {
		return err
	}

	for _, file := range files {
		fc, err := command.ParseFile(file)
		if err != nil {
			if perr, ok := err.(*command.ParseError); ok {
				fmt.Fprintln(os.Stderr, perr.Pretty())
				continue
			}
			return err
		}

		fmt.Printf("%s:\n", fc.Path)
		if fc.RunLine != "" {
			fmt.Printf("  RUN: %s\n", fc.RunLine)
		}
		if len(fc.Requires) > 0 {
			fmt.Printf("  REQUIRES: %s\n", strings.Join(fc.Requires, ", "))
		}
		for _, c := range fc.Commands {
			fmt.Printf("  %4d: %s\n", c.Loc().Line, c)
		}
		if len(fc.Commands) == 0 {
			fmt.Println("  (no directives)")
		}
	}
	return nil
}

// expandSources flattens the argument list, walking directories for source
// files.
func expandSources(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && sourceExts[filepath.Ext(path)] {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
