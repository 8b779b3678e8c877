// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gutenfetch/internal/clean"
)

var cleanCmd = &cobra.Command{
	Use:   "clean PATH...",
	Short: "Strip Project Gutenberg boilerplate from existing text files",
	Long: `Clean rewrites .txt files in place, keeping only the text between the
"*** START OF" and "*** END OF" marker lines. Directories are expanded to the
.txt files they contain. Files that are already clean are left untouched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().Bool("dry-run", false, "report which files would change without writing")
	cleanCmd.Flags().Bool("deep-clean", false, "also remove producer credits, illustration tags, footnotes and _italic_ markup")

	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	deep, _ := cmd.Flags().GetBool("deep-clean")

	result, err := clean.CleanPaths(args, clean.Options{Extras: deep}, dryRun, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed to clean", result.Failed)
	}
	return nil
}
