// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the gutenfetch CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/gutenfetch/internal/httputil"
	"github.com/pdiddy/gutenfetch/internal/pipeline"
	"github.com/pdiddy/gutenfetch/internal/search"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd searches the catalog and downloads the matching texts.
var rootCmd = &cobra.Command{
	Use:   "gutenfetch [title]",
	Short: "Download e-texts from Project Gutenberg",
	Long: `gutenfetch searches the Gutendex catalog for Project Gutenberg e-books,
keeps one edition per work, picks the best plain-text file for each and
writes it to the output directory with the Project Gutenberg license header
and footer removed.

Search by title, by --author (optionally with a title), or ask for --random
texts. Use --dry-run to list matches without downloading.`,
	Example: `  gutenfetch "tale of two cities"
  gutenfetch --author "joseph conrad" --n 5
  gutenfetch --random 10 -o corpus/
  gutenfetch --author "jane austen" --dry-run --save austen.yaml
  gutenfetch --from austen.yaml`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return setupLogging(viper.GetString("log_level")) },
	RunE:              runFetch,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./gutenfetch.yaml or ~/.config/gutenfetch/gutenfetch.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default info)")

	f := rootCmd.Flags()
	f.String("author", "", "search by author name (e.g. 'joseph conrad')")
	f.Int("random", 0, "download N random e-texts")
	f.Int("n", 0, "maximum number of texts to download")
	f.StringP("output-dir", "o", "", "output directory (default ./gutenberg_texts)")
	f.Bool("dry-run", false, "list matching books without downloading")
	f.Bool("no-clean", false, "keep the Project Gutenberg header and footer")
	f.Bool("deep-clean", false, "also remove producer credits, illustration tags, footnotes and _italic_ markup")
	f.String("save", "", "write the selected books and formats to a YAML file")
	f.String("from", "", "download the books listed in a file written by --save")
	rootCmd.MarkFlagsMutuallyExclusive("no-clean", "deep-clean")
}

func runFetch(cmd *cobra.Command, args []string) error {
	opts := pipeline.Options{}
	if len(args) == 1 {
		opts.Title = args[0]
	}
	f := cmd.Flags()
	opts.Author, _ = f.GetString("author")
	opts.Random, _ = f.GetInt("random")
	opts.Limit, _ = f.GetInt("n")
	opts.DryRun, _ = f.GetBool("dry-run")
	opts.SavePath, _ = f.GetString("save")
	opts.FromPath, _ = f.GetString("from")

	noClean, _ := f.GetBool("no-clean")
	deepClean, _ := f.GetBool("deep-clean")
	opts.Download = downloadConfig(cleanMode(noClean, deepClean))

	catalog := search.NewClient(searchConfig())
	client := httputil.NewClient(opts.Download.HTTPConfig)
	_, err := pipeline.Run(cmd.Context(), catalog, client, opts, cmd.OutOrStdout())
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
