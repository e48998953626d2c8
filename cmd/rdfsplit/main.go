// Package main provides the rdfsplit binary entry point. Rdfsplit
// splits RDF files of any supported serialization into independently
// valid chunk files, by fixed chunk size or by exact file count.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdfsplit/inputs"
	"github.com/geoknoesis/rdfsplit/split"
)

const (
	Version = "0.1.0"
	appName = "rdfsplit"

	defaultChunkSize = 10000

	// exitFailed signals that at least one input could not be split.
	exitFailed = 2
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		chunkSize int
		fileCount int
		outputDir string
		recursive bool
		force     bool
		parallel  int
		logLevel  string
	)

	cmd := &cobra.Command{
		Use:   "rdfsplit [flags] <file|dir|glob>...",
		Short: "Split RDF files into independently valid chunks",
		Long: `Rdfsplit reads RDF files (Turtle, TriG, N-Triples, N-Quads, RDF/XML,
JSON-LD) and re-emits them as numbered chunk files in the same
serialization. Prefix declarations, the base IRI, namespace
declarations, and the JSON-LD context are replicated into every chunk,
so each chunk parses on its own.

Chunks are sized either by a fixed statement count (--chunk-size) or by
an exact number of output files (--file-count). Chunk files are named
<stem>_<NNNN>.<ext> next to the input unless --output-dir is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := split.ByChunkSize(chunkSize)
			if cmd.Flags().Changed("file-count") {
				mode = split.ByFileCount(fileCount)
			}
			return run(cmd.Context(), args, recursive, split.Options{
				OutputDir: outputDir,
				Mode:      mode,
				Force:     force,
				Parallel:  parallel,
				Logger:    newLogger(logLevel),
			})
		},
		SilenceUsage: true,
	}

	cmd.Flags().IntVarP(&chunkSize, "chunk-size", "n", defaultChunkSize, "Statements per chunk")
	cmd.Flags().IntVarP(&fileCount, "file-count", "c", 0, "Exact number of chunk files per input")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for chunk files (default: alongside each input)")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into subdirectories of directory arguments")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing chunks and create the output directory")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 1, "Number of inputs processed concurrently")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.MarkFlagsMutuallyExclusive("chunk-size", "file-count")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})

	return cmd
}

func run(ctx context.Context, args []string, recursive bool, opts split.Options) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths, err := inputs.Expand(args, recursive, opts.Logger)
	if err != nil {
		return err
	}

	result, err := split.Run(ctx, paths, opts)
	if err != nil {
		return err
	}

	chunks := 0
	statements := 0
	for _, file := range result.Files {
		chunks += len(file.Chunks)
		statements += file.Total
	}
	opts.Logger.Info("batch complete",
		"inputs", len(paths),
		"succeeded", len(result.Files),
		"failed", len(result.Errors),
		"statements", statements,
		"chunks", chunks)

	if !result.OK() {
		for _, fileErr := range result.Errors {
			fmt.Fprintf(os.Stderr, "Error: %v\n", fileErr)
		}
		os.Exit(exitFailed)
	}
	return nil
}

func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
