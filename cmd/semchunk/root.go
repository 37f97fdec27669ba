// Command semchunk splits text files into semantically meaningful chunks
// bounded by a token count.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	flagVerbose bool
	logger      *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "semchunk",
	Short: "semchunk — split text into token-bounded semantic chunks",
	Long: `semchunk splits text into chunks bounded by a token count, preferring the
most semantically meaningful boundaries available: paragraphs, then lines,
then words, then punctuation.

Usage:
  semchunk chunk <file>... [flags]`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

// newLogger builds a console zap logger writing to stderr, at debug level
// when verbose is set.
func newLogger(verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
