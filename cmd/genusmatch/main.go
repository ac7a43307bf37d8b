// Package main provides the genusmatch CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/matsen/genusmatch/internal/config"
	"github.com/matsen/genusmatch/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	verbose     bool
	configPath  string
)

// cfg and logger are set up by the root command before any subcommand runs.
var (
	cfg    *config.Config
	logger *logrus.Logger
)

func main() {
	os.Exit(execute(os.Args[1:]))
}

// execute runs the root command with args and returns the process exit code.
func execute(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	setContext(rootCmd, ctx)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		reportError(err)
		return exitCode(err)
	}
	return ExitSuccess
}

// setContext gives cmd and all its subcommands ctx. Cobra only fills in a
// subcommand's context when it is unset, so a later run would otherwise see
// the context of the first one.
func setContext(cmd *cobra.Command, ctx context.Context) {
	cmd.SetContext(ctx)
	for _, c := range cmd.Commands() {
		setContext(c, ctx)
	}
}

var rootCmd = &cobra.Command{
	Use:   "genusmatch",
	Short: "Flag abstracts that mention a plant family's genera",
	Long: `genusmatch compares scientific abstracts against lists of genus names and
flags the abstracts likely discussing a given taxonomic family.

Each abstract and the family's genus list are turned into bag-of-words count
vectors; abstracts whose cosine similarity with the genus list exceeds the
threshold (1% by default) are reported as matches.

Inputs follow the convention <data_dir>/<family>_genera.txt (one genus per
line) and <data_dir>/<family>_abstracts_full.txt (abstracts separated by two
blank lines). All commands output JSON by default; use --human for text.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log per-document scores to stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.ConfigFile, "Path to the project config file")
	rootCmd.Version = Version
}

// setup resolves configuration and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	resolved, err := config.Resolve(configPath)
	if err != nil {
		return withCode(ExitConfigError, "loading config: %v", err)
	}
	cfg = resolved

	level := config.LogLevel()
	if verbose {
		level = "debug"
	}
	logger = logging.New(stderr, level)
	return nil
}

// codedError carries the exit code a failure should produce.
type codedError struct {
	code int
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

// withCode builds an error that exits with code.
func withCode(code int, format string, args ...interface{}) error {
	return &codedError{code: code, err: fmt.Errorf(format, args...)}
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	var ce *codedError
	if errors.As(err, &ce) {
		return ce.code
	}
	return ExitError
}
