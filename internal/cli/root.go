package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "0.1.0"

// Exit codes.
const (
	ExitSuccess      = 0
	ExitFindings     = 1
	ExitUsageError   = 2
	ExitRuntimeError = 4
)

var rootCmd = &cobra.Command{
	Use:   "mentor",
	Short: "Convention-learning code review CLI",
	Long: "Mentor learns the conventions of a repository and reviews candidate " +
		"files or diffs against them, merging deterministic findings with " +
		"optional AI-generated recommendations.",
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// Run executes the root command and returns an exit code.
func Run() int {
	// Credentials come from the environment; a local .env is a convenience,
	// never a requirement.
	_ = godotenv.Load()

	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(reviewDirCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(knowledgeCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print mentor version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "mentor version %s\n", version)
	},
}

// newLogger builds the process logger from the configured level. Every
// component receives this logger explicitly; there is no package-level
// logging state.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
