package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sakshikumar19/mentor/internal/cache"
	"github.com/sakshikumar19/mentor/internal/config"
	"github.com/sakshikumar19/mentor/internal/detector"
	"github.com/sakshikumar19/mentor/internal/indexer"
	"github.com/sakshikumar19/mentor/internal/knowledge"
	"github.com/sakshikumar19/mentor/internal/output"
	"github.com/sakshikumar19/mentor/internal/providers"
	"github.com/sakshikumar19/mentor/internal/recommend"
)

var (
	flagProvider string
	flagModel    string
	flagFormat   string
	flagOut      string
	flagAgainst  string
)

var reviewCmd = &cobra.Command{
	Use:   "review <file>",
	Short: "Review a file against learned conventions",
	Long: "Review analyzes one candidate file against the knowledge store and " +
		"prints an ordered recommendation list. With --against, the previous " +
		"version is diffed in and a generative backend (when configured) " +
		"contributes explained recommendations.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer logger.Sync()

		return runReview(cmd.Context(), args[0], cfg, logger)
	},
}

var reviewDirCmd = &cobra.Command{
	Use:   "review-dir <directory>",
	Short: "Review every file in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer logger.Sync()

		return runReviewDir(cmd.Context(), args[0], cfg, logger)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{reviewCmd, reviewDirCmd} {
		cmd.Flags().StringVar(&flagStore, "store", "", "Knowledge store path")
		cmd.Flags().StringVar(&flagProvider, "provider", "", "Generative backend (groq, ollama, none)")
		cmd.Flags().StringVar(&flagModel, "model", "", "Model name")
		cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json)")
		cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
		cmd.Flags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	}
	reviewCmd.Flags().StringVar(&flagAgainst, "against", "", "Path to the previous version of the file")
}

// openKnowledge loads the store or reports the knowledge-not-loaded
// condition as a clear message rather than a raw failure.
func openKnowledge(cfg config.Config, logger *zap.Logger) (*knowledge.Store, error) {
	engine := buildEmbeddingEngine(cfg, logger)
	store := knowledge.NewStore(cfg.StorePath, engine, cfg.ChunkSize, cfg.ChunkOverlap, logger)
	if loaded := store.Load(); !loaded.PatternsLoaded {
		store.Close()
		return nil, fmt.Errorf("no knowledge found at %s: run 'mentor learn <repository>' first", cfg.StorePath)
	}
	return store, nil
}

func buildSynthesizer(cfg config.Config, logger *zap.Logger) *recommend.Synthesizer {
	generator, err := providers.New(cfg.Provider, cfg.Model)
	if err != nil {
		logger.Warn("generative backend unavailable, producing deterministic recommendations only",
			zap.Error(err))
		generator = nil
	}
	responseCache, err := cache.New(cfg.Cache.IsEnabled(), cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		logger.Warn("response cache unavailable", zap.Error(err))
		responseCache = nil
	}
	return recommend.New(generator, cfg.Model, responseCache, cfg.Privacy.RedactEnabled(), logger)
}

func runReview(ctx context.Context, filePath string, cfg config.Config, logger *zap.Logger) error {
	store, err := openKnowledge(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	code, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading candidate file: %w", err)
	}

	det := detector.New(store.Patterns(), store, logger)

	var analysis detector.Analysis
	if flagAgainst != "" {
		original, err := os.ReadFile(flagAgainst)
		if err != nil {
			return fmt.Errorf("reading original file: %w", err)
		}
		analysis = det.AnalyzeDiff(ctx, string(original), string(code), filePath)
	} else {
		analysis = det.Analyze(ctx, string(code), filePath)
	}

	review := buildSynthesizer(cfg, logger).Synthesize(ctx, analysis, filePath)
	if len(review.Recommendations) > 0 {
		exitCode = ExitFindings
	}
	return output.WriteReviews([]recommend.Review{review}, cfg.Format, flagOut)
}

func runReviewDir(ctx context.Context, dir string, cfg config.Config, logger *zap.Logger) error {
	store, err := openKnowledge(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	files, diag, err := indexer.New(cfg.Extensions, cfg.IgnoreDirs, logger).Index(dir)
	if err != nil {
		return fmt.Errorf("indexing directory: %w", err)
	}
	if len(files) == 0 {
		exitCode = ExitRuntimeError
		fmt.Fprintf(os.Stderr, "No files to review.\n%s\n", diag.String())
		return nil
	}

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	det := detector.New(store.Patterns(), store, logger)
	synth := buildSynthesizer(cfg, logger)

	var reviews []recommend.Review
	total := 0
	for _, p := range paths {
		analysis := det.Analyze(ctx, files[p], p)
		review := synth.Synthesize(ctx, analysis, p)
		total += len(review.Recommendations)
		reviews = append(reviews, review)
	}
	if total > 0 {
		exitCode = ExitFindings
	}
	return output.WriteReviews(reviews, cfg.Format, flagOut)
}
