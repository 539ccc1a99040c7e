package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sakshikumar19/mentor/internal/config"
	"github.com/sakshikumar19/mentor/internal/embedding"
	"github.com/sakshikumar19/mentor/internal/indexer"
	"github.com/sakshikumar19/mentor/internal/knowledge"
	"github.com/sakshikumar19/mentor/internal/patterns"
	"github.com/sakshikumar19/mentor/internal/source"
)

var (
	flagStore             string
	flagForce             bool
	flagExtensions        string
	flagEmbeddingProvider string
	flagEmbeddingModel    string
	flagLogLevel          string
)

var learnCmd = &cobra.Command{
	Use:   "learn <repository>",
	Short: "Learn the conventions of a repository",
	Long: "Learn indexes a repository (local path or git URL), extracts its " +
		"stylistic, architectural, and functional conventions, and persists " +
		"them to the knowledge store for later reviews.",
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

		return runLearn(cmd.Context(), args[0], cfg, logger)
	},
}

func init() {
	learnCmd.Flags().StringVar(&flagStore, "store", "", "Knowledge store path")
	learnCmd.Flags().BoolVar(&flagForce, "force", false, "Relearn even if knowledge already exists")
	learnCmd.Flags().StringVar(&flagExtensions, "extensions", "", "File extensions to index (comma-separated)")
	learnCmd.Flags().StringVar(&flagEmbeddingProvider, "embedding-provider", "", "Embedding backend (genai, ollama)")
	learnCmd.Flags().StringVar(&flagEmbeddingModel, "embedding-model", "", "Embedding model name")
	learnCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

func runLearn(ctx context.Context, locator string, cfg config.Config, logger *zap.Logger) error {
	engine := buildEmbeddingEngine(cfg, logger)
	store := knowledge.NewStore(cfg.StorePath, engine, cfg.ChunkSize, cfg.ChunkOverlap, logger)
	defer store.Close()

	if !flagForce {
		if loaded := store.Load(); loaded.PatternsLoaded {
			fmt.Fprintf(os.Stdout, "Knowledge already exists at %s (use --force to relearn)\n", cfg.StorePath)
			return nil
		}
	}

	resolver := source.New(locator, filepath.Join(cfg.StorePath, "repo_clone"), logger)
	root, cleanup, err := resolver.Resolve(ctx, locator)
	if err != nil {
		return fmt.Errorf("resolving repository: %w", err)
	}
	if cleanup != nil {
		defer cleanup()
	}

	files, diag, err := indexer.New(cfg.Extensions, cfg.IgnoreDirs, logger).Index(root)
	if err != nil {
		return fmt.Errorf("indexing repository: %w", err)
	}
	if len(files) == 0 {
		exitCode = ExitRuntimeError
		fmt.Fprintf(os.Stderr, "No files indexed.\n%s\n", diag.String())
		return nil
	}

	set, err := patterns.NewExtractor(logger).Extract(ctx, files)
	if err != nil {
		return fmt.Errorf("extracting patterns: %w", err)
	}

	result, err := store.Learn(ctx, files, set)
	if err != nil {
		return fmt.Errorf("persisting knowledge: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Learned %d files into %s", len(files), cfg.StorePath)
	if result.Indexed {
		fmt.Fprintf(os.Stdout, " (%d chunks indexed)", result.Chunks)
	} else {
		fmt.Fprint(os.Stdout, " (patterns only, no similarity index)")
	}
	fmt.Fprintln(os.Stdout)
	return nil
}

// buildEmbeddingEngine selects the embedding capability once at startup.
// Failures downgrade to pattern-only operation rather than aborting.
func buildEmbeddingEngine(cfg config.Config, logger *zap.Logger) embedding.Engine {
	engine, err := embedding.New(embedding.Config{
		Provider:       cfg.EmbeddingProvider,
		Model:          cfg.EmbeddingModel,
		APIKey:         os.Getenv("GEMINI_API_KEY"),
		OllamaEndpoint: cfg.OllamaEndpoint,
	})
	if err != nil {
		logger.Warn("embedding backend unavailable, continuing without similarity index",
			zap.Error(err))
		return nil
	}
	return engine
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagStore != "" {
		m["store"] = flagStore
	}
	if flagExtensions != "" {
		m["extensions"] = flagExtensions
	}
	if flagEmbeddingProvider != "" {
		m["embeddingProvider"] = flagEmbeddingProvider
	}
	if flagEmbeddingModel != "" {
		m["embeddingModel"] = flagEmbeddingModel
	}
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagLogLevel != "" {
		m["logLevel"] = flagLogLevel
	}
	return m
}
