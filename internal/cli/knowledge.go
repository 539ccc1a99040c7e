package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakshikumar19/mentor/internal/config"
	"github.com/sakshikumar19/mentor/internal/knowledge"
)

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Inspect the knowledge store",
}

var knowledgeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show knowledge store statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		store := knowledge.NewStore(cfg.StorePath, nil, cfg.ChunkSize, cfg.ChunkOverlap, nil)
		defer store.Close()

		stats, err := store.GetStats()
		if err != nil {
			return fmt.Errorf("reading knowledge stats: %w", err)
		}
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	},
}

var knowledgePatternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Print the learned pattern document",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		store := knowledge.NewStore(cfg.StorePath, nil, cfg.ChunkSize, cfg.ChunkOverlap, nil)
		defer store.Close()

		if loaded := store.Load(); !loaded.PatternsLoaded {
			return fmt.Errorf("no knowledge found at %s: run 'mentor learn <repository>' first", cfg.StorePath)
		}
		data, err := json.MarshalIndent(store.Patterns(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	},
}

func init() {
	knowledgeCmd.AddCommand(knowledgeShowCmd)
	knowledgeCmd.AddCommand(knowledgePatternsCmd)
	knowledgeShowCmd.Flags().StringVar(&flagStore, "store", "", "Knowledge store path")
	knowledgePatternsCmd.Flags().StringVar(&flagStore, "store", "", "Knowledge store path")
}
