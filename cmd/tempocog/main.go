package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/liliang-cn/tempocog/pkg/cognition"
	"github.com/liliang-cn/tempocog/pkg/schema"
)

var (
	configPath string
	storePath  string
	backend    string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "tempocog",
	Short: "CLI for the temporal resonant cognition engine",
	Long: `Feed experience moments into a wave-interference cognition engine,
inspect its activation field, and browse the schemas it has consolidated.`,
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <jsonl-file>",
	Short: "Feed moments from a JSONL file and print the final cognitive state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine()
		if err != nil {
			return err
		}
		defer engine.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()

		lines := 0
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			moment := cognition.DefaultMoment()
			if err := json.Unmarshal(line, &moment); err != nil {
				return fmt.Errorf("line %d: invalid moment: %w", lines+1, err)
			}
			engine.LiveExperience(cognition.WithMoment(moment))
			lines++
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		engine.Flush(context.Background())
		fmt.Fprintf(os.Stderr, "ingested %d moments\n", lines)
		return printJSON(engine.CognitiveState())
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a synthetic alternating-affect feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		frames, _ := cmd.Flags().GetInt("frames")

		engine, err := openEngine()
		if err != nil {
			return err
		}
		defer engine.Close()

		symbols := [][]string{
			{"sunrise", "warmth"},
			{"storm", "thunder"},
			{"river", "stone"},
		}
		var last *cognition.Snapshot
		for i := 0; i < frames; i++ {
			set := symbols[i%len(symbols)]
			mood := 0.6
			if i%2 == 1 {
				mood = -0.6
			}
			last = engine.LiveExperience(
				cognition.WithVisual(set[0]),
				cognition.WithAuditory(set[1]),
				cognition.WithMood(mood),
				cognition.WithArousal(0.7),
			)
		}

		if last != nil {
			if err := printJSON(last); err != nil {
				return err
			}
		}
		return printJSON(engine.CognitiveState())
	},
}

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "Print schemas from the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		minCount, _ := cmd.Flags().GetInt("min-count")
		top, _ := cmd.Flags().GetInt("top")
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg, err := resolveConfig()
		if err != nil {
			return err
		}
		store, err := schema.OpenStore(cfg.StoreBackend, cfg.StorePath)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer store.Close()

		mapping, err := store.Load(context.Background())
		if err != nil {
			return fmt.Errorf("failed to load schemas: %w", err)
		}

		items := make([]*schema.Schema, 0, len(mapping))
		for _, sc := range mapping {
			if sc.Count >= minCount {
				items = append(items, sc)
			}
		}
		sort.Slice(items, func(i, j int) bool {
			if items[i].Count != items[j].Count {
				return items[i].Count > items[j].Count
			}
			return items[i].Symbols.String() < items[j].Symbols.String()
		})
		if top > 0 && len(items) > top {
			items = items[:top]
		}

		if asJSON {
			return printJSON(items)
		}
		for _, sc := range items {
			pair := sc.Symbols.A + " + " + sc.Symbols.B
			fmt.Printf("%-40s count=%-4d avg=%.3f last_seen=%.0f\n",
				pair, sc.Count, sc.AvgStrength(), sc.LastSeen)
		}
		fmt.Printf("%d schemas (of %d stored)\n", len(items), len(mapping))
		return nil
	},
}

// resolveConfig merges the config file (if given) with command-line overrides.
func resolveConfig() (*cognition.Config, error) {
	cfg := cognition.DefaultConfig()
	if configPath != "" {
		loaded, err := cognition.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if backend != "" {
		cfg.StoreBackend = backend
	}
	if storePath != "" {
		cfg.StorePath = storePath
	}
	return cfg, cfg.Validate()
}

func openEngine() (*cognition.Engine, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, err
	}
	level := cognition.LevelInfo
	if verbose {
		level = cognition.LevelDebug
	}
	return cognition.New(cfg, cognition.WithLogger(cognition.NewLogger(os.Stderr, level)))
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "schema store path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "schema store backend: json or sqlite")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	simulateCmd.Flags().Int("frames", 25, "number of synthetic frames to feed")
	schemasCmd.Flags().Int("min-count", 0, "minimum observation count to show")
	schemasCmd.Flags().Int("top", 0, "show only the N most-observed schemas (0 = all)")
	schemasCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(ingestCmd, simulateCmd, schemasCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
