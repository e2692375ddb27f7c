// Command graphdump builds the full graph from Notion and writes it to
// stdout as JSON. Useful for inspecting synthesis output and diffing
// graph builds outside the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"alnretool/domain/filters"
	"alnretool/domain/graph"
	"alnretool/domain/synthesis"
	"alnretool/infrastructure/config"
	"alnretool/infrastructure/notion"

	"go.uber.org/zap"
)

func main() {
	view := flag.String("view", string(graph.ViewFullGraph), "view type to build")
	rootID := flag.String("root", "", "root node for node-connections view")
	orphans := flag.Bool("orphans", false, "keep orphan nodes")
	timeout := flag.Duration("timeout", 2*time.Minute, "fetch timeout")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := notion.NewClient(cfg.NotionAPIKey, logger)
	source := notion.NewSource(client, notion.DatabaseIDs{
		Characters: cfg.CharactersDatabaseID,
		Elements:   cfg.ElementsDatabaseID,
		Puzzles:    cfg.PuzzlesDatabaseID,
		Timeline:   cfg.TimelineDatabaseID,
	}, logger)

	dataset, err := source.FetchDataset(ctx, filters.ServerSideFilters{})
	if err != nil {
		log.Fatalf("Fetch failed: %v", err)
	}

	synthesized, missing, err := synthesis.Synthesize(dataset)
	if err != nil {
		log.Fatalf("Synthesis failed: %v", err)
	}
	for _, m := range missing {
		fmt.Fprintf(os.Stderr, "dangling reference: %s referenced by %s (%s)\n",
			m.ID, m.ReferencedBy, m.Relation)
	}

	g, err := graph.Build(synthesized, graph.Config{
		View:           graph.ViewType(*view),
		IncludeOrphans: *orphans,
		RootID:         *rootID,
	})
	if err != nil {
		log.Fatalf("Build failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		log.Fatalf("Encode failed: %v", err)
	}
}
