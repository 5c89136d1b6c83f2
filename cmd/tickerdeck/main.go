package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tickerdeck/internal/chart"
	"tickerdeck/internal/config"
	"tickerdeck/internal/feed"
	"tickerdeck/internal/ticker"
	"tickerdeck/internal/util"
)

func main() {
	cfgPath := os.Getenv("TICKERDECK_CONFIG")
	if cfgPath == "" {
		cfgPath = "tickerdeck.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := util.NewFileLogger(cfg.Logging.Level, cfg.Logging.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	util.SetDefault(logger)

	store := ticker.NewStore()
	bridge := feed.NewBridge(cfg.Feed.StreamURL, logger)
	charts := chart.NewClient(cfg.Chart.BaseURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ingestion flow: bridge reads the stream, the ingest loop is the
	// store's only writer. The render flow below touches the store only
	// through snapshots.
	go ticker.RunIngest(ctx, bridge.Batches(), store)

	p := tea.NewProgram(
		initialModel(cfg, store, charts, cancel, logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		if err := bridge.Run(ctx); err != nil && ctx.Err() == nil {
			p.Send(feedErrMsg{err: err})
		}
	}()

	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// A quit triggered by a dead feed is not an orderly exit.
	if m, ok := finalModel.(model); ok && m.fatalErr != nil {
		fmt.Fprintf(os.Stderr, "feed connection lost: %v\n", m.fatalErr)
		os.Exit(1)
	}
}
