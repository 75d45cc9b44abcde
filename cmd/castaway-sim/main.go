// Command castaway-sim plays a season headless with a simple strategy and
// writes the recap as Markdown and HTML.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/appengine-ltd/castaway/internal/config"
	"github.com/appengine-ltd/castaway/internal/game"
	"github.com/appengine-ltd/castaway/internal/recap"
	"github.com/appengine-ltd/castaway/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.LoadOptions{Path: os.Getenv("CASTAWAY_CONFIG")})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var (
		outDir  string
		maxDays int
		verbose bool
	)
	flags := flag.NewFlagSet("castaway-sim", flag.ExitOnError)
	flags.StringVar(&outDir, "out", ".", "directory for recap.md and recap.html")
	flags.IntVar(&maxDays, "days", 60, "stop after this many days")
	flags.BoolVar(&verbose, "v", false, "log every event")
	cfg.BindFlags(flags)
	_ = flags.Parse(os.Args[1:])
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	saves := store.NewMemory()
	session, err := game.NewSession(cfg.Run, game.WithLogger(log), game.WithStorage(saves))
	if err != nil {
		return fmt.Errorf("new season: %w", err)
	}

	ctx := context.Background()
	result, err := autoplay(ctx, session, maxDays)
	if err != nil {
		return err
	}
	slots, err := saves.List(ctx)
	if err != nil {
		return err
	}
	log.Info("season finished", "days", result.Days, "outcome", result.Outcome.Status, "saves", len(slots))

	survivors, tribes := session.Names()
	md := recap.Build(fmt.Sprintf("Season %d", session.Config().Seed), session.History(),
		recap.Names{Survivors: survivors, Tribes: tribes})
	html, err := recap.HTML(md)
	if err != nil {
		return fmt.Errorf("render recap: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "recap.md"), []byte(md), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "recap.html"), []byte(html), 0o644); err != nil {
		return err
	}
	fmt.Printf("%s after %d days. Recap written to %s\n", result.Outcome.Message, result.Days, outDir)
	return nil
}
