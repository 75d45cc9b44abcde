package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/appengine-ltd/castaway/internal/config"
	"github.com/appengine-ltd/castaway/internal/game"
	"github.com/appengine-ltd/castaway/internal/observability"
	"github.com/appengine-ltd/castaway/internal/store"
	"github.com/appengine-ltd/castaway/internal/ui"
)

// version, commit, date are injected at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
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
		showVersion bool
		saveKey     string
	)
	flags := flag.NewFlagSet("castaway", flag.ExitOnError)
	flags.BoolVar(&showVersion, "version", false, "print version and exit")
	flags.StringVar(&saveKey, "slot", "autosave", "save slot used by Continue")
	cfg.BindFlags(flags)
	_ = flags.Parse(os.Args[1:])

	if showVersion {
		fmt.Printf("Castaway %s (%s) %s\n", version, commit, date)
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := context.Background()
	tp, err := observability.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		log.Warn("tracing disabled", "err", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn("tracer shutdown", "err", err)
		}
	}()

	saves, err := store.OpenSQLite(cfg.SavePath, log)
	if err != nil {
		return fmt.Errorf("open saves: %w", err)
	}
	defer saves.Close()

	session, err := game.NewSession(cfg.Run,
		game.WithLogger(log),
		game.WithTracer(tp.Tracer("castaway")),
		game.WithStorage(saves),
	)
	if err != nil {
		return fmt.Errorf("new season: %w", err)
	}
	log.Info("castaway starting", "version", version, "session", session.ID, "seed", session.Config().Seed)

	app := ui.NewApp(ui.AppConfig{
		Version: version,
		Session: session,
		SaveKey: store.CleanKey(saveKey),
		Log:     log,
	})
	return app.Run()
}

// newLogger writes text logs to debug.log when debugging. Otherwise logs are
// dropped below warn so they do not tear the alt screen.
func newLogger(cfg config.Config) (*slog.Logger, func(), error) {
	if !cfg.Debug {
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: max(cfg.LogLevel, slog.LevelWarn)})
		return slog.New(h), func() {}, nil
	}
	f, err := os.OpenFile("debug.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open debug.log: %w", err)
	}
	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(h), func() { _ = f.Close() }, nil
}
