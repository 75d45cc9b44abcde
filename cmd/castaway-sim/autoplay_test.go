package main

import (
	"context"
	"strings"
	"testing"

	"github.com/appengine-ltd/castaway/internal/game"
	"github.com/appengine-ltd/castaway/internal/recap"
	"github.com/appengine-ltd/castaway/internal/store"
)

func TestAutoplayFinishesSeason(t *testing.T) {
	cfg := game.DefaultRunConfig()
	cfg.Seed = 7
	saves := store.NewMemory()
	s, err := game.NewSession(cfg, game.WithStorage(saves))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	res, err := autoplay(context.Background(), s, 60)
	if err != nil {
		t.Fatalf("autoplay: %v", err)
	}
	if res.Outcome.Status == game.OutcomeOngoing {
		t.Fatalf("expected the season to end, stopped on day %d", res.Days)
	}
	if res.Meetings == 0 {
		t.Fatalf("expected at least one meeting to be answered")
	}
	slots, err := saves.List(context.Background())
	if err != nil {
		t.Fatalf("list saves: %v", err)
	}
	if len(slots) == 0 {
		t.Fatalf("expected a save per council")
	}

	survivors, tribes := s.Names()
	md := recap.Build("Season 7", s.History(), recap.Names{Survivors: survivors, Tribes: tribes})
	if !strings.Contains(md, "## Day 1") {
		t.Fatalf("expected a day 1 section in the recap")
	}
}

func TestWarmestPicksLargestDelta(t *testing.T) {
	opts := []game.ResponseOption{{Delta: -5}, {Delta: 8}, {Delta: 3}}
	if got := warmest(opts); got != 1 {
		t.Fatalf("expected option 1, got %d", got)
	}
}
