package recap

import (
	"strings"
	"testing"

	"github.com/appengine-ltd/castaway/internal/events"
)

var testNames = Names{
	Survivors: map[int]string{1: "Pat", 2: "Alice", 3: "Bob"},
	Tribes:    map[int]string{1: "Tagi", 2: "Pagong"},
}

func seasonHistory() []events.Envelope {
	bus := events.NewBus(nil)
	bus.Publish(events.PhaseChangedEvent{Day: 1, From: "preChallenge", To: "morningCamp"})
	bus.Publish(events.TreeMailEvent{Day: 1, Message: "Ready to get wet?"})
	bus.Publish(events.ConfrontationEvent{Day: 1, A: 2, B: 3, Location: "beach", Intensity: 2})
	bus.Publish(events.ConversationClosedEvent{NPCID: 2, Intent: "bonding", Response: "Open up", Delta: 6})
	bus.Publish(events.ChallengeResolvedEvent{Day: 1, WinnerTribes: []int{2}, LoserTribe: 1})
	bus.Publish(events.CouncilVoteEvent{Day: 1, Votes: map[int]int{1: 3, 2: 3, 3: 2}, EliminatedID: 3})
	bus.Publish(events.SurvivorEliminatedEvent{Day: 1, SurvivorID: 3, Name: "Bob"})
	bus.Publish(events.PhaseChangedEvent{Day: 2, From: "tribalCouncil", To: "preChallenge"})
	bus.Publish(events.StateChangedEvent{Reason: "resources"})
	bus.Publish(events.MeetingMissedEvent{Day: 2, NPCID: 2, Location: "rocky", Penalty: 3})
	bus.Publish(events.GameOverEvent{Day: 2, WinnerID: 2, Reason: "You were voted out."})
	return bus.History()
}

func TestBuildGroupsByDay(t *testing.T) {
	md := Build("Season 1", seasonHistory(), testNames)

	if !strings.HasPrefix(md, "# Season 1\n") {
		t.Fatalf("missing title:\n%s", md)
	}
	day1 := strings.Index(md, "## Day 1")
	day2 := strings.Index(md, "## Day 2")
	if day1 < 0 || day2 < day1 {
		t.Fatalf("expected day sections in order:\n%s", md)
	}
	if strings.Count(md, "## Day") != 2 {
		t.Fatalf("expected exactly two day sections:\n%s", md)
	}

	wantDay1 := []string{
		"Tree mail: *Ready to get wet?*",
		"Alice and Bob clashed at the beach (intensity 2).",
		`You talked with Alice (bonding): "Open up" (+6).`,
		"**Challenge** won by Pagong; Tagi heads to tribal council.",
		"Tribal council votes: Bob 2, Alice 1.",
		"Bob was voted out.",
	}
	for _, want := range wantDay1 {
		i := strings.Index(md, want)
		if i < day1 || i > day2 {
			t.Fatalf("expected %q under day 1:\n%s", want, md)
		}
	}
	if i := strings.Index(md, "You stood up Alice at the rocky (-3)."); i < day2 {
		t.Fatalf("expected missed meeting under day 2:\n%s", md)
	}
	if !strings.Contains(md, "**Season over.** Alice won.") {
		t.Fatalf("expected game over line:\n%s", md)
	}
	if strings.Contains(md, "resources") {
		t.Fatalf("state changes should not appear in the recap:\n%s", md)
	}
}

func TestBuildEmptyHistory(t *testing.T) {
	md := Build("Quiet", nil, testNames)
	if !strings.Contains(md, "Nothing happened yet.") {
		t.Fatalf("expected placeholder, got:\n%s", md)
	}
}

func TestNamesFallback(t *testing.T) {
	if got := testNames.SurvivorName(42); got != "#42" {
		t.Fatalf("unexpected fallback survivor name %q", got)
	}
	if got := testNames.TribeName(9); got != "tribe 9" {
		t.Fatalf("unexpected fallback tribe name %q", got)
	}
}

func TestHTMLRendersMarkdown(t *testing.T) {
	html, err := HTML(Build("Season 1", seasonHistory(), testNames))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"<h1>Season 1</h1>", "<h2>Day 1</h2>", "<strong>Challenge</strong>", "<li>"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in html:\n%s", want, html)
		}
	}
}
