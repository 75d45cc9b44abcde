package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/appengine-ltd/castaway/internal/game"
	"github.com/appengine-ltd/castaway/internal/store"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestModel(t *testing.T) (menuModel, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)}
	cfg := game.DefaultRunConfig()
	cfg.Seed = 42
	s, err := game.NewSession(cfg, game.WithClock(clock.now), game.WithStorage(store.NewMemory()))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	m := newMenuModel(AppConfig{Session: s})
	return m, clock
}

func inCamp(t *testing.T) (menuModel, *fakeClock) {
	t.Helper()
	m, clock := newTestModel(t)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(menuModel)
	if m.screen != screenCamp {
		t.Fatalf("expected camp screen after start, got %d", m.screen)
	}
	return m, clock
}

func joined(m menuModel) string {
	return strings.Join(m.messages, "\n")
}

func TestMenuStartEntersCamp(t *testing.T) {
	m, _ := inCamp(t)
	if !strings.Contains(joined(m), "Day 1") {
		t.Fatalf("expected day 1 greeting, got:\n%s", joined(m))
	}
	if !strings.Contains(m.View(), "Camp") {
		t.Fatalf("expected camp panel in view")
	}
}

func TestMenuNavigationWraps(t *testing.T) {
	m, _ := newTestModel(t)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(menuModel)
	if menuItem(m.idx) != itemQuit {
		t.Fatalf("expected cursor to wrap to quit, got %d", m.idx)
	}
}

func TestStatusCommand(t *testing.T) {
	m, _ := inCamp(t)
	m.execute("status")
	if !strings.Contains(joined(m), "You are at the campfire") {
		t.Fatalf("expected player location in status:\n%s", joined(m))
	}
}

func TestGoMovesPlayer(t *testing.T) {
	m, _ := inCamp(t)
	for _, pm := range m.session.PendingMeetings() {
		if pm.Location == game.LocationRocky {
			t.Skip("meeting waiting at the rocks")
		}
	}
	m.execute("go rocky")
	if m.session.PlayerLocation() != game.LocationRocky {
		t.Fatalf("expected player at rocky, got %s", m.session.PlayerLocation())
	}
}

func TestMeetingOpensAndResponseCloses(t *testing.T) {
	m, _ := inCamp(t)
	meetings := m.session.PendingMeetings()
	if len(meetings) == 0 {
		t.Fatalf("expected a phase invitation at the start of camp")
	}
	pm := meetings[0]

	m.execute("go " + string(pm.Location))
	if m.session.Conversation().State() != game.ConversationDialogueDisplayed {
		t.Fatalf("expected the meeting dialogue to open, state %s", m.session.Conversation().State())
	}
	m.execute("respond 1")
	if m.session.Conversation().State() != game.ConversationIdle {
		t.Fatalf("expected conversation closed after responding, state %s", m.session.Conversation().State())
	}
	if len(m.session.PendingMeetings()) != len(meetings)-1 {
		t.Fatalf("expected the answered meeting to be removed")
	}
	if !strings.Contains(joined(m), "You: ") {
		t.Fatalf("expected the chosen response in the log:\n%s", joined(m))
	}
}

func TestClarifyPickByNumber(t *testing.T) {
	m, _ := inCamp(t)
	m.execute("talk")
	if m.clarify == nil || len(m.clarify.Options) == 0 {
		t.Fatalf("expected a survivor clarify question")
	}
	m.execute("1")
	if m.clarify != nil {
		t.Fatalf("expected clarify to be consumed")
	}
	if m.lastSurvivor == "" {
		t.Fatalf("expected the picked survivor to be remembered")
	}
}

func TestTabTogglesRelationshipOverlay(t *testing.T) {
	m, _ := inCamp(t)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(menuModel)
	if !m.overlay {
		t.Fatalf("expected overlay on")
	}
	if !strings.Contains(m.View(), "Relationships") {
		t.Fatalf("expected relationship panel in view")
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(menuModel)
	if m.overlay {
		t.Fatalf("expected esc to close the overlay")
	}
}

func TestTickRunsDayClock(t *testing.T) {
	m, clock := inCamp(t)
	before := m.session.Remaining()
	clock.t = clock.t.Add(30 * time.Second)
	next, cmd := m.Update(tickMsg(clock.t))
	m = next.(menuModel)
	if cmd == nil {
		t.Fatalf("expected the tick to be rescheduled")
	}
	if got := m.session.Remaining(); got != before-30*time.Second {
		t.Fatalf("expected 30s off the clock, before %s after %s", before, got)
	}
}

func TestMenuIdleTimeIsNotChargedToDayOne(t *testing.T) {
	m, clock := newTestModel(t)
	meetings := len(m.session.PendingMeetings())
	clock.t = clock.t.Add(20 * time.Minute)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(menuModel)
	clock.t = clock.t.Add(time.Second)
	next, _ = m.Update(tickMsg(clock.t))
	m = next.(menuModel)

	full := m.session.Config().DayLength
	if got := m.session.Remaining(); got != full-time.Second {
		t.Fatalf("expected one second off day 1, remaining %s of %s", got, full)
	}
	if got := len(m.session.PendingMeetings()); got != meetings {
		t.Fatalf("expected the midPhase invitation to keep waiting, meetings %d -> %d", meetings, got)
	}
}

func TestNextCommandLeavesCamp(t *testing.T) {
	m, _ := inCamp(t)
	m.execute("next")
	if m.session.Phase() != game.PhaseChallenge {
		t.Fatalf("expected challenge phase, got %s", m.session.Phase())
	}
	if !strings.Contains(m.View(), "Everyone is away from camp.") {
		t.Fatalf("expected empty camp during the challenge")
	}
	m.execute("go beach")
	if !strings.Contains(joined(m), "only be done at camp") {
		t.Fatalf("expected not-in-camp error:\n%s", joined(m))
	}
}

func TestSaveAndLoadCommands(t *testing.T) {
	m, _ := inCamp(t)
	m.execute("save slot1")
	if !strings.Contains(joined(m), "Saved.") {
		t.Fatalf("expected save confirmation:\n%s", joined(m))
	}
	m.execute("next")
	m.execute("load slot1")
	if !strings.Contains(joined(m), "Loaded.") {
		t.Fatalf("expected load confirmation:\n%s", joined(m))
	}
	if m.session.Phase() != game.PhasePreChallenge {
		t.Fatalf("expected phase restored to preChallenge, got %s", m.session.Phase())
	}
}

func TestGatherCommand(t *testing.T) {
	m, _ := inCamp(t)
	tribe, _ := m.session.PlayerTribe()
	before := tribe.Resources.Food
	m.execute("gather coconuts")
	tribe, _ = m.session.PlayerTribe()
	if tribe.Resources.Food <= before && before < 100 {
		t.Fatalf("expected food to rise from %d, got %d", before, tribe.Resources.Food)
	}
}

func TestQuitCommand(t *testing.T) {
	m, _ := inCamp(t)
	if !m.execute("quit") {
		t.Fatalf("expected quit to end the program")
	}
}

func TestSeasonReachesGameOverScreen(t *testing.T) {
	m, _ := inCamp(t)
	for i := 0; i < 500 && m.screen == screenCamp; i++ {
		if m.session.Conversation().State() != game.ConversationIdle {
			m.execute("leave")
		}
		m.execute("next")
		m.syncEvents()
		m.checkOver()
	}
	if m.screen != screenOver {
		t.Fatalf("expected the season to end, day %d", m.session.Day())
	}
	if !strings.Contains(m.View(), "SEASON") {
		t.Fatalf("expected outcome header in view")
	}
}
