package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/appengine-ltd/castaway/internal/events"
	"github.com/appengine-ltd/castaway/internal/social"
)

func TestChooseIntentFriendlyPurposefulIsProtection(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		camp := newTestCamp(t, seed, "Alice")
		camp.rel.Set(testPlayerID, 1, 80)
		camp.moods.Set(1, social.MoodHappy)
		if got := camp.conv.ChooseIntent(1, true); got != IntentProtection {
			t.Fatalf("seed %d: expected protection, got %s", seed, got)
		}
		if got := camp.conv.ChooseIntent(1, false); got != IntentBonding {
			t.Fatalf("seed %d: expected bonding for casual, got %s", seed, got)
		}
	}
}

func TestChooseIntentHostileAngryIsConfrontation(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		camp := newTestCamp(t, seed, "Alice")
		camp.rel.Set(testPlayerID, 1, 10)
		camp.moods.Set(1, social.MoodAngry)
		for _, purposeful := range []bool{true, false} {
			if got := camp.conv.ChooseIntent(1, purposeful); got != IntentConfrontation {
				t.Fatalf("seed %d purposeful=%v: expected confrontation, got %s", seed, purposeful, got)
			}
		}
	}
}

func TestChooseIntentDrawsFromPool(t *testing.T) {
	camp := newTestCamp(t, 5, "Alice")
	alice, _ := camp.roster.Survivor(1)
	alice.Style = StyleShadowStrategist
	inPool := func(pool []Intent, intent Intent) bool {
		for _, p := range pool {
			if p == intent {
				return true
			}
		}
		return false
	}
	for i := 0; i < 200; i++ {
		if got := camp.conv.ChooseIntent(1, true); !inPool(purposefulIntents, got) {
			t.Fatalf("purposeful draw %s outside pool", got)
		}
		if got := camp.conv.ChooseIntent(1, false); !inPool(casualIntents, got) {
			t.Fatalf("casual draw %s outside pool", got)
		}
	}
}

// intentShare draws n intents for Alice and reports the share that landed in want.
func intentShare(camp *testCamp, purposeful bool, n int, want ...Intent) float64 {
	hits := 0
	for i := 0; i < n; i++ {
		got := camp.conv.ChooseIntent(1, purposeful)
		for _, w := range want {
			if got == w {
				hits++
				break
			}
		}
	}
	return float64(hits) / float64(n)
}

func TestAngryWildcardLeansTowardsConfrontation(t *testing.T) {
	neutral := newTestCamp(t, 11, "Alice")
	base := intentShare(neutral, true, 2000, IntentConfrontation)
	if base > 0.25 {
		t.Fatalf("expected confrontation near 1/6 without boosts, got %.2f", base)
	}

	camp := newTestCamp(t, 11, "Alice")
	alice, _ := camp.roster.Survivor(1)
	alice.Style = StyleWildcard
	camp.moods.Set(1, social.MoodAngry)
	boosted := intentShare(camp, true, 2000, IntentConfrontation)
	if boosted < 0.35 {
		t.Fatalf("expected angry wildcard to confront far above baseline, got %.2f (base %.2f)", boosted, base)
	}
}

func TestParanoidMoodFavoursScheming(t *testing.T) {
	neutral := newTestCamp(t, 12, "Alice")
	base := intentShare(neutral, true, 2000, IntentWarning, IntentGossip, IntentHardStrategy)

	camp := newTestCamp(t, 12, "Alice")
	camp.moods.Set(1, social.MoodParanoid)
	boosted := intentShare(camp, true, 2000, IntentWarning, IntentGossip, IntentHardStrategy)
	if boosted < 0.65 || boosted <= base {
		t.Fatalf("expected paranoia to push warning/gossip/hardStrategy up from %.2f, got %.2f", base, boosted)
	}
}

func TestHappyMoodFavoursBondingAndFunWhenCasual(t *testing.T) {
	neutral := newTestCamp(t, 13, "Alice")
	base := intentShare(neutral, false, 2000, IntentBonding, IntentFun)
	if base > 0.5 {
		t.Fatalf("expected bonding+fun near 2/5 without boosts, got %.2f", base)
	}

	camp := newTestCamp(t, 13, "Alice")
	camp.moods.Set(1, social.MoodHappy)
	boosted := intentShare(camp, false, 2000, IntentBonding, IntentFun)
	if boosted < 0.55 {
		t.Fatalf("expected a happy NPC to pick bonding or fun more often, got %.2f (base %.2f)", boosted, base)
	}
}

func TestGameplayStyleShiftsDraws(t *testing.T) {
	neutral := newTestCamp(t, 14, "Alice")
	base := intentShare(neutral, true, 2000, IntentLightStrategy, IntentWarning, IntentManipulation)

	camp := newTestCamp(t, 14, "Alice")
	alice, _ := camp.roster.Survivor(1)
	alice.Style = StyleShadowStrategist
	boosted := intentShare(camp, true, 2000, IntentLightStrategy, IntentWarning, IntentManipulation)
	if boosted < base+0.15 {
		t.Fatalf("expected a shadow strategist to scheme more, base %.2f got %.2f", base, boosted)
	}
}

func TestTopicConversationAppliesResponse(t *testing.T) {
	camp := newTestCamp(t, 2, "Alice", "Bob")
	camp.locations.Restore(map[int]Location{1: LocationBeach, 2: LocationRocky})
	closed := camp.record(events.ConversationClosed)

	if err := camp.conv.HandleTopicSelection(1, LocationBeach); err != nil {
		t.Fatalf("topic selection: %v", err)
	}
	if camp.conv.State() != ConversationTopicSelection {
		t.Fatalf("expected topic selection, got %s", camp.conv.State())
	}
	d, err := camp.conv.PickTopic("personal")
	if err != nil {
		t.Fatalf("pick topic: %v", err)
	}
	if d.Intent != IntentBonding || d.Purposeful {
		t.Fatalf("unexpected dialogue %+v", d)
	}
	if !strings.Contains(d.Text, "Alice") || strings.Contains(d.Text, "{") {
		t.Fatalf("expected templated text, got %q", d.Text)
	}
	if len(d.Options) < 2 || len(d.Options) > 3 {
		t.Fatalf("expected 2-3 options, got %d", len(d.Options))
	}

	opt, err := camp.conv.Respond(0)
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if got := camp.rel.Get(testPlayerID, 1); got != 50+opt.Delta {
		t.Fatalf("expected relationship %d, got %d", 50+opt.Delta, got)
	}
	if camp.moods.Get(1) != opt.Mood {
		t.Fatalf("expected mood %s, got %s", opt.Mood, camp.moods.Get(1))
	}
	if entries := camp.memory.Entries(1); len(entries) != 1 || entries[0].Response != opt.Label {
		t.Fatalf("unexpected memory %+v", entries)
	}
	if len(*closed) != 1 {
		t.Fatalf("expected one resolved event, got %d", len(*closed))
	}
	if err := camp.conv.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if camp.conv.State() != ConversationIdle {
		t.Fatalf("expected idle after close")
	}
}

func TestConversationStepErrors(t *testing.T) {
	camp := newTestCamp(t, 2, "Alice")
	camp.locations.Restore(map[int]Location{1: LocationBeach})

	if _, err := camp.conv.Respond(0); !errors.Is(err, ErrNoActiveConversation) {
		t.Fatalf("expected ErrNoActiveConversation, got %v", err)
	}
	if err := camp.conv.HandleTopicSelection(1, LocationRocky); !errors.Is(err, ErrNotAtLocation) {
		t.Fatalf("expected ErrNotAtLocation, got %v", err)
	}
	if err := camp.conv.HandleTopicSelection(1, LocationBeach); err != nil {
		t.Fatalf("topic selection: %v", err)
	}
	if _, err := camp.conv.Respond(0); !errors.Is(err, ErrWrongConversationStep) {
		t.Fatalf("expected ErrWrongConversationStep, got %v", err)
	}
	if _, err := camp.conv.PickTopic("weather"); !errors.Is(err, ErrUnknownTopic) {
		t.Fatalf("expected ErrUnknownTopic, got %v", err)
	}
	if _, err := camp.conv.PickTopic("joke"); err != nil {
		t.Fatalf("pick topic: %v", err)
	}
	if _, err := camp.conv.Respond(7); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
	if camp.conv.State() != ConversationDialogueDisplayed {
		t.Fatalf("invalid option must leave the dialogue open")
	}
	if err := camp.conv.HandleTopicSelection(1, LocationBeach); !errors.Is(err, ErrConversationBusy) {
		t.Fatalf("expected ErrConversationBusy, got %v", err)
	}
}

func TestGossipResponseMovesSpeakerAgainstTarget(t *testing.T) {
	camp := newTestCamp(t, 9, "Alice", "Bob")
	camp.locations.Restore(map[int]Location{1: LocationCampfire})

	if err := camp.conv.HandleTopicSelection(1, LocationCampfire); err != nil {
		t.Fatalf("topic selection: %v", err)
	}
	d, err := camp.conv.PickTopic("rumors")
	if err != nil {
		t.Fatalf("pick topic: %v", err)
	}
	if d.TargetID != 2 || !strings.Contains(d.Text, "Bob") {
		t.Fatalf("expected Bob as target, got %+v", d)
	}
	if _, err := camp.conv.Respond(0); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if got := camp.rel.Get(1, 2); got != 46 {
		t.Fatalf("expected Alice->Bob 46, got %d", got)
	}
	if got := camp.rel.Get(2, 1); got != 50 {
		t.Fatalf("expected Bob->Alice unchanged, got %d", got)
	}
}

func TestMissedMeetingPenalty(t *testing.T) {
	camp := newTestCamp(t, 4, "Alice")
	missed := camp.record(events.MeetingMissed)

	camp.conv.QueuePhaseInvitations()
	pending := camp.conv.PendingMeetings()
	if len(pending) != 1 || pending[0].NPCID != 1 || pending[0].Kind != MeetingPhaseIntro {
		t.Fatalf("expected one phaseIntro meeting with Alice, got %+v", pending)
	}

	camp.conv.ClearPendingMeetings()
	if got := camp.rel.Get(testPlayerID, 1); got != 47 {
		t.Fatalf("expected relationship 47, got %d", got)
	}
	if camp.moods.Get(1) != social.MoodIrritated {
		t.Fatalf("expected irritated, got %s", camp.moods.Get(1))
	}
	if len(*missed) != 1 || len(camp.conv.PendingMeetings()) != 0 {
		t.Fatalf("expected one missed event and no pending meetings")
	}
	if camp.sched.Pending(midPhaseTimerKey) {
		t.Fatalf("expected midPhase timer cancelled")
	}
}

func TestAnsweredMeetingIsRemovedWithoutPenalty(t *testing.T) {
	camp := newTestCamp(t, 6, "Alice")
	camp.conv.QueuePhaseInvitations()
	m := camp.conv.PendingMeetings()[0]

	d, ok := camp.conv.TriggerMeetingAt(m.Location)
	if !ok || !d.Purposeful || d.NPCID != 1 {
		t.Fatalf("expected purposeful meeting dialogue, got %+v ok=%v", d, ok)
	}
	opt, err := camp.conv.Respond(0)
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if err := camp.conv.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(camp.conv.PendingMeetings()) != 0 {
		t.Fatalf("expected answered meeting removed")
	}
	camp.conv.ClearPendingMeetings()
	if got := camp.rel.Get(testPlayerID, 1); got != 50+opt.Delta {
		t.Fatalf("expected no missed penalty, got %d", got)
	}
	last, _ := camp.memory.Last(1)
	if last.MeetingType != string(MeetingPhaseIntro) {
		t.Fatalf("expected memory tagged with meeting kind, got %+v", last)
	}
}

func TestMidPhaseInvitationFiresOnlyInSamePhase(t *testing.T) {
	camp := newTestCamp(t, 8, "Alice", "Bob", "Cara")
	camp.conv.QueuePhaseInvitations()
	first := camp.conv.PendingMeetings()[0]

	camp.sched.Advance(camp.clock.Add(DefaultMidPhaseDelay))
	pending := camp.conv.PendingMeetings()
	if len(pending) != 2 || pending[1].Kind != MeetingMidPhase {
		t.Fatalf("expected midPhase meeting, got %+v", pending)
	}
	if pending[1].NPCID == first.NPCID {
		t.Fatalf("expected a different NPC for the midPhase meeting")
	}

	camp.conv.QueuePhaseInvitations()
	camp.phases.Advance()
	camp.sched.Advance(camp.clock.Add(DefaultMidPhaseDelay))
	if got := len(camp.conv.PendingMeetings()); got != 1 {
		t.Fatalf("expected stale timer to do nothing, got %d meetings", got)
	}
}

func TestInvitationsFavourLikedTribemates(t *testing.T) {
	for seed := int64(1); seed <= 40; seed++ {
		camp := newTestCamp(t, seed, "Alice", "Bob", "Cara", "Dev")
		camp.rel.Set(testPlayerID, 1, 90)
		camp.rel.Set(testPlayerID, 2, 80)
		camp.rel.Set(testPlayerID, 3, 10)
		camp.rel.Set(testPlayerID, 4, 5)
		camp.conv.QueuePhaseInvitations()
		m := camp.conv.PendingMeetings()[0]
		if m.NPCID != 1 && m.NPCID != 2 {
			t.Fatalf("seed %d: expected a top-half NPC, got %d", seed, m.NPCID)
		}
		if !IsCampLocation(string(m.Location)) {
			t.Fatalf("seed %d: bad meeting location %q", seed, m.Location)
		}
	}
}

func TestTopicSelectionWithConfrontationSkipsMenu(t *testing.T) {
	camp := newTestCamp(t, 1, "Alice", "Bob")
	for seed := int64(1); seed <= 5000; seed++ {
		camp = newTestCamp(t, seed, "Alice", "Bob")
		camp.rel.Set(1, 2, 5)
		camp.locations.AssignForPhase(1, PhasePreChallenge)
		if len(camp.locations.Confrontations()) > 0 {
			break
		}
	}
	fights := camp.locations.Confrontations()
	if len(fights) == 0 {
		t.Fatalf("no seed produced a confrontation")
	}
	if err := camp.conv.HandleTopicSelection(fights[0].A, fights[0].Location); err != nil {
		t.Fatalf("topic selection: %v", err)
	}
	if camp.conv.State() != ConversationDialogueDisplayed {
		t.Fatalf("expected dialogue straight away, got %s", camp.conv.State())
	}
	d, _ := camp.conv.Current()
	if !d.Purposeful {
		t.Fatalf("expected purposeful dialogue")
	}
	if len(camp.locations.Confrontations()) != 0 {
		t.Fatalf("expected confrontation resolved once handled")
	}
}

func TestMeetingsAtListsOnlyUntriggered(t *testing.T) {
	camp := newTestCamp(t, 8, "Alice", "Bob")
	camp.conv.QueuePhaseInvitations()
	pending := camp.conv.PendingMeetings()
	if len(pending) != 1 {
		t.Fatalf("expected one phase invitation, got %d", len(pending))
	}
	loc := pending[0].Location
	if got := camp.conv.MeetingsAt(loc); len(got) != 1 {
		t.Fatalf("expected the meeting waiting at %s, got %+v", loc, got)
	}
	if _, ok := camp.conv.TriggerMeetingAt(loc); !ok {
		t.Fatalf("expected the meeting to open")
	}
	if got := camp.conv.MeetingsAt(loc); len(got) != 0 {
		t.Fatalf("expected a triggered meeting to drop out, got %+v", got)
	}
}
