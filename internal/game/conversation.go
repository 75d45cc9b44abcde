package game

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/appengine-ltd/castaway/internal/events"
	"github.com/appengine-ltd/castaway/internal/social"
)

type ConversationState int

const (
	ConversationIdle ConversationState = iota
	ConversationTopicSelection
	ConversationDialogueDisplayed
	ConversationResponseApplied
)

func (s ConversationState) String() string {
	switch s {
	case ConversationIdle:
		return "idle"
	case ConversationTopicSelection:
		return "topicSelection"
	case ConversationDialogueDisplayed:
		return "dialogueDisplayed"
	case ConversationResponseApplied:
		return "responseApplied"
	default:
		return fmt.Sprintf("ConversationState(%d)", int(s))
	}
}

type MeetingKind string

const (
	MeetingPhaseIntro MeetingKind = "phaseIntro"
	MeetingMidPhase   MeetingKind = "midPhase"
)

const (
	DefaultMidPhaseDelay = 60 * time.Second
	MissedMeetingPenalty = 3

	midPhaseTimerKey       = "midPhaseInvite"
	confrontationMeeting   = "confrontation"
	hostileRelationship    = 20
	protectiveRelationship = 65
)

// PendingMeeting is an NPC waiting for the player somewhere in camp.
type PendingMeeting struct {
	NPCID     int
	Location  Location
	Kind      MeetingKind
	Day       int
	Phase     Phase
	Triggered bool
}

// Dialogue is an NPC line with the answers the player can pick from.
type Dialogue struct {
	NPCID      int
	TargetID   int
	Location   Location
	Intent     Intent
	Text       string
	Options    []ResponseOption
	Purposeful bool
}

// PhaseClock is the part of the phase machine the conversation engine reads.
type PhaseClock interface {
	Day() int
	Phase() Phase
	Generation() uint64
}

type ConversationDeps struct {
	Roster        RosterProvider
	Relationships *social.Relationships
	Memory        *social.Memory
	Moods         *social.Moods
	Locations     *LocationAssigner
	Clock         PhaseClock
	Scheduler     *Scheduler
	Bus           *events.Bus
	RNG           *rand.Rand
	Log           *slog.Logger
	MidPhaseDelay time.Duration
}

// ConversationEngine runs one conversation at a time through
// idle -> topicSelection -> dialogueDisplayed -> responseApplied -> idle,
// and owns the invitations NPCs leave for the player during camp phases.
type ConversationEngine struct {
	roster    RosterProvider
	rel       *social.Relationships
	memory    *social.Memory
	moods     *social.Moods
	locations *LocationAssigner
	clock     PhaseClock
	sched     *Scheduler
	bus       *events.Bus
	rng       *rand.Rand
	log       *slog.Logger
	midDelay  time.Duration

	state       ConversationState
	npcID       int
	location    Location
	dialogue    Dialogue
	meetingType string
	meeting     int
	pending     []PendingMeeting
}

func NewConversationEngine(deps ConversationDeps) *ConversationEngine {
	log := deps.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	delay := deps.MidPhaseDelay
	if delay <= 0 {
		delay = DefaultMidPhaseDelay
	}
	return &ConversationEngine{
		roster:    deps.Roster,
		rel:       deps.Relationships,
		memory:    deps.Memory,
		moods:     deps.Moods,
		locations: deps.Locations,
		clock:     deps.Clock,
		sched:     deps.Scheduler,
		bus:       deps.Bus,
		rng:       deps.RNG,
		log:       log,
		midDelay:  delay,
		meeting:   -1,
	}
}

func (c *ConversationEngine) State() ConversationState { return c.state }

// Current returns the dialogue on screen, if any.
func (c *ConversationEngine) Current() (Dialogue, bool) {
	if c.state != ConversationDialogueDisplayed && c.state != ConversationResponseApplied {
		return Dialogue{}, false
	}
	return c.dialogue, true
}

// Partner is the NPC of the open conversation.
func (c *ConversationEngine) Partner() (int, bool) {
	if c.state == ConversationIdle {
		return 0, false
	}
	return c.npcID, true
}

func (c *ConversationEngine) PendingMeetings() []PendingMeeting {
	return append([]PendingMeeting(nil), c.pending...)
}

// MeetingsAt lists untriggered meetings waiting at loc.
func (c *ConversationEngine) MeetingsAt(loc Location) []PendingMeeting {
	var out []PendingMeeting
	for _, m := range c.pending {
		if m.Location == loc && !m.Triggered {
			out = append(out, m)
		}
	}
	return out
}

// ChooseIntent decides what npc wants to talk about. Open hostility wins,
// then strong friendship, then a weighted draw shaped by mood and style.
func (c *ConversationEngine) ChooseIntent(npcID int, purposeful bool) Intent {
	player, ok := c.roster.PlayerSurvivor()
	if !ok {
		return IntentBonding
	}
	value := c.rel.Get(player.ID, npcID)
	mood := c.moods.Get(npcID)

	if value < hostileRelationship && mood.IsHostile() {
		return IntentConfrontation
	}
	if value > protectiveRelationship {
		if purposeful {
			return IntentProtection
		}
		return IntentBonding
	}

	pool := casualIntents
	if purposeful {
		pool = purposefulIntents
	}
	var style GameplayStyle
	if npc, ok := c.roster.Survivor(npcID); ok {
		style = npc.Style
	}
	weights := make([]Weighted[Intent], 0, len(pool))
	for _, intent := range pool {
		w := 1 + moodIntentBoost[mood][intent] + styleIntentBoost[style][intent]
		weights = append(weights, Weighted[Intent]{Value: intent, Weight: w})
	}
	intent, ok := weightedChoice(c.rng, weights)
	if !ok {
		return pool[0]
	}
	return intent
}

// HandleTopicSelection is the player walking up to npc at loc. A pending
// confrontation or meeting there turns it into an NPC-led conversation;
// otherwise the topic menu opens.
func (c *ConversationEngine) HandleTopicSelection(npcID int, loc Location) error {
	if c.state != ConversationIdle {
		return ErrConversationBusy
	}
	if err := c.checkPresence(npcID, loc); err != nil {
		return err
	}
	if _, ok := c.locations.ConfrontationFor(npcID, loc); ok {
		_, err := c.HandleConfrontation(npcID, loc)
		return err
	}
	if idx := c.meetingIndex(npcID, loc); idx >= 0 {
		c.openMeeting(idx)
		return nil
	}
	c.state = ConversationTopicSelection
	c.npcID = npcID
	c.location = loc
	c.meetingType = ""
	c.meeting = -1
	return nil
}

// PickTopic turns a topic menu choice into a dialogue.
func (c *ConversationEngine) PickTopic(key string) (Dialogue, error) {
	if c.state != ConversationTopicSelection {
		return Dialogue{}, ErrWrongConversationStep
	}
	topic, ok := TopicByKey(key)
	if !ok {
		return Dialogue{}, fmt.Errorf("%w: %q", ErrUnknownTopic, key)
	}
	c.display(c.npcID, c.location, topic.Intent, false)
	return c.dialogue, nil
}

// HandleConfrontation opens a purposeful conversation with npc, skipping the
// topic menu. Any fight npc was part of counts as dealt with.
func (c *ConversationEngine) HandleConfrontation(npcID int, loc Location) (Dialogue, error) {
	if c.state != ConversationIdle && c.state != ConversationTopicSelection {
		return Dialogue{}, ErrConversationBusy
	}
	if _, ok := c.roster.Survivor(npcID); !ok {
		return Dialogue{}, fmt.Errorf("%w: %d", ErrSurvivorNotFound, npcID)
	}
	c.locations.ResolveConfrontation(npcID)
	c.meeting = c.meetingIndex(npcID, loc)
	if c.meeting >= 0 {
		c.pending[c.meeting].Triggered = true
	}
	c.meetingType = confrontationMeeting
	c.display(npcID, loc, c.ChooseIntent(npcID, true), true)
	return c.dialogue, nil
}

// HandleChat lets npc lead a casual conversation.
func (c *ConversationEngine) HandleChat(npcID int, loc Location) (Dialogue, error) {
	if c.state != ConversationIdle {
		return Dialogue{}, ErrConversationBusy
	}
	if err := c.checkPresence(npcID, loc); err != nil {
		return Dialogue{}, err
	}
	c.meeting = -1
	c.meetingType = ""
	c.display(npcID, loc, c.ChooseIntent(npcID, false), false)
	return c.dialogue, nil
}

// TriggerMeetingAt opens the first untriggered meeting waiting at loc. It is
// called when the player walks there.
func (c *ConversationEngine) TriggerMeetingAt(loc Location) (Dialogue, bool) {
	if c.state != ConversationIdle {
		return Dialogue{}, false
	}
	for i, m := range c.pending {
		if m.Location == loc && !m.Triggered {
			c.openMeeting(i)
			return c.dialogue, true
		}
	}
	return Dialogue{}, false
}

func (c *ConversationEngine) openMeeting(idx int) {
	m := &c.pending[idx]
	m.Triggered = true
	c.meeting = idx
	c.meetingType = string(m.Kind)
	c.display(m.NPCID, m.Location, c.ChooseIntent(m.NPCID, true), true)
}

// Respond commits option index of the displayed dialogue.
func (c *ConversationEngine) Respond(index int) (ResponseOption, error) {
	if c.state == ConversationIdle {
		return ResponseOption{}, ErrNoActiveConversation
	}
	if c.state != ConversationDialogueDisplayed {
		return ResponseOption{}, ErrWrongConversationStep
	}
	if index < 0 || index >= len(c.dialogue.Options) {
		return ResponseOption{}, fmt.Errorf("%w: %d", ErrInvalidOption, index)
	}
	player, ok := c.roster.PlayerSurvivor()
	if !ok {
		return ResponseOption{}, fmt.Errorf("%w: player", ErrSurvivorNotFound)
	}
	opt := c.dialogue.Options[index]
	value := c.rel.Change(player.ID, c.npcID, opt.Delta)
	if opt.TargetDelta != 0 && c.dialogue.TargetID != 0 {
		c.rel.ChangeDirected(c.npcID, c.dialogue.TargetID, opt.TargetDelta)
	}
	c.moods.Set(c.npcID, opt.Mood)
	c.memory.Remember(c.npcID, social.MemoryEntry{
		Day:         c.clock.Day(),
		Intent:      string(c.dialogue.Intent),
		Response:    opt.Label,
		MeetingType: c.meetingType,
	})
	c.state = ConversationResponseApplied

	c.log.Info("conversation response",
		"npc", c.npcID,
		"intent", c.dialogue.Intent,
		"response", opt.Label,
		"delta", opt.Delta,
		"relationship", value,
	)
	c.publish(events.ConversationClosedEvent{
		NPCID:    c.npcID,
		Intent:   string(c.dialogue.Intent),
		Response: opt.Label,
		Delta:    opt.Delta,
		Mood:     string(opt.Mood),
	})
	return opt, nil
}

// Close ends the conversation at any step. A meeting this conversation
// answered is removed from the pending list.
func (c *ConversationEngine) Close() error {
	if c.state == ConversationIdle {
		return ErrNoActiveConversation
	}
	if c.state == ConversationResponseApplied && c.meeting >= 0 && c.meeting < len(c.pending) {
		c.pending = append(c.pending[:c.meeting], c.pending[c.meeting+1:]...)
	}
	c.state = ConversationIdle
	c.npcID = 0
	c.location = ""
	c.dialogue = Dialogue{}
	c.meetingType = ""
	c.meeting = -1
	return nil
}

func (c *ConversationEngine) checkPresence(npcID int, loc Location) error {
	npc, ok := c.roster.Survivor(npcID)
	if !ok || npc.IsPlayer || !npc.Active() {
		return fmt.Errorf("%w: %d", ErrSurvivorNotFound, npcID)
	}
	if !IsCampLocation(string(loc)) {
		return fmt.Errorf("%w: %q", ErrUnknownLocation, loc)
	}
	if at, ok := c.locations.LocationOf(npcID); ok && at == loc {
		return nil
	}
	if c.meetingIndex(npcID, loc) >= 0 {
		return nil
	}
	return fmt.Errorf("%w: %s at %s", ErrNotAtLocation, npc.Name(), loc)
}

func (c *ConversationEngine) meetingIndex(npcID int, loc Location) int {
	for i, m := range c.pending {
		if m.NPCID == npcID && m.Location == loc && !m.Triggered {
			return i
		}
	}
	return -1
}

func (c *ConversationEngine) display(npcID int, loc Location, intent Intent, purposeful bool) {
	npc, _ := c.roster.Survivor(npcID)
	template, _ := pickOne(c.rng, dialogueTemplates[intent])

	d := Dialogue{
		NPCID:      npcID,
		Location:   loc,
		Intent:     intent,
		Options:    ResponsesFor(intent),
		Purposeful: purposeful,
	}
	text := template
	if npc != nil {
		text = strings.ReplaceAll(text, namePlaceholder, npc.FirstName)
	}
	if strings.Contains(text, targetPlaceholder) {
		targetName := "someone"
		if target, ok := c.pickTarget(npcID); ok {
			d.TargetID = target.ID
			targetName = target.FirstName
		}
		text = strings.ReplaceAll(text, targetPlaceholder, targetName)
	}
	d.Text = text

	c.state = ConversationDialogueDisplayed
	c.npcID = npcID
	c.location = loc
	c.dialogue = d
	c.log.Debug("dialogue displayed", "npc", npcID, "intent", intent, "purposeful", purposeful)
	c.publish(events.ConversationOpenedEvent{
		NPCID:      npcID,
		Location:   string(loc),
		Intent:     string(intent),
		Purposeful: purposeful,
	})
}

// pickTarget chooses a third tribemate the speaker can talk about.
func (c *ConversationEngine) pickTarget(speaker int) (*Survivor, bool) {
	var others []*Survivor
	for _, s := range c.roster.TribeNPCs() {
		if s.ID != speaker {
			others = append(others, s)
		}
	}
	return pickOne(c.rng, others)
}

// QueuePhaseInvitations schedules the phaseIntro meeting for the current camp
// phase and arms the midPhase one. Earlier meetings are dropped without penalty.
func (c *ConversationEngine) QueuePhaseInvitations() {
	c.dropPending()
	phase := c.clock.Phase()
	if !phase.IsCamp() {
		return
	}
	first, ok := c.scheduleInvitation(MeetingPhaseIntro, 0)
	if !ok {
		c.log.Debug("no tribemates to invite", "day", c.clock.Day(), "phase", phase)
		return
	}
	generation := c.clock.Generation()
	c.sched.After(midPhaseTimerKey, c.midDelay, func() {
		if c.clock.Generation() != generation {
			return
		}
		c.scheduleInvitation(MeetingMidPhase, first.NPCID)
	})
}

func (c *ConversationEngine) scheduleInvitation(kind MeetingKind, avoid int) (PendingMeeting, bool) {
	player, ok := c.roster.PlayerSurvivor()
	if !ok {
		return PendingMeeting{}, false
	}
	npcs := c.roster.TribeNPCs()
	if len(npcs) == 0 {
		return PendingMeeting{}, false
	}
	sort.SliceStable(npcs, func(i, j int) bool {
		vi, vj := c.rel.Get(player.ID, npcs[i].ID), c.rel.Get(player.ID, npcs[j].ID)
		if vi != vj {
			return vi > vj
		}
		return npcs[i].ID < npcs[j].ID
	})
	top := npcs[:max(1, (len(npcs)+1)/2)]
	if avoid != 0 && len(top) > 1 {
		filtered := make([]*Survivor, 0, len(top))
		for _, s := range top {
			if s.ID != avoid {
				filtered = append(filtered, s)
			}
		}
		top = filtered
	}
	npc, _ := pickOne(c.rng, top)
	loc, _ := pickOne(c.rng, CampLocations)

	m := PendingMeeting{
		NPCID:    npc.ID,
		Location: loc,
		Kind:     kind,
		Day:      c.clock.Day(),
		Phase:    c.clock.Phase(),
	}
	c.pending = append(c.pending, m)
	c.memory.InitNPC(npc.ID)
	c.log.Info("meeting scheduled", "npc", npc.ID, "location", loc, "kind", kind)
	c.publish(events.MeetingScheduledEvent{
		Day:      m.Day,
		Phase:    string(m.Phase),
		NPCID:    m.NPCID,
		Location: string(m.Location),
		Kind:     string(m.Kind),
	})
	return m, true
}

// ClearPendingMeetings ends the invitation window. NPCs who waited for nothing
// lose MissedMeetingPenalty of relationship with the player and turn irritated.
func (c *ConversationEngine) ClearPendingMeetings() {
	c.sched.Cancel(midPhaseTimerKey)
	player, hasPlayer := c.roster.PlayerSurvivor()
	for _, m := range c.pending {
		if m.Triggered || !hasPlayer {
			continue
		}
		c.rel.Change(player.ID, m.NPCID, -MissedMeetingPenalty)
		c.moods.Set(m.NPCID, social.MoodIrritated)
		c.memory.Remember(m.NPCID, social.MemoryEntry{
			Day:         m.Day,
			Intent:      "missedMeeting",
			Response:    "player never came",
			MeetingType: string(m.Kind),
		})
		c.log.Info("meeting missed", "npc", m.NPCID, "location", m.Location, "kind", m.Kind)
		c.publish(events.MeetingMissedEvent{
			Day:      m.Day,
			Phase:    string(m.Phase),
			NPCID:    m.NPCID,
			Location: string(m.Location),
			Kind:     string(m.Kind),
			Penalty:  MissedMeetingPenalty,
		})
	}
	c.pending = nil
	c.meeting = -1
}

func (c *ConversationEngine) dropPending() {
	c.sched.Cancel(midPhaseTimerKey)
	c.pending = nil
	c.meeting = -1
}

// Reset returns the engine to idle with nothing pending.
func (c *ConversationEngine) Reset() {
	c.dropPending()
	c.state = ConversationIdle
	c.npcID = 0
	c.location = ""
	c.dialogue = Dialogue{}
	c.meetingType = ""
}

func (c *ConversationEngine) publish(ev events.Event) {
	if c.bus != nil {
		c.bus.Publish(ev)
	}
}
