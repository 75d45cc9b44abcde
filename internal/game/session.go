package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/appengine-ltd/castaway/internal/events"
	"github.com/appengine-ltd/castaway/internal/social"
)

const tracerName = "github.com/appengine-ltd/castaway/internal/game"

type Option func(*Session)

func WithLogger(log *slog.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Session) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithClock replaces time.Now for the day timer and the invitation scheduler.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

func WithStorage(store Storage) Option {
	return func(s *Session) { s.store = store }
}

func WithCast(cast Cast) Option {
	return func(s *Session) { s.cast = cast }
}

// Session is one season of the game. It owns every subsystem and wires them
// together over a single event bus; nothing in the package is global.
type Session struct {
	ID string

	cfg    RunConfig
	cast   Cast
	log    *slog.Logger
	tracer trace.Tracer
	now    func() time.Time
	store  Storage

	bus       *events.Bus
	rng       *rand.Rand
	sched     *Scheduler
	roster    *Roster
	rel       *social.Relationships
	memory    *social.Memory
	moods     *social.Moods
	phases    *PhaseMachine
	locations *LocationAssigner
	conv      *ConversationEngine

	playerLocation Location
	merged         bool
	challenge      *ChallengeResult
	council        *Council
	over           bool
	outcome        Outcome
	lastTick       time.Time
}

func NewSession(cfg RunConfig, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.DayLength == 0 {
		cfg.DayLength = DefaultDayLength
	}
	if cfg.MidPhaseDelay == 0 {
		cfg.MidPhaseDelay = DefaultMidPhaseDelay
	}

	s := &Session{
		cfg:    cfg,
		cast:   DefaultCast(),
		log:    slog.New(slog.DiscardHandler),
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.cast.Validate(); err != nil {
		return nil, fmt.Errorf("cast: %w", err)
	}
	if _, ok := s.cast.Survivor(cfg.PlayerID); !ok {
		return nil, fmt.Errorf("%w: player %d is not in the cast", ErrSurvivorNotFound, cfg.PlayerID)
	}
	if cfg.TribeCount > len(s.cast.Tribes) {
		return nil, fmt.Errorf("tribe count %d exceeds the %d tribes in the cast", cfg.TribeCount, len(s.cast.Tribes))
	}

	s.bus = events.NewBus(s.log)
	s.bus.Subscribe(events.PhaseChanged, s.onPhaseChanged)
	s.bus.Subscribe(events.CampViewLoaded, s.onCampViewLoaded)
	s.bus.Subscribe(events.DayTimerExpired, s.onDayTimerExpired)
	s.start()
	return s, nil
}

// start builds a fresh season from the cast and the configured seed.
func (s *Session) start() {
	s.ID = uuid.NewString()
	s.rng = seededRNG(s.cfg.Seed)
	s.sched = NewScheduler(s.now)
	s.rel = social.NewRelationships()
	s.memory = social.NewMemory()
	s.moods = social.NewMoods()
	s.roster = castRoster(s.cast, s.cfg.PlayerID)
	divideTribes(s.roster, s.cast.Tribes, s.cfg.TribeCount, s.rng)
	s.rel.EnsureAll(s.roster.ActiveIDs())
	for _, id := range s.roster.ActiveIDs() {
		s.memory.InitNPC(id)
	}

	s.phases = NewPhaseMachine(s.bus, s.log, s.cfg.DayLength)
	s.locations = NewLocationAssigner(s.roster, s.rel, s.bus, s.rng, s.log)
	s.conv = NewConversationEngine(ConversationDeps{
		Roster:        s.roster,
		Relationships: s.rel,
		Memory:        s.memory,
		Moods:         s.moods,
		Locations:     s.locations,
		Clock:         s.phases,
		Scheduler:     s.sched,
		Bus:           s.bus,
		RNG:           s.rng,
		Log:           s.log,
		MidPhaseDelay: s.cfg.MidPhaseDelay,
	})

	s.playerLocation = defaultLocation
	s.merged = false
	s.challenge = nil
	s.council = nil
	s.over = false
	s.outcome = Outcome{}
	s.lastTick = s.now()
	if s.shouldMerge() {
		s.mergeTribes()
	}

	player, _ := s.roster.PlayerSurvivor()
	s.log.Info("season started", "session", s.ID, "seed", s.cfg.Seed, "player", player.Name(), "tribes", len(s.roster.Tribes()))
	s.bus.Publish(events.CampViewLoadedEvent{Day: s.phases.Day(), Phase: string(s.phases.Phase())})
}

// Reset throws the season away and starts again from day one with the same
// configuration. Subscribers on the bus are kept; its history is not.
func (s *Session) Reset() {
	s.sched.CancelAll()
	s.bus.ClearHistory()
	s.start()
	s.bus.Publish(events.StateChangedEvent{Reason: "reset"})
}

func (s *Session) onPhaseChanged(env events.Envelope) {
	ev, ok := env.Event.(events.PhaseChangedEvent)
	if !ok || s.over {
		return
	}
	from, to := Phase(ev.From), Phase(ev.To)

	switch to {
	case PhaseChallenge:
		s.discardRound(from)
	case PhasePostChallenge:
		s.resolveChallenge()
	case PhaseTribalCouncil:
		s.openCouncil()
	case PhasePreChallenge:
		if from != PhaseTribalCouncil {
			s.discardRound(from)
			break
		}
		s.resolveCouncil()
		if s.over {
			return
		}
		s.advanceDay()
	}

	if to.IsCamp() {
		s.playerLocation = defaultLocation
		s.locations.AssignForPhase(ev.Day, to)
		s.conv.QueuePhaseInvitations()
		return
	}
	if s.conv.State() != ConversationIdle {
		_ = s.conv.Close()
	}
	s.conv.ClearPendingMeetings()
	s.locations.Clear()
}

// discardRound drops the day's challenge and council when a phase jump starts
// the competition over. An open council is abandoned without reading votes.
func (s *Session) discardRound(from Phase) {
	if s.council != nil && !s.council.Resolved {
		s.log.Warn("abandoning open tribal council", "day", s.phases.Day(), "from", from)
	}
	s.challenge = nil
	s.council = nil
}

func (s *Session) onCampViewLoaded(env events.Envelope) {
	if s.over {
		return
	}
	phase := s.phases.Phase()
	if !phase.IsCamp() {
		return
	}
	s.locations.AssignForPhase(s.phases.Day(), phase)
	s.conv.QueuePhaseInvitations()
}

// onDayTimerExpired ends the day when auto-advance is on: the remaining phases
// resolve on their own until the next morning.
func (s *Session) onDayTimerExpired(events.Envelope) {
	if !s.cfg.AutoAdvance {
		return
	}
	for !s.over {
		if s.phases.Advance() == PhasePreChallenge {
			return
		}
	}
}

// AdvancePhase moves to the next phase. Leaving tribal council without a
// player vote casts one for the player against their least-liked candidate.
func (s *Session) AdvancePhase() (Phase, error) {
	if s.over {
		return s.phases.Phase(), ErrGameOver
	}
	_, span := s.startSpan("game.advance_phase")
	defer span.End()

	next := s.phases.Advance()
	span.SetAttributes(attribute.String("game.phase", string(next)))
	return next, nil
}

// SetPhase jumps straight to a named phase.
func (s *Session) SetPhase(name string) error {
	if s.over {
		return ErrGameOver
	}
	return s.phases.SetPhase(name)
}

// Resume restarts the clocks after the owning loop has been away, such as on
// a title menu. Time since the last tick is charged neither to the day clock
// nor to pending invitation timers.
func (s *Session) Resume() {
	now := s.now()
	s.sched.Delay(now.Sub(s.lastTick))
	s.lastTick = now
}

// Tick drives the day timer and any due invitation timers from the session
// clock. The owning loop calls it regularly.
func (s *Session) Tick() {
	now := s.now()
	elapsed := now.Sub(s.lastTick)
	s.lastTick = now
	if s.over {
		return
	}
	s.phases.Tick(elapsed)
	s.sched.Advance(now)
}

func (s *Session) requireCamp() error {
	if s.over {
		return ErrGameOver
	}
	if !s.phases.Phase().IsCamp() {
		return fmt.Errorf("%w: it is %s", ErrNotInCamp, s.phases.Phase())
	}
	return nil
}

// MovePlayer walks the player to loc. A meeting waiting there opens at once.
func (s *Session) MovePlayer(loc string) (Dialogue, bool, error) {
	if err := s.requireCamp(); err != nil {
		return Dialogue{}, false, err
	}
	if !IsCampLocation(loc) {
		return Dialogue{}, false, fmt.Errorf("%w: %q", ErrUnknownLocation, loc)
	}
	s.playerLocation = Location(loc)
	d, ok := s.conv.TriggerMeetingAt(s.playerLocation)
	return d, ok, nil
}

// Talk approaches npcID where the player stands.
func (s *Session) Talk(npcID int) error {
	if err := s.requireCamp(); err != nil {
		return err
	}
	return s.conv.HandleTopicSelection(npcID, s.playerLocation)
}

// Chat lets npcID pick a casual subject.
func (s *Session) Chat(npcID int) (Dialogue, error) {
	if err := s.requireCamp(); err != nil {
		return Dialogue{}, err
	}
	return s.conv.HandleChat(npcID, s.playerLocation)
}

// Confront steps into a fight npcID is part of at the player's location.
func (s *Session) Confront(npcID int) (Dialogue, error) {
	if err := s.requireCamp(); err != nil {
		return Dialogue{}, err
	}
	if _, ok := s.locations.ConfrontationFor(npcID, s.playerLocation); !ok {
		return Dialogue{}, fmt.Errorf("%w: no confrontation here", ErrNotAtLocation)
	}
	return s.conv.HandleConfrontation(npcID, s.playerLocation)
}

func (s *Session) PickTopic(key string) (Dialogue, error) {
	if s.over {
		return Dialogue{}, ErrGameOver
	}
	return s.conv.PickTopic(key)
}

func (s *Session) Respond(index int) (ResponseOption, error) {
	if s.over {
		return ResponseOption{}, ErrGameOver
	}
	return s.conv.Respond(index)
}

func (s *Session) EndConversation() error {
	return s.conv.Close()
}

type ResourceKind string

const (
	ResourceWater   ResourceKind = "water"
	ResourceFire    ResourceKind = "fire"
	ResourceShelter ResourceKind = "shelter"
	ResourceFood    ResourceKind = "food"
)

const maxGatherGain = 20

// GatherResource adds a camp job's result to the player's tribe supplies.
// quality is 0-100 and maps to at most maxGatherGain points.
func (s *Session) GatherResource(kind ResourceKind, quality int) (Resources, error) {
	if err := s.requireCamp(); err != nil {
		return Resources{}, err
	}
	t, ok := s.roster.PlayerTribe()
	if !ok {
		return Resources{}, fmt.Errorf("%w: player tribe", ErrSurvivorNotFound)
	}
	gain := clampStat(quality) * maxGatherGain / 100
	switch kind {
	case ResourceWater:
		t.Resources.Water = clampStat(t.Resources.Water + gain)
	case ResourceFire:
		t.Resources.Fire = clampStat(t.Resources.Fire + gain)
	case ResourceShelter:
		t.Resources.Shelter = clampStat(t.Resources.Shelter + gain)
	case ResourceFood:
		t.Resources.Food = clampStat(t.Resources.Food + gain)
	default:
		return t.Resources, fmt.Errorf("unknown resource %q", kind)
	}
	t.recomputeStats(s.roster)
	s.log.Debug("resource gathered", "tribe", t.Name, "kind", kind, "gain", gain)
	s.bus.Publish(events.StateChangedEvent{Reason: fmt.Sprintf("gathered %s (+%d)", kind, gain)})
	return t.Resources, nil
}

func (s *Session) startSpan(name string) (context.Context, trace.Span) {
	return s.startSpanCtx(context.Background(), name)
}

func (s *Session) startSpanCtx(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.Int("game.day", s.phases.Day()),
	))
}

func (s *Session) Config() RunConfig                    { return s.cfg }
func (s *Session) Bus() *events.Bus                     { return s.bus }
func (s *Session) Day() int                             { return s.phases.Day() }
func (s *Session) Phase() Phase                         { return s.phases.Phase() }
func (s *Session) Remaining() time.Duration             { return s.phases.Remaining() }
func (s *Session) Roster() RosterProvider               { return s.roster }
func (s *Session) Relationships() *social.Relationships { return s.rel }
func (s *Session) Moods() *social.Moods                 { return s.moods }
func (s *Session) Memory() *social.Memory               { return s.memory }
func (s *Session) Locations() *LocationAssigner         { return s.locations }
func (s *Session) Conversation() *ConversationEngine    { return s.conv }
func (s *Session) PlayerLocation() Location             { return s.playerLocation }
func (s *Session) Merged() bool                         { return s.merged }
func (s *Session) Survivors() []*Survivor               { return s.roster.All() }
func (s *Session) ActiveSurvivors() []*Survivor         { return s.roster.Active() }
func (s *Session) Jury() []*Survivor                    { return s.roster.Jury() }
func (s *Session) Player() (*Survivor, bool)            { return s.roster.PlayerSurvivor() }
func (s *Session) PlayerTribe() (*Tribe, bool)          { return s.roster.PlayerTribe() }
func (s *Session) Tribes() []*Tribe                     { return s.roster.Tribes() }
func (s *Session) Survivor(id int) (*Survivor, bool)    { return s.roster.Survivor(id) }
func (s *Session) PendingMeetings() []PendingMeeting    { return s.conv.PendingMeetings() }
func (s *Session) Confrontations() []Confrontation      { return s.locations.Confrontations() }
func (s *Session) SurvivorsAt(loc Location) []*Survivor { return s.locations.SurvivorsAtLocation(loc) }
func (s *Session) History() []events.Envelope           { return s.bus.History() }

// Challenge returns today's challenge result once it has been decided.
func (s *Session) Challenge() (ChallengeResult, bool) {
	if s.challenge == nil {
		return ChallengeResult{}, false
	}
	return *s.challenge, true
}
