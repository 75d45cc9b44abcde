package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/appengine-ltd/castaway/internal/events"
	"github.com/appengine-ltd/castaway/internal/social"
)

const saveFormatVersion = 1

var ErrNoStorage = errors.New("no storage configured")

// Storage persists opaque save blobs by key.
type Storage interface {
	Save(ctx context.Context, key string, blob []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
}

// Snapshot is everything needed to pick a season back up. Pending meetings
// are left out on purpose: loading into a camp phase schedules new ones.
type Snapshot struct {
	SessionID      string                       `json:"session_id"`
	Seed           int64                        `json:"seed"`
	PlayerID       int                          `json:"player_id"`
	Day            int                          `json:"day"`
	Phase          Phase                        `json:"phase"`
	RemainingMS    int64                        `json:"remaining_ms"`
	Survivors      []Survivor                   `json:"survivors"`
	Tribes         []Tribe                      `json:"tribes"`
	Merged         bool                         `json:"merged"`
	Relationships  []social.Edge                `json:"relationships"`
	Moods          map[int]social.Mood          `json:"moods,omitempty"`
	Memory         map[int][]social.MemoryEntry `json:"memory,omitempty"`
	PlayerLocation Location                     `json:"player_location,omitempty"`
	Locations      map[int]Location             `json:"locations,omitempty"`
	Challenge      *ChallengeResult             `json:"challenge,omitempty"`
	Council        *Council                     `json:"council,omitempty"`
	Outcome        *Outcome                     `json:"outcome,omitempty"`
}

type savedSession struct {
	FormatVersion int       `json:"format_version"`
	SavedAt       time.Time `json:"saved_at"`
	Session       Snapshot  `json:"session"`
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID:      s.ID,
		Seed:           s.cfg.Seed,
		PlayerID:       s.cfg.PlayerID,
		Day:            s.phases.Day(),
		Phase:          s.phases.Phase(),
		RemainingMS:    s.phases.Remaining().Milliseconds(),
		Merged:         s.merged,
		Relationships:  s.rel.All(),
		Moods:          s.moods.Snapshot(),
		Memory:         s.memory.Snapshot(),
		PlayerLocation: s.playerLocation,
		Locations:      s.locations.Assignments(),
	}
	for _, sv := range s.roster.All() {
		c := *sv
		c.Traits = append([]Trait(nil), sv.Traits...)
		snap.Survivors = append(snap.Survivors, c)
	}
	for _, t := range s.roster.Tribes() {
		c := *t
		c.MemberIDs = append([]int(nil), t.MemberIDs...)
		snap.Tribes = append(snap.Tribes, c)
	}
	if s.challenge != nil {
		c := *s.challenge
		snap.Challenge = &c
	}
	if council, ok := s.Council(); ok {
		snap.Council = &council
	}
	if s.over {
		o := s.outcome
		snap.Outcome = &o
	}
	return snap
}

// Restore replaces the running season with snap. Nothing is published except
// a camp-view-loaded notice, which rebuilds the meetings and NPC placement
// for camp phases.
func (s *Session) Restore(snap Snapshot) error {
	if len(snap.Survivors) == 0 {
		return errors.New("snapshot has no survivors")
	}
	if _, ok := ParsePhase(string(snap.Phase)); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPhase, snap.Phase)
	}

	roster := NewRoster()
	for i := range snap.Survivors {
		sv := snap.Survivors[i]
		roster.Add(&sv)
	}
	if _, ok := roster.PlayerSurvivor(); !ok {
		return fmt.Errorf("%w: snapshot has no player", ErrSurvivorNotFound)
	}
	tribes := make([]*Tribe, 0, len(snap.Tribes))
	for i := range snap.Tribes {
		t := snap.Tribes[i]
		tribes = append(tribes, &t)
	}
	sort.Slice(tribes, func(i, j int) bool { return tribes[i].ID < tribes[j].ID })
	roster.setTribes(tribes)

	s.sched.CancelAll()
	if snap.SessionID != "" {
		s.ID = snap.SessionID
	}
	s.cfg.Seed = snap.Seed
	s.cfg.PlayerID = snap.PlayerID
	s.rng = seededRNG(snap.Seed + int64(snap.Day))
	s.sched = NewScheduler(s.now)
	s.roster = roster
	s.rel = social.NewRelationships()
	s.rel.Restore(snap.Relationships)
	s.moods = social.NewMoods()
	s.moods.Restore(snap.Moods)
	s.memory = social.NewMemory()
	s.memory.Restore(snap.Memory)

	s.phases = NewPhaseMachine(s.bus, s.log, s.cfg.DayLength)
	s.phases.Restore(snap.Day, snap.Phase, time.Duration(snap.RemainingMS)*time.Millisecond)
	s.locations = NewLocationAssigner(s.roster, s.rel, s.bus, s.rng, s.log)
	s.locations.Restore(snap.Locations)
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

	s.merged = snap.Merged
	s.challenge = snap.Challenge
	s.council = snap.Council
	if s.council != nil && s.council.Votes == nil {
		s.council.Votes = make(map[int]int)
	}
	s.over = snap.Outcome != nil
	s.outcome = Outcome{}
	if snap.Outcome != nil {
		s.outcome = *snap.Outcome
	}
	s.playerLocation = snap.PlayerLocation
	if !IsCampLocation(string(s.playerLocation)) {
		s.playerLocation = defaultLocation
	}
	s.lastTick = s.now()

	s.log.Info("season restored", "session", s.ID, "day", snap.Day, "phase", snap.Phase)
	s.bus.Publish(events.CampViewLoadedEvent{Day: snap.Day, Phase: string(snap.Phase)})
	return nil
}

// Save writes the season to the configured storage under key.
func (s *Session) Save(ctx context.Context, key string) error {
	ctx, span := s.startSpanCtx(ctx, "game.save")
	defer span.End()
	span.SetAttributes(attribute.String("save.key", key))

	if s.store == nil {
		return ErrNoStorage
	}
	payload := savedSession{FormatVersion: saveFormatVersion, SavedAt: s.now().UTC(), Session: s.Snapshot()}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("encode save: %w", err)
	}
	if err := s.store.Save(ctx, key, data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		return fmt.Errorf("save %q: %w", key, err)
	}
	s.log.Info("season saved", "key", key, "bytes", len(data))
	return nil
}

// Load reads key from storage and restores it.
func (s *Session) Load(ctx context.Context, key string) error {
	ctx, span := s.startSpanCtx(ctx, "game.load")
	defer span.End()
	span.SetAttributes(attribute.String("save.key", key))

	if s.store == nil {
		return ErrNoStorage
	}
	data, err := s.store.Load(ctx, key)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return fmt.Errorf("load %q: %w", key, err)
	}
	var payload savedSession
	if err := json.Unmarshal(data, &payload); err != nil {
		span.RecordError(err)
		return fmt.Errorf("decode save %q: %w", key, err)
	}
	if payload.FormatVersion != saveFormatVersion {
		return fmt.Errorf("save %q has format version %d, want %d", key, payload.FormatVersion, saveFormatVersion)
	}
	return s.Restore(payload.Session)
}
