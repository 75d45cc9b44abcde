package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/appengine-ltd/castaway/internal/events"
)

type Phase string

const (
	PhasePreChallenge  Phase = "preChallenge"
	PhaseChallenge     Phase = "challenge"
	PhasePostChallenge Phase = "postChallenge"
	PhaseTribalCouncil Phase = "tribalCouncil"
)

var phaseCycle = []Phase{PhasePreChallenge, PhaseChallenge, PhasePostChallenge, PhaseTribalCouncil}

const DefaultDayLength = 15 * time.Minute

func ParsePhase(name string) (Phase, bool) {
	for _, p := range phaseCycle {
		if string(p) == name {
			return p, true
		}
	}
	return "", false
}

func (p Phase) Next() Phase {
	for i, c := range phaseCycle {
		if c == p {
			return phaseCycle[(i+1)%len(phaseCycle)]
		}
	}
	return PhasePreChallenge
}

// IsCamp reports the phases spent at camp, where NPCs wander and invite the player.
func (p Phase) IsCamp() bool {
	return p == PhasePreChallenge || p == PhasePostChallenge
}

var treeMailLines = []string{
	"Strength and balance will carry you across the water. Only the swift keep their torch.",
	"A puzzle waits at the end of the trail. Minds sharp, hands steady.",
	"Dig deep, haul hard. Food is the prize for those who endure.",
	"Hold on longer than anyone else and the island will reward you.",
	"Memory and nerve. One wrong step and you start over.",
}

// PhaseMachine owns the day counter, the day clock and the phase cycle
// preChallenge -> challenge -> postChallenge -> tribalCouncil -> preChallenge.
// The day only advances on the tribalCouncil -> preChallenge edge.
type PhaseMachine struct {
	bus *events.Bus
	log *slog.Logger

	day        int
	phase      Phase
	fullDay    time.Duration
	remaining  time.Duration
	expired    bool
	generation uint64
}

func NewPhaseMachine(bus *events.Bus, log *slog.Logger, fullDay time.Duration) *PhaseMachine {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if fullDay <= 0 {
		fullDay = DefaultDayLength
	}
	return &PhaseMachine{
		bus:       bus,
		log:       log,
		day:       1,
		phase:     PhasePreChallenge,
		fullDay:   fullDay,
		remaining: fullDay,
	}
}

func (m *PhaseMachine) Day() int                 { return m.day }
func (m *PhaseMachine) Phase() Phase             { return m.phase }
func (m *PhaseMachine) Remaining() time.Duration { return m.remaining }
func (m *PhaseMachine) FullDay() time.Duration   { return m.fullDay }

// Generation changes on every transition so delayed callbacks can tell whether
// the phase they were armed in is still current.
func (m *PhaseMachine) Generation() uint64 { return m.generation }

// Advance moves to the next phase in the cycle and returns it.
func (m *PhaseMachine) Advance() Phase {
	m.transition(m.phase.Next())
	return m.phase
}

// SetPhase jumps to a named phase. Unknown names are logged and ignored.
func (m *PhaseMachine) SetPhase(name string) error {
	p, ok := ParsePhase(name)
	if !ok {
		m.log.Warn("ignoring unknown phase", "phase", name)
		return fmt.Errorf("%w: %q", ErrInvalidPhase, name)
	}
	m.transition(p)
	return nil
}

func (m *PhaseMachine) transition(to Phase) {
	from := m.phase
	if from == PhaseTribalCouncil && to == PhasePreChallenge {
		m.day++
	}
	m.phase = to
	m.generation++

	switch to {
	case PhasePreChallenge:
		m.remaining = m.fullDay
		m.expired = false
	case PhaseChallenge:
		m.publish(events.TreeMailEvent{Day: m.day, Message: treeMailLines[(m.day-1)%len(treeMailLines)]})
	}
	m.log.Info("phase changed", "day", m.day, "from", from, "to", to)
	m.publish(events.PhaseChangedEvent{Day: m.day, From: string(from), To: string(to)})
}

// Tick runs the day clock down. It reports true on the tick that hits zero.
func (m *PhaseMachine) Tick(elapsed time.Duration) bool {
	if elapsed <= 0 || m.expired {
		return false
	}
	m.remaining -= elapsed
	if m.remaining > 0 {
		return false
	}
	m.remaining = 0
	m.expired = true
	m.publish(events.DayTimerExpiredEvent{Day: m.day, Phase: string(m.phase)})
	return true
}

// Restore sets state from a snapshot without publishing anything.
func (m *PhaseMachine) Restore(day int, phase Phase, remaining time.Duration) {
	if day < 1 {
		day = 1
	}
	if _, ok := ParsePhase(string(phase)); !ok {
		phase = PhasePreChallenge
	}
	if remaining < 0 || remaining > m.fullDay {
		remaining = m.fullDay
	}
	m.day = day
	m.phase = phase
	m.remaining = remaining
	m.expired = remaining == 0
	m.generation++
}

func (m *PhaseMachine) publish(ev events.Event) {
	if m.bus != nil {
		m.bus.Publish(ev)
	}
}
