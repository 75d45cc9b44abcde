package game

import (
	"testing"

	"github.com/appengine-ltd/castaway/internal/events"
	"github.com/appengine-ltd/castaway/internal/social"
)

const testPlayerID = 100

type testCamp struct {
	roster    *Roster
	rel       *social.Relationships
	memory    *social.Memory
	moods     *social.Moods
	bus       *events.Bus
	clock     *fakeClock
	sched     *Scheduler
	phases    *PhaseMachine
	locations *LocationAssigner
	conv      *ConversationEngine
}

// newTestCamp builds a single tribe holding the player plus one NPC per name,
// with ids 1..n in order.
func newTestCamp(t *testing.T, seed int64, names ...string) *testCamp {
	t.Helper()
	roster := NewRoster()
	player := &Survivor{ID: testPlayerID, FirstName: "Pat", Status: SurvivorActive, IsPlayer: true, TribeID: 1}
	roster.Add(player)
	members := []int{player.ID}
	for i, name := range names {
		s := &Survivor{ID: i + 1, FirstName: name, Status: SurvivorActive, TribeID: 1}
		roster.Add(s)
		members = append(members, s.ID)
	}
	roster.setTribes([]*Tribe{{ID: 1, Name: "Tagi", MemberIDs: members}})

	c := &testCamp{
		roster: roster,
		rel:    social.NewRelationships(),
		memory: social.NewMemory(),
		moods:  social.NewMoods(),
		bus:    events.NewBus(nil),
		clock:  newFakeClock(),
	}
	c.sched = NewScheduler(c.clock.Now)
	c.phases = NewPhaseMachine(c.bus, nil, DefaultDayLength)
	rng := seededRNG(seed)
	c.locations = NewLocationAssigner(roster, c.rel, c.bus, rng, nil)
	c.conv = NewConversationEngine(ConversationDeps{
		Roster:        roster,
		Relationships: c.rel,
		Memory:        c.memory,
		Moods:         c.moods,
		Locations:     c.locations,
		Clock:         c.phases,
		Scheduler:     c.sched,
		Bus:           c.bus,
		RNG:           rng,
	})
	return c
}

func (c *testCamp) record(types ...events.Type) *[]events.Envelope {
	var got []events.Envelope
	for _, typ := range types {
		c.bus.Subscribe(typ, func(env events.Envelope) { got = append(got, env) })
	}
	return &got
}
