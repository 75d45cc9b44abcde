package game

import (
	"log/slog"
	"math/rand/v2"
	"sort"

	"github.com/appengine-ltd/castaway/internal/events"
	"github.com/appengine-ltd/castaway/internal/social"
)

type Location string

const (
	LocationBeach          Location = "beach"
	LocationShelter        Location = "shelter"
	LocationCampfire       Location = "campfire"
	LocationWaterWell      Location = "waterWell"
	LocationRocky          Location = "rocky"
	LocationJungleTrail    Location = "jungleTrail"
	LocationMountainTrail  Location = "mountainTrail"
	LocationWaterfallTrail Location = "waterfallTrail"
	LocationTreeMail       Location = "treemail"
)

// CampLocations is the closed set of places an NPC can stand in camp.
var CampLocations = []Location{
	LocationBeach,
	LocationShelter,
	LocationCampfire,
	LocationWaterWell,
	LocationRocky,
	LocationJungleTrail,
	LocationMountainTrail,
	LocationWaterfallTrail,
	LocationTreeMail,
}

const (
	friendlyThreshold      = 70
	hostileThreshold       = 30
	confrontationThreshold = 25
	companionBonus         = 3
	confrontationChance    = 0.15
	defaultLocation        = LocationCampfire
)

var baseLocationWeights = map[Location]int{
	LocationBeach:          3,
	LocationShelter:        4,
	LocationCampfire:       5,
	LocationWaterWell:      3,
	LocationRocky:          2,
	LocationJungleTrail:    2,
	LocationMountainTrail:  1,
	LocationWaterfallTrail: 1,
	LocationTreeMail:       1,
}

var traitLocationBonus = map[Trait]map[Location]int{
	TraitParanoid: {
		LocationShelter:  3,
		LocationTreeMail: 2,
		LocationCampfire: 1,
	},
	TraitSocial: {
		LocationCampfire: 3,
		LocationBeach:    2,
		LocationRocky:    -1,
	},
	TraitLoner: {
		LocationRocky:          3,
		LocationMountainTrail:  2,
		LocationWaterfallTrail: 2,
		LocationCampfire:       -2,
	},
	TraitIdolHunter: {
		LocationJungleTrail:    3,
		LocationWaterfallTrail: 2,
		LocationMountainTrail:  2,
	},
	TraitLazy: {
		LocationShelter: 3,
		LocationBeach:   1,
	},
	TraitHardWorker: {
		LocationWaterWell: 2,
		LocationCampfire:  1,
	},
}

func IsCampLocation(name string) bool {
	_, ok := baseLocationWeights[Location(name)]
	return ok
}

// Confrontation is a fight between two co-located NPCs who dislike each other.
type Confrontation struct {
	A         int      `json:"a"`
	B         int      `json:"b"`
	Location  Location `json:"location"`
	Intensity int      `json:"intensity"`
}

func (c Confrontation) Involves(id int) bool {
	return c.A == id || c.B == id
}

// LocationAssigner places the player's tribemates around camp once per camp
// phase and rolls fights between hostile pairs that end up together.
type LocationAssigner struct {
	roster RosterProvider
	rel    *social.Relationships
	bus    *events.Bus
	rng    *rand.Rand
	log    *slog.Logger

	assignments    map[int]Location
	order          []int
	confrontations []Confrontation
}

func NewLocationAssigner(roster RosterProvider, rel *social.Relationships, bus *events.Bus, rng *rand.Rand, log *slog.Logger) *LocationAssigner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &LocationAssigner{
		roster:      roster,
		rel:         rel,
		bus:         bus,
		rng:         rng,
		log:         log,
		assignments: make(map[int]Location),
	}
}

type placement struct {
	id       int
	location Location
}

// AssignForPhase replaces the assignment map. Placement order is random and
// earlier NPCs pull friends towards, and push enemies away from, their spot.
// With no player tribe or no tribemates it publishes the cleared map and does
// nothing else.
func (a *LocationAssigner) AssignForPhase(day int, phase Phase) map[int]Location {
	a.assignments = make(map[int]Location)
	a.order = nil
	a.confrontations = nil

	npcs := a.roster.TribeNPCs()
	if len(npcs) == 0 {
		a.log.Debug("no tribemates to place", "day", day, "phase", phase)
		a.publishAssignments(day, phase)
		return a.Assignments()
	}

	placed := make([]placement, 0, len(npcs))
	for _, npc := range shuffled(a.rng, npcs) {
		loc, ok := weightedChoice(a.rng, a.scoreLocations(npc, placed))
		if !ok {
			loc = defaultLocation
		}
		a.assignments[npc.ID] = loc
		a.order = append(a.order, npc.ID)
		placed = append(placed, placement{id: npc.ID, location: loc})
	}

	a.publishAssignments(day, phase)
	a.evaluateConfrontations(day)
	return a.Assignments()
}

func (a *LocationAssigner) publishAssignments(day int, phase Phase) {
	if a.bus == nil {
		return
	}
	a.bus.Publish(events.LocationsAssignedEvent{
		Day:       day,
		Phase:     string(phase),
		Locations: a.assignmentStrings(),
	})
}

// scoreLocations builds the weight table for npc given who is already placed.
func (a *LocationAssigner) scoreLocations(npc *Survivor, placed []placement) []Weighted[Location] {
	scores := make(map[Location]int, len(CampLocations))
	for loc, w := range baseLocationWeights {
		scores[loc] = w
	}
	for _, p := range placed {
		v := a.rel.Get(npc.ID, p.id)
		switch {
		case v > friendlyThreshold:
			scores[p.location] += companionBonus
		case v < hostileThreshold:
			scores[p.location] -= companionBonus
		}
	}
	for _, trait := range npc.Traits {
		for loc, bonus := range traitLocationBonus[trait] {
			scores[loc] += bonus
		}
	}

	out := make([]Weighted[Location], 0, len(CampLocations))
	for _, loc := range CampLocations {
		w := scores[loc]
		if w < 0 {
			w = 0
		}
		out = append(out, Weighted[Location]{Value: loc, Weight: w})
	}
	return out
}

func (a *LocationAssigner) evaluateConfrontations(day int) {
	for i := 0; i < len(a.order); i++ {
		for j := i + 1; j < len(a.order); j++ {
			idA, idB := a.order[i], a.order[j]
			loc := a.assignments[idA]
			if a.assignments[idB] != loc {
				continue
			}
			trustAB, trustBA := a.rel.Pair(idA, idB)
			if trustAB >= confrontationThreshold || trustBA >= confrontationThreshold {
				continue
			}
			if a.rng.Float64() >= confrontationChance {
				continue
			}
			c := Confrontation{A: idA, B: idB, Location: loc, Intensity: 1 + a.rng.IntN(3)}
			a.rel.Change(idA, idB, -c.Intensity)
			a.confrontations = append(a.confrontations, c)
			a.log.Info("confrontation", "a", idA, "b", idB, "location", loc, "intensity", c.Intensity)
			if a.bus != nil {
				a.bus.Publish(events.ConfrontationEvent{
					Day:       day,
					A:         idA,
					B:         idB,
					Location:  string(loc),
					Intensity: c.Intensity,
				})
			}
		}
	}
}

func (a *LocationAssigner) LocationOf(id int) (Location, bool) {
	loc, ok := a.assignments[id]
	return loc, ok
}

// SurvivorsAtLocation lists the NPCs standing at loc, in id order.
func (a *LocationAssigner) SurvivorsAtLocation(loc Location) []*Survivor {
	var out []*Survivor
	for id, at := range a.assignments {
		if at != loc {
			continue
		}
		if s, ok := a.roster.Survivor(id); ok {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (a *LocationAssigner) Assignments() map[int]Location {
	out := make(map[int]Location, len(a.assignments))
	for id, loc := range a.assignments {
		out[id] = loc
	}
	return out
}

func (a *LocationAssigner) assignmentStrings() map[int]string {
	out := make(map[int]string, len(a.assignments))
	for id, loc := range a.assignments {
		out[id] = string(loc)
	}
	return out
}

func (a *LocationAssigner) Confrontations() []Confrontation {
	return append([]Confrontation(nil), a.confrontations...)
}

// ConfrontationFor returns an unresolved fight involving id at loc.
func (a *LocationAssigner) ConfrontationFor(id int, loc Location) (Confrontation, bool) {
	for _, c := range a.confrontations {
		if c.Involves(id) && c.Location == loc {
			return c, true
		}
	}
	return Confrontation{}, false
}

// ResolveConfrontation drops every fight involving id once the player has dealt with it.
func (a *LocationAssigner) ResolveConfrontation(id int) {
	out := a.confrontations[:0]
	for _, c := range a.confrontations {
		if !c.Involves(id) {
			out = append(out, c)
		}
	}
	a.confrontations = out
}

func (a *LocationAssigner) Clear() {
	a.assignments = make(map[int]Location)
	a.order = nil
	a.confrontations = nil
}

// Restore installs a saved map without rerolling or publishing.
func (a *LocationAssigner) Restore(assignments map[int]Location) {
	a.Clear()
	ids := make([]int, 0, len(assignments))
	for id, loc := range assignments {
		if !IsCampLocation(string(loc)) {
			continue
		}
		a.assignments[id] = loc
		ids = append(ids, id)
	}
	sort.Ints(ids)
	a.order = ids
}
