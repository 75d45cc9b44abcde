package game

import (
	"testing"

	"github.com/appengine-ltd/castaway/internal/events"
)

func TestAssignForPhaseGivesEveryTribemateALocation(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		camp := newTestCamp(t, seed, "Alice", "Bob", "Cara", "Dev", "Eli")
		got := camp.locations.AssignForPhase(1, PhasePreChallenge)
		if len(got) != 5 {
			t.Fatalf("seed %d: expected 5 assignments, got %d", seed, len(got))
		}
		for id, loc := range got {
			if id == testPlayerID {
				t.Fatalf("seed %d: player must not be placed", seed)
			}
			if !IsCampLocation(string(loc)) {
				t.Fatalf("seed %d: %q is not a camp location", seed, loc)
			}
		}
	}
}

func TestAssignForPhaseAtDefaultRelationshipNeverConfronts(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		camp := newTestCamp(t, seed, "Alice", "Bob")
		fights := camp.record(events.Confrontation)
		assigned := camp.record(events.LocationsAssigned)

		got := camp.locations.AssignForPhase(1, PhasePreChallenge)
		if len(got) != 2 {
			t.Fatalf("seed %d: expected Alice and Bob placed, got %v", seed, got)
		}
		if len(*fights) != 0 {
			t.Fatalf("seed %d: expected no confrontation at relationship 50", seed)
		}
		if len(*assigned) != 1 {
			t.Fatalf("seed %d: expected one locations event, got %d", seed, len(*assigned))
		}
		if v := camp.rel.Get(1, 2); v != 50 {
			t.Fatalf("seed %d: assignment changed relationship to %d", seed, v)
		}
	}
}

func TestConfrontationsOnlyBetweenCoLocatedHostilePairs(t *testing.T) {
	seen := 0
	for seed := int64(1); seed <= 3000; seed++ {
		camp := newTestCamp(t, seed, "Alice", "Bob", "Cara", "Dev")
		for a := 1; a <= 4; a++ {
			for b := a + 1; b <= 4; b++ {
				camp.rel.Set(a, b, 10)
			}
		}
		camp.rel.ChangeDirected(3, 4, 40)

		got := camp.locations.AssignForPhase(1, PhasePostChallenge)
		for _, c := range camp.locations.Confrontations() {
			seen++
			if got[c.A] != got[c.B] || got[c.A] != c.Location {
				t.Fatalf("seed %d: confrontation across locations %+v (%v)", seed, c, got)
			}
			if c.Intensity < 1 || c.Intensity > 3 {
				t.Fatalf("seed %d: intensity out of range: %d", seed, c.Intensity)
			}
			if (c.A == 3 && c.B == 4) || (c.A == 4 && c.B == 3) {
				t.Fatalf("seed %d: pair with one friendly direction must not fight", seed)
			}
		}
	}
	if seen == 0 {
		t.Fatalf("expected at least one confrontation across 3000 seeds")
	}
}

func TestConfrontationLowersRelationshipByIntensity(t *testing.T) {
	for seed := int64(1); seed <= 5000; seed++ {
		camp := newTestCamp(t, seed, "Alice", "Bob")
		camp.rel.Set(1, 2, 10)
		camp.locations.AssignForPhase(1, PhasePreChallenge)
		fights := camp.locations.Confrontations()
		if len(fights) == 0 {
			continue
		}
		want := 10 - fights[0].Intensity
		if camp.rel.Get(1, 2) != want || camp.rel.Get(2, 1) != want {
			t.Fatalf("expected both directions at %d, got %d/%d", want, camp.rel.Get(1, 2), camp.rel.Get(2, 1))
		}
		if _, ok := camp.locations.ConfrontationFor(1, fights[0].Location); !ok {
			t.Fatalf("expected confrontation lookup by participant")
		}
		camp.locations.ResolveConfrontation(2)
		if len(camp.locations.Confrontations()) != 0 {
			t.Fatalf("expected confrontation resolved")
		}
		return
	}
	t.Fatalf("no seed produced a confrontation")
}

func TestAssignWithoutPlayerTribeClearsMap(t *testing.T) {
	camp := newTestCamp(t, 3, "Alice", "Bob")
	camp.locations.AssignForPhase(1, PhasePreChallenge)
	player, _ := camp.roster.PlayerSurvivor()
	player.Status = SurvivorEliminated

	assigned := camp.record(events.LocationsAssigned)
	got := camp.locations.AssignForPhase(1, PhasePostChallenge)
	if len(got) != 0 {
		t.Fatalf("expected empty map without a player tribe, got %v", got)
	}
	if len(*assigned) != 1 {
		t.Fatalf("expected the cleared map to be published, got %d events", len(*assigned))
	}
	ev := (*assigned)[0].Event.(events.LocationsAssignedEvent)
	if len(ev.Locations) != 0 {
		t.Fatalf("expected an empty published map, got %v", ev.Locations)
	}
}

func TestSurvivorsAtLocationIsSortedAndMatchesMap(t *testing.T) {
	camp := newTestCamp(t, 11, "Alice", "Bob", "Cara")
	camp.locations.Restore(map[int]Location{
		3: LocationBeach,
		1: LocationBeach,
		2: LocationRocky,
		9: "volcano",
	})
	at := camp.locations.SurvivorsAtLocation(LocationBeach)
	if len(at) != 2 || at[0].ID != 1 || at[1].ID != 3 {
		t.Fatalf("unexpected survivors at beach: %+v", at)
	}
	if _, ok := camp.locations.LocationOf(9); ok {
		t.Fatalf("expected unknown location to be dropped on restore")
	}
}

func TestScoreLocationsAppliesCompanionsAndTraits(t *testing.T) {
	camp := newTestCamp(t, 1, "Alice", "Bob", "Cara")
	alice, _ := camp.roster.Survivor(1)
	alice.Traits = []Trait{TraitLoner}
	camp.rel.Set(1, 2, 90)
	camp.rel.Set(1, 3, 5)

	placed := []placement{{id: 2, location: LocationBeach}, {id: 3, location: LocationShelter}}
	scores := map[Location]int{}
	for _, w := range camp.locations.scoreLocations(alice, placed) {
		scores[w.Value] = w.Weight
	}
	if scores[LocationBeach] != 3+companionBonus {
		t.Fatalf("expected friendly bonus at beach, got %d", scores[LocationBeach])
	}
	if scores[LocationShelter] != 4-companionBonus {
		t.Fatalf("expected hostile penalty at shelter, got %d", scores[LocationShelter])
	}
	if scores[LocationRocky] != 2+3 {
		t.Fatalf("expected loner bonus at rocky, got %d", scores[LocationRocky])
	}
	if scores[LocationCampfire] != 5-2 {
		t.Fatalf("expected loner penalty at campfire, got %d", scores[LocationCampfire])
	}
}

func TestTribeNPCsSkipsPlayerAndEliminated(t *testing.T) {
	camp := newTestCamp(t, 1, "Alice", "Bob", "Cara")
	bob, _ := camp.roster.Survivor(2)
	bob.Status = SurvivorEliminated

	var provider RosterProvider = camp.roster
	got := provider.TribeNPCs()
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("expected Alice and Cara, got %+v", got)
	}
	placed := camp.locations.AssignForPhase(1, PhasePreChallenge)
	if _, ok := placed[2]; ok {
		t.Fatalf("expected eliminated Bob to stay unplaced")
	}
}
