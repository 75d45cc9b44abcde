package game

import "testing"

func TestSeededRNGDeterministic(t *testing.T) {
	rngA := seededRNG(12345)
	rngB := seededRNG(12345)

	for i := 0; i < 20; i++ {
		gotA := rngA.IntN(100000)
		gotB := rngB.IntN(100000)
		if gotA != gotB {
			t.Fatalf("expected deterministic sequence, mismatch at %d: %d != %d", i, gotA, gotB)
		}
	}
}

func TestSeedWordChangesWithSalt(t *testing.T) {
	a := seedWord(99, "a")
	b := seedWord(99, "b")
	if a == b {
		t.Fatalf("expected different seed words for different salts")
	}
}

func TestWeightedChoiceSkipsNonPositiveWeights(t *testing.T) {
	r := seededRNG(7)
	candidates := []Weighted[string]{
		{Value: "never", Weight: 0},
		{Value: "negative", Weight: -4},
		{Value: "always", Weight: 3},
	}
	for i := 0; i < 200; i++ {
		got, ok := weightedChoice(r, candidates)
		if !ok || got != "always" {
			t.Fatalf("expected only positive weight to win, got %q ok=%v", got, ok)
		}
	}
}

func TestWeightedChoiceEmptyPool(t *testing.T) {
	r := seededRNG(7)
	if _, ok := weightedChoice(r, []Weighted[int]{{Value: 1, Weight: 0}}); ok {
		t.Fatalf("expected no choice from an all-zero pool")
	}
	if _, ok := weightedChoice[int](r, nil); ok {
		t.Fatalf("expected no choice from a nil pool")
	}
}

func TestWeightedChoiceRoughlyProportional(t *testing.T) {
	r := seededRNG(2024)
	candidates := []Weighted[string]{
		{Value: "heavy", Weight: 9},
		{Value: "light", Weight: 1},
	}
	counts := map[string]int{}
	for i := 0; i < 5000; i++ {
		got, _ := weightedChoice(r, candidates)
		counts[got]++
	}
	if counts["heavy"] < 4000 || counts["light"] < 200 {
		t.Fatalf("distribution looks wrong: %v", counts)
	}
}
