package social

import "testing"

func TestChangeRelationshipClamps(t *testing.T) {
	tests := []struct {
		start int
		delta int
		want  int
	}{
		{start: 95, delta: 20, want: 100},
		{start: 5, delta: -20, want: 0},
		{start: 50, delta: 7, want: 57},
		{start: 100, delta: 0, want: 100},
	}
	for _, tc := range tests {
		r := NewRelationships()
		r.Set(1, 2, tc.start)
		got := r.Change(1, 2, tc.delta)
		if got != tc.want {
			t.Fatalf("start=%d delta=%d: got %d want %d", tc.start, tc.delta, got, tc.want)
		}
		if back := r.Get(2, 1); back != tc.want {
			t.Fatalf("expected reverse direction %d, got %d", tc.want, back)
		}
	}
}

func TestRepeatedChangesStayInBounds(t *testing.T) {
	r := NewRelationships()
	deltas := []int{40, 40, 40, -15, -90, -90, 13, 200, -3}
	for _, d := range deltas {
		v := r.Change(3, 4, d)
		if v < MinRelationship || v > MaxRelationship {
			t.Fatalf("value %d out of bounds after delta %d", v, d)
		}
	}
}

func TestDefaultRelationshipIsSymmetric(t *testing.T) {
	r := NewRelationships()
	ab, ba := r.Pair(7, 9)
	if ab != DefaultRelationship || ba != DefaultRelationship {
		t.Fatalf("expected both directions to default to %d, got %d/%d", DefaultRelationship, ab, ba)
	}
	if r.Len() != 2 {
		t.Fatalf("expected lazily created edges, got %d", r.Len())
	}
}

func TestChangeDirectedOnlyTouchesOneDirection(t *testing.T) {
	r := NewRelationships()
	r.ChangeDirected(1, 2, -30)
	if got := r.Get(1, 2); got != 20 {
		t.Fatalf("expected 1->2 to be 20, got %d", got)
	}
	if got := r.Get(2, 1); got != DefaultRelationship {
		t.Fatalf("expected 2->1 unchanged, got %d", got)
	}
}

func TestEnsureAllIsIdempotent(t *testing.T) {
	r := NewRelationships()
	ids := []int{1, 2, 3}
	r.Set(1, 2, 80)
	if created := r.EnsureAll(ids); created != 4 {
		t.Fatalf("expected 4 new directed edges, got %d", created)
	}
	before := r.All()
	if created := r.EnsureAll(ids); created != 0 {
		t.Fatalf("expected second ensure to create nothing, got %d", created)
	}
	after := r.All()
	if len(before) != len(after) {
		t.Fatalf("edge count changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("edge changed: %+v -> %+v", before[i], after[i])
		}
	}
	if r.Get(1, 2) != 80 {
		t.Fatalf("ensure overwrote an existing value")
	}
}

func TestPairKeyIsSorted(t *testing.T) {
	if PairKey(9, 3) != "3_9" || PairKey(3, 9) != "3_9" {
		t.Fatalf("unexpected pair keys %q %q", PairKey(9, 3), PairKey(3, 9))
	}
}

func TestRestoreReplacesEdges(t *testing.T) {
	r := NewRelationships()
	r.Set(1, 2, 10)
	r.Restore([]Edge{{From: 3, To: 4, Value: 140}})
	if r.Len() != 1 {
		t.Fatalf("expected restore to replace edges, got %d", r.Len())
	}
	if got := r.Get(3, 4); got != 100 {
		t.Fatalf("expected restored value to clamp to 100, got %d", got)
	}
}

func TestMemoryAppendsWithoutDedup(t *testing.T) {
	m := NewMemory()
	m.InitNPC(5)
	m.InitNPC(5)
	if len(m.Entries(5)) != 0 {
		t.Fatalf("expected empty bucket after init")
	}
	entry := MemoryEntry{Day: 1, Intent: "bonding", Response: "Share a story"}
	m.Remember(5, entry)
	m.Remember(5, entry)
	if got := len(m.Entries(5)); got != 2 {
		t.Fatalf("expected 2 entries, got %d", got)
	}
	last, ok := m.Last(5)
	if !ok || last != entry {
		t.Fatalf("unexpected last entry %+v", last)
	}
}

func TestMoodDefaultsToNeutral(t *testing.T) {
	m := NewMoods()
	if m.Get(1) != MoodNeutral {
		t.Fatalf("expected neutral, got %s", m.Get(1))
	}
	m.Set(1, "whatever")
	if m.Get(1) != "whatever" {
		t.Fatalf("expected arbitrary label to be stored, got %s", m.Get(1))
	}
	m.Reset()
	if m.Get(1) != MoodNeutral {
		t.Fatalf("expected neutral after reset, got %s", m.Get(1))
	}
}
