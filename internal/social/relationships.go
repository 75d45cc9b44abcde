// Package social holds the per-survivor social state: how survivors feel about
// each other, what they remember, and their current mood.
package social

import (
	"fmt"
	"sort"
)

const (
	MinRelationship     = 0
	MaxRelationship     = 100
	DefaultRelationship = 50
)

// Edge is one direction of a relationship: how From feels about To.
type Edge struct {
	From  int `json:"from"`
	To    int `json:"to"`
	Value int `json:"value"`
}

type edgeKey struct {
	from int
	to   int
}

// Relationships stores one value per ordered pair of survivors. Change applies a
// delta to both directions, ChangeDirected to one. Missing edges read as
// DefaultRelationship and are created on first access.
type Relationships struct {
	edges map[edgeKey]int
}

func NewRelationships() *Relationships {
	return &Relationships{edges: make(map[edgeKey]int)}
}

// Get returns how a feels about b.
func (r *Relationships) Get(a, b int) int {
	if a == b {
		return MaxRelationship
	}
	k := edgeKey{a, b}
	v, ok := r.edges[k]
	if !ok {
		r.edges[k] = DefaultRelationship
		return DefaultRelationship
	}
	return v
}

// Pair returns both directions of the a/b relationship.
func (r *Relationships) Pair(a, b int) (ab, ba int) {
	return r.Get(a, b), r.Get(b, a)
}

// PairKey is the sorted "min_max" key used when a single label for the pair is needed.
func PairKey(a, b int) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d_%d", a, b)
}

// Set overwrites both directions.
func (r *Relationships) Set(a, b, value int) {
	if a == b {
		return
	}
	value = clamp(value)
	r.edges[edgeKey{a, b}] = value
	r.edges[edgeKey{b, a}] = value
}

// Change applies delta to both directions and returns a's resulting view of b.
func (r *Relationships) Change(a, b, delta int) int {
	if a == b {
		return MaxRelationship
	}
	r.ChangeDirected(b, a, delta)
	return r.ChangeDirected(a, b, delta)
}

// ChangeDirected adjusts only how from feels about to.
func (r *Relationships) ChangeDirected(from, to, delta int) int {
	if from == to {
		return MaxRelationship
	}
	v := clamp(r.Get(from, to) + delta)
	r.edges[edgeKey{from, to}] = v
	return v
}

// EnsureAll creates default edges for every pair in ids that does not have one.
// Existing values are never overwritten.
func (r *Relationships) EnsureAll(ids []int) int {
	created := 0
	for _, a := range ids {
		for _, b := range ids {
			if a == b {
				continue
			}
			k := edgeKey{a, b}
			if _, ok := r.edges[k]; !ok {
				r.edges[k] = DefaultRelationship
				created++
			}
		}
	}
	return created
}

func (r *Relationships) Len() int {
	return len(r.edges)
}

// All returns every stored edge sorted by (From, To).
func (r *Relationships) All() []Edge {
	out := make([]Edge, 0, len(r.edges))
	for k, v := range r.edges {
		out = append(out, Edge{From: k.from, To: k.to, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From == out[j].From {
			return out[i].To < out[j].To
		}
		return out[i].From < out[j].From
	})
	return out
}

// Restore replaces the store contents with edges, clamping each value.
func (r *Relationships) Restore(edges []Edge) {
	r.edges = make(map[edgeKey]int, len(edges))
	for _, e := range edges {
		if e.From == e.To {
			continue
		}
		r.edges[edgeKey{e.From, e.To}] = clamp(e.Value)
	}
}

func (r *Relationships) Reset() {
	r.edges = make(map[edgeKey]int)
}

func clamp(v int) int {
	if v < MinRelationship {
		return MinRelationship
	}
	if v > MaxRelationship {
		return MaxRelationship
	}
	return v
}
