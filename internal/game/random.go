package game

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"sort"
)

func seededRNG(seed int64) *rand.Rand {
	// Non-cryptographic PRNG is intentional for deterministic simulation behavior.
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}

// Weighted pairs a candidate with a whole-number weight.
type Weighted[T any] struct {
	Value  T
	Weight int
}

// weightedChoice draws one candidate with probability proportional to its
// weight. Non-positive weights never win. ok is false when no candidate has a
// positive weight.
func weightedChoice[T any](r *rand.Rand, candidates []Weighted[T]) (T, bool) {
	var zero T
	cumulative := make([]int, 0, len(candidates))
	total := 0
	for _, c := range candidates {
		if c.Weight > 0 {
			total += c.Weight
		}
		cumulative = append(cumulative, total)
	}
	if total <= 0 {
		return zero, false
	}
	pick := r.IntN(total)
	idx := sort.Search(len(cumulative), func(i int) bool { return cumulative[i] > pick })
	return candidates[idx].Value, true
}

func shuffled[T any](r *rand.Rand, in []T) []T {
	out := append([]T(nil), in...)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func pickOne[T any](r *rand.Rand, in []T) (T, bool) {
	var zero T
	if len(in) == 0 {
		return zero, false
	}
	return in[r.IntN(len(in))], true
}
