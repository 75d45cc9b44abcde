package game

import (
	"sort"

	"github.com/appengine-ltd/castaway/internal/events"
)

// ChallengeResult is the outcome of the day's challenge. Before the merge it is
// a tribe contest with one losing tribe; afterwards one survivor wins immunity.
type ChallengeResult struct {
	Day          int         `json:"day"`
	Individual   bool        `json:"individual"`
	Scores       map[int]int `json:"scores"`
	WinnerTribes []int       `json:"winner_tribes,omitempty"`
	LoserTribe   int         `json:"loser_tribe,omitempty"`
	ImmuneID     int         `json:"immune_id,omitempty"`
}

const (
	tribeChallengeSwing      = 11
	individualChallengeSwing = 21
)

func tribeChallengeScore(t *Tribe, roll int) int {
	return (t.Stats.Physical+t.Stats.Mental)/2 + t.Stats.Teamwork + t.Stats.Morale/10 + roll
}

func individualChallengeScore(s *Survivor, roll int) int {
	return (s.Physical+s.Mental)/2 + roll
}

// resolveChallenge scores today's challenge. It runs once per day.
func (s *Session) resolveChallenge() *ChallengeResult {
	if s.challenge != nil {
		return s.challenge
	}
	_, span := s.startSpan("game.resolve_challenge")
	defer span.End()

	day := s.phases.Day()
	result := &ChallengeResult{Day: day, Scores: make(map[int]int)}
	if s.merged {
		result.Individual = true
		var best []int
		top := -1
		for _, sv := range s.roster.Active() {
			score := individualChallengeScore(sv, s.rng.IntN(individualChallengeSwing))
			result.Scores[sv.ID] = score
			switch {
			case score > top:
				top = score
				best = []int{sv.ID}
			case score == top:
				best = append(best, sv.ID)
			}
		}
		result.ImmuneID, _ = pickOne(s.rng, best)
	} else {
		var worst []int
		low := 0
		for _, t := range s.roster.Tribes() {
			if len(t.MemberIDs) == 0 {
				continue
			}
			t.recomputeStats(s.roster)
			score := tribeChallengeScore(t, s.rng.IntN(tribeChallengeSwing))
			result.Scores[t.ID] = score
			switch {
			case len(worst) == 0 || score < low:
				low = score
				worst = []int{t.ID}
			case score == low:
				worst = append(worst, t.ID)
			}
		}
		result.LoserTribe, _ = pickOne(s.rng, worst)
		for _, t := range s.roster.Tribes() {
			if len(t.MemberIDs) == 0 {
				continue
			}
			if t.ID == result.LoserTribe {
				t.Losses++
				continue
			}
			t.Wins++
			result.WinnerTribes = append(result.WinnerTribes, t.ID)
		}
		sort.Ints(result.WinnerTribes)
	}
	s.challenge = result

	s.log.Info("challenge resolved",
		"day", day,
		"individual", result.Individual,
		"loser_tribe", result.LoserTribe,
		"immune", result.ImmuneID,
	)
	s.bus.Publish(events.ChallengeResolvedEvent{
		Day:          day,
		Individual:   result.Individual,
		WinnerTribes: append([]int(nil), result.WinnerTribes...),
		LoserTribe:   result.LoserTribe,
		ImmuneID:     result.ImmuneID,
		Scores:       copyScores(result.Scores),
	})
	return result
}

func copyScores(in map[int]int) map[int]int {
	out := make(map[int]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
