package game

import (
	"fmt"
	"sort"

	"github.com/appengine-ltd/castaway/internal/events"
)

// Council is one tribal council: who attends, who can be voted for, and the
// votes cast so far (voter id -> target id).
type Council struct {
	Day          int         `json:"day"`
	TribeID      int         `json:"tribe_id"`
	Attendees    []int       `json:"attendees"`
	Candidates   []int       `json:"candidates"`
	Votes        map[int]int `json:"votes"`
	Resolved     bool        `json:"resolved"`
	EliminatedID int         `json:"eliminated_id,omitempty"`
}

func (c *Council) Attends(id int) bool  { return containsID(c.Attendees, id) }
func (c *Council) Eligible(id int) bool { return containsID(c.Candidates, id) }

func containsID(ids []int, id int) bool {
	for _, have := range ids {
		if have == id {
			return true
		}
	}
	return false
}

// openCouncil seats the losing tribe, or the whole merged tribe, with the
// immunity holder removed from the candidate list.
func (s *Session) openCouncil() *Council {
	if s.council != nil {
		return s.council
	}
	result := s.resolveChallenge()

	var tribe *Tribe
	if s.merged {
		if tribes := s.roster.Tribes(); len(tribes) > 0 {
			tribe = tribes[0]
		}
	} else if t, ok := s.roster.Tribe(result.LoserTribe); ok {
		tribe = t
	}
	c := &Council{Day: s.phases.Day(), Votes: make(map[int]int)}
	if tribe == nil {
		s.log.Warn("no tribe to send to tribal council", "day", c.Day)
		c.Resolved = true
		s.council = c
		return c
	}
	c.TribeID = tribe.ID
	for _, sv := range s.roster.Members(tribe) {
		if !sv.Active() {
			continue
		}
		c.Attendees = append(c.Attendees, sv.ID)
		if sv.ID != result.ImmuneID {
			c.Candidates = append(c.Candidates, sv.ID)
		}
	}
	if len(c.Candidates) < 1 || len(c.Attendees) < 2 {
		c.Resolved = true
	}
	s.council = c
	s.log.Info("tribal council", "day", c.Day, "tribe", tribe.Name, "attendees", len(c.Attendees))
	return c
}

// Council returns the current tribal council, if one has been called today.
func (s *Session) Council() (Council, bool) {
	if s.council == nil {
		return Council{}, false
	}
	c := *s.council
	c.Attendees = append([]int(nil), s.council.Attendees...)
	c.Candidates = append([]int(nil), s.council.Candidates...)
	c.Votes = copyScores(s.council.Votes)
	return c, true
}

// CastPlayerVote records the player's vote and reads the votes.
func (s *Session) CastPlayerVote(targetID int) (Council, error) {
	if s.over {
		return Council{}, ErrGameOver
	}
	if s.phases.Phase() != PhaseTribalCouncil || s.council == nil || s.council.Resolved {
		return Council{}, ErrNoCouncil
	}
	player, ok := s.roster.PlayerSurvivor()
	if !ok || !s.council.Attends(player.ID) {
		return Council{}, ErrNoCouncil
	}
	if targetID == player.ID || !s.council.Eligible(targetID) {
		return Council{}, fmt.Errorf("%w: %d", ErrInvalidVote, targetID)
	}
	s.council.Votes[player.ID] = targetID
	s.resolveCouncil()
	c, _ := s.Council()
	return c, nil
}

// PlayerAtCouncil reports whether the player has a vote to cast tonight.
func (s *Session) PlayerAtCouncil() bool {
	if s.phases.Phase() != PhaseTribalCouncil || s.council == nil || s.council.Resolved {
		return false
	}
	player, ok := s.roster.PlayerSurvivor()
	return ok && s.council.Attends(player.ID)
}

// leastLiked picks voter's vote among candidates: the lowest voter->candidate
// relationship, ties drawn at random.
func (s *Session) leastLiked(voter int, candidates []int) (int, bool) {
	var pool []int
	low := 0
	for _, id := range candidates {
		if id == voter {
			continue
		}
		v := s.rel.Get(voter, id)
		switch {
		case len(pool) == 0 || v < low:
			low = v
			pool = []int{id}
		case v == low:
			pool = append(pool, id)
		}
	}
	return pickOne(s.rng, pool)
}

func (s *Session) mostLiked(voter int, candidates []int) (int, bool) {
	var pool []int
	high := 0
	for _, id := range candidates {
		if id == voter {
			continue
		}
		v := s.rel.Get(voter, id)
		switch {
		case len(pool) == 0 || v > high:
			high = v
			pool = []int{id}
		case v == high:
			pool = append(pool, id)
		}
	}
	return pickOne(s.rng, pool)
}

// tally returns the target with the most votes, ties drawn at random.
func (s *Session) tally(votes map[int]int) (int, bool) {
	counts := make(map[int]int)
	for _, target := range votes {
		counts[target]++
	}
	targets := make([]int, 0, len(counts))
	for id := range counts {
		targets = append(targets, id)
	}
	sort.Ints(targets)
	var top []int
	most := 0
	for _, id := range targets {
		switch {
		case counts[id] > most:
			most = counts[id]
			top = []int{id}
		case counts[id] == most:
			top = append(top, id)
		}
	}
	return pickOne(s.rng, top)
}

// resolveCouncil fills in every missing vote and sends someone home.
func (s *Session) resolveCouncil() {
	c := s.council
	if c == nil || c.Resolved {
		return
	}
	_, span := s.startSpan("game.tribal_council")
	defer span.End()

	for _, voter := range c.Attendees {
		if _, voted := c.Votes[voter]; voted {
			continue
		}
		if target, ok := s.leastLiked(voter, c.Candidates); ok {
			c.Votes[voter] = target
		}
	}
	out, ok := s.tally(c.Votes)
	c.Resolved = true
	if !ok {
		s.log.Warn("tribal council ended without votes", "day", c.Day)
		return
	}
	c.EliminatedID = out

	s.log.Info("votes read", "day", c.Day, "eliminated", out, "votes", len(c.Votes))
	s.bus.Publish(events.CouncilVoteEvent{
		Day:          c.Day,
		Votes:        copyScores(c.Votes),
		EliminatedID: out,
	})
	s.eliminate(out)
	s.afterElimination(out)
}

func (s *Session) afterElimination(id int) {
	if sv, ok := s.roster.Get(id); ok && sv.IsPlayer {
		s.finish(Outcome{Status: OutcomeLost, Day: s.phases.Day(), Message: "Your torch has been snuffed."})
		return
	}
	if s.shouldMerge() {
		s.mergeTribes()
	}
	if len(s.roster.Active()) <= s.cfg.FinalSize {
		s.finalVote()
	}
}

// finalVote has every juror vote for the finalist they like most.
func (s *Session) finalVote() {
	finalists := s.roster.ActiveIDs()
	jury := s.roster.Jury()
	votes := make(map[int]int, len(jury))
	for _, juror := range jury {
		if target, ok := s.mostLiked(juror.ID, finalists); ok {
			votes[juror.ID] = target
		}
	}
	winner, ok := s.tally(votes)
	if !ok {
		winner, _ = pickOne(s.rng, finalists)
	}
	day := s.phases.Day()
	s.log.Info("final votes read", "day", day, "winner", winner, "jurors", len(jury))
	s.bus.Publish(events.CouncilVoteEvent{Day: day, Votes: votes, EliminatedID: 0, Final: true})

	player, _ := s.roster.PlayerSurvivor()
	outcome := Outcome{Status: OutcomeLost, Day: day, WinnerID: winner, Message: "The jury chose someone else."}
	if player != nil && player.ID == winner {
		outcome.Status = OutcomeWon
		outcome.Message = "The jury named you Sole Survivor."
	}
	s.finish(outcome)
}
