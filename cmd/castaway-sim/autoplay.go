package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/appengine-ltd/castaway/internal/game"
)

type result struct {
	Days     int
	Meetings int
	Votes    int
	Outcome  game.Outcome
}

// autoplay answers every meeting with its warmest option, tops up the lowest
// supply once per camp phase, votes out the least-liked candidate and saves
// at the end of each day.
func autoplay(ctx context.Context, s *game.Session, maxDays int) (result, error) {
	var res result
	lastSaved := 0
	for !s.Over() && s.Day() <= maxDays {
		if s.Phase().IsCamp() {
			n, err := answerMeetings(s)
			if err != nil {
				return res, err
			}
			res.Meetings += n
			if err := gatherLowest(s); err != nil {
				return res, err
			}
		}
		if s.PlayerAtCouncil() {
			if err := vote(s); err != nil {
				return res, err
			}
			res.Votes++
		}
		if s.Phase() == game.PhaseTribalCouncil && lastSaved < s.Day() {
			if err := s.Save(ctx, fmt.Sprintf("day-%d", s.Day())); err != nil {
				return res, err
			}
			lastSaved = s.Day()
		}
		if _, err := s.AdvancePhase(); err != nil {
			if errors.Is(err, game.ErrGameOver) {
				break
			}
			return res, err
		}
	}
	res.Days = s.Day()
	res.Outcome = s.Outcome()
	return res, nil
}

func answerMeetings(s *game.Session) (int, error) {
	answered := 0
	for _, pm := range s.PendingMeetings() {
		d, met, err := s.MovePlayer(string(pm.Location))
		if err != nil {
			return answered, err
		}
		if !met {
			continue
		}
		if _, err := s.Respond(warmest(d.Options)); err != nil {
			return answered, err
		}
		if err := s.EndConversation(); err != nil {
			return answered, err
		}
		answered++
	}
	return answered, nil
}

func warmest(options []game.ResponseOption) int {
	best := 0
	for i, opt := range options {
		if opt.Delta > options[best].Delta {
			best = i
		}
	}
	return best
}

func gatherLowest(s *game.Session) error {
	tribe, ok := s.PlayerTribe()
	if !ok {
		return nil
	}
	player, ok := s.Player()
	if !ok {
		return nil
	}
	kind, low := game.ResourceWater, tribe.Resources.Water
	for k, v := range map[game.ResourceKind]int{
		game.ResourceFire:    tribe.Resources.Fire,
		game.ResourceShelter: tribe.Resources.Shelter,
		game.ResourceFood:    tribe.Resources.Food,
	} {
		if v < low || (v == low && k < kind) {
			kind, low = k, v
		}
	}
	_, err := s.GatherResource(kind, (player.Physical+player.Mental)/2)
	return err
}

func vote(s *game.Session) error {
	c, ok := s.Council()
	if !ok {
		return nil
	}
	player, _ := s.Player()
	target, low := 0, 101
	for _, id := range c.Candidates {
		if id == player.ID {
			continue
		}
		if v := s.Relationships().Get(player.ID, id); v < low {
			target, low = id, v
		}
	}
	if target == 0 {
		return nil
	}
	_, err := s.CastPlayerVote(target)
	return err
}
