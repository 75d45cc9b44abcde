package game

import (
	"math/rand/v2"
	"sort"

	"github.com/appengine-ltd/castaway/internal/events"
)

const (
	mergedTribeName  = "Solana"
	mergedTribeColor = "#8e44ad"
)

// castRoster copies the cast into a fresh roster, marking playerID as the player.
func castRoster(cast Cast, playerID int) *Roster {
	r := NewRoster()
	for _, tmpl := range cast.Survivors {
		s := tmpl
		s.Traits = append([]Trait(nil), tmpl.Traits...)
		s.resetDynamic()
		s.IsPlayer = s.ID == playerID
		r.Add(&s)
	}
	return r
}

// divideTribes deals a shuffled cast into count tribes, round robin.
func divideTribes(r *Roster, templates []TribeTemplate, count int, rng *rand.Rand) []*Tribe {
	if count > len(templates) {
		count = len(templates)
	}
	if count < 1 {
		count = 1
	}
	tribes := make([]*Tribe, count)
	for i := range tribes {
		tribes[i] = &Tribe{
			ID:        i + 1,
			Name:      templates[i].Name,
			Color:     templates[i].Color,
			Resources: startingResources(),
		}
	}
	ids := shuffled(rng, r.ActiveIDs())
	for i, id := range ids {
		t := tribes[i%count]
		t.MemberIDs = append(t.MemberIDs, id)
		if s, ok := r.Get(id); ok {
			s.TribeID = t.ID
		}
	}
	for _, t := range tribes {
		sort.Ints(t.MemberIDs)
		t.recomputeStats(r)
	}
	r.setTribes(tribes)
	return tribes
}

func (s *Session) shouldMerge() bool {
	if s.merged {
		return false
	}
	return len(s.roster.Tribes()) > 1 && len(s.roster.Active()) <= s.cfg.MergeAt
}

// mergeTribes folds every tribe into one. Supplies are averaged and the
// win/loss record restarts.
func (s *Session) mergeTribes() {
	tribes := s.roster.Tribes()
	merged := &Tribe{ID: len(tribes) + 1, Name: mergedTribeName, Color: mergedTribeColor, Merged: true}

	var res Resources
	for _, t := range tribes {
		res.Water += t.Resources.Water
		res.Fire += t.Resources.Fire
		res.Shelter += t.Resources.Shelter
		res.Food += t.Resources.Food
	}
	if n := len(tribes); n > 0 {
		merged.Resources = Resources{
			Water:   res.Water / n,
			Fire:    res.Fire / n,
			Shelter: res.Shelter / n,
			Food:    res.Food / n,
		}
	}
	for _, sv := range s.roster.Active() {
		sv.TribeID = merged.ID
		merged.MemberIDs = append(merged.MemberIDs, sv.ID)
	}
	sort.Ints(merged.MemberIDs)
	merged.recomputeStats(s.roster)
	s.roster.setTribes([]*Tribe{merged})
	s.merged = true
	s.rel.EnsureAll(merged.MemberIDs)

	s.log.Info("tribes merged", "day", s.phases.Day(), "tribe", merged.Name, "members", len(merged.MemberIDs))
	s.bus.Publish(events.TribesMergedEvent{
		Day:     s.phases.Day(),
		TribeID: merged.ID,
		Name:    merged.Name,
		Members: append([]int(nil), merged.MemberIDs...),
	})
}

// eliminate votes id out. After the merge the eliminee sits on the jury.
func (s *Session) eliminate(id int) {
	sv, ok := s.roster.Get(id)
	if !ok || !sv.Active() {
		return
	}
	day := s.phases.Day()
	sv.Status = SurvivorEliminated
	sv.EliminatedDay = day
	sv.OnJury = s.merged
	if t, ok := s.roster.Tribe(sv.TribeID); ok {
		t.removeMember(id)
		t.recomputeStats(s.roster)
	}
	s.locations.ResolveConfrontation(id)

	s.log.Info("survivor eliminated", "day", day, "survivor", sv.Name(), "jury", sv.OnJury)
	s.bus.Publish(events.SurvivorEliminatedEvent{
		Day:        day,
		SurvivorID: id,
		Name:       sv.Name(),
		Jury:       sv.OnJury,
	})
}

// Names maps every survivor and every tribe the season has used, including
// tribes dissolved by the merge, to a display name.
func (s *Session) Names() (survivors map[int]string, tribes map[int]string) {
	survivors = make(map[int]string)
	for _, sv := range s.roster.All() {
		survivors[sv.ID] = sv.Name()
	}
	tribes = make(map[int]string)
	for i, tpl := range s.cast.Tribes {
		if i >= s.cfg.TribeCount {
			break
		}
		tribes[i+1] = tpl.Name
	}
	for _, t := range s.roster.Tribes() {
		tribes[t.ID] = t.Name
	}
	return survivors, tribes
}
