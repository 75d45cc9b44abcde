package game

import "sort"

// RosterProvider is the read-only view of the cast and tribes that the social
// systems consume.
type RosterProvider interface {
	Survivor(id int) (*Survivor, bool)
	PlayerSurvivor() (*Survivor, bool)
	PlayerTribe() (*Tribe, bool)
	Tribes() []*Tribe
	TribeNPCs() []*Survivor
}

// Roster owns every survivor of the season, active or not.
type Roster struct {
	survivors []*Survivor
	byID      map[int]*Survivor
	tribes    []*Tribe
}

func NewRoster() *Roster {
	return &Roster{byID: make(map[int]*Survivor)}
}

func (r *Roster) Add(s *Survivor) {
	if s == nil {
		return
	}
	if _, exists := r.byID[s.ID]; exists {
		return
	}
	r.survivors = append(r.survivors, s)
	r.byID[s.ID] = s
}

func (r *Roster) Get(id int) (*Survivor, bool) {
	s, ok := r.byID[id]
	return s, ok
}

func (r *Roster) Survivor(id int) (*Survivor, bool) {
	return r.Get(id)
}

func (r *Roster) All() []*Survivor {
	return append([]*Survivor(nil), r.survivors...)
}

func (r *Roster) Active() []*Survivor {
	out := make([]*Survivor, 0, len(r.survivors))
	for _, s := range r.survivors {
		if s.Active() {
			out = append(out, s)
		}
	}
	return out
}

func (r *Roster) ActiveIDs() []int {
	active := r.Active()
	ids := make([]int, 0, len(active))
	for _, s := range active {
		ids = append(ids, s.ID)
	}
	return ids
}

func (r *Roster) Jury() []*Survivor {
	var out []*Survivor
	for _, s := range r.survivors {
		if s.OnJury {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EliminatedDay < out[j].EliminatedDay })
	return out
}

func (r *Roster) PlayerSurvivor() (*Survivor, bool) {
	for _, s := range r.survivors {
		if s.IsPlayer {
			return s, true
		}
	}
	return nil, false
}

func (r *Roster) Tribes() []*Tribe {
	return append([]*Tribe(nil), r.tribes...)
}

func (r *Roster) Tribe(id int) (*Tribe, bool) {
	for _, t := range r.tribes {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

func (r *Roster) PlayerTribe() (*Tribe, bool) {
	p, ok := r.PlayerSurvivor()
	if !ok || !p.Active() {
		return nil, false
	}
	return r.Tribe(p.TribeID)
}

// Members resolves a tribe's member ids, skipping ids no longer in the roster.
func (r *Roster) Members(t *Tribe) []*Survivor {
	if t == nil {
		return nil
	}
	out := make([]*Survivor, 0, len(t.MemberIDs))
	for _, id := range t.MemberIDs {
		if s, ok := r.byID[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// TribeNPCs returns the non-player members of the player's tribe.
func (r *Roster) TribeNPCs() []*Survivor {
	t, ok := r.PlayerTribe()
	if !ok {
		return nil
	}
	var out []*Survivor
	for _, s := range r.Members(t) {
		if !s.IsPlayer && s.Active() {
			out = append(out, s)
		}
	}
	return out
}

func (r *Roster) setTribes(tribes []*Tribe) {
	r.tribes = tribes
}
