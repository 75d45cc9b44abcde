package game

type Resources struct {
	Water   int `json:"water"`
	Fire    int `json:"fire"`
	Shelter int `json:"shelter"`
	Food    int `json:"food"`
}

type TribeStats struct {
	Physical int `json:"physical"`
	Mental   int `json:"mental"`
	Social   int `json:"social"`
	Teamwork int `json:"teamwork"`
	Morale   int `json:"morale"`
}

// Tribe references its members by survivor id; the survivors themselves live in
// the roster.
type Tribe struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Color     string     `json:"color"`
	MemberIDs []int      `json:"member_ids"`
	Resources Resources  `json:"resources"`
	Stats     TribeStats `json:"stats"`
	Wins      int        `json:"wins"`
	Losses    int        `json:"losses"`
	Merged    bool       `json:"merged"`
}

func (t *Tribe) HasMember(id int) bool {
	for _, m := range t.MemberIDs {
		if m == id {
			return true
		}
	}
	return false
}

func (t *Tribe) removeMember(id int) bool {
	for i, m := range t.MemberIDs {
		if m == id {
			t.MemberIDs = append(t.MemberIDs[:i:i], t.MemberIDs[i+1:]...)
			return true
		}
	}
	return false
}

// recomputeStats refreshes the attribute averages from the current members.
func (t *Tribe) recomputeStats(r *Roster) {
	var stats TribeStats
	n := 0
	for _, id := range t.MemberIDs {
		s, ok := r.Get(id)
		if !ok {
			continue
		}
		stats.Physical += s.Physical
		stats.Mental += s.Mental
		stats.Social += s.Social
		stats.Teamwork += s.TeamPlayer
		n++
	}
	if n > 0 {
		stats.Physical /= n
		stats.Mental /= n
		stats.Social /= n
		stats.Teamwork /= n
	}
	res := t.Resources
	stats.Morale = clampStat((res.Water + res.Fire + res.Shelter + res.Food) / 4)
	t.Stats = stats
}

// decayResources is the once-a-day drain on camp supplies.
func (t *Tribe) decayResources() {
	t.Resources.Water = clampStat(t.Resources.Water - 10)
	t.Resources.Fire = clampStat(t.Resources.Fire - 15)
	t.Resources.Shelter = clampStat(t.Resources.Shelter - 5)
	t.Resources.Food = clampStat(t.Resources.Food - 10)
}

func startingResources() Resources {
	return Resources{Water: 60, Fire: 40, Shelter: 30, Food: 50}
}
