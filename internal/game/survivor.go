package game

import "strings"

type SurvivorStatus string

const (
	SurvivorActive     SurvivorStatus = "active"
	SurvivorEliminated SurvivorStatus = "eliminated"
)

// GameplayStyle is the social archetype that biases which conversations an NPC
// starts.
type GameplayStyle string

const (
	StyleShadowStrategist GameplayStyle = "Shadow Strategist"
	StyleSocialButterfly  GameplayStyle = "Social Butterfly"
	StyleChallengeBeast   GameplayStyle = "Challenge Beast"
	StyleLoyalSoldier     GameplayStyle = "Loyal Soldier"
	StyleWildcard         GameplayStyle = "Wildcard"
	StyleProvider         GameplayStyle = "Provider"
)

type Trait string

const (
	TraitParanoid   Trait = "paranoid"
	TraitSocial     Trait = "social"
	TraitLoner      Trait = "loner"
	TraitIdolHunter Trait = "idol_hunter"
	TraitLazy       Trait = "lazy"
	TraitHardWorker Trait = "hard_worker"
)

const defaultTeamPlayer = 50

type Survivor struct {
	ID          int    `json:"id" yaml:"id"`
	FirstName   string `json:"first_name" yaml:"first_name"`
	LastName    string `json:"last_name" yaml:"last_name"`
	Nickname    string `json:"nickname,omitempty" yaml:"nickname"`
	Occupation  string `json:"occupation,omitempty" yaml:"occupation"`
	Physical    int    `json:"physical" yaml:"physical"`
	Mental      int    `json:"mental" yaml:"mental"`
	Social      int    `json:"social" yaml:"social"`
	Personality int    `json:"personality" yaml:"personality"`

	Archetype string        `json:"archetype" yaml:"archetype"`
	Style     GameplayStyle `json:"gameplay_style" yaml:"gameplay_style"`
	Traits    []Trait       `json:"traits,omitempty" yaml:"traits"`

	Health     int            `json:"health"`
	Hunger     int            `json:"hunger"`
	Water      int            `json:"water"`
	Rest       int            `json:"rest"`
	Inventory  map[string]int `json:"inventory,omitempty"`
	IsPlayer   bool           `json:"is_player"`
	TeamPlayer int            `json:"team_player" yaml:"team_player"`

	TribeID       int            `json:"tribe_id"`
	Status        SurvivorStatus `json:"status"`
	OnJury        bool           `json:"on_jury"`
	EliminatedDay int            `json:"eliminated_day,omitempty"`
}

func (s *Survivor) Name() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

func (s *Survivor) Active() bool {
	return s.Status == SurvivorActive
}

// resetDynamic puts a cast member into the state they start a season in.
func (s *Survivor) resetDynamic() {
	s.Health = 100
	s.Hunger = 100
	s.Water = 100
	s.Rest = 100
	s.Inventory = map[string]int{}
	if s.TeamPlayer == 0 {
		s.TeamPlayer = defaultTeamPlayer
	}
	s.TribeID = 0
	s.Status = SurvivorActive
	s.OnJury = false
	s.EliminatedDay = 0
	s.IsPlayer = false
}

func clampStat(v int) int {
	return clamp(v, 0, 100)
}

func clamp(number, min, max int) int {
	if number < min {
		return min
	}

	if number > max {
		return max
	}

	return number
}
