package game

import "github.com/appengine-ltd/castaway/internal/events"

// advanceDay runs the overnight drain on every tribe and survivor.
func (s *Session) advanceDay() {
	for _, t := range s.roster.Tribes() {
		t.decayResources()
		for _, sv := range s.roster.Members(t) {
			applyDailyDecay(sv, t.Resources)
		}
		t.recomputeStats(s.roster)
	}
	s.challenge = nil
	s.council = nil
	s.log.Debug("day advanced", "day", s.phases.Day())
}

// applyDailyDecay drains a survivor's needs, eased by what camp has in stock.
// Going without food or water costs health.
func applyDailyDecay(sv *Survivor, res Resources) {
	sv.Hunger -= 12 - res.Food/10
	sv.Water -= 15 - res.Water/10
	sv.Rest -= 10 - res.Shelter/10
	if sv.Hunger <= 0 || sv.Water <= 0 {
		sv.Health -= 10
	} else {
		sv.Health += 2
	}
	clampSurvivor(sv)
}

func clampSurvivor(sv *Survivor) {
	sv.Health = clampStat(sv.Health)
	sv.Hunger = clampStat(sv.Hunger)
	sv.Water = clampStat(sv.Water)
	sv.Rest = clampStat(sv.Rest)
}

type OutcomeStatus string

const (
	OutcomeOngoing OutcomeStatus = "ongoing"
	OutcomeWon     OutcomeStatus = "won"
	OutcomeLost    OutcomeStatus = "lost"
)

type Outcome struct {
	Status   OutcomeStatus `json:"status"`
	Day      int           `json:"day,omitempty"`
	WinnerID int           `json:"winner_id,omitempty"`
	Message  string        `json:"message,omitempty"`
}

func (s *Session) Outcome() Outcome {
	if !s.over {
		return Outcome{Status: OutcomeOngoing}
	}
	return s.outcome
}

func (s *Session) Over() bool { return s.over }

func (s *Session) finish(outcome Outcome) {
	if s.over {
		return
	}
	s.over = true
	s.outcome = outcome
	s.conv.Reset()
	s.sched.CancelAll()

	s.log.Info("game over", "status", outcome.Status, "winner", outcome.WinnerID, "day", outcome.Day)
	s.bus.Publish(events.GameOverEvent{
		Day:       outcome.Day,
		WinnerID:  outcome.WinnerID,
		PlayerWon: outcome.Status == OutcomeWon,
		Reason:    outcome.Message,
	})
}
