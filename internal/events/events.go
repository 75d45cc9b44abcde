// Package events is the in-process publish/subscribe mediator the simulation
// systems use to talk to each other and to the presentation layer.
package events

// Type names an event kind. Values are stable strings so they can be logged and
// persisted in recaps.
type Type string

const (
	PhaseChanged       Type = "game:phaseChanged"
	TreeMail           Type = "game:treeMail"
	DayTimerExpired    Type = "game:dayTimerExpired"
	StateChanged       Type = "game:stateChanged"
	GameOver           Type = "game:over"
	CampViewLoaded     Type = "camp:viewLoaded"
	LocationsAssigned  Type = "npc:locationsAssigned"
	Confrontation      Type = "npc:confrontation"
	ConversationOpened Type = "conversation:started"
	ConversationClosed Type = "conversation:resolved"
	MeetingScheduled   Type = "conversation:meetingScheduled"
	MeetingMissed      Type = "conversation:meetingMissed"
	ChallengeResolved  Type = "tribe:challengeResolved"
	TribesMerged       Type = "tribe:merged"
	CouncilVote        Type = "tribe:councilVote"
	SurvivorEliminated Type = "survivor:eliminated"
)

// Event is implemented by every payload type below.
type Event interface {
	EventType() Type
}

type PhaseChangedEvent struct {
	Day  int
	From string
	To   string
}

type TreeMailEvent struct {
	Day     int
	Message string
}

type DayTimerExpiredEvent struct {
	Day   int
	Phase string
}

type StateChangedEvent struct {
	Reason string
}

type CampViewLoadedEvent struct {
	Day   int
	Phase string
}

// LocationsAssignedEvent carries the full survivor id -> camp location map for
// the phase. It replaces any earlier map.
type LocationsAssignedEvent struct {
	Day       int
	Phase     string
	Locations map[int]string
}

type ConfrontationEvent struct {
	Day       int
	A         int
	B         int
	Location  string
	Intensity int
}

type ConversationOpenedEvent struct {
	NPCID      int
	Location   string
	Intent     string
	Purposeful bool
}

type ConversationClosedEvent struct {
	NPCID    int
	Intent   string
	Response string
	Delta    int
	Mood     string
}

type MeetingScheduledEvent struct {
	Day      int
	Phase    string
	NPCID    int
	Location string
	Kind     string
}

type MeetingMissedEvent struct {
	Day      int
	Phase    string
	NPCID    int
	Location string
	Kind     string
	Penalty  int
}

type ChallengeResolvedEvent struct {
	Day          int
	Individual   bool
	WinnerTribes []int
	LoserTribe   int
	ImmuneID     int
	Scores       map[int]int
}

type TribesMergedEvent struct {
	Day     int
	TribeID int
	Name    string
	Members []int
}

type CouncilVoteEvent struct {
	Day          int
	Votes        map[int]int
	EliminatedID int
	Final        bool
}

type SurvivorEliminatedEvent struct {
	Day        int
	SurvivorID int
	Name       string
	Jury       bool
}

type GameOverEvent struct {
	Day       int
	WinnerID  int
	PlayerWon bool
	Reason    string
}

func (PhaseChangedEvent) EventType() Type       { return PhaseChanged }
func (TreeMailEvent) EventType() Type           { return TreeMail }
func (DayTimerExpiredEvent) EventType() Type    { return DayTimerExpired }
func (StateChangedEvent) EventType() Type       { return StateChanged }
func (CampViewLoadedEvent) EventType() Type     { return CampViewLoaded }
func (LocationsAssignedEvent) EventType() Type  { return LocationsAssigned }
func (ConfrontationEvent) EventType() Type      { return Confrontation }
func (ConversationOpenedEvent) EventType() Type { return ConversationOpened }
func (ConversationClosedEvent) EventType() Type { return ConversationClosed }
func (MeetingScheduledEvent) EventType() Type   { return MeetingScheduled }
func (MeetingMissedEvent) EventType() Type      { return MeetingMissed }
func (ChallengeResolvedEvent) EventType() Type  { return ChallengeResolved }
func (TribesMergedEvent) EventType() Type       { return TribesMerged }
func (CouncilVoteEvent) EventType() Type        { return CouncilVote }
func (SurvivorEliminatedEvent) EventType() Type { return SurvivorEliminated }
func (GameOverEvent) EventType() Type           { return GameOver }
