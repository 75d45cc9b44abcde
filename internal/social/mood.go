package social

// Mood is an NPC's current emotional label. Any string is accepted; these are the
// labels the conversation system produces and reacts to.
type Mood string

const (
	MoodHappy      Mood = "happy"
	MoodCalm       Mood = "calm"
	MoodNeutral    Mood = "neutral"
	MoodSuspicious Mood = "suspicious"
	MoodIrritated  Mood = "irritated"
	MoodAngry      Mood = "angry"
	MoodFun        Mood = "fun"
	MoodFocused    Mood = "focused"
	MoodParanoid   Mood = "paranoid"
	MoodWorried    Mood = "worried"
	MoodGrateful   Mood = "grateful"
)

// Moods keeps only the latest mood per survivor.
type Moods struct {
	current map[int]Mood
}

func NewMoods() *Moods {
	return &Moods{current: make(map[int]Mood)}
}

func (m *Moods) Get(id int) Mood {
	if mood, ok := m.current[id]; ok && mood != "" {
		return mood
	}
	return MoodNeutral
}

func (m *Moods) Set(id int, mood Mood) {
	m.current[id] = mood
}

// IsHostile reports moods that can force a confrontation at low relationship.
func (m Mood) IsHostile() bool {
	switch m {
	case MoodAngry, MoodIrritated, MoodSuspicious:
		return true
	default:
		return false
	}
}

func (m *Moods) Snapshot() map[int]Mood {
	out := make(map[int]Mood, len(m.current))
	for id, mood := range m.current {
		out[id] = mood
	}
	return out
}

func (m *Moods) Restore(data map[int]Mood) {
	m.current = make(map[int]Mood, len(data))
	for id, mood := range data {
		m.current[id] = mood
	}
}

func (m *Moods) Reset() {
	m.current = make(map[int]Mood)
}
