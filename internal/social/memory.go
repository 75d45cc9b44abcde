package social

// MemoryEntry is one remembered social event.
type MemoryEntry struct {
	Day         int    `json:"day"`
	Intent      string `json:"intent"`
	Response    string `json:"response"`
	MeetingType string `json:"meeting_type,omitempty"`
}

// Memory is an append-only log per survivor. No dedup and no cap; it lives for
// one game session.
type Memory struct {
	entries map[int][]MemoryEntry
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[int][]MemoryEntry)}
}

func (m *Memory) InitNPC(id int) {
	if _, ok := m.entries[id]; !ok {
		m.entries[id] = []MemoryEntry{}
	}
}

func (m *Memory) Remember(id int, entry MemoryEntry) {
	m.entries[id] = append(m.entries[id], entry)
}

func (m *Memory) Entries(id int) []MemoryEntry {
	src := m.entries[id]
	out := make([]MemoryEntry, len(src))
	copy(out, src)
	return out
}

// Last returns the most recent entry for id.
func (m *Memory) Last(id int) (MemoryEntry, bool) {
	src := m.entries[id]
	if len(src) == 0 {
		return MemoryEntry{}, false
	}
	return src[len(src)-1], true
}

func (m *Memory) Snapshot() map[int][]MemoryEntry {
	out := make(map[int][]MemoryEntry, len(m.entries))
	for id, entries := range m.entries {
		out[id] = append([]MemoryEntry{}, entries...)
	}
	return out
}

func (m *Memory) Restore(data map[int][]MemoryEntry) {
	m.entries = make(map[int][]MemoryEntry, len(data))
	for id, entries := range data {
		m.entries[id] = append([]MemoryEntry{}, entries...)
	}
}

func (m *Memory) Reset() {
	m.entries = make(map[int][]MemoryEntry)
}
