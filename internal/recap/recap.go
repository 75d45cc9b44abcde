// Package recap turns the event history of a season into a readable episode
// summary.
package recap

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/appengine-ltd/castaway/internal/events"
)

// Lookup resolves ids in event payloads to display names.
type Lookup interface {
	SurvivorName(id int) string
	TribeName(id int) string
}

// Names is a map-backed Lookup.
type Names struct {
	Survivors map[int]string
	Tribes    map[int]string
}

func (n Names) SurvivorName(id int) string {
	if name, ok := n.Survivors[id]; ok {
		return name
	}
	return fmt.Sprintf("#%d", id)
}

func (n Names) TribeName(id int) string {
	if name, ok := n.Tribes[id]; ok {
		return name
	}
	return fmt.Sprintf("tribe %d", id)
}

// Build writes one Markdown section per day. Events that carry no day are
// filed under the most recent one.
func Build(title string, history []events.Envelope, names Lookup) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", title)

	day, section := 1, 0
	for _, env := range history {
		if d, ok := dayOf(env.Event); ok && d > 0 {
			day = d
		}
		line := Describe(env.Event, names)
		if line == "" {
			continue
		}
		if day != section {
			fmt.Fprintf(&b, "\n## Day %d\n\n", day)
			section = day
		}
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if section == 0 {
		b.WriteString("\nNothing happened yet.\n")
	}
	return b.String()
}

func dayOf(ev events.Event) (int, bool) {
	switch e := ev.(type) {
	case events.PhaseChangedEvent:
		return e.Day, true
	case events.TreeMailEvent:
		return e.Day, true
	case events.ConfrontationEvent:
		return e.Day, true
	case events.MeetingMissedEvent:
		return e.Day, true
	case events.ChallengeResolvedEvent:
		return e.Day, true
	case events.TribesMergedEvent:
		return e.Day, true
	case events.CouncilVoteEvent:
		return e.Day, true
	case events.SurvivorEliminatedEvent:
		return e.Day, true
	case events.GameOverEvent:
		return e.Day, true
	case events.CampViewLoadedEvent:
		return e.Day, true
	default:
		return 0, false
	}
}

// Describe is the one-line summary of ev, or "" for bookkeeping events.
func Describe(ev events.Event, names Lookup) string {
	switch e := ev.(type) {
	case events.TreeMailEvent:
		return fmt.Sprintf("Tree mail: *%s*", e.Message)
	case events.ConfrontationEvent:
		return fmt.Sprintf("%s and %s clashed at the %s (intensity %d).",
			names.SurvivorName(e.A), names.SurvivorName(e.B), e.Location, e.Intensity)
	case events.ConversationClosedEvent:
		return fmt.Sprintf("You talked with %s (%s): \"%s\" (%+d).",
			names.SurvivorName(e.NPCID), e.Intent, e.Response, e.Delta)
	case events.MeetingMissedEvent:
		return fmt.Sprintf("You stood up %s at the %s (-%d).", names.SurvivorName(e.NPCID), e.Location, e.Penalty)
	case events.ChallengeResolvedEvent:
		if e.Individual {
			return fmt.Sprintf("**Immunity** went to %s.", names.SurvivorName(e.ImmuneID))
		}
		winners := make([]string, 0, len(e.WinnerTribes))
		for _, id := range e.WinnerTribes {
			winners = append(winners, names.TribeName(id))
		}
		return fmt.Sprintf("**Challenge** won by %s; %s heads to tribal council.",
			strings.Join(winners, " and "), names.TribeName(e.LoserTribe))
	case events.TribesMergedEvent:
		return fmt.Sprintf("**Merge!** %d survivors join %s.", len(e.Members), e.Name)
	case events.CouncilVoteEvent:
		label := "Tribal council"
		if e.Final {
			label = "Final tribal council"
		}
		return fmt.Sprintf("%s votes: %s.", label, tally(e.Votes, names))
	case events.SurvivorEliminatedEvent:
		if e.Jury {
			return fmt.Sprintf("%s was voted out and joins the jury.", e.Name)
		}
		return fmt.Sprintf("%s was voted out.", e.Name)
	case events.GameOverEvent:
		if e.PlayerWon {
			return fmt.Sprintf("**You won the season!** %s", e.Reason)
		}
		if e.WinnerID > 0 {
			return fmt.Sprintf("**Season over.** %s won. %s", names.SurvivorName(e.WinnerID), e.Reason)
		}
		return fmt.Sprintf("**Season over.** %s", e.Reason)
	default:
		return ""
	}
}

// tally counts votes per target, most votes first.
func tally(votes map[int]int, names Lookup) string {
	counts := make(map[int]int)
	for _, target := range votes {
		counts[target]++
	}
	type row struct {
		name  string
		votes int
	}
	rows := make([]row, 0, len(counts))
	for id, n := range counts {
		rows = append(rows, row{name: names.SurvivorName(id), votes: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].votes != rows[j].votes {
			return rows[i].votes > rows[j].votes
		}
		return rows[i].name < rows[j].name
	})
	parts := make([]string, 0, len(rows))
	for _, r := range rows {
		parts = append(parts, fmt.Sprintf("%s %d", r.name, r.votes))
	}
	if len(parts) == 0 {
		return "none cast"
	}
	return strings.Join(parts, ", ")
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
)

// HTML renders a recap to an HTML fragment.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render recap: %w", err)
	}
	return buf.String(), nil
}
