package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/appengine-ltd/castaway/internal/game"
	"github.com/appengine-ltd/castaway/internal/ui/theme"
)

const (
	mapWidth   = 44
	panelWidth = 40
	logLines   = 10
)

func (m menuModel) campView() string {
	left := m.mapPanel()
	if m.overlay {
		left = m.relationshipPanel()
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", m.sidePanel())

	var b strings.Builder
	b.WriteString(m.statusBar())
	b.WriteString("\n")
	b.WriteString(top)
	b.WriteString("\n")
	for _, line := range lastN(m.messages, m.logHeight()) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(theme.Hint(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	return b.String()
}

func (m menuModel) logHeight() int {
	if m.height <= 0 {
		return logLines
	}
	// Status bar, panels (map rows plus borders) and the input line.
	used := 1 + len(game.CampLocations) + 3 + 2
	return max(m.height-used, 3)
}

func (m menuModel) statusBar() string {
	s := m.session
	parts := []string{
		fmt.Sprintf("Day %d", s.Day()),
		string(s.Phase()),
		s.Remaining().Round(time.Second).String() + " left",
	}
	if t, ok := s.PlayerTribe(); ok {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color)).Render(t.Name))
	}
	return lipgloss.NewStyle().Bold(true).Foreground(theme.TextPrimary).Render(strings.Join(parts, " · "))
}

// mapPanel lists the camp locations with who is standing there. The player is
// marked with @, a fight with !, a waiting meeting with ?.
func (m menuModel) mapPanel() string {
	s := m.session
	lines := []string{theme.Header("Camp")}
	if !s.Phase().IsCamp() {
		lines = append(lines, theme.Hint("Everyone is away from camp."))
		return theme.PanelStyle(theme.PanelStandard).Width(mapWidth).Render(strings.Join(lines, "\n"))
	}
	fights := map[game.Location]bool{}
	for _, c := range s.Confrontations() {
		fights[c.Location] = true
	}
	for _, loc := range game.CampLocations {
		marker := "  "
		if loc == s.PlayerLocation() {
			marker = "@ "
		}
		flags := ""
		if fights[loc] {
			flags += theme.Error("!")
		}
		if len(s.Conversation().MeetingsAt(loc)) > 0 {
			flags += theme.Warning("?")
		}
		names := make([]string, 0, 4)
		for _, sv := range s.SurvivorsAt(loc) {
			names = append(names, sv.FirstName)
		}
		lines = append(lines, fmt.Sprintf("%s%-15s%s %s", marker, loc, flags, theme.Hint(strings.Join(names, ", "))))
	}
	return theme.PanelStyle(theme.PanelStandard).Width(mapWidth).Render(strings.Join(lines, "\n"))
}

// relationshipPanel draws each tribemate inside the band of the player's
// feelings toward them.
func (m menuModel) relationshipPanel() string {
	s := m.session
	player, ok := s.Player()
	if !ok {
		return theme.PanelStyle(theme.PanelMuted).Width(mapWidth).Render("No player.")
	}
	avatars := make([]string, 0, 8)
	for _, sv := range s.ActiveSurvivors() {
		if sv.IsPlayer || sv.TribeID != player.TribeID {
			continue
		}
		value := s.Relationships().Get(player.ID, sv.ID)
		label := fmt.Sprintf("%s %d\n%s", sv.FirstName, value, s.Moods().Get(sv.ID))
		avatars = append(avatars, theme.Avatar(label, value))
	}
	rows := make([]string, 0, len(avatars)/3+1)
	for i := 0; i < len(avatars); i += 3 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, avatars[i:min(i+3, len(avatars))]...))
	}
	body := theme.Header("Relationships") + "\n" + lipgloss.JoinVertical(lipgloss.Left, rows...)
	return theme.PanelStyle(theme.PanelLifted).Width(mapWidth).Render(body)
}

// sidePanel shows the open conversation, or the tribe supplies when idle.
func (m menuModel) sidePanel() string {
	s := m.session
	conv := s.Conversation()
	var lines []string
	switch conv.State() {
	case game.ConversationTopicSelection:
		name := ""
		if id, ok := conv.Partner(); ok {
			if sv, ok := s.Survivor(id); ok {
				name = sv.FirstName
			}
		}
		lines = append(lines, theme.Header("Talking with "+name))
		for _, t := range game.Topics {
			lines = append(lines, fmt.Sprintf("%-12s %s", t.Key, theme.Hint(t.Label)))
		}
	case game.ConversationDialogueDisplayed:
		d, _ := conv.Current()
		name := fmt.Sprintf("#%d", d.NPCID)
		if sv, ok := s.Survivor(d.NPCID); ok {
			name = sv.FirstName
		}
		lines = append(lines, theme.Header(name), lipgloss.NewStyle().Width(panelWidth-4).Render(d.Text), "")
		for i, opt := range d.Options {
			lines = append(lines, fmt.Sprintf("%d) %s", i+1, opt.Label))
		}
	default:
		lines = append(lines, theme.Header("Supplies"))
		if t, ok := s.PlayerTribe(); ok {
			lines = append(lines,
				fmt.Sprintf("water   %3d", t.Resources.Water),
				fmt.Sprintf("fire    %3d", t.Resources.Fire),
				fmt.Sprintf("shelter %3d", t.Resources.Shelter),
				fmt.Sprintf("food    %3d", t.Resources.Food),
				fmt.Sprintf("morale  %3d", t.Stats.Morale),
			)
		}
		if c, ok := s.Council(); ok && !c.Resolved && s.PlayerAtCouncil() {
			lines = append(lines, "", theme.Warning("Tribal council: type vote <name>"))
		}
	}
	return theme.PanelStyle(theme.PanelStandard).Width(panelWidth).Render(strings.Join(lines, "\n"))
}
