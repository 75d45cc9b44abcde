package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	PaddingS = 1
	PaddingM = 2
)

type PanelVariant int

const (
	PanelStandard PanelVariant = iota
	PanelLifted
	PanelMuted
)

type ListItemState int

const (
	ListItemNormal ListItemState = iota
	ListItemSelected
	ListItemDisabled
)

func PanelStyle(variant PanelVariant) lipgloss.Style {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, PaddingS)
	switch variant {
	case PanelLifted:
		style = style.BorderForeground(AccentEmber)
	case PanelMuted:
		style = style.Foreground(TextMuted)
	}
	return style
}

func Header(text string) string {
	if text == "" {
		return ""
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(TextPrimary).Render(text)
	rule := lipgloss.NewStyle().Foreground(AccentEmber).Render(strings.Repeat("─", max(lipgloss.Width(text)*3/5, 4)))
	return title + "\n" + rule
}

func Hint(text string) string {
	return lipgloss.NewStyle().Foreground(TextMuted).Render(text)
}

func Warning(text string) string {
	return lipgloss.NewStyle().Foreground(WarningAmber).Render(text)
}

func Error(text string) string {
	return lipgloss.NewStyle().Foreground(Danger).Render(text)
}

// ListItem renders one menu row with a cursor and an optional right column.
func ListItem(state ListItemState, left, right string) string {
	cursor := "  "
	style := lipgloss.NewStyle().Foreground(TextSecondary)
	switch state {
	case ListItemSelected:
		cursor = "> "
		style = lipgloss.NewStyle().Bold(true).Foreground(AccentEmber)
	case ListItemDisabled:
		style = lipgloss.NewStyle().Foreground(DisabledText)
	}
	line := cursor + style.Render(left)
	if right != "" {
		line += "  " + Hint(right)
	}
	return line
}
