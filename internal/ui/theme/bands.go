package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/appengine-ltd/castaway/internal/game"
)

// BandBorder maps a relationship band to a lipgloss border: colour from the
// band, weight from its width.
func BandBorder(band game.RelationshipBand) (lipgloss.Border, lipgloss.Color) {
	var color lipgloss.Color
	switch band.Color {
	case game.BandGold:
		color = BandGold
	case game.BandGreen:
		color = BandGreen
	case game.BandWhite:
		color = BandWhite
	default:
		color = BandRed
	}
	switch {
	case band.Width >= 4:
		return lipgloss.DoubleBorder(), color
	case band.Width == 3:
		return lipgloss.ThickBorder(), color
	case band.Width == 2:
		return lipgloss.NormalBorder(), color
	default:
		return lipgloss.RoundedBorder(), color
	}
}

// Avatar draws a survivor name inside its relationship band.
func Avatar(name string, value int) string {
	border, color := BandBorder(game.BandFor(value))
	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(color).
		Padding(0, 1).
		Render(name)
}
