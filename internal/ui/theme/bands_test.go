package theme

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/appengine-ltd/castaway/internal/game"
)

func TestBandBorderWeights(t *testing.T) {
	tests := []struct {
		value  int
		border lipgloss.Border
		color  lipgloss.Color
	}{
		{100, lipgloss.DoubleBorder(), BandGold},
		{80, lipgloss.ThickBorder(), BandGreen},
		{60, lipgloss.NormalBorder(), BandGreen},
		{50, lipgloss.RoundedBorder(), BandWhite},
		{30, lipgloss.NormalBorder(), BandRed},
		{10, lipgloss.DoubleBorder(), BandRed},
	}
	for _, tc := range tests {
		border, color := BandBorder(game.BandFor(tc.value))
		if border != tc.border {
			t.Fatalf("value %d: unexpected border %+v", tc.value, border)
		}
		if color != tc.color {
			t.Fatalf("value %d: expected color %s, got %s", tc.value, tc.color, color)
		}
	}
}

func TestAvatarWrapsName(t *testing.T) {
	out := Avatar("Mira", 100)
	if !strings.Contains(out, "Mira") {
		t.Fatalf("expected name inside avatar, got %q", out)
	}
	if !strings.Contains(out, lipgloss.DoubleBorder().Top) {
		t.Fatalf("expected double border for an alliance, got %q", out)
	}
}
