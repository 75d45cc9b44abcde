package theme

import "github.com/charmbracelet/lipgloss"

// Brand palette for the island field-log UI.
var (
	BG            = lipgloss.Color("#141A1F")
	Panel         = lipgloss.Color("#1C2329")
	PanelRaised   = lipgloss.Color("#212A31")
	Border        = lipgloss.Color("#2E3A40")
	Divider       = lipgloss.Color("#263038")
	TextPrimary   = lipgloss.Color("#E8E2D8")
	TextSecondary = lipgloss.Color("#A6ADB1")
	TextMuted     = lipgloss.Color("#7D858A")
	AccentEmber   = lipgloss.Color("#D46A1E")
	AccentForest  = lipgloss.Color("#2F5D42")
	WarningAmber  = lipgloss.Color("#C18B2F")
	Danger        = lipgloss.Color("#B84A3A")
	DisabledText  = TextMuted
)

// Relationship band colours.
var (
	BandGold  = lipgloss.Color("#E5B93C")
	BandGreen = lipgloss.Color("#4CAF50")
	BandWhite = lipgloss.Color("#F2F2F2")
	BandRed   = lipgloss.Color("#D9453B")
)
