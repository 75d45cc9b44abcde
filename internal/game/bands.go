package game

type BandColor string

const (
	BandGold  BandColor = "gold"
	BandGreen BandColor = "green"
	BandWhite BandColor = "white"
	BandRed   BandColor = "red"
)

// RelationshipBand is how a relationship value is drawn around an avatar.
type RelationshipBand struct {
	Color BandColor
	Width int
}

func BandFor(value int) RelationshipBand {
	switch {
	case value >= 100:
		return RelationshipBand{Color: BandGold, Width: 4}
	case value >= 76:
		return RelationshipBand{Color: BandGreen, Width: 3}
	case value >= 51:
		return RelationshipBand{Color: BandGreen, Width: 2}
	case value == 50:
		return RelationshipBand{Color: BandWhite, Width: 1}
	case value >= 25:
		return RelationshipBand{Color: BandRed, Width: 2}
	default:
		return RelationshipBand{Color: BandRed, Width: 4}
	}
}
