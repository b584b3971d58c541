package domain

// MeldPoints sums the tile numbers in a meld. A joker counts as its assigned
// number, or 0 while unresolved, so callers score processed melds.
func MeldPoints(tiles []Tile) int {
	total := 0
	for _, t := range tiles {
		total += t.effectiveNumber()
	}
	return total
}

// ProcessedMeldPoints resolves jokers first and then scores the meld.
func ProcessedMeldPoints(meld Meld) int {
	return MeldPoints(ProcessMeld(meld).Tiles)
}

// HandPoints scores a hand for end-game penalties: face value per tile, 30
// per joker.
func HandPoints(hand []Tile) int {
	total := 0
	for _, t := range hand {
		if t.IsJoker {
			total += 30
			continue
		}
		total += t.Number
	}
	return total
}
