package domain

import "sort"

// Meld is a group of tiles on the shared table. Tile order matters for run
// display and splitting; validity checks ignore it.
type Meld struct {
	ID    string `json:"id"`
	Tiles []Tile `json:"tiles"`
}

// CloneMelds returns a deep copy of the given melds.
func CloneMelds(melds []Meld) []Meld {
	if melds == nil {
		return nil
	}
	out := make([]Meld, len(melds))
	for i, m := range melds {
		out[i] = Meld{ID: m.ID, Tiles: CloneTiles(m.Tiles)}
	}
	return out
}

// IsValidMeld reports whether the tiles form a legal set or run.
func IsValidMeld(tiles []Tile) bool {
	return IsValidSet(tiles) || IsValidRun(tiles)
}

// IsValidSet reports whether the tiles form a legal set: 3 or 4 tiles, at
// least one non-joker, all non-jokers sharing one number with no duplicate
// colors. Jokers implicitly stand in for the missing colors.
func IsValidSet(tiles []Tile) bool {
	if len(tiles) < 3 || len(tiles) > 4 {
		return false
	}

	number := 0
	seenColors := map[Color]bool{}
	nonJokers := 0
	for _, t := range tiles {
		if t.IsJoker {
			continue
		}
		nonJokers++
		if number == 0 {
			number = t.Number
		} else if t.Number != number {
			return false
		}
		if seenColors[t.Color] {
			return false
		}
		seenColors[t.Color] = true
	}
	return nonJokers > 0
}

// IsValidRun reports whether the tiles form a legal run: at least 3 tiles of
// one color with strictly consecutive numbers inside 1..13, no wraparound.
// Unassigned jokers fill gaps greedily from the smallest non-joker number;
// jokers that already carry an assignment are verified at their assigned
// positions instead.
func IsValidRun(tiles []Tile) bool {
	if len(tiles) < 3 {
		return false
	}

	runColor := Color("")
	numbers := make([]int, 0, len(tiles))
	freeJokers := 0
	for _, t := range tiles {
		switch {
		case t.IsJoker && t.AssignedNumber == 0:
			freeJokers++
		case t.IsJoker:
			if runColor == "" {
				runColor = t.AssignedColor
			} else if t.AssignedColor != runColor {
				return false
			}
			numbers = append(numbers, t.AssignedNumber)
		default:
			if runColor == "" {
				runColor = t.Color
			} else if t.Color != runColor {
				return false
			}
			numbers = append(numbers, t.Number)
		}
	}
	if len(numbers) == 0 {
		return false
	}

	sort.Ints(numbers)
	if numbers[0] < 1 {
		return false
	}

	// Walk consecutive integers from the smallest fixed number, consuming a
	// free joker for every gap. Leftover jokers extend the run upward.
	expected := numbers[0]
	for _, n := range numbers {
		if n == expected {
			expected++
			continue
		}
		if n < expected {
			return false // duplicate number
		}
		gap := n - expected
		if gap > freeJokers {
			return false
		}
		freeJokers -= gap
		expected = n + 1
	}

	// The full sequence, trailing jokers included, must stay inside 1..13.
	return expected+freeJokers-1 <= 13
}
