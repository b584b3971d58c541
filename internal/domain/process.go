package domain

import "sort"

// ProcessMeld resolves joker assignments for display and scoring, returning a
// new meld without mutating the input. For a valid run every unassigned joker
// receives the number of the slot it occupies and the run's color; for a
// valid set jokers receive the shared number and the next unused color.
// Anything else is just sorted for stable display. Deterministic: the same
// tile membership always yields the same assignment.
func ProcessMeld(meld Meld) Meld {
	out := Meld{ID: meld.ID, Tiles: CloneTiles(meld.Tiles)}

	switch {
	case IsValidRun(out.Tiles):
		processRun(out.Tiles)
	case IsValidSet(out.Tiles):
		processSet(out.Tiles)
	}

	sortForDisplay(out.Tiles)
	return out
}

// processRun assigns each unassigned joker a concrete slot in the run's
// consecutive sequence. Start offsets are searched with the minimal left
// extension first, so jokers land in interior gaps and trail upward before
// the sequence is ever shifted down.
func processRun(tiles []Tile) {
	runColor := Color("")
	occupied := map[int]bool{}
	var freeJokers []*Tile
	minFixed := 14
	for i := range tiles {
		t := &tiles[i]
		if t.IsJoker && t.AssignedNumber == 0 {
			freeJokers = append(freeJokers, t)
			continue
		}
		n := t.effectiveNumber()
		occupied[n] = true
		if n < minFixed {
			minFixed = n
		}
		if runColor == "" {
			if t.IsJoker {
				runColor = t.AssignedColor
			} else {
				runColor = t.Color
			}
		}
	}
	if len(freeJokers) == 0 || minFixed > 13 {
		return
	}

	length := len(tiles)
	for start := minFixed; start >= 1; start-- {
		end := start + length - 1
		if end > 13 {
			continue
		}
		// Every fixed number must sit inside the window and the open slots
		// must exactly match the jokers available.
		open := make([]int, 0, len(freeJokers))
		fits := true
		for n := start; n <= end; n++ {
			if !occupied[n] {
				open = append(open, n)
			}
		}
		for n := range occupied {
			if n < start || n > end {
				fits = false
				break
			}
		}
		if !fits || len(open) != len(freeJokers) {
			continue
		}
		for i, j := range freeJokers {
			j.AssignedNumber = open[i]
			j.AssignedColor = runColor
		}
		return
	}
}

// processSet assigns jokers the set's shared number and the first color not
// already present, in canonical color order.
func processSet(tiles []Tile) {
	number := 0
	used := map[Color]bool{}
	for _, t := range tiles {
		if t.IsJoker {
			if t.AssignedColor != "" {
				used[t.AssignedColor] = true
			}
			continue
		}
		number = t.Number
		used[t.Color] = true
	}

	for i := range tiles {
		t := &tiles[i]
		if !t.IsJoker || t.AssignedNumber != 0 {
			continue
		}
		for _, c := range Colors {
			if !used[c] {
				used[c] = true
				t.AssignedNumber = number
				t.AssignedColor = c
				break
			}
		}
	}
}

// sortForDisplay orders tiles numerically, then by color, with unassigned
// jokers last.
func sortForDisplay(tiles []Tile) {
	sort.SliceStable(tiles, func(i, j int) bool {
		a, b := tiles[i], tiles[j]
		aFree := a.IsJoker && a.AssignedNumber == 0
		bFree := b.IsJoker && b.AssignedNumber == 0
		if aFree != bFree {
			return bFree
		}
		if aFree && bFree {
			return false
		}
		if a.effectiveNumber() != b.effectiveNumber() {
			return a.effectiveNumber() < b.effectiveNumber()
		}
		return colorOrder[a.displayColor()] < colorOrder[b.displayColor()]
	})
}

func (t Tile) displayColor() Color {
	if t.IsJoker {
		return t.AssignedColor
	}
	return t.Color
}

// FindValidSplitPoint returns the index at which a processed run of at least
// six tiles can be broken into two independently valid runs, scanning from
// the lowest legal split. The boolean is false when the meld is not a run or
// no legal split exists.
func FindValidSplitPoint(meld Meld) (int, bool) {
	processed := ProcessMeld(meld)
	if len(processed.Tiles) < 6 || !IsValidRun(processed.Tiles) {
		return 0, false
	}
	for i := 3; i <= len(processed.Tiles)-3; i++ {
		if IsValidMeld(processed.Tiles[:i]) && IsValidMeld(processed.Tiles[i:]) {
			return i, true
		}
	}
	return 0, false
}
