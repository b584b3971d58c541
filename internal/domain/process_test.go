package domain

import "testing"

func TestProcessMeldAssignsRunJoker(t *testing.T) {
	meld := Meld{ID: "m1", Tiles: []Tile{tile(ColorRed, 1), joker(), tile(ColorRed, 3)}}

	processed := ProcessMeld(meld)

	if len(processed.Tiles) != 3 {
		t.Fatalf("processed tile count = %d, want 3", len(processed.Tiles))
	}
	j := processed.Tiles[1]
	if !j.IsJoker {
		t.Fatalf("expected joker in middle display slot, got %s", j.Describe())
	}
	if j.AssignedNumber != 2 || j.AssignedColor != ColorRed {
		t.Fatalf("joker assigned %s %d, want red 2", j.AssignedColor, j.AssignedNumber)
	}

	// Input must stay untouched.
	for _, in := range meld.Tiles {
		if in.IsJoker && in.AssignedNumber != 0 {
			t.Fatal("ProcessMeld mutated its input")
		}
	}
}

func TestProcessMeldTrailingJoker(t *testing.T) {
	meld := Meld{Tiles: []Tile{joker(), tile(ColorBlue, 5), tile(ColorBlue, 6)}}

	processed := ProcessMeld(meld)

	j := processed.Tiles[2]
	if !j.IsJoker || j.AssignedNumber != 7 || j.AssignedColor != ColorBlue {
		t.Fatalf("trailing joker = %s %d, want blue 7", j.AssignedColor, j.AssignedNumber)
	}
}

func TestProcessMeldKeepsAssignedJoker(t *testing.T) {
	meld := Meld{Tiles: []Tile{tile(ColorBlack, 12), tile(ColorBlack, 13), assignedJoker(ColorBlack, 11)}}

	processed := ProcessMeld(meld)

	if !IsValidRun(processed.Tiles) {
		t.Fatal("assigned run should stay valid through processing")
	}
	if processed.Tiles[0].AssignedNumber != 11 {
		t.Fatalf("first tile = %d, want assigned 11", processed.Tiles[0].AssignedNumber)
	}
}

func TestProcessMeldAssignsSetJoker(t *testing.T) {
	meld := Meld{Tiles: []Tile{tile(ColorRed, 9), tile(ColorBlue, 9), joker()}}

	processed := ProcessMeld(meld)

	var j Tile
	for _, pt := range processed.Tiles {
		if pt.IsJoker {
			j = pt
		}
	}
	if j.AssignedNumber != 9 {
		t.Fatalf("set joker number = %d, want 9", j.AssignedNumber)
	}
	if j.AssignedColor != ColorYellow {
		t.Fatalf("set joker color = %s, want first unused color yellow", j.AssignedColor)
	}
}

func TestProcessMeldIdempotent(t *testing.T) {
	melds := []Meld{
		{Tiles: []Tile{tile(ColorRed, 1), joker(), tile(ColorRed, 3)}},
		{Tiles: []Tile{tile(ColorRed, 9), tile(ColorBlue, 9), joker()}},
		{Tiles: []Tile{tile(ColorYellow, 4), tile(ColorYellow, 5), tile(ColorYellow, 6)}},
	}

	for _, m := range melds {
		once := ProcessMeld(m)
		twice := ProcessMeld(once)
		if len(once.Tiles) != len(twice.Tiles) {
			t.Fatal("reprocessing changed tile count")
		}
		for i := range once.Tiles {
			if once.Tiles[i] != twice.Tiles[i] {
				t.Fatalf("reprocessing changed tile %d: %+v vs %+v", i, once.Tiles[i], twice.Tiles[i])
			}
		}
	}
}

func TestProcessMeldSortsInvalidForDisplay(t *testing.T) {
	meld := Meld{Tiles: []Tile{tile(ColorBlue, 9), joker(), tile(ColorRed, 2)}}

	processed := ProcessMeld(meld)

	if processed.Tiles[0].Number != 2 || processed.Tiles[1].Number != 9 {
		t.Fatal("numbers should sort ascending")
	}
	if !processed.Tiles[2].IsJoker || processed.Tiles[2].AssignedNumber != 0 {
		t.Fatal("unassigned joker should sort last")
	}
}

func TestFindValidSplitPoint(t *testing.T) {
	sevenRun := Meld{Tiles: []Tile{
		tile(ColorRed, 3), tile(ColorRed, 4), tile(ColorRed, 5), tile(ColorRed, 6),
		tile(ColorRed, 7), tile(ColorRed, 8), tile(ColorRed, 9),
	}}
	idx, ok := FindValidSplitPoint(sevenRun)
	if !ok {
		t.Fatal("seven-tile run should split")
	}
	if idx < 3 || idx > 4 {
		t.Fatalf("split index = %d, want 3 or 4", idx)
	}
	processed := ProcessMeld(sevenRun)
	if !IsValidMeld(processed.Tiles[:idx]) || !IsValidMeld(processed.Tiles[idx:]) {
		t.Fatal("both halves must be valid melds")
	}

	fiveRun := Meld{Tiles: []Tile{
		tile(ColorRed, 3), tile(ColorRed, 4), tile(ColorRed, 5), tile(ColorRed, 6), tile(ColorRed, 7),
	}}
	if _, ok := FindValidSplitPoint(fiveRun); ok {
		t.Fatal("five-tile run is too short to split")
	}

	set := Meld{Tiles: []Tile{tile(ColorRed, 7), tile(ColorBlue, 7), tile(ColorBlack, 7)}}
	if _, ok := FindValidSplitPoint(set); ok {
		t.Fatal("sets never split")
	}
}

func TestFindValidSplitPointWithJoker(t *testing.T) {
	run := Meld{Tiles: []Tile{
		tile(ColorBlue, 2), tile(ColorBlue, 3), joker(), tile(ColorBlue, 5),
		tile(ColorBlue, 6), tile(ColorBlue, 7),
	}}
	idx, ok := FindValidSplitPoint(run)
	if !ok {
		t.Fatal("six-tile run with joker should split at 3")
	}
	if idx != 3 {
		t.Fatalf("split index = %d, want 3", idx)
	}
}
