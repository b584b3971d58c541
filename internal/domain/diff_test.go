package domain

import "testing"

func TestDiffMelds(t *testing.T) {
	shared := tile(ColorRed, 5)
	removed := tile(ColorBlue, 9)
	added := tile(ColorBlack, 2)

	before := []Meld{{ID: "m1", Tiles: []Tile{shared, removed}}}
	after := []Meld{{ID: "m1", Tiles: []Tile{shared}}, {ID: "m2", Tiles: []Tile{added}}}

	diff := DiffMelds(before, after)

	if len(diff.Added) != 1 || diff.Added[0] != "black 2" {
		t.Fatalf("added = %v, want [black 2]", diff.Added)
	}
	if len(diff.Removed) != 1 || diff.Removed[0] != "blue 9" {
		t.Fatalf("removed = %v, want [blue 9]", diff.Removed)
	}
}

func TestDiffMeldsEmpty(t *testing.T) {
	melds := []Meld{{ID: "m1", Tiles: []Tile{tile(ColorRed, 5)}}}
	diff := DiffMelds(melds, CloneMelds(melds))
	if !diff.Empty() {
		t.Fatalf("diff of identical tables should be empty, got %+v", diff)
	}
}
