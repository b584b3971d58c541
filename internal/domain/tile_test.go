package domain

import (
	"math/rand"
	"testing"
)

func TestNewTileSetComposition(t *testing.T) {
	tiles := NewTileSet()

	if len(tiles) != 106 {
		t.Fatalf("tile count = %d, want 106", len(tiles))
	}

	jokers := 0
	counts := map[Color]map[int]int{}
	ids := map[string]bool{}
	for _, tile := range tiles {
		if ids[tile.ID] {
			t.Fatalf("duplicate tile id %s", tile.ID)
		}
		ids[tile.ID] = true

		if tile.IsJoker {
			jokers++
			continue
		}
		if counts[tile.Color] == nil {
			counts[tile.Color] = map[int]int{}
		}
		counts[tile.Color][tile.Number]++
	}

	if jokers != 2 {
		t.Fatalf("joker count = %d, want 2", jokers)
	}
	for _, color := range Colors {
		for number := 1; number <= 13; number++ {
			if got := counts[color][number]; got != 2 {
				t.Fatalf("count of %s %d = %d, want 2", color, number, got)
			}
		}
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	tiles := NewTileSet()
	before := map[string]bool{}
	for _, tile := range tiles {
		before[tile.ID] = true
	}

	Shuffle(tiles, rand.New(rand.NewSource(7)))

	if len(tiles) != len(before) {
		t.Fatalf("tile count changed: %d, want %d", len(tiles), len(before))
	}
	for _, tile := range tiles {
		if !before[tile.ID] {
			t.Fatalf("unexpected tile id %s after shuffle", tile.ID)
		}
	}
}

func TestDescribe(t *testing.T) {
	if got := (Tile{Color: ColorRed, Number: 7}).Describe(); got != "red 7" {
		t.Fatalf("Describe = %q, want %q", got, "red 7")
	}
	if got := (Tile{IsJoker: true}).Describe(); got != "joker" {
		t.Fatalf("Describe = %q, want %q", got, "joker")
	}
}
