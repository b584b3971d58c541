package domain

import "testing"

func TestCanEndTurnWorkingArea(t *testing.T) {
	played := tile(ColorRed, 10)
	player := &Player{ID: "p1", HasInitialMeld: true, Hand: []Tile{tile(ColorRed, 1)}}
	turnStartHand := []Tile{played, player.Hand[0]}
	melds := []Meld{{Tiles: []Tile{played, tile(ColorBlue, 10), tile(ColorBlack, 10)}}}

	check := CanEndTurn(player, melds, turnStartHand, nil, []Tile{tile(ColorRed, 4)}, Rules{InitialMeldThreshold: 30})
	if check.Valid {
		t.Fatal("non-empty working area must fail even with valid melds")
	}
	if check.Reason != ReasonWorkingAreaNotEmpty {
		t.Fatalf("reason = %q, want %q", check.Reason, ReasonWorkingAreaNotEmpty)
	}
}

func TestCanEndTurnInvalidMeld(t *testing.T) {
	played := tile(ColorRed, 5)
	player := &Player{ID: "p1", HasInitialMeld: true, Hand: []Tile{}}
	turnStartHand := []Tile{played}
	melds := []Meld{{Tiles: []Tile{played, tile(ColorRed, 9)}}}

	check := CanEndTurn(player, melds, turnStartHand, nil, nil, Rules{InitialMeldThreshold: 30})
	if check.Valid || check.Reason != ReasonInvalidMeld {
		t.Fatalf("check = %+v, want invalid meld failure", check)
	}
}

func TestCanEndTurnNoTilesPlayed(t *testing.T) {
	keep := tile(ColorRed, 5)
	player := &Player{ID: "p1", HasInitialMeld: true, Hand: []Tile{keep}}
	turnStartHand := []Tile{keep}

	check := CanEndTurn(player, nil, turnStartHand, nil, nil, Rules{InitialMeldThreshold: 30})
	if check.Valid || check.Reason != ReasonNoTilesPlayed {
		t.Fatalf("check = %+v, want no-tiles-played failure", check)
	}
}

func TestCanEndTurnInitialMeldThreshold(t *testing.T) {
	tests := []struct {
		name    string
		numbers [3]int
		want    bool
	}{
		{name: "thirty points passes", numbers: [3]int{10, 10, 10}, want: true},
		{name: "twenty-seven points fails", numbers: [3]int{9, 9, 9}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			played := []Tile{
				tile(ColorRed, tt.numbers[0]),
				tile(ColorBlue, tt.numbers[1]),
				tile(ColorBlack, tt.numbers[2]),
			}
			keep := tile(ColorYellow, 1)
			player := &Player{ID: "p1", Hand: []Tile{keep}}
			turnStartHand := append(CloneTiles(played), keep)
			melds := []Meld{{Tiles: played}}

			check := CanEndTurn(player, melds, turnStartHand, nil, nil, Rules{InitialMeldThreshold: 30})
			if check.Valid != tt.want {
				t.Fatalf("check = %+v, want valid=%v", check, tt.want)
			}
			if !tt.want && check.Reason != ReasonThresholdNotMet {
				t.Fatalf("reason = %q, want %q", check.Reason, ReasonThresholdNotMet)
			}
		})
	}
}

// Tiles added to pre-existing table melds do not count toward the threshold.
func TestCanEndTurnThresholdIgnoresExtendedMelds(t *testing.T) {
	existing := []Tile{tile(ColorRed, 10), tile(ColorRed, 11), tile(ColorRed, 12)}
	added := tile(ColorRed, 13)
	keep := tile(ColorYellow, 1)

	player := &Player{ID: "p1", Hand: []Tile{keep}}
	turnStartHand := []Tile{added, keep}
	turnStartMelds := []Meld{{ID: "m1", Tiles: existing}}
	melds := []Meld{{ID: "m1", Tiles: append(CloneTiles(existing), added)}}

	check := CanEndTurn(player, melds, turnStartHand, turnStartMelds, nil, Rules{InitialMeldThreshold: 30})
	if check.Valid {
		t.Fatal("extending an existing meld must not satisfy the initial threshold")
	}
	if check.Reason != ReasonThresholdNotMet {
		t.Fatalf("reason = %q, want %q", check.Reason, ReasonThresholdNotMet)
	}
}

func TestCanEndTurnAfterInitialMeld(t *testing.T) {
	played := tile(ColorRed, 2)
	keep := tile(ColorYellow, 1)
	existing := []Tile{tile(ColorRed, 3), tile(ColorRed, 4), tile(ColorRed, 5)}

	player := &Player{ID: "p1", HasInitialMeld: true, Hand: []Tile{keep}}
	turnStartHand := []Tile{played, keep}
	melds := []Meld{{Tiles: append([]Tile{played}, existing...)}}

	check := CanEndTurn(player, melds, turnStartHand, nil, nil, Rules{InitialMeldThreshold: 30})
	if !check.Valid {
		t.Fatalf("check = %+v, want valid", check)
	}
}
