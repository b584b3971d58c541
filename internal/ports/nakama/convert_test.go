package nakama

import (
	"testing"

	"tilerummy/internal/domain"
)

func testRoom() *domain.Room {
	return &domain.Room{
		Code:    "ABCD",
		StyleID: "classic",
		Game: &domain.GameState{
			Phase: domain.PhasePlaying,
			Players: []*domain.Player{
				{
					ID:         "alice",
					Name:       "Alice",
					IsHost:     true,
					PlayerCode: "AAAAAA",
					Hand: []domain.Tile{
						{ID: "a1", Color: domain.ColorRed, Number: 5},
						{ID: "a2", Color: domain.ColorBlue, Number: 9},
					},
					IsConnected: true,
				},
				{
					ID:         "bob",
					Name:       "Bob",
					PlayerCode: "BBBBBB",
					Hand: []domain.Tile{
						{ID: "b1", Color: domain.ColorBlack, Number: 2},
					},
					IsConnected: true,
					QueuedTurn:  &domain.QueuedTurn{BaseRevision: 3},
				},
			},
			Melds: []domain.Meld{
				{ID: "m1", Tiles: []domain.Tile{
					{ID: "t1", Color: domain.ColorRed, Number: 7},
					{ID: "t2", Color: domain.ColorRed, Number: 8},
					{ID: "t3", IsJoker: true},
				}},
			},
			TilePool: []domain.Tile{
				{ID: "p1", Color: domain.ColorYellow, Number: 1},
			},
			Rules:    domain.Rules{StartingHandSize: 14, InitialMeldThreshold: 30, Mode: domain.ModeStandard},
			Revision: 7,
		},
	}
}

func TestRoomViewHidesOtherHands(t *testing.T) {
	view := roomToView(testRoom(), "alice")

	if view.PlayerCode != "AAAAAA" {
		t.Fatalf("expected viewer's own player code, got %q", view.PlayerCode)
	}
	if view.Game == nil {
		t.Fatal("expected game view")
	}

	var alice, bob *PlayerView
	for i := range view.Game.Players {
		switch view.Game.Players[i].ID {
		case "alice":
			alice = &view.Game.Players[i]
		case "bob":
			bob = &view.Game.Players[i]
		}
	}
	if alice == nil || bob == nil {
		t.Fatal("expected both players in view")
	}

	if len(alice.Hand) != 2 || alice.HandCount != 2 {
		t.Errorf("viewer hand: got %d tiles, count %d, want 2/2", len(alice.Hand), alice.HandCount)
	}
	if bob.Hand != nil {
		t.Errorf("other player's hand leaked: %v", bob.Hand)
	}
	if bob.HandCount != 1 {
		t.Errorf("other player hand count = %d, want 1", bob.HandCount)
	}
	if !bob.HasQueuedTurn {
		t.Error("expected bob's queued-turn flag set")
	}
	if view.Game.PoolCount != 1 {
		t.Errorf("pool count = %d, want 1", view.Game.PoolCount)
	}
}

func TestRoomViewOmitsOthersPlayerCode(t *testing.T) {
	view := roomToView(testRoom(), "bob")
	if view.PlayerCode != "BBBBBB" {
		t.Fatalf("expected bob's player code, got %q", view.PlayerCode)
	}
}

func TestGameViewProcessesMelds(t *testing.T) {
	view := roomToView(testRoom(), "alice")

	if len(view.Game.Melds) != 1 {
		t.Fatalf("expected one meld, got %d", len(view.Game.Melds))
	}
	var joker *domain.Tile
	for i, tile := range view.Game.Melds[0].Tiles {
		if tile.IsJoker {
			joker = &view.Game.Melds[0].Tiles[i]
		}
	}
	if joker == nil {
		t.Fatal("expected joker in processed meld")
	}
	if joker.AssignedNumber != 9 || joker.AssignedColor != domain.ColorRed {
		t.Errorf("joker resolved to %s %d, want red 9", joker.AssignedColor, joker.AssignedNumber)
	}
}

func TestRoomViewForSpectator(t *testing.T) {
	view := roomToView(testRoom(), "nobody")
	if view.PlayerCode != "" {
		t.Fatalf("spectator got a player code: %q", view.PlayerCode)
	}
	for _, p := range view.Game.Players {
		if p.Hand != nil {
			t.Errorf("spectator sees %s's hand", p.ID)
		}
	}
}
