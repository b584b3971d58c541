package domain

import "math/rand"

// InitializeGame deals a fresh game into the given state: a shuffled 106-tile
// pool, Rules.StartingHandSize tiles per player in seat order, an empty table
// and working area, and the first seat on turn. Player identities and codes
// are preserved. The caller snapshots the first player's turn start after
// this returns.
func InitializeGame(state *GameState, rng *rand.Rand) {
	pool := NewTileSet()
	Shuffle(pool, rng)

	for _, p := range state.Players {
		p.Hand = CloneTiles(pool[:state.Rules.StartingHandSize])
		pool = pool[state.Rules.StartingHandSize:]
		p.HasInitialMeld = false
		p.QueuedTurn = nil
	}

	state.Phase = PhasePlaying
	state.CurrentPlayerIndex = 0
	state.Melds = nil
	state.TilePool = pool
	state.WinnerID = ""
	state.WorkingArea = nil
	state.TurnStartHand = nil
	state.TurnStartMelds = nil
}

// DrawTile removes one tile from the end of the pool. The draw order is fixed
// by the initial shuffle; no further randomization happens per draw. Returns
// false when the pool is exhausted, which is not a terminal condition here.
func DrawTile(state *GameState) (Tile, bool) {
	if len(state.TilePool) == 0 {
		return Tile{}, false
	}
	tile := state.TilePool[len(state.TilePool)-1]
	state.TilePool = state.TilePool[:len(state.TilePool)-1]
	return tile, true
}

// NextPlayer advances the turn circularly, skipping disconnected players.
// With every player disconnected the index stays unchanged; the caller
// decides what to do with a frozen room.
func NextPlayer(state *GameState) {
	n := len(state.Players)
	if n == 0 {
		return
	}
	for i := 1; i <= n; i++ {
		idx := (state.CurrentPlayerIndex + i) % n
		if state.Players[idx].IsConnected {
			state.CurrentPlayerIndex = idx
			return
		}
	}
}

// CheckGameEnd ends the game the moment any player's hand is empty, marking
// that player the winner. Pool exhaustion with no playable move is not
// detected here.
func CheckGameEnd(state *GameState) bool {
	for _, p := range state.Players {
		if len(p.Hand) == 0 {
			state.Phase = PhaseEnded
			state.WinnerID = p.ID
			return true
		}
	}
	return false
}

// SnapshotTurnStart captures the current player's hand and the table so the
// turn can be validated and reverted.
func SnapshotTurnStart(state *GameState) {
	current := state.CurrentPlayer()
	if current == nil {
		return
	}
	state.TurnStartHand = CloneTiles(current.Hand)
	state.TurnStartMelds = CloneMelds(state.Melds)
}

// RevertToTurnStart discards the current player's uncommitted rearrangement:
// hand and table return to the turn-start snapshot and the working area is
// cleared.
func RevertToTurnStart(state *GameState) {
	current := state.CurrentPlayer()
	if current == nil {
		return
	}
	current.Hand = CloneTiles(state.TurnStartHand)
	state.Melds = CloneMelds(state.TurnStartMelds)
	state.WorkingArea = nil
}

// ResetToLobby aborts the game back to the lobby for a fresh round. Table,
// pool, snapshots, working area, hands and initial-meld flags are cleared;
// player identities and codes survive.
func ResetToLobby(state *GameState) {
	state.Phase = PhaseLobby
	state.CurrentPlayerIndex = 0
	state.Melds = nil
	state.TilePool = nil
	state.WinnerID = ""
	state.TurnStartHand = nil
	state.TurnStartMelds = nil
	state.WorkingArea = nil
	for _, p := range state.Players {
		p.Hand = nil
		p.HasInitialMeld = false
		p.QueuedTurn = nil
	}
}
