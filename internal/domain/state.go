package domain

import "time"

// Phase represents the lifecycle stage of a room's game.
type Phase string

const (
	// PhaseLobby indicates the room is waiting for players.
	PhaseLobby Phase = "lobby"
	// PhasePlaying indicates a game is actively in progress.
	PhasePlaying Phase = "playing"
	// PhaseEnded indicates the game has finished.
	PhaseEnded Phase = "ended"
)

// Mode selects which rules tier a game runs under.
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeLarge    Mode = "large"
)

// Rules holds the table-driven parameters for one game.
type Rules struct {
	StartingHandSize     int  `json:"startingHandSize"`
	InitialMeldThreshold int  `json:"initialMeldThreshold"`
	Mode                 Mode `json:"mode"`
}

// QueuedTurn is a turn a player staged while it was not yet their turn. It is
// applied automatically when the turn arrives, provided the table has not
// moved past BaseRevision since it was planned.
type QueuedTurn struct {
	PlannedMelds       []Meld    `json:"plannedMelds"`
	PlannedHand        []Tile    `json:"plannedHand"`
	PlannedWorkingArea []Tile    `json:"plannedWorkingArea"`
	BaseMelds          []Meld    `json:"baseMelds"`
	BaseRevision       int64     `json:"baseRevision"`
	QueuedAt           time.Time `json:"queuedAt"`
}

// Player holds the state for one participant. Hand is owned exclusively by
// this player and must never appear in snapshots sent to other players.
type Player struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	IsHost         bool        `json:"isHost"`
	Hand           []Tile      `json:"hand"`
	HasInitialMeld bool        `json:"hasInitialMeld"`
	IsConnected    bool        `json:"isConnected"`
	Email          string      `json:"email,omitempty"`
	PlayerCode     string      `json:"playerCode"`
	QueuedTurn     *QueuedTurn `json:"queuedTurn,omitempty"`
}

// GameState is the authoritative state of one game. Revision increments
// exactly once per committed mutation and is the optimistic-concurrency
// anchor for queued turns.
type GameState struct {
	Phase              Phase     `json:"phase"`
	Players            []*Player `json:"players"`
	CurrentPlayerIndex int       `json:"currentPlayerIndex"`
	Melds              []Meld    `json:"melds"`
	TilePool           []Tile    `json:"tilePool"`
	WinnerID           string    `json:"winnerId,omitempty"`
	TurnStartMelds     []Meld    `json:"turnStartMelds"`
	TurnStartHand      []Tile    `json:"turnStartHand"`
	WorkingArea        []Tile    `json:"workingArea"`
	Rules              Rules     `json:"rules"`
	Revision           int64     `json:"revision"`
}

// Room wraps a game behind its join code. LastActivity is stamped on every
// save and drives idle-room expiry.
type Room struct {
	Code         string     `json:"code"`
	Game         *GameState `json:"game"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastActivity time.Time  `json:"lastActivity"`
	StyleID      string     `json:"styleId"`
}

// CurrentPlayer returns the player whose turn it is, or nil outside play.
func (g *GameState) CurrentPlayer() *Player {
	if g.CurrentPlayerIndex < 0 || g.CurrentPlayerIndex >= len(g.Players) {
		return nil
	}
	return g.Players[g.CurrentPlayerIndex]
}

// FindPlayer returns the player with the given id, or nil.
func (g *GameState) FindPlayer(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// FindPlayerByCode returns the player with the given re-auth code, or nil.
func (g *GameState) FindPlayerByCode(code string) *Player {
	for _, p := range g.Players {
		if p.PlayerCode == code {
			return p
		}
	}
	return nil
}

// HostPlayer returns the room host, or nil.
func (g *GameState) HostPlayer() *Player {
	for _, p := range g.Players {
		if p.IsHost {
			return p
		}
	}
	return nil
}

// ConnectedCount returns the number of connected players.
func (g *GameState) ConnectedCount() int {
	n := 0
	for _, p := range g.Players {
		if p.IsConnected {
			n++
		}
	}
	return n
}
