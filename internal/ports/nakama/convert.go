package nakama

import (
	"tilerummy/internal/domain"
)

// PlayerView is one player as seen from a given seat. Hand is populated only
// for the viewing player; everyone else gets HandCount.
type PlayerView struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	IsHost         bool          `json:"isHost"`
	IsConnected    bool          `json:"isConnected"`
	HasInitialMeld bool          `json:"hasInitialMeld"`
	HandCount      int           `json:"handCount"`
	Hand           []domain.Tile `json:"hand,omitempty"`
	HasQueuedTurn  bool          `json:"hasQueuedTurn"`
}

// GameView is the table as seen from a given seat. Melds are processed so
// jokers carry their resolved number/color for rendering.
type GameView struct {
	Phase              domain.Phase  `json:"phase"`
	Players            []PlayerView  `json:"players"`
	CurrentPlayerIndex int           `json:"currentPlayerIndex"`
	Melds              []domain.Meld `json:"melds"`
	WorkingArea        []domain.Tile `json:"workingArea"`
	PoolCount          int           `json:"poolCount"`
	WinnerID           string        `json:"winnerId,omitempty"`
	Rules              domain.Rules  `json:"rules"`
	Revision           int64         `json:"revision"`
}

// RoomView is the full snapshot returned by room RPCs.
type RoomView struct {
	Code string `json:"code"`
	// PlayerCode is the viewer's own re-auth code, never another player's.
	PlayerCode string    `json:"playerCode,omitempty"`
	StyleID    string    `json:"styleId,omitempty"`
	Game       *GameView `json:"game,omitempty"`
}

func roomToView(room *domain.Room, viewerID string) RoomView {
	view := RoomView{
		Code:    room.Code,
		StyleID: room.StyleID,
	}
	if room.Game == nil {
		return view
	}
	if viewer := room.Game.FindPlayer(viewerID); viewer != nil {
		view.PlayerCode = viewer.PlayerCode
	}
	gv := gameToView(room.Game, viewerID)
	view.Game = &gv
	return view
}

func gameToView(game *domain.GameState, viewerID string) GameView {
	players := make([]PlayerView, 0, len(game.Players))
	for _, p := range game.Players {
		pv := PlayerView{
			ID:             p.ID,
			Name:           p.Name,
			IsHost:         p.IsHost,
			IsConnected:    p.IsConnected,
			HasInitialMeld: p.HasInitialMeld,
			HandCount:      len(p.Hand),
			HasQueuedTurn:  p.QueuedTurn != nil,
		}
		if p.ID == viewerID {
			pv.Hand = domain.CloneTiles(p.Hand)
		}
		players = append(players, pv)
	}

	melds := make([]domain.Meld, 0, len(game.Melds))
	for _, m := range game.Melds {
		melds = append(melds, domain.ProcessMeld(m))
	}

	return GameView{
		Phase:              game.Phase,
		Players:            players,
		CurrentPlayerIndex: game.CurrentPlayerIndex,
		Melds:              melds,
		WorkingArea:        domain.CloneTiles(game.WorkingArea),
		PoolCount:          len(game.TilePool),
		WinnerID:           game.WinnerID,
		Rules:              game.Rules,
		Revision:           game.Revision,
	}
}
