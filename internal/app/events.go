package app

import (
	"tilerummy/internal/domain"
	"tilerummy/internal/ports"
)

// EventKind identifies emitted app events for transport dispatch.
type EventKind string

const (
	EventPlayerJoined       EventKind = "player_joined"
	EventPlayerRejoined     EventKind = "player_rejoined"
	EventPlayerLeft         EventKind = "player_left"
	EventPlayerDisconnected EventKind = "player_disconnected"
	EventRoomStyleChanged   EventKind = "room_style_changed"
	EventGameStarted        EventKind = "game_started"
	EventHandDealt          EventKind = "hand_dealt"
	EventTableUpdated       EventKind = "table_updated"
	EventTileDrawn          EventKind = "tile_drawn"
	EventTurnReset          EventKind = "turn_reset"
	EventTurnAdvanced       EventKind = "turn_advanced"
	EventQueuedTurnSet      EventKind = "queued_turn_set"
	EventQueuedTurnCleared  EventKind = "queued_turn_cleared"
	EventQueuedTurnApplied  EventKind = "queued_turn_applied"
	EventQueuedTurnFailed   EventKind = "queued_turn_failed"
	EventGameEnded          EventKind = "game_ended"
	EventGameAborted        EventKind = "game_aborted"
)

// Event is an app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // player IDs; empty means broadcast
}

type PlayerJoinedPayload struct {
	PlayerID string
	Name     string
	IsHost   bool
}

type PlayerLeftPayload struct {
	PlayerID  string
	NewHostID string // set when host left and another player was promoted
}

type RoomStyleChangedPayload struct {
	StyleID string
}

type GameStartedPayload struct {
	Rules         domain.Rules
	FirstPlayerID string
}

type HandDealtPayload struct {
	PlayerID string
	Hand     []domain.Tile
}

type TableUpdatedPayload struct {
	PlayerID string
	Revision int64
}

type TileDrawnPayload struct {
	PlayerID string
	Tile     domain.Tile
	PoolLeft int
}

type TurnAdvancedPayload struct {
	PlayerID string
	Revision int64
}

type QueuedTurnAppliedPayload struct {
	PlayerID string
	Revision int64
}

type QueuedTurnFailedPayload struct {
	PlayerID     string
	Reason       string
	BoardChanges domain.BoardDiff
}

type GameEndedPayload struct {
	WinnerID  string
	Standings []ports.Standing
}
