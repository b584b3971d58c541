package ports

import (
	"context"

	"tilerummy/internal/domain"
)

// QueuedTurnNotice carries the plain data for queued-turn outcome messages.
// The engine never formats user-facing text beyond Reason; presentation is
// the delivery side's concern.
type QueuedTurnNotice struct {
	PlayerID   string
	PlayerName string
	Email      string
	RoomCode   string
	// Melds is the table after an applied turn, or the planned melds of a
	// failed one.
	Melds []domain.Meld
	// Reason and BoardChanges are set only on failure.
	Reason       string
	BoardChanges domain.BoardDiff
}

// Standing is one row of the end-game summary.
type Standing struct {
	PlayerID   string
	PlayerName string
	HandPoints int
}

// GameEndNotice summarizes a finished game.
type GameEndNotice struct {
	RoomCode   string
	WinnerID   string
	WinnerName string
	Standings  []Standing
}

// Notifier delivers out-of-band player notifications; the adapter decides
// the channel. All methods are best-effort from the engine's point of
// view; a failed delivery never rolls back game state.
type Notifier interface {
	QueuedTurnApplied(ctx context.Context, notice QueuedTurnNotice) error
	QueuedTurnFailed(ctx context.Context, notice QueuedTurnNotice) error
	GameEnded(ctx context.Context, notice GameEndNotice) error
}
