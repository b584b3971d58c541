package app

import (
	"context"

	"tilerummy/internal/domain"
	"tilerummy/internal/ports"
)

// QueuedTurnOutcome reports what reconciliation did with a staged turn.
type QueuedTurnOutcome struct {
	Applied bool
	Stale   bool
	Reason  string
	Events  []Event
}

const reasonBoardChanged = "board changed since turn was planned"

// reconcileQueuedTurn resolves the current player's staged turn against the
// live board. A revision mismatch where the table actually changed marks the
// turn stale; otherwise the plan is re-validated exactly like a manual
// end-turn and committed when legal. Either way the staged turn is consumed
// and the failure path leaves the turn open for manual play.
func (s *Service) reconcileQueuedTurn(ctx context.Context, room *domain.Room) QueuedTurnOutcome {
	game := room.Game
	player := game.CurrentPlayer()
	qt := player.QueuedTurn
	if qt == nil {
		return QueuedTurnOutcome{}
	}
	player.QueuedTurn = nil

	if game.Revision != qt.BaseRevision {
		diff := domain.DiffMelds(qt.BaseMelds, game.Melds)
		if !diff.Empty() {
			return s.queuedTurnFailed(ctx, room, player, qt, reasonBoardChanged, diff)
		}
		// The revision moved but the table did not (e.g. the previous player
		// drew and passed); the plan's assumptions still hold.
	}

	candidate := *player
	candidate.Hand = qt.PlannedHand
	check := domain.CanEndTurn(&candidate, qt.PlannedMelds, game.TurnStartHand, game.TurnStartMelds, qt.PlannedWorkingArea, game.Rules)
	if !check.Valid {
		return s.queuedTurnFailed(ctx, room, player, qt, check.Reason, domain.BoardDiff{})
	}
	if !tilesConserved(game, qt.PlannedHand, qt.PlannedMelds, qt.PlannedWorkingArea) {
		return s.queuedTurnFailed(ctx, room, player, qt, ErrTileMismatch.Error(), domain.BoardDiff{})
	}

	player.Hand = domain.CloneTiles(qt.PlannedHand)
	game.Melds = domain.CloneMelds(qt.PlannedMelds)
	game.WorkingArea = nil
	player.HasInitialMeld = true
	game.Revision++
	domain.CheckGameEnd(game)

	if s.notifier != nil {
		_ = s.notifier.QueuedTurnApplied(ctx, ports.QueuedTurnNotice{
			PlayerID:   player.ID,
			PlayerName: player.Name,
			Email:      player.Email,
			RoomCode:   room.Code,
			Melds:      domain.CloneMelds(game.Melds),
		})
	}
	return QueuedTurnOutcome{
		Applied: true,
		Events: []Event{{
			Kind:    EventQueuedTurnApplied,
			Payload: QueuedTurnAppliedPayload{PlayerID: player.ID, Revision: game.Revision},
		}},
	}
}

func (s *Service) queuedTurnFailed(ctx context.Context, room *domain.Room, player *domain.Player, qt *domain.QueuedTurn, reason string, diff domain.BoardDiff) QueuedTurnOutcome {
	if s.notifier != nil {
		_ = s.notifier.QueuedTurnFailed(ctx, ports.QueuedTurnNotice{
			PlayerID:     player.ID,
			PlayerName:   player.Name,
			Email:        player.Email,
			RoomCode:     room.Code,
			Melds:        qt.PlannedMelds,
			Reason:       reason,
			BoardChanges: diff,
		})
	}
	return QueuedTurnOutcome{
		Stale:  !diff.Empty(),
		Reason: reason,
		Events: []Event{{
			Kind:    EventQueuedTurnFailed,
			Payload: QueuedTurnFailedPayload{PlayerID: player.ID, Reason: reason, BoardChanges: diff},
		}},
	}
}
