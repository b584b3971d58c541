package nakama

import (
	"context"
	"fmt"

	"tilerummy/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaNotifier implements ports.Notifier using Nakama's persistent
// notification stream. Payloads stay plain data; rendering (in-app banner,
// e-mail digest) is the client pipeline's concern.
type NakamaNotifier struct {
	nk     runtime.NakamaModule
	logger runtime.Logger
}

// NewNakamaNotifier creates a new notifier adapter.
func NewNakamaNotifier(nk runtime.NakamaModule, logger runtime.Logger) *NakamaNotifier {
	return &NakamaNotifier{nk: nk, logger: logger}
}

// QueuedTurnApplied tells a player their staged turn was auto-played.
func (n *NakamaNotifier) QueuedTurnApplied(ctx context.Context, notice ports.QueuedTurnNotice) error {
	content := map[string]interface{}{
		"room_code":   notice.RoomCode,
		"player_name": notice.PlayerName,
		"email":       notice.Email,
		"melds":       notice.Melds,
	}
	return n.send(ctx, notice.PlayerID, "Your queued turn was played", content, NotificationCodeQueuedTurnApplied)
}

// QueuedTurnFailed tells a player their staged turn could not be applied,
// with the reason and what changed on the board.
func (n *NakamaNotifier) QueuedTurnFailed(ctx context.Context, notice ports.QueuedTurnNotice) error {
	content := map[string]interface{}{
		"room_code":     notice.RoomCode,
		"player_name":   notice.PlayerName,
		"email":         notice.Email,
		"reason":        notice.Reason,
		"planned_melds": notice.Melds,
		"board_changes": map[string]interface{}{
			"added":   notice.BoardChanges.Added,
			"removed": notice.BoardChanges.Removed,
		},
	}
	return n.send(ctx, notice.PlayerID, "Your queued turn could not be played", content, NotificationCodeQueuedTurnFailed)
}

// GameEnded sends every player the final standings.
func (n *NakamaNotifier) GameEnded(ctx context.Context, notice ports.GameEndNotice) error {
	standings := make([]map[string]interface{}, 0, len(notice.Standings))
	for _, row := range notice.Standings {
		standings = append(standings, map[string]interface{}{
			"player_id":   row.PlayerID,
			"player_name": row.PlayerName,
			"hand_points": row.HandPoints,
		})
	}
	content := map[string]interface{}{
		"room_code":   notice.RoomCode,
		"winner_id":   notice.WinnerID,
		"winner_name": notice.WinnerName,
		"standings":   standings,
	}
	var firstErr error
	for _, row := range notice.Standings {
		if err := n.send(ctx, row.PlayerID, "Game over", content, NotificationCodeGameEnded); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (n *NakamaNotifier) send(ctx context.Context, playerID, subject string, content map[string]interface{}, code int) error {
	if err := n.nk.NotificationSend(ctx, playerID, subject, content, code, notificationSender, true); err != nil {
		n.logger.Warn("NakamaNotifier: failed to notify %s: %v", playerID, err)
		return fmt.Errorf("failed to send notification to %s: %w", playerID, err)
	}
	return nil
}

var _ ports.Notifier = (*NakamaNotifier)(nil)
