package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"tilerummy/internal/app"
	"tilerummy/internal/config"
	"tilerummy/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// gRPC-style codes for runtime.NewError.
const (
	errCodeInvalidArgument    = 3
	errCodeNotFound           = 5
	errCodePermissionDenied   = 7
	errCodeFailedPrecondition = 9
	errCodeAborted            = 10
	errCodeInternal           = 13
)

var (
	errUnauthenticated = runtime.NewError("no user id in context", 16)
	errBadPayload      = runtime.NewError("invalid request payload", errCodeInvalidArgument)
)

// eventView is one app event as serialized to a client. Only events the
// viewer is a recipient of (or broadcasts) are included; targeted events
// such as hand deals stay private.
type eventView struct {
	Kind    app.EventKind `json:"kind"`
	Payload any           `json:"payload,omitempty"`
}

func newService(nk runtime.NakamaModule, logger runtime.Logger) *app.Service {
	return app.NewService(NewNakamaRoomRepository(nk), NewNakamaNotifier(nk, logger), nil, nil)
}

func userIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if !ok || userID == "" {
		return "", errUnauthenticated
	}
	return userID, nil
}

// tokenServiceFromContext builds the reconnect-token signer from the runtime
// environment. Deploys without the secret simply have reconnect tokens
// disabled.
func tokenServiceFromContext(ctx context.Context) (*app.TokenService, error) {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	secret := env[envReconnectTokenSecret]
	if secret == "" {
		return nil, runtime.NewError("reconnect tokens are not configured", errCodeFailedPrecondition)
	}
	ttl := time.Duration(config.GetGameConfig().TokenTTLMinutes) * time.Minute
	return app.NewTokenService(secret, "tilerummy", ttl), nil
}

func eventsForViewer(events []app.Event, viewerID string) []eventView {
	out := make([]eventView, 0, len(events))
	for _, ev := range events {
		if len(ev.Recipients) > 0 {
			mine := false
			for _, r := range ev.Recipients {
				if r == viewerID {
					mine = true
					break
				}
			}
			if !mine {
				continue
			}
		}
		out = append(out, eventView{Kind: ev.Kind, Payload: ev.Payload})
	}
	return out
}

// toRuntimeError maps app sentinels onto gRPC-style runtime errors so
// clients can branch on the code instead of parsing messages.
func toRuntimeError(logger runtime.Logger, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, app.ErrRoomNotFound):
		return runtime.NewError(err.Error(), errCodeNotFound)
	case errors.Is(err, app.ErrUnknownPlayer), errors.Is(err, app.ErrInvalidPlayerCode):
		return runtime.NewError(err.Error(), errCodeNotFound)
	case errors.Is(err, app.ErrRoomFull), errors.Is(err, app.ErrTooFewPlayers),
		errors.Is(err, app.ErrGameNotInProgress), errors.Is(err, app.ErrGameInProgress),
		errors.Is(err, app.ErrIsYourTurn):
		return runtime.NewError(err.Error(), errCodeFailedPrecondition)
	case errors.Is(err, app.ErrNotHost), errors.Is(err, app.ErrNotYourTurn):
		return runtime.NewError(err.Error(), errCodePermissionDenied)
	case errors.Is(err, app.ErrRevisionConflict):
		return runtime.NewError(err.Error(), errCodeAborted)
	case errors.Is(err, app.ErrTileMismatch):
		return runtime.NewError(err.Error(), errCodeInvalidArgument)
	default:
		logger.Error("rpc failed: %v", err)
		return runtime.NewError("internal server error", errCodeInternal)
	}
}

func marshalResponse(logger runtime.Logger, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("failed to marshal rpc response: %v", err)
		return "", runtime.NewError("internal server error", errCodeInternal)
	}
	return string(data), nil
}

// RpcCreateRoomFn creates a room with the caller as host.
//
// Payload: {"name": string, "email": string, "style_id": string}
// Returns: {"room": RoomView}
func RpcCreateRoomFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return "", err
	}
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		StyleID string `json:"style_id"`
	}
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", errBadPayload
		}
	}

	svc := newService(nk, logger)
	room, player, err := svc.CreateRoom(ctx, userID, req.Name, req.Email, req.StyleID)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	logger.Info("RpcCreateRoom [User:%s]: created room %s", userID, room.Code)
	return marshalResponse(logger, map[string]any{"room": roomToView(room, player.ID)})
}

// RpcJoinRoomFn seats the caller in an existing lobby.
//
// Payload: {"room_code": string, "name": string, "email": string}
// Returns: {"room": RoomView, "events": []eventView}
func RpcJoinRoomFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return "", err
	}
	var req struct {
		RoomCode string `json:"room_code"`
		Name     string `json:"name"`
		Email    string `json:"email"`
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.RoomCode == "" {
		return "", errBadPayload
	}

	svc := newService(nk, logger)
	room, player, events, err := svc.JoinRoom(ctx, req.RoomCode, userID, req.Name, req.Email)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return marshalResponse(logger, map[string]any{
		"room":   roomToView(room, player.ID),
		"events": eventsForViewer(events, player.ID),
	})
}

// RpcRejoinFn re-seats a returning player. The caller proves identity either
// with the player code handed out at join time or with a reconnect token.
//
// Payload: {"room_code": string, "player_code": string} or {"token": string}
// Returns: {"room": RoomView, "events": []eventView}
func RpcRejoinFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req struct {
		RoomCode   string `json:"room_code"`
		PlayerCode string `json:"player_code"`
		Token      string `json:"token"`
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", errBadPayload
	}

	svc := newService(nk, logger)

	roomCode := strings.ToUpper(req.RoomCode)
	playerCode := strings.ToUpper(req.PlayerCode)
	if req.Token != "" {
		tokens, err := tokenServiceFromContext(ctx)
		if err != nil {
			return "", err
		}
		playerID, tokenRoom, err := tokens.Verify(req.Token)
		if err != nil {
			return "", runtime.NewError("invalid reconnect token", 16)
		}
		room, err := svc.GetRoom(ctx, tokenRoom)
		if err != nil {
			return "", toRuntimeError(logger, err)
		}
		player := room.Game.FindPlayer(playerID)
		if player == nil {
			return "", toRuntimeError(logger, app.ErrUnknownPlayer)
		}
		roomCode = tokenRoom
		playerCode = player.PlayerCode
	}
	if roomCode == "" || playerCode == "" {
		return "", errBadPayload
	}

	room, player, events, err := svc.Rejoin(ctx, roomCode, playerCode)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return marshalResponse(logger, map[string]any{
		"room":   roomToView(room, player.ID),
		"events": eventsForViewer(events, player.ID),
	})
}

// RpcGetRoomFn returns the caller's view of a room.
//
// Payload: {"room_code": string}
// Returns: {"room": RoomView}
func RpcGetRoomFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return "", err
	}
	var req struct {
		RoomCode string `json:"room_code"`
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.RoomCode == "" {
		return "", errBadPayload
	}

	svc := newService(nk, logger)
	room, err := svc.GetRoom(ctx, req.RoomCode)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return marshalResponse(logger, map[string]any{"room": roomToView(room, userID)})
}

// RpcLeaveRoomFn removes the caller from a lobby, or marks them disconnected
// mid-game.
//
// Payload: {"room_code": string}
// Returns: {"events": []eventView}
func RpcLeaveRoomFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return roomActionRpc(ctx, logger, nk, payload, func(svc *app.Service, roomCode, userID string) ([]app.Event, error) {
		return svc.LeaveRoom(ctx, roomCode, userID)
	})
}

// RpcDisconnectFn marks the caller disconnected without removing them. Their
// seat, hand and queued turn survive for a later rejoin.
//
// Payload: {"room_code": string}
// Returns: {"events": []eventView}
func RpcDisconnectFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return roomActionRpc(ctx, logger, nk, payload, func(svc *app.Service, roomCode, userID string) ([]app.Event, error) {
		return svc.Disconnect(ctx, roomCode, userID)
	})
}

// roomActionRpc factors the shared shape of RPCs that act on a room and
// return only events.
func roomActionRpc(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, payload string, action func(svc *app.Service, roomCode, userID string) ([]app.Event, error)) (string, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return "", err
	}
	var req struct {
		RoomCode string `json:"room_code"`
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.RoomCode == "" {
		return "", errBadPayload
	}

	svc := newService(nk, logger)
	events, err := action(svc, req.RoomCode, userID)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return marshalResponse(logger, map[string]any{"events": eventsForViewer(events, userID)})
}

// RpcSetRoomStyleFn lets the host pick a table style for the room.
//
// Payload: {"room_code": string, "style_id": string}
// Returns: {"events": []eventView}
func RpcSetRoomStyleFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return "", err
	}
	var req struct {
		RoomCode string `json:"room_code"`
		StyleID  string `json:"style_id"`
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.RoomCode == "" {
		return "", errBadPayload
	}

	svc := newService(nk, logger)
	events, err := svc.SetRoomStyle(ctx, req.RoomCode, userID, req.StyleID)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return marshalResponse(logger, map[string]any{"events": eventsForViewer(events, userID)})
}

// RpcStartGameFn deals hands and opens play. Host only.
//
// Payload: {"room_code": string}
// Returns: {"room": RoomView, "events": []eventView}
func RpcStartGameFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return "", err
	}
	var req struct {
		RoomCode string `json:"room_code"`
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.RoomCode == "" {
		return "", errBadPayload
	}

	svc := newService(nk, logger)
	room, events, err := svc.StartGame(ctx, req.RoomCode, userID)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	logger.Info("RpcStartGame [User:%s]: room %s started with %d players", userID, room.Code, len(room.Game.Players))
	return marshalResponse(logger, map[string]any{
		"room":   roomToView(room, userID),
		"events": eventsForViewer(events, userID),
	})
}

// turnRequest is the shared payload of the in-turn RPCs. Melds, hand and
// working area describe the complete proposed arrangement; revision is the
// client's last seen value, -1 to skip the check.
type turnRequest struct {
	RoomCode    string        `json:"room_code"`
	Melds       []domain.Meld `json:"melds"`
	Hand        []domain.Tile `json:"hand"`
	WorkingArea []domain.Tile `json:"working_area"`
	Revision    *int64        `json:"revision"`
}

func (r turnRequest) expectedRevision() int64 {
	if r.Revision == nil {
		return -1
	}
	return *r.Revision
}

// RpcPlayTilesFn replaces the caller's uncommitted table arrangement.
//
// Payload: turnRequest
// Returns: {"room": RoomView, "events": []eventView}
func RpcPlayTilesFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return "", err
	}
	var req turnRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.RoomCode == "" {
		return "", errBadPayload
	}

	svc := newService(nk, logger)
	room, events, err := svc.PlayTiles(ctx, req.RoomCode, userID, req.Melds, req.Hand, req.WorkingArea, req.expectedRevision())
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return marshalResponse(logger, map[string]any{
		"room":   roomToView(room, userID),
		"events": eventsForViewer(events, userID),
	})
}

// RpcEndTurnFn commits the caller's arrangement. Validation failures are not
// errors; they come back as {"valid": false, "reason": ...} so clients can
// show the reason inline.
//
// Payload: {"room_code": string, "revision": int}
// Returns: {"valid": bool, "reason": string, "room": RoomView, "events": []eventView}
func RpcEndTurnFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return "", err
	}
	var req turnRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.RoomCode == "" {
		return "", errBadPayload
	}

	svc := newService(nk, logger)
	room, check, events, err := svc.EndTurn(ctx, req.RoomCode, userID, req.expectedRevision())
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return marshalResponse(logger, map[string]any{
		"valid":  check.Valid,
		"reason": check.Reason,
		"room":   roomToView(room, userID),
		"events": eventsForViewer(events, userID),
	})
}

// RpcDrawAndPassFn reverts the caller's arrangement, draws a tile when the
// pool has one, and passes the turn.
//
// Payload: {"room_code": string, "revision": int}
// Returns: {"room": RoomView, "events": []eventView}
func RpcDrawAndPassFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return turnActionRpc(ctx, logger, nk, payload, func(svc *app.Service, req turnRequest, userID string) (*domain.Room, []app.Event, error) {
		return svc.DrawAndPass(ctx, req.RoomCode, userID, req.expectedRevision())
	})
}

// RpcResetTurnFn restores the caller's hand and the table to the turn-start
// snapshot.
//
// Payload: {"room_code": string, "revision": int}
// Returns: {"room": RoomView, "events": []eventView}
func RpcResetTurnFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return turnActionRpc(ctx, logger, nk, payload, func(svc *app.Service, req turnRequest, userID string) (*domain.Room, []app.Event, error) {
		return svc.ResetTurn(ctx, req.RoomCode, userID, req.expectedRevision())
	})
}

// RpcQueueTurnFn stages a full turn for automatic play when the caller's
// turn arrives.
//
// Payload: turnRequest (revision ignored; the live revision is captured)
// Returns: {"room": RoomView, "events": []eventView}
func RpcQueueTurnFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return turnActionRpc(ctx, logger, nk, payload, func(svc *app.Service, req turnRequest, userID string) (*domain.Room, []app.Event, error) {
		return svc.QueueTurn(ctx, req.RoomCode, userID, req.Melds, req.Hand, req.WorkingArea)
	})
}

// RpcClearQueuedTurnFn drops the caller's staged turn.
//
// Payload: {"room_code": string}
// Returns: {"room": RoomView, "events": []eventView}
func RpcClearQueuedTurnFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return turnActionRpc(ctx, logger, nk, payload, func(svc *app.Service, req turnRequest, userID string) (*domain.Room, []app.Event, error) {
		return svc.ClearQueuedTurn(ctx, req.RoomCode, userID)
	})
}

// RpcEndGameFn aborts the game and returns the room to the lobby. Host only.
//
// Payload: {"room_code": string}
// Returns: {"room": RoomView, "events": []eventView}
func RpcEndGameFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return turnActionRpc(ctx, logger, nk, payload, func(svc *app.Service, req turnRequest, userID string) (*domain.Room, []app.Event, error) {
		return svc.EndGame(ctx, req.RoomCode, userID)
	})
}

func turnActionRpc(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, payload string, action func(svc *app.Service, req turnRequest, userID string) (*domain.Room, []app.Event, error)) (string, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return "", err
	}
	var req turnRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.RoomCode == "" {
		return "", errBadPayload
	}

	svc := newService(nk, logger)
	room, events, err := action(svc, req, userID)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return marshalResponse(logger, map[string]any{
		"room":   roomToView(room, userID),
		"events": eventsForViewer(events, userID),
	})
}

// RpcReconnectTokenFn mints a short-lived JWT a client can later present to
// rejoin without storing the player code.
//
// Payload: {"room_code": string, "player_code": string}
// Returns: {"token": string, "expires_in_seconds": int}
func RpcReconnectTokenFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req struct {
		RoomCode   string `json:"room_code"`
		PlayerCode string `json:"player_code"`
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.RoomCode == "" || req.PlayerCode == "" {
		return "", errBadPayload
	}

	tokens, err := tokenServiceFromContext(ctx)
	if err != nil {
		return "", err
	}

	svc := newService(nk, logger)
	room, err := svc.GetRoom(ctx, req.RoomCode)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	player := room.Game.FindPlayerByCode(strings.ToUpper(req.PlayerCode))
	if player == nil {
		return "", toRuntimeError(logger, app.ErrInvalidPlayerCode)
	}

	token, err := tokens.GenerateToken(player.ID, room.Code)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	ttl := time.Duration(config.GetGameConfig().TokenTTLMinutes) * time.Minute
	return marshalResponse(logger, map[string]any{
		"token":              token,
		"expires_in_seconds": int(ttl.Seconds()),
	})
}

// RegisterRPCs binds every RPC id to its handler.
func RegisterRPCs(initializer runtime.Initializer) error {
	handlers := map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error){
		RpcCreateRoom:      RpcCreateRoomFn,
		RpcJoinRoom:        RpcJoinRoomFn,
		RpcRejoin:          RpcRejoinFn,
		RpcGetRoom:         RpcGetRoomFn,
		RpcLeaveRoom:       RpcLeaveRoomFn,
		RpcSetRoomStyle:    RpcSetRoomStyleFn,
		RpcStartGame:       RpcStartGameFn,
		RpcPlayTiles:       RpcPlayTilesFn,
		RpcEndTurn:         RpcEndTurnFn,
		RpcDrawAndPass:     RpcDrawAndPassFn,
		RpcResetTurn:       RpcResetTurnFn,
		RpcQueueTurn:       RpcQueueTurnFn,
		RpcClearQueuedTurn: RpcClearQueuedTurnFn,
		RpcEndGame:         RpcEndGameFn,
		RpcDisconnect:      RpcDisconnectFn,
		RpcReconnectToken:  RpcReconnectTokenFn,
	}
	for id, fn := range handlers {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return err
		}
	}
	return nil
}
