package nakama

// RPC ids clients call. Payloads are JSON documents described next to each
// handler in rpc.go.
const (
	RpcCreateRoom      = "create_room"
	RpcJoinRoom        = "join_room"
	RpcRejoin          = "rejoin"
	RpcGetRoom         = "get_room"
	RpcLeaveRoom       = "leave_room"
	RpcSetRoomStyle    = "set_room_style"
	RpcStartGame       = "start_game"
	RpcPlayTiles       = "play_tiles"
	RpcEndTurn         = "end_turn"
	RpcDrawAndPass     = "draw_and_pass"
	RpcResetTurn       = "reset_turn"
	RpcQueueTurn       = "queue_turn"
	RpcClearQueuedTurn = "clear_queued_turn"
	RpcEndGame         = "end_game"
	RpcDisconnect      = "disconnect"
	RpcReconnectToken  = "reconnect_token"
)

// Storage layout for room records.
const (
	StorageCollectionRooms = "rooms"
)

// Notification codes sent through Nakama's notification stream.
const (
	NotificationCodeQueuedTurnApplied = 201
	NotificationCodeQueuedTurnFailed  = 202
	NotificationCodeGameEnded         = 203
)

const notificationSender = "" // system notifications

// envReconnectTokenSecret is the runtime env key holding the HS256 secret
// for reconnect tokens.
const envReconnectTokenSecret = "RECONNECT_TOKEN_SECRET"

// envGameConfigPath is the runtime env key overriding the rules-table
// location.
const envGameConfigPath = "GAME_CONFIG_PATH"

const defaultGameConfigPath = "data/game_config.json"
