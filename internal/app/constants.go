package app

// MinPlayersToStartGame defines the minimum number of joined players required
// to start a game. Centralized so tests or local runs can adjust the rule in
// one place.
const MinPlayersToStartGame = 2

const (
	// RoomCodeLength is the length of human-enterable room codes.
	RoomCodeLength = 4
	// PlayerCodeLength is the length of cross-device re-auth codes.
	PlayerCodeLength = 6
)

// roomCodeAlphabet is a 24-letter alphabet with the easily confused I and O
// removed.
const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ"

// playerCodeAlphabet is the 32-character Crockford base32 set.
const playerCodeAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"
