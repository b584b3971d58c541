package app

import "math/rand"

// newRoomCode draws a 4-letter room code from the unambiguous alphabet.
// Uniqueness against live rooms is the caller's responsibility.
func newRoomCode(rng *rand.Rand) string {
	return randomCode(rng, roomCodeAlphabet, RoomCodeLength)
}

// newPlayerCode draws a 6-character re-auth code.
func newPlayerCode(rng *rand.Rand) string {
	return randomCode(rng, playerCodeAlphabet, PlayerCodeLength)
}

func randomCode(rng *rand.Rand, alphabet string, length int) string {
	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(out)
}
