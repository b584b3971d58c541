package domain

// Stable reasons returned by CanEndTurn. Callers surface these to the acting
// player verbatim.
const (
	ReasonWorkingAreaNotEmpty = "working area not empty"
	ReasonInvalidMeld         = "invalid meld on table"
	ReasonNoTilesPlayed       = "no tiles played"
	ReasonThresholdNotMet     = "initial meld threshold not met"
)

// TurnCheck is the outcome of end-of-turn validation. A failed check is
// expected game flow, not an error: state stays untouched and Reason goes
// back to the acting player.
type TurnCheck struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

func invalidTurn(reason string) TurnCheck {
	return TurnCheck{Reason: reason}
}

// CanEndTurn decides whether the current rearrangement is a legal committed
// turn: the working area must be empty, every table meld valid, at least one
// tile played from hand. Until the player's first committed turn, the
// wholly-new melds must together meet the initial-meld point threshold.
func CanEndTurn(player *Player, melds []Meld, turnStartHand []Tile, turnStartMelds []Meld, workingArea []Tile, rules Rules) TurnCheck {
	if len(workingArea) > 0 {
		return invalidTurn(ReasonWorkingAreaNotEmpty)
	}

	for _, m := range melds {
		if !IsValidMeld(m.Tiles) {
			return invalidTurn(ReasonInvalidMeld)
		}
	}

	if len(turnStartHand)-len(player.Hand) <= 0 {
		return invalidTurn(ReasonNoTilesPlayed)
	}

	if !player.HasInitialMeld {
		played := newlyPlayedIDs(turnStartHand, player.Hand)
		points := 0
		for _, m := range melds {
			if meldEntirelyFrom(m, played) {
				points += ProcessedMeldPoints(m)
			}
		}
		if points < rules.InitialMeldThreshold {
			return invalidTurn(ReasonThresholdNotMet)
		}
	}

	return TurnCheck{Valid: true}
}

// newlyPlayedIDs returns the ids present in the turn-start hand but no longer
// in the current hand.
func newlyPlayedIDs(turnStartHand, hand []Tile) map[string]bool {
	inHand := make(map[string]bool, len(hand))
	for _, t := range hand {
		inHand[t.ID] = true
	}
	played := map[string]bool{}
	for _, t := range turnStartHand {
		if !inHand[t.ID] {
			played[t.ID] = true
		}
	}
	return played
}

// meldEntirelyFrom reports whether every tile in the meld comes from the
// given id set, i.e. the meld is wholly new rather than an extension of a
// pre-existing one.
func meldEntirelyFrom(meld Meld, ids map[string]bool) bool {
	if len(meld.Tiles) == 0 {
		return false
	}
	for _, t := range meld.Tiles {
		if !ids[t.ID] {
			return false
		}
	}
	return true
}
