package domain

import "sort"

// BoardDiff describes, in human-readable tile names, what changed on the
// table between two points in time. Used when a queued turn goes stale.
type BoardDiff struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// Empty reports whether nothing changed.
func (d BoardDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// DiffMelds compares the table at two revisions by tile id and returns the
// descriptions of tiles that appeared and disappeared.
func DiffMelds(before, after []Meld) BoardDiff {
	beforeTiles := tilesByID(before)
	afterTiles := tilesByID(after)

	var diff BoardDiff
	for id, t := range afterTiles {
		if _, ok := beforeTiles[id]; !ok {
			diff.Added = append(diff.Added, t.Describe())
		}
	}
	for id, t := range beforeTiles {
		if _, ok := afterTiles[id]; !ok {
			diff.Removed = append(diff.Removed, t.Describe())
		}
	}
	sort.Strings(diff.Added)
	sort.Strings(diff.Removed)
	return diff
}

func tilesByID(melds []Meld) map[string]Tile {
	out := map[string]Tile{}
	for _, m := range melds {
		for _, t := range m.Tiles {
			out[t.ID] = t
		}
	}
	return out
}
