package domain

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// Color identifies one of the four tile colors.
type Color string

const (
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorYellow Color = "yellow"
	ColorBlack  Color = "black"
)

// Colors lists all tile colors in canonical display order.
var Colors = []Color{ColorRed, ColorBlue, ColorYellow, ColorBlack}

// colorOrder maps a color to its canonical sort rank.
var colorOrder = map[Color]int{
	ColorRed:    0,
	ColorBlue:   1,
	ColorYellow: 2,
	ColorBlack:  3,
}

// Tile is a single tile in the play set. Jokers carry Number 0; when a joker
// participates in a validated meld the processor fills AssignedNumber and
// AssignedColor. Assigned values are display-side only and are recomputed
// whenever meld membership changes.
type Tile struct {
	ID             string `json:"id"`
	Color          Color  `json:"color"`
	Number         int    `json:"number"`
	IsJoker        bool   `json:"isJoker"`
	AssignedNumber int    `json:"assignedNumber,omitempty"`
	AssignedColor  Color  `json:"assignedColor,omitempty"`
}

// Describe returns a short human-readable name, e.g. "red 7" or "joker".
func (t Tile) Describe() string {
	if t.IsJoker {
		return "joker"
	}
	return fmt.Sprintf("%s %d", t.Color, t.Number)
}

// effectiveNumber returns the number a tile represents inside a meld:
// the assigned number for a resolved joker, otherwise the printed number.
func (t Tile) effectiveNumber() int {
	if t.IsJoker {
		return t.AssignedNumber
	}
	return t.Number
}

// NewTileSet produces a fresh 106-tile play set: two copies of every
// color/number pair plus two jokers, each with a unique id.
func NewTileSet() []Tile {
	tiles := make([]Tile, 0, 106)
	for copyIdx := 0; copyIdx < 2; copyIdx++ {
		for _, color := range Colors {
			for number := 1; number <= 13; number++ {
				tiles = append(tiles, Tile{
					ID:     uuid.NewString(),
					Color:  color,
					Number: number,
				})
			}
		}
	}
	for j := 0; j < 2; j++ {
		tiles = append(tiles, Tile{
			ID:      uuid.NewString(),
			IsJoker: true,
		})
	}
	return tiles
}

// Shuffle permutes tiles in place using the provided rng.
func Shuffle(tiles []Tile, rng *rand.Rand) {
	rng.Shuffle(len(tiles), func(i, j int) {
		tiles[i], tiles[j] = tiles[j], tiles[i]
	})
}

// CloneTiles returns a deep copy of the given tiles.
func CloneTiles(tiles []Tile) []Tile {
	if tiles == nil {
		return nil
	}
	out := make([]Tile, len(tiles))
	copy(out, tiles)
	return out
}
