package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"tilerummy/internal/domain"
)

// RulesTier maps a player-count band to its game rules. A game with at most
// MaxPlayers players (and more than the previous tier's MaxPlayers) uses this
// tier.
type RulesTier struct {
	MaxPlayers           int         `json:"max_players"`
	StartingHandSize     int         `json:"starting_hand_size"`
	InitialMeldThreshold int         `json:"initial_meld_threshold"`
	Mode                 domain.Mode `json:"mode"`
}

type GameConfig struct {
	Tiers      []RulesTier `json:"tiers"`
	MaxPlayers int         `json:"max_players"`
	// RoomTTLHours configures how long a room with no connected players survives
	// before garbage collection.
	RoomTTLHours    int `json:"room_ttl_hours"`
	TokenTTLMinutes int `json:"token_ttl_minutes"`
}

// defaultConfig is used when no config file has been loaded. The large-game
// tier kicks in at five players: a smaller starting hand and a threshold
// below the standard 30.
var defaultConfig = GameConfig{
	Tiers: []RulesTier{
		{MaxPlayers: 4, StartingHandSize: 14, InitialMeldThreshold: 30, Mode: domain.ModeStandard},
		{MaxPlayers: 8, StartingHandSize: 13, InitialMeldThreshold: 25, Mode: domain.ModeLarge},
	},
	MaxPlayers:      8,
	RoomTTLHours:    24,
	TokenTTLMinutes: 60 * 24 * 30,
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		sort.Slice(c.Tiers, func(i, j int) bool { return c.Tiers[i].MaxPlayers < c.Tiers[j].MaxPlayers })
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the loaded configuration, or the compiled-in default.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		return &defaultConfig
	}
	return cfg
}

// RulesForPlayerCount returns the rules tier covering the given player count.
// Counts beyond the last tier use the last tier.
func RulesForPlayerCount(playerCount int) domain.Rules {
	c := GetGameConfig()
	for _, tier := range c.Tiers {
		if playerCount <= tier.MaxPlayers {
			return domain.Rules{
				StartingHandSize:     tier.StartingHandSize,
				InitialMeldThreshold: tier.InitialMeldThreshold,
				Mode:                 tier.Mode,
			}
		}
	}
	last := c.Tiers[len(c.Tiers)-1]
	return domain.Rules{
		StartingHandSize:     last.StartingHandSize,
		InitialMeldThreshold: last.InitialMeldThreshold,
		Mode:                 last.Mode,
	}
}
