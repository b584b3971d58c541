package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"tilerummy/internal/domain"
)

func TestRulesForPlayerCount(t *testing.T) {
	tests := []struct {
		players       int
		wantHand      int
		wantThreshold int
		wantMode      domain.Mode
	}{
		{players: 2, wantHand: 14, wantThreshold: 30, wantMode: domain.ModeStandard},
		{players: 4, wantHand: 14, wantThreshold: 30, wantMode: domain.ModeStandard},
		{players: 5, wantHand: 13, wantThreshold: 25, wantMode: domain.ModeLarge},
		{players: 8, wantHand: 13, wantThreshold: 25, wantMode: domain.ModeLarge},
		{players: 12, wantHand: 13, wantThreshold: 25, wantMode: domain.ModeLarge},
	}

	for _, tt := range tests {
		rules := RulesForPlayerCount(tt.players)
		if rules.StartingHandSize != tt.wantHand {
			t.Fatalf("players=%d hand=%d, want %d", tt.players, rules.StartingHandSize, tt.wantHand)
		}
		if rules.InitialMeldThreshold != tt.wantThreshold {
			t.Fatalf("players=%d threshold=%d, want %d", tt.players, rules.InitialMeldThreshold, tt.wantThreshold)
		}
		if rules.Mode != tt.wantMode {
			t.Fatalf("players=%d mode=%s, want %s", tt.players, rules.Mode, tt.wantMode)
		}
	}
}

func resetGameConfig() {
	cfg = nil
	loadOnce = sync.Once{}
	loadErr = nil
}

func TestLoadGameConfigFromFile(t *testing.T) {
	resetGameConfig()
	t.Cleanup(resetGameConfig)

	path := filepath.Join(t.TempDir(), "game_config.json")
	doc := `{
		"tiers": [{"max_players": 6, "starting_hand_size": 10, "initial_meld_threshold": 20, "mode": "standard"}],
		"max_players": 6,
		"room_ttl_hours": 1,
		"token_ttl_minutes": 5
	}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := LoadGameConfig(path); err != nil {
		t.Fatalf("LoadGameConfig: %v", err)
	}

	c := GetGameConfig()
	if c.MaxPlayers != 6 || c.RoomTTLHours != 1 || c.TokenTTLMinutes != 5 {
		t.Fatalf("loaded config = %+v", c)
	}
	rules := RulesForPlayerCount(3)
	if rules.StartingHandSize != 10 || rules.InitialMeldThreshold != 20 {
		t.Fatalf("rules after load = %+v, want the file's tier", rules)
	}
}

func TestLoadGameConfigMissingFileKeepsDefaults(t *testing.T) {
	resetGameConfig()
	t.Cleanup(resetGameConfig)

	if err := LoadGameConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
	if got := GetGameConfig().MaxPlayers; got != 8 {
		t.Fatalf("MaxPlayers = %d, want the compiled-in default 8", got)
	}
	if rules := RulesForPlayerCount(2); rules.StartingHandSize != 14 {
		t.Fatalf("rules = %+v, want the default tier", rules)
	}
}
