package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/game"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const fullConfig = `{
  "rules": {
    "hp_start": 100,
    "hand_size": 5,
    "deck_max": 12,
    "type_limit": 5,
    "turn_seconds": 30,
    "turn_limit": 20,
    "card_values": {"attack": 30, "defend": 20, "heal": 25},
    "specials": {
      "Miko": {"card": "heal", "bonus": 20},
      "Witch": {"card": "attack", "bonus": 20}
    },
    "curse": {"duration": 3, "hp_debuff": 5, "atk_debuff": 10},
    "no_play_penalty": 25,
    "curse_cure_heal": 10,
    "settle_delay_ms": 500
  },
  "server": {"address": ":5000"}
}`

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, fullConfig))
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.ServerAddress)
	assert.Equal(t, 100, cfg.Rules.HPStart)
	assert.Equal(t, 30, cfg.Rules.CardValues[game.CardAttack])
	assert.Equal(t, game.SpecialBonus{Card: game.CardHeal, Bonus: 20}, cfg.Rules.Specials[game.CharacterMiko])
	assert.Equal(t, 25, cfg.Rules.NoPlayPenalty)
	assert.Equal(t, 10, cfg.Rules.CurseCureHeal)
	assert.Equal(t, 500, cfg.Rules.SettleDelayMS)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{
	  "rules": {
	    "hp_start": 100,
	    "hand_size": 5,
	    "deck_max": 12,
	    "type_limit": 5,
	    "turn_seconds": 30,
	    "turn_limit": 20,
	    "card_values": {"attack": 30, "defend": 20, "heal": 25},
	    "curse": {"duration": 3, "hp_debuff": 5, "atk_debuff": 10}
	  }
	}`))
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.ServerAddress)
	assert.Equal(t, 20, cfg.Rules.NoPlayPenalty)
	assert.Equal(t, 15, cfg.Rules.CurseCureHeal)
	assert.Equal(t, 800, cfg.Rules.SettleDelayMS)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfigMissingRules(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `{"server": {"address": ":5000"}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing 'rules'")
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *game.Rules)
		wantErr string
	}{
		{
			name:    "zero hp_start",
			mutate:  func(r *game.Rules) { r.HPStart = 0 },
			wantErr: "rules.hp_start must be a positive integer",
		},
		{
			name:    "hand larger than deck",
			mutate:  func(r *game.Rules) { r.HandSize = 13 },
			wantErr: "rules.hand_size may not exceed rules.deck_max",
		},
		{
			name:    "missing card value",
			mutate:  func(r *game.Rules) { delete(r.CardValues, game.CardHeal) },
			wantErr: `rules.card_values missing value for "heal"`,
		},
		{
			name: "unknown special character",
			mutate: func(r *game.Rules) {
				r.Specials["Yukari"] = game.SpecialBonus{Card: game.CardAttack, Bonus: 10}
			},
			wantErr: `rules.specials has unknown character "Yukari"`,
		},
		{
			name: "non-positive special bonus",
			mutate: func(r *game.Rules) {
				r.Specials[game.CharacterMiko] = game.SpecialBonus{Card: game.CardHeal, Bonus: 0}
			},
			wantErr: "bonus must be positive",
		},
		{
			name:    "zero curse duration",
			mutate:  func(r *game.Rules) { r.Curse.Duration = 0 },
			wantErr: "rules.curse.duration must be positive",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := baseRules()
			tt.mutate(&r)
			err := validateRules("test.json", r)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func baseRules() game.Rules {
	return game.Rules{
		HPStart:     100,
		HandSize:    5,
		DeckMax:     12,
		TypeLimit:   5,
		TurnSeconds: 30,
		TurnLimit:   20,
		CardValues: map[game.CardType]int{
			game.CardAttack: 30,
			game.CardDefend: 20,
			game.CardHeal:   25,
		},
		Specials: map[game.Character]game.SpecialBonus{
			game.CharacterMiko: {Card: game.CardHeal, Bonus: 20},
		},
		Curse:         game.CurseRules{Duration: 3, HPDebuff: 5, AtkDebuff: 10},
		NoPlayPenalty: 20,
		CurseCureHeal: 15,
		SettleDelayMS: 800,
	}
}
