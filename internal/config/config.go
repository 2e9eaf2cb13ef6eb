package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/game"
)

type rawConfig struct {
	Rules  *game.Rules `json:"rules"`
	Server *struct {
		Address string `json:"address"`
	} `json:"server"`
}

// LoadedConfig contains the battle rules and the server address to bind to.
type LoadedConfig struct {
	Rules         game.Rules
	ServerAddress string
}

// LoadConfig reads the configuration file at path and returns the battle
// rules and server address. It requires the key `rules` with the core
// numeric tunables set; secondary values fall back to defaults.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if rc.Rules == nil {
		return nil, fmt.Errorf("config file %s: missing 'rules' object", path)
	}
	rules := *rc.Rules
	applyDefaults(&rules)
	if err := validateRules(path, rules); err != nil {
		return nil, err
	}

	addr := ":4000"
	if rc.Server != nil && rc.Server.Address != "" {
		addr = rc.Server.Address
	}
	return &LoadedConfig{Rules: rules, ServerAddress: addr}, nil
}

func applyDefaults(r *game.Rules) {
	if r.NoPlayPenalty == 0 {
		r.NoPlayPenalty = 20
	}
	if r.CurseCureHeal == 0 {
		r.CurseCureHeal = 15
	}
	if r.SettleDelayMS == 0 {
		r.SettleDelayMS = 800
	}
}

func validateRules(path string, r game.Rules) error {
	required := map[string]int{
		"hp_start":     r.HPStart,
		"hand_size":    r.HandSize,
		"deck_max":     r.DeckMax,
		"type_limit":   r.TypeLimit,
		"turn_seconds": r.TurnSeconds,
		"turn_limit":   r.TurnLimit,
	}
	for key, v := range required {
		if v <= 0 {
			return fmt.Errorf("config file %s: rules.%s must be a positive integer", path, key)
		}
	}
	if r.HandSize > r.DeckMax {
		return fmt.Errorf("config file %s: rules.hand_size may not exceed rules.deck_max", path)
	}
	for _, t := range game.AllCardTypes {
		if _, ok := r.CardValues[t]; !ok && t != game.CardCurse {
			return fmt.Errorf("config file %s: rules.card_values missing value for %q", path, t)
		}
	}
	for ch, sp := range r.Specials {
		if !ch.IsValid() {
			return fmt.Errorf("config file %s: rules.specials has unknown character %q", path, ch)
		}
		if !sp.Card.IsValid() {
			return fmt.Errorf("config file %s: rules.specials[%s] has unknown card type %q", path, ch, sp.Card)
		}
		if sp.Bonus <= 0 {
			return fmt.Errorf("config file %s: rules.specials[%s] bonus must be positive", path, ch)
		}
	}
	if r.Curse.Duration <= 0 {
		return fmt.Errorf("config file %s: rules.curse.duration must be positive", path)
	}
	if r.Curse.HPDebuff < 0 || r.Curse.AtkDebuff < 0 {
		return fmt.Errorf("config file %s: rules.curse debuffs may not be negative", path)
	}
	return nil
}
