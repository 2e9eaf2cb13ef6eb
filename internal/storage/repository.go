package storage

import "github.com/Kit10v4/TouhouFM-Card-Battle/internal/game"

// Repository persists player profiles and aggregate outcome counters. The
// battle engine itself is in-memory; only statistics survive a restart.
type Repository interface {
	// RecordOutcome adds one win/loss/draw to the named player's record,
	// on the AI or online ledger depending on vsAI. The profile row is
	// created on first use.
	RecordOutcome(playerName string, outcome game.Outcome, vsAI bool) error
	GetStatsByName(name string) (*game.User, error)
	// GetTopPlayers returns up to limit players ordered by total wins.
	GetTopPlayers(limit int) ([]game.User, error)
}
