package game

import "gorm.io/gorm"

// User stores unique player identity and aggregate battle stats, split by
// opponent kind (AI or online).
type User struct {
	gorm.Model
	Name         string `gorm:"uniqueIndex" json:"name"`
	AIWins       int    `json:"ai_wins"`
	AILosses     int    `json:"ai_losses"`
	AIDraws      int    `json:"ai_draws"`
	OnlineWins   int    `json:"online_wins"`
	OnlineLosses int    `json:"online_losses"`
	OnlineDraws  int    `json:"online_draws"`
}

// TableName keeps the persisted table name explicit.
func (User) TableName() string { return "player_profiles" }
