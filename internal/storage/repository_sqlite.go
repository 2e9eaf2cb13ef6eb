package storage

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/game"
)

type sqliteRepository struct {
	db *gorm.DB
}

// NewSQLiteRepository wraps a migrated gorm handle in the Repository
// interface.
func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) RecordOutcome(playerName string, outcome game.Outcome, vsAI bool) error {
	var u game.User
	if err := r.db.Where("name = ?", playerName).First(&u).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		u = game.User{Name: playerName}
	}
	switch outcome {
	case game.OutcomeWin:
		if vsAI {
			u.AIWins++
		} else {
			u.OnlineWins++
		}
	case game.OutcomeLoss:
		if vsAI {
			u.AILosses++
		} else {
			u.OnlineLosses++
		}
	case game.OutcomeDraw:
		if vsAI {
			u.AIDraws++
		} else {
			u.OnlineDraws++
		}
	default:
		return errors.New("unknown outcome: " + string(outcome))
	}
	return r.db.Save(&u).Error
}

func (r *sqliteRepository) GetStatsByName(name string) (*game.User, error) {
	var u game.User
	if err := r.db.Where("name = ?", name).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// unseen players read as an empty record
			return &game.User{Name: name}, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *sqliteRepository) GetTopPlayers(limit int) ([]game.User, error) {
	var users []game.User
	err := r.db.
		Order("(ai_wins + online_wins) DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
