package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"

	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/ai"
	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/constants"
	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/storage"
)

// Handler serves the REST side of the server: health, difficulty listing,
// player stats and the leaderboard.
type Handler struct {
	repo storage.Repository
	// sf collapses concurrent leaderboard reads into a single query
	sf singleflight.Group
}

// NewHandler builds the REST handler around the stats repository.
func NewHandler(repo storage.Repository) *Handler {
	return &Handler{repo: repo}
}

// Healthcheck reports liveness.
func (h *Handler) Healthcheck(c *gin.Context) {
	c.String(http.StatusOK, "Battle Card server running...")
}

type difficultyInfo struct {
	Value       string `json:"value"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListAIDifficulties returns the supported AI tiers.
func (h *Handler) ListAIDifficulties(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"difficulties": []difficultyInfo{
		{Value: string(ai.DifficultyEasy), Name: "Easy", Description: "Random play, suitable for new players"},
		{Value: string(ai.DifficultyMedium), Name: "Medium", Description: "Basic tactics"},
		{Value: string(ai.DifficultyHard), Name: "Hard", Description: "Advanced tactics"},
		{Value: string(ai.DifficultyExpert), Name: "Expert", Description: "Near-optimal play, very challenging"},
	}})
}

// GetPlayerStats returns the aggregate record for one player name.
func (h *Handler) GetPlayerStats(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrNameRequired})
		return
	}
	u, err := h.repo.GetStatsByName(name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchStats})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": u})
}

// ListLeaderboard returns the top players by total wins. Concurrent
// requests share one database read via singleflight.
func (h *Handler) ListLeaderboard(c *gin.Context) {
	limit := 10
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	v, err, _ := h.sf.Do("leaderboard:"+strconv.Itoa(limit), func() (interface{}, error) {
		return h.repo.GetTopPlayers(limit)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchTop})
		return
	}
	c.JSON(http.StatusOK, gin.H{"players": v})
}
