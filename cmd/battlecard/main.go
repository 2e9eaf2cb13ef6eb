package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/api"
	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/config"
	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/constants"
	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/logging"
	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/service"
	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/storage"
)

func main() {
	// optional .env for local development; missing file is fine
	_ = godotenv.Load()

	// Rules configuration file (required). Path may be provided via
	// BATTLECARD_CONFIG or defaults to ./battlecard_config.json in the
	// current working directory.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./battlecard_config.json"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Fatal("Missing or invalid battlecard configuration", err, logging.Fields{
			"config_path": configPath,
			"hint":        "create a battlecard_config.json with a 'rules' object (hp_start, hand_size, deck_max, type_limit, turn_seconds, turn_limit, card_values, specials, curse) and optional server.address",
		})
	}

	// Allow the DB path to be configured via BATTLECARD_DB. Default to a
	// data/ directory for local development.
	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = "./data/battlecard.db"
	}
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	repo := storage.NewSQLiteRepository(db)

	sockets := api.NewSocketServer()
	hub := service.NewHub(cfg.Rules, service.NewRegistry(), sockets, repo)
	handler := api.NewHandler(repo)

	router := gin.Default()
	router.GET(constants.RouteHealthcheck, handler.Healthcheck)
	router.GET(constants.RouteGameSocket, sockets.GameSocket(hub))

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteAIDifficulties, handler.ListAIDifficulties)
		apiRoutes.GET(constants.RoutePlayerStats, handler.GetPlayerStats)
		apiRoutes.GET(constants.RouteLeaderboard, handler.ListLeaderboard)
	}

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
