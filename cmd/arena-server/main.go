package main

import (
	"os"

	"github.com/190dpa/literate-umbrella/internal/api"
	"github.com/190dpa/literate-umbrella/internal/battle"
	"github.com/190dpa/literate-umbrella/internal/config"
	"github.com/190dpa/literate-umbrella/internal/constants"
	"github.com/190dpa/literate-umbrella/internal/hub"
	"github.com/190dpa/literate-umbrella/internal/logging"
	"github.com/190dpa/literate-umbrella/internal/progression"
	"github.com/190dpa/literate-umbrella/internal/service"
	"github.com/190dpa/literate-umbrella/internal/storage"
	"github.com/190dpa/literate-umbrella/internal/version"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load the arena configuration file (required). Path may be provided
	// via ARENA_CONFIG or defaults to ./arena_config.json in the current
	// working directory.
	configPath := os.Getenv(constants.EnvArenaConfig)
	if configPath == "" {
		configPath = "./arena_config.json"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Fatal("Missing or invalid arena configuration", err, logging.Fields{
			"config_path": configPath,
			"hint":        "create an arena_config.json with 'collectible_list', 'weapon_list' and 'opponent_list' arrays and optional keys: shop.character_cost, shop.weapon_cost, server.address",
		})
	}

	// Allow the DB path to be configured via ARENA_DB.
	dbPath := os.Getenv(constants.EnvArenaDB)
	if dbPath == "" {
		dbPath = "./arena.db"
	}
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	repo := storage.NewSQLiteRepository(db)
	catalog := cfg.Catalog()

	h := hub.NewHub()
	settle := service.NewSettlement(repo, func(userID uint, up progression.LevelUp) {
		h.EmitToUser(userID, "level_up", up)
	})
	arena := service.NewArena(repo, catalog, battle.NewScheduler(), h, settle, h.Alive)
	h.SetArena(arena)

	shop := service.NewShop(repo, catalog, cfg.CharacterCost, cfg.WeaponCost)
	handler := api.NewHandler(repo, catalog, shop, arena)

	router := gin.Default()
	router.GET(constants.RouteHealth, func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": version.Version})
	})

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.POST(constants.RouteRegister, handler.Register)
		apiRoutes.POST(constants.RouteLogin, handler.Login)
		apiRoutes.POST(constants.RouteAuthGoogleCallBack, handler.GoogleOAuthCallback)
		apiRoutes.GET(constants.RouteLeaderboard, handler.ListLeaderboard)

		// Authenticated endpoints
		protected := apiRoutes.Group("")
		protected.Use(api.AuthRequired())

		protected.POST(constants.RouteLogout, handler.Logout)
		protected.GET(constants.RouteProfile, handler.GetProfile)
		protected.POST(constants.RouteAllocateStats, handler.AllocateStats)
		protected.GET(constants.RouteInventory, handler.GetInventory)
		protected.POST(constants.RouteShopCharacter, handler.RollCharacter)
		protected.POST(constants.RouteShopWeapon, handler.RollWeapon)
		protected.GET(constants.RouteWS, api.ServeWS(h))
	}

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr, "version": version.Version})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
