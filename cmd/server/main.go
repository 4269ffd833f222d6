package main

import (
	"context"

	"orienteering-backend/internal/config"
	"orienteering-backend/internal/database"
	"orienteering-backend/internal/handlers"
	"orienteering-backend/internal/logger"
	"orienteering-backend/internal/middleware"
	"orienteering-backend/internal/services"
	"orienteering-backend/internal/store"
	"orienteering-backend/internal/ws"

	_ "orienteering-backend/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Orienteering Quest API
// @version         1.0
// @description     Create orienteering quests, share them as qrexport:// QR payloads and import them back.
// @host            localhost:8080
// @BasePath        /

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to connect to database")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	questStore := store.NewGorm(db)
	if cfg.SeedDemo {
		if _, err := database.SeedDemo(context.Background(), questStore); err != nil {
			log.Fatal().Err(err).Msg("failed to seed demo quest")
		}
	}

	hub := ws.NewHub()

	allocator := services.NewCodeAllocator(questStore, services.WithMaxAttempts(cfg.CodeMaxAttempts))
	merger := services.NewImportMerger(questStore)
	questService := services.NewQuestService(questStore, allocator, merger)

	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", middleware.RequestIDHeader},
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	handlers.RegisterRoutes(r, handlers.RouterDeps{
		QuestService: questService,
		Hub:          hub,
		DB:           questStore,
		QRSize:       cfg.QRSize,
	})

	log.Info().Str("port", cfg.ServerPort).Str("driver", cfg.DBDriver).Msg("server starting")
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
