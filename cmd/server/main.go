package main

import (
	"log"
	"time"

	"github.com/ayusuf9/trivia-africa/internal/config"
	"github.com/ayusuf9/trivia-africa/internal/database"
	"github.com/ayusuf9/trivia-africa/internal/game"
	"github.com/ayusuf9/trivia-africa/internal/handlers"
	"github.com/ayusuf9/trivia-africa/internal/middleware"
	"github.com/ayusuf9/trivia-africa/internal/services"
	"github.com/ayusuf9/trivia-africa/internal/ws"

	_ "github.com/ayusuf9/trivia-africa/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Trivia Africa Match API
// @version         1.0
// @description     Real-time multiplayer match engine for the trivia platform
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	hub := ws.NewHub()

	authService := services.NewAuthService(cfg.JWTSecret)
	contentService := services.NewContentService(db)
	historyService := services.NewHistoryService(db)

	registry := game.NewRegistry()
	engine := game.NewEngine(registry, contentService, historyService, hub, game.Config{
		CountdownSeconds:  cfg.CountdownSeconds,
		MatchTimeLimit:    time.Duration(cfg.MatchTimeLimitSec) * time.Second,
		DefaultMaxPlayers: cfg.MaxPlayers,
	})

	matchHandler := handlers.NewMatchHandler(engine, historyService)
	gatewayHandler := handlers.NewGatewayHandler(engine, hub)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws/match/:id", middleware.PlayerAuth(authService), gatewayHandler.HandleMatchWebSocket)

	api := r.Group("/api/v1")
	{
		matches := api.Group("/matches")
		{
			matches.GET("", matchHandler.ListOpenMatches)
			matches.POST("", middleware.PlayerAuth(authService), matchHandler.CreateMatch)
			matches.GET("/history", middleware.PlayerAuth(authService), matchHandler.MyHistory)
			matches.GET("/:id", matchHandler.GetMatch)
			matches.GET("/:id/result", matchHandler.GetMatchResult)
		}

		api.GET("/leaderboard", matchHandler.Leaderboard)
	}

	log.Printf("server listening on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
