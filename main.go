package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"kumo/auth"
	"kumo/config"
	"kumo/db"
	"kumo/handlers"
	"kumo/middleware"
	"kumo/routes"
	"kumo/store"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database connection: %v", err)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	middleware.ApplyMiddleware(router)

	storage := store.NewMySQL(database)
	handler := handlers.New(storage, storage, storage, storage, storage, cfg.ExecutionEngineURL)
	authHandler := auth.NewHandler(storage, cfg.JWTSecret)

	routes.SetupRoutes(router, handler, authHandler, cfg.JWTSecret)

	fmt.Printf("Server running on port %s\n", cfg.Port)
	log.Fatal(router.Run(":" + cfg.Port))
}
