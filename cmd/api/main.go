package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"buzzmap/db"
	"buzzmap/internal/handler"
	"buzzmap/internal/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	conn, err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer conn.Close()

	feed, err := db.ConnectRedis(context.Background())
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer feed.Close()

	statsRepo := repository.NewStatsRepository(conn)
	statusHandler := handler.NewStatusHandler(statsRepo, feed)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/pipeline/status", statusHandler.GetStatus)
	r.GET("/health", statusHandler.GetHealth)

	err = r.Run(":8080")
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
