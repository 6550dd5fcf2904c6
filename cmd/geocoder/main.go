package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"buzzmap/db"
	"buzzmap/internal/pipeline"
	"buzzmap/internal/repository"
	"buzzmap/pkg/geo"

	"github.com/joho/godotenv"
)

const popTimeout = 30 * time.Second

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	conn, err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()

	feed, err := db.ConnectRedis(ctx)
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer feed.Close()

	country := os.Getenv("GEOCODER_COUNTRY")
	if country == "" {
		country = "jp"
	}
	client := geo.NewNominatimClient(os.Getenv("GEOCODER_BASE_URL"), country)

	placeRepo := repository.NewPlaceRepository(conn)
	geocoder := pipeline.NewGeocoder(placeRepo, client)

	for {
		batch, err := feed.Next(ctx, popTimeout, db.FeedKeyCandidate)
		if err != nil {
			slog.Error("error reading change feed", "error", err)
			break
		}
		if batch == nil {
			continue
		}

		summary := geocoder.HandleBatch(ctx, batch)
		slog.Info("batch geocoded",
			"processed", summary.Processed,
			"upserted", summary.Upserted,
			"skipped", summary.Skipped,
			"failed", summary.Failed,
		)
	}
}
