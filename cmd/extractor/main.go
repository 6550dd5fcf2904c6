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
	"buzzmap/pkg/llm"

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

	var client llm.Extractor
	switch {
	case os.Getenv("OPENAI_API_KEY") != "":
		client = llm.NewOpenAIClient(os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_MODEL"))
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		client = llm.NewAnthropicClient(os.Getenv("ANTHROPIC_API_KEY"), os.Getenv("ANTHROPIC_MODEL"))
	default:
		log.Fatalf("no inference API key configured, set OPENAI_API_KEY or ANTHROPIC_API_KEY")
	}

	candidateRepo := repository.NewCandidateRepository(conn)
	extractor := pipeline.NewExtractor(candidateRepo, client, feed, db.FeedKeyCandidate)

	for {
		batch, err := feed.Next(ctx, popTimeout, db.FeedKeyInstagram, db.FeedKeyYoutube)
		if err != nil {
			slog.Error("error reading change feed", "error", err)
			break
		}
		if batch == nil {
			continue
		}

		summary := extractor.HandleBatch(ctx, batch)
		slog.Info("batch extracted",
			"source", batch.Source,
			"processed", summary.Processed,
			"upserted", summary.Upserted,
			"skipped", summary.Skipped,
			"failed", summary.Failed,
		)
	}
}
