package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"buzzmap/db"
	"buzzmap/internal/model"
	"buzzmap/internal/repository"
	"buzzmap/internal/stream"
	"buzzmap/pkg/social"

	"github.com/joho/godotenv"
)

const (
	maxVideos  = 80
	windowDays = 30
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	apiKey := os.Getenv("YOUTUBE_API_KEY")
	if apiKey == "" {
		log.Fatalf("YOUTUBE_API_KEY must be set")
	}

	query := os.Getenv("YOUTUBE_QUERY")
	if query == "" {
		query = "グルメ OR ラーメン OR 寿司 OR カフェ"
	}

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

	repo := repository.NewYoutubeRepository(conn)
	client := social.NewYoutubeClient(apiKey)

	videos, err := client.Fetch(ctx, query, maxVideos, windowDays*24*time.Hour)
	if err != nil {
		log.Fatalf("error fetching videos: %v", err)
	}
	if len(videos) == 0 {
		slog.Info("no videos to process", "query", query)
		return
	}

	crawledAt := time.Now().UTC()
	batch := stream.Batch{Source: stream.SourceYoutube}

	var saved, errors int
	for _, v := range videos {
		video := model.YoutubeVideo{
			VideoID:         v.VideoID,
			Title:           v.Title,
			Description:     v.Description,
			URL:             "https://www.youtube.com/watch?v=" + v.VideoID,
			Views:           v.Views,
			Likes:           v.Likes,
			SubscriberCount: v.SubscriberCount,
			PublishedAt:     v.PublishedAt,
			CrawledAt:       crawledAt,
		}

		if err := repo.Upsert(&video); err != nil {
			slog.Error("error saving video", "video_id", video.VideoID, "error", err)
			errors++
			continue
		}
		saved++

		batch.Records = append(batch.Records, stream.Record{
			EventName: stream.EventInsert,
			NewImage:  video.Image(),
		})
	}

	if len(batch.Records) > 0 {
		if err := feed.Publish(ctx, db.FeedKeyYoutube, batch); err != nil {
			slog.Error("error publishing change batch", "error", err)
			errors++
		}
	}

	slog.Info("youtube crawl complete", "query", query, "fetched", len(videos), "saved", saved, "errors", errors)
}
