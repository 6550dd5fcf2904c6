package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"buzzmap/db"
	"buzzmap/internal/model"
	"buzzmap/internal/repository"
	"buzzmap/internal/stream"
	"buzzmap/pkg/social"

	"github.com/joho/godotenv"
)

const (
	maxCount = 80
	maxDays  = 30
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	accessToken := os.Getenv("IG_ACCESS_TOKEN")
	accountID := os.Getenv("IG_BUSINESS_ACCOUNT_ID")
	if accessToken == "" || accountID == "" {
		log.Fatalf("IG_ACCESS_TOKEN and IG_BUSINESS_ACCOUNT_ID must be set")
	}

	hashtag := os.Getenv("HASHTAG")
	if hashtag == "" {
		hashtag = "グルメ"
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

	repo := repository.NewInstagramRepository(conn)
	client := social.NewInstagramClient(accessToken, accountID)

	hashtagID, err := client.HashtagID(ctx, hashtag)
	if err != nil {
		log.Fatalf("error resolving hashtag %q: %v", hashtag, err)
	}

	media, err := client.TopMedia(ctx, hashtagID, maxCount, maxDays*24*time.Hour)
	if err != nil {
		// A failed page still returns what was collected before it.
		slog.Error("error crawling top media", "hashtag", hashtag, "error", err)
	}
	if len(media) == 0 {
		slog.Info("no media found", "hashtag", hashtag)
		return
	}

	sort.Slice(media, func(i, j int) bool {
		return media[i].LikeCount > media[j].LikeCount
	})

	crawledAt := time.Now().UTC()
	batch := stream.Batch{Source: stream.SourceInstagram}

	var saved, errors int
	for _, m := range media {
		caption := strings.ReplaceAll(m.Caption, "\n", " ")
		if caption == "" {
			caption = " "
		}

		post := model.InstagramPost{
			MediaID:       m.ID,
			Permalink:     m.Permalink,
			Caption:       caption,
			Timestamp:     m.Timestamp,
			LikeCount:     m.LikeCount,
			CommentsCount: m.CommentsCount,
			MediaType:     m.MediaType,
			CrawledAt:     crawledAt,
		}

		if err := repo.Upsert(&post); err != nil {
			slog.Error("error saving post", "media_id", post.MediaID, "error", err)
			errors++
			continue
		}
		saved++

		batch.Records = append(batch.Records, stream.Record{
			EventName: stream.EventInsert,
			NewImage:  post.Image(),
		})
	}

	if len(batch.Records) > 0 {
		if err := feed.Publish(ctx, db.FeedKeyInstagram, batch); err != nil {
			slog.Error("error publishing change batch", "error", err)
			errors++
		}
	}

	slog.Info("instagram crawl complete", "hashtag", hashtag, "crawled", len(media), "saved", saved, "errors", errors)
}
