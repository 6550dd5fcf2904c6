package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"buzzmap/internal/buzz"
	"buzzmap/internal/model"
	"buzzmap/internal/stream"
	"buzzmap/pkg/llm"
)

// Extractor consumes raw crawl change batches, runs place extraction over
// the post text, and writes unified candidates to the intermediate store.
type Extractor struct {
	candidates CandidateStore
	llm        llm.Extractor
	retry      llm.RetryOpts
	feed       Publisher
	feedKey    string
	now        func() time.Time
}

func NewExtractor(candidates CandidateStore, client llm.Extractor, feed Publisher, feedKey string) *Extractor {
	return &Extractor{
		candidates: candidates,
		llm:        client,
		retry:      llm.DefaultRetryOpts,
		feed:       feed,
		feedKey:    feedKey,
		now:        time.Now,
	}
}

// HandleBatch processes every INSERT and MODIFY record in the batch. Records
// that fail extraction are skipped, never written: a candidate row only
// exists once the model produced an answer.
func (e *Extractor) HandleBatch(ctx context.Context, batch *stream.Batch) Summary {
	var summary Summary

	for _, record := range batch.Records {
		if record.EventName != stream.EventInsert && record.EventName != stream.EventModify {
			continue
		}
		summary.Processed++

		candidate, err := e.handleRecord(ctx, batch.Source, record)
		if err != nil {
			slog.Error("extraction failed", "source", batch.Source, "error", err)
			summary.Failed++
			continue
		}
		if candidate == nil {
			summary.Skipped++
			continue
		}

		if err := e.candidates.Upsert(candidate); err != nil {
			slog.Error("error saving candidate", "post_id", candidate.PostID, "error", err)
			summary.Failed++
			continue
		}
		summary.Upserted++

		if e.feed != nil {
			change := stream.Batch{
				Source: stream.SourceCandidate,
				Records: []stream.Record{
					{EventName: stream.EventInsert, NewImage: candidate.Image()},
				},
			}
			if err := e.feed.Publish(ctx, e.feedKey, change); err != nil {
				slog.Error("error publishing candidate change", "post_id", candidate.PostID, "error", err)
			}
		}
	}

	return summary
}

func (e *Extractor) handleRecord(ctx context.Context, source string, record stream.Record) (*model.PlaceCandidate, error) {
	data := stream.Unmarshal(record.NewImage)

	switch source {
	case stream.SourceInstagram:
		return e.instagramCandidate(ctx, data)
	case stream.SourceYoutube:
		return e.youtubeCandidate(ctx, data)
	}
	return nil, fmt.Errorf("unknown batch source %q", source)
}

func (e *Extractor) instagramCandidate(ctx context.Context, data map[string]any) (*model.PlaceCandidate, error) {
	mediaID := stream.GetString(data, "media_id")
	caption := stream.GetString(data, "caption")
	if mediaID == "" || caption == "" {
		slog.Warn("instagram record missing media_id or caption, skipping")
		return nil, nil
	}

	info, err := llm.ExtractWithRetry(ctx, e.llm, caption, e.retry)
	if err != nil {
		return nil, err
	}

	score := buzz.Instagram(
		stream.GetInt(data, "like_count"),
		stream.GetTime(data, "timestamp"),
		stream.GetTime(data, "crawled_at"),
	)

	return &model.PlaceCandidate{
		PostID:    mediaID,
		Platform:  model.PlatformInstagram,
		URL:       stream.GetString(data, "permalink"),
		Title:     caption,
		PlaceName: orNotAvailable(info.PlaceName),
		Address:   orNotAvailable(info.Address),
		Buzz:      score,
		FetchedAt: e.now().UTC(),
	}, nil
}

func (e *Extractor) youtubeCandidate(ctx context.Context, data map[string]any) (*model.PlaceCandidate, error) {
	videoID := stream.GetString(data, "videoId")
	if videoID == "" {
		slog.Warn("youtube record missing videoId, skipping")
		return nil, nil
	}

	text := fmt.Sprintf("Title: %s\nDescription: %s",
		stream.GetString(data, "title"),
		stream.GetString(data, "description"),
	)

	info, err := llm.ExtractWithRetry(ctx, e.llm, text, e.retry)
	if err != nil {
		return nil, err
	}

	score := buzz.Youtube(
		stream.GetInt(data, "views"),
		stream.GetInt(data, "subscriber_count"),
		stream.GetTime(data, "published_at"),
		stream.GetTime(data, "crawled_at"),
	)

	return &model.PlaceCandidate{
		PostID:    videoID,
		Platform:  model.PlatformYoutube,
		URL:       stream.GetString(data, "url"),
		Title:     stream.GetString(data, "title"),
		PlaceName: orNotAvailable(info.PlaceName),
		Address:   orNotAvailable(info.Address),
		Buzz:      score,
		FetchedAt: stream.GetTime(data, "crawled_at"),
	}, nil
}

func orNotAvailable(s *string) string {
	if s == nil || *s == "" {
		return model.NotAvailable
	}
	return *s
}
