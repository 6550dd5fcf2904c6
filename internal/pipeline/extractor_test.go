package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"buzzmap/internal/model"
	"buzzmap/internal/stream"
	"buzzmap/pkg/llm"
)

type fakeCandidateStore struct {
	upserts []model.PlaceCandidate
	err     error
}

func (f *fakeCandidateStore) Upsert(c *model.PlaceCandidate) error {
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, *c)
	return nil
}

type fakeLLM struct {
	info  *llm.PlaceInfo
	err   error
	calls int
	texts []string
}

func (f *fakeLLM) Extract(ctx context.Context, text string) (*llm.PlaceInfo, error) {
	f.calls++
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	return f.info, nil
}

type fakeFeed struct {
	batches []stream.Batch
	keys    []string
}

func (f *fakeFeed) Publish(ctx context.Context, key string, batch stream.Batch) error {
	f.keys = append(f.keys, key)
	f.batches = append(f.batches, batch)
	return nil
}

func strptr(s string) *string { return &s }

func instagramRecord(event string) stream.Record {
	post := model.InstagramPost{
		MediaID:       "m1",
		Permalink:     "https://instagram.com/p/m1",
		Caption:       "美味しいラーメン屋さんに行ってきた",
		Timestamp:     time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		LikeCount:     5000,
		CommentsCount: 12,
		MediaType:     "IMAGE",
		CrawledAt:     time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC),
	}
	return stream.Record{EventName: event, NewImage: post.Image()}
}

func TestExtractor_InstagramInsert(t *testing.T) {
	store := &fakeCandidateStore{}
	client := &fakeLLM{info: &llm.PlaceInfo{
		PlaceName: strptr("らーめん店"),
		Address:   strptr("東京都渋谷区1-2-3"),
	}}
	feed := &fakeFeed{}

	now := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	ex := NewExtractor(store, client, feed, "changes:candidate")
	ex.now = func() time.Time { return now }

	batch := &stream.Batch{Source: stream.SourceInstagram, Records: []stream.Record{instagramRecord(stream.EventInsert)}}
	summary := ex.HandleBatch(context.Background(), batch)

	assert.Equal(t, summary.Processed, 1)
	assert.Equal(t, summary.Upserted, 1)
	assert.Equal(t, len(store.upserts), 1)

	got := store.upserts[0]
	assert.Equal(t, got.PostID, "m1")
	assert.Equal(t, got.Platform, model.PlatformInstagram)
	assert.Equal(t, got.URL, "https://instagram.com/p/m1")
	assert.Equal(t, got.Title, "美味しいラーメン屋さんに行ってきた")
	assert.Equal(t, got.PlaceName, "らーめん店")
	assert.Equal(t, got.Address, "東京都渋谷区1-2-3")
	// 5000 likes / 1 day / 100 = 50, clamped to 5
	assert.Equal(t, got.Buzz, 5)
	assert.Equal(t, got.FetchedAt, now)

	assert.Equal(t, len(feed.batches), 1)
	assert.Equal(t, feed.keys[0], "changes:candidate")
	assert.Equal(t, feed.batches[0].Source, stream.SourceCandidate)
	assert.Equal(t, feed.batches[0].Records[0].NewImage["postId"].S, "m1")
}

func TestExtractor_YoutubeUsesTitleAndDescription(t *testing.T) {
	store := &fakeCandidateStore{}
	client := &fakeLLM{info: &llm.PlaceInfo{PlaceName: strptr("寿司屋"), Address: strptr("銀座")}}

	video := model.YoutubeVideo{
		VideoID:         "v1",
		Title:           "絶品寿司",
		Description:     "銀座の名店",
		URL:             "https://www.youtube.com/watch?v=v1",
		Views:           100000,
		SubscriberCount: 1000,
		PublishedAt:     time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		CrawledAt:       time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}

	ex := NewExtractor(store, client, nil, "")
	batch := &stream.Batch{Source: stream.SourceYoutube, Records: []stream.Record{
		{EventName: stream.EventModify, NewImage: video.Image()},
	}}
	summary := ex.HandleBatch(context.Background(), batch)

	assert.Equal(t, summary.Upserted, 1)
	assert.Equal(t, client.texts[0], "Title: 絶品寿司\nDescription: 銀座の名店")

	got := store.upserts[0]
	assert.Equal(t, got.PostID, "v1")
	assert.Equal(t, got.Platform, model.PlatformYoutube)
	assert.Equal(t, got.Title, "絶品寿司")
	// 100*100000/(1000*10) = 1000, clamped to 5
	assert.Equal(t, got.Buzz, 5)
	// YouTube candidates carry the crawl time, not the processing time
	assert.Equal(t, got.FetchedAt, video.CrawledAt)
}

func TestExtractor_NilFieldsBecomeNotAvailable(t *testing.T) {
	store := &fakeCandidateStore{}
	client := &fakeLLM{info: &llm.PlaceInfo{PlaceName: nil, Address: nil}}

	ex := NewExtractor(store, client, nil, "")
	batch := &stream.Batch{Source: stream.SourceInstagram, Records: []stream.Record{instagramRecord(stream.EventInsert)}}
	ex.HandleBatch(context.Background(), batch)

	assert.Equal(t, store.upserts[0].PlaceName, model.NotAvailable)
	assert.Equal(t, store.upserts[0].Address, model.NotAvailable)
}

func TestExtractor_SkipsRemoveEvents(t *testing.T) {
	store := &fakeCandidateStore{}
	client := &fakeLLM{info: &llm.PlaceInfo{}}

	ex := NewExtractor(store, client, nil, "")
	batch := &stream.Batch{Source: stream.SourceInstagram, Records: []stream.Record{instagramRecord(stream.EventRemove)}}
	summary := ex.HandleBatch(context.Background(), batch)

	assert.Equal(t, summary.Processed, 0)
	assert.Equal(t, client.calls, 0)
	assert.Equal(t, len(store.upserts), 0)
}

func TestExtractor_SkipsRecordsMissingRequiredFields(t *testing.T) {
	store := &fakeCandidateStore{}
	client := &fakeLLM{info: &llm.PlaceInfo{}}

	noCaption := model.InstagramPost{MediaID: "m2", CrawledAt: time.Now()}
	batch := &stream.Batch{Source: stream.SourceInstagram, Records: []stream.Record{
		{EventName: stream.EventInsert, NewImage: noCaption.Image()},
	}}

	ex := NewExtractor(store, client, nil, "")
	summary := ex.HandleBatch(context.Background(), batch)

	assert.Equal(t, summary.Skipped, 1)
	assert.Equal(t, client.calls, 0)
}

func TestExtractor_FailedExtractionWritesNothing(t *testing.T) {
	store := &fakeCandidateStore{}
	client := &fakeLLM{err: errors.New("provider down")}
	feed := &fakeFeed{}

	ex := NewExtractor(store, client, feed, "changes:candidate")
	batch := &stream.Batch{Source: stream.SourceInstagram, Records: []stream.Record{instagramRecord(stream.EventInsert)}}
	summary := ex.HandleBatch(context.Background(), batch)

	assert.Equal(t, summary.Failed, 1)
	assert.Equal(t, client.calls, 1)
	assert.Equal(t, len(store.upserts), 0)
	assert.Equal(t, len(feed.batches), 0)
}

func TestExtractor_MissingTimestampsScoreOne(t *testing.T) {
	store := &fakeCandidateStore{}
	client := &fakeLLM{info: &llm.PlaceInfo{PlaceName: strptr("店"), Address: strptr("住所")}}

	post := model.InstagramPost{MediaID: "m3", Caption: "caption", LikeCount: 100000}
	batch := &stream.Batch{Source: stream.SourceInstagram, Records: []stream.Record{
		{EventName: stream.EventInsert, NewImage: post.Image()},
	}}

	ex := NewExtractor(store, client, nil, "")
	ex.HandleBatch(context.Background(), batch)

	assert.Equal(t, store.upserts[0].Buzz, 1)
}
