package social

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"golang.org/x/time/rate"
)

func newTestInstagramClient(srv *httptest.Server) *InstagramClient {
	return &InstagramClient{
		accessToken: "test-token",
		accountID:   "17841400000000000",
		baseURL:     srv.URL + "/v19.0/",
		httpClient:  srv.Client(),
		limiter:     rate.NewLimiter(rate.Inf, 1),
	}
}

func graphTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05-0700")
}

func TestHashtagID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v19.0/ig_hashtag_search", r.URL.Path)
		assert.Equal(t, "グルメ", r.URL.Query().Get("q"))
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"id": "17843308579691000"}},
		})
	}))
	defer srv.Close()

	id, err := newTestInstagramClient(srv).HashtagID(context.Background(), "グルメ")

	assert.Equal(t, nil, err)
	assert.Equal(t, "17843308579691000", id)
}

func TestHashtagIDNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]string{}})
	}))
	defer srv.Close()

	_, err := newTestInstagramClient(srv).HashtagID(context.Background(), "nothing")

	assert.Equal(t, ErrHashtagNotFound, err)
}

func TestTopMediaFollowsPagination(t *testing.T) {
	now := time.Now()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v19.0/17843308579691000/top_media":
			json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{
					{"id": "m1", "caption": "寿司", "timestamp": graphTimestamp(now.Add(-time.Hour)), "permalink": "https://ig/m1", "like_count": 300, "media_type": "IMAGE"},
				},
				"paging": map[string]string{"next": srv.URL + "/v19.0/page2"},
			})
		case "/v19.0/page2":
			json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{
					{"id": "m2", "caption": "ラーメン", "timestamp": graphTimestamp(now.Add(-2 * time.Hour)), "permalink": "https://ig/m2", "like_count": 200, "media_type": "VIDEO"},
				},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	media, err := newTestInstagramClient(srv).TopMedia(context.Background(), "17843308579691000", 80, 30*24*time.Hour)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(media))
	assert.Equal(t, "m1", media[0].ID)
	assert.Equal(t, int64(300), media[0].LikeCount)
	assert.Equal(t, "m2", media[1].ID)
}

func TestTopMediaStopsAtAgeCutoff(t *testing.T) {
	now := time.Now()

	pages := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": "fresh", "caption": "new", "timestamp": graphTimestamp(now.Add(-time.Hour)), "permalink": "p", "like_count": 1, "media_type": "IMAGE"},
				{"id": "stale", "caption": "old", "timestamp": graphTimestamp(now.Add(-60 * 24 * time.Hour)), "permalink": "p", "like_count": 1, "media_type": "IMAGE"},
				{"id": "never-reached", "caption": "x", "timestamp": graphTimestamp(now), "permalink": "p", "like_count": 1, "media_type": "IMAGE"},
			},
			"paging": map[string]string{"next": "should-not-be-fetched"},
		})
	}))
	defer srv.Close()

	media, err := newTestInstagramClient(srv).TopMedia(context.Background(), "h", 80, 30*24*time.Hour)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, pages)
	assert.Equal(t, 1, len(media))
	assert.Equal(t, "fresh", media[0].ID)
}

func TestTopMediaHonorsMaxCount(t *testing.T) {
	now := time.Now()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": "m1", "caption": "a", "timestamp": graphTimestamp(now), "permalink": "p", "like_count": 1, "media_type": "IMAGE"},
				{"id": "m2", "caption": "b", "timestamp": graphTimestamp(now), "permalink": "p", "like_count": 2, "media_type": "IMAGE"},
				{"id": "m3", "caption": "c", "timestamp": graphTimestamp(now), "permalink": "p", "like_count": 3, "media_type": "IMAGE"},
			},
		})
	}))
	defer srv.Close()

	media, err := newTestInstagramClient(srv).TopMedia(context.Background(), "h", 2, 30*24*time.Hour)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(media))
}

func TestTopMediaSkipsMalformedTimestamps(t *testing.T) {
	now := time.Now()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": "bad", "caption": "x", "timestamp": "garbage", "permalink": "p", "like_count": 1, "media_type": "IMAGE"},
				{"id": "good", "caption": "y", "timestamp": graphTimestamp(now), "permalink": "p", "like_count": 2, "media_type": "IMAGE"},
			},
		})
	}))
	defer srv.Close()

	media, err := newTestInstagramClient(srv).TopMedia(context.Background(), "h", 80, 30*24*time.Hour)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(media))
	assert.Equal(t, "good", media[0].ID)
}

func TestTopMediaReturnsPartialOnPageError(t *testing.T) {
	now := time.Now()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v19.0/h/top_media" {
			json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{
					{"id": "m1", "caption": "a", "timestamp": graphTimestamp(now), "permalink": "p", "like_count": 1, "media_type": "IMAGE"},
				},
				"paging": map[string]string{"next": srv.URL + "/v19.0/broken"},
			})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	media, err := newTestInstagramClient(srv).TopMedia(context.Background(), "h", 80, 30*24*time.Hour)

	assert.NotEqual(t, nil, err)
	assert.Equal(t, 1, len(media))
}
