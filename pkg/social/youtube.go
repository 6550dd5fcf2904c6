package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sosodev/duration"
	"golang.org/x/time/rate"
)

const (
	youtubeAPIBaseURL = "https://www.googleapis.com/youtube/v3"
	// Only short-form videos make it into the pipeline.
	maxShortFormSeconds = 120
)

// Video is one short-form video with channel statistics already joined.
type Video struct {
	VideoID         string
	Title           string
	Description     string
	ChannelID       string
	Views           int64
	Likes           int64
	SubscriberCount int64
	PublishedAt     time.Time
}

type YoutubeClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewYoutubeClient(apiKey string) *YoutubeClient {
	return &YoutubeClient{
		apiKey:     apiKey,
		baseURL:    youtubeAPIBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
	}
}

// Fetch searches for recent videos matching query, keeps the ones no longer
// than two minutes and attaches subscriber counts resolved through one
// batched channel lookup. Transport errors abort the whole fetch cycle;
// a video whose duration cannot be parsed is skipped on its own.
func (c *YoutubeClient) Fetch(ctx context.Context, query string, maxResults int, window time.Duration) ([]Video, error) {
	ids, err := c.search(ctx, query, maxResults, window)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	videos, channelIDs, err := c.videoDetails(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, nil
	}

	subscribers, err := c.channelStats(ctx, channelIDs)
	if err != nil {
		return nil, err
	}

	for i := range videos {
		videos[i].SubscriberCount = subscribers[videos[i].ChannelID]
	}
	return videos, nil
}

func (c *YoutubeClient) search(ctx context.Context, query string, maxResults int, window time.Duration) ([]string, error) {
	params := url.Values{
		"part":           {"id,snippet"},
		"q":              {query},
		"type":           {"video"},
		"order":          {"viewCount"},
		"publishedAfter": {time.Now().Add(-window).UTC().Format(time.RFC3339)},
		"maxResults":     {strconv.Itoa(maxResults)},
		"key":            {c.apiKey},
	}

	var res struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
		} `json:"items"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/search?"+params.Encode(), &res); err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	ids := make([]string, 0, len(res.Items))
	for _, item := range res.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	return ids, nil
}

func (c *YoutubeClient) videoDetails(ctx context.Context, ids []string) ([]Video, []string, error) {
	params := url.Values{
		"part": {"snippet,contentDetails,statistics"},
		"id":   {strings.Join(ids, ",")},
		"key":  {c.apiKey},
	}

	var res struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Title       string `json:"title"`
				Description string `json:"description"`
				ChannelID   string `json:"channelId"`
				PublishedAt string `json:"publishedAt"`
			} `json:"snippet"`
			ContentDetails struct {
				Duration string `json:"duration"`
			} `json:"contentDetails"`
			Statistics struct {
				ViewCount string `json:"viewCount"`
				LikeCount string `json:"likeCount"`
			} `json:"statistics"`
		} `json:"items"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/videos?"+params.Encode(), &res); err != nil {
		return nil, nil, fmt.Errorf("youtube videos: %w", err)
	}

	var videos []Video
	seen := make(map[string]bool)
	var channelIDs []string

	for _, item := range res.Items {
		d, err := duration.Parse(item.ContentDetails.Duration)
		if err != nil {
			continue
		}
		if d.ToTimeDuration().Seconds() > maxShortFormSeconds {
			continue
		}

		publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		videos = append(videos, Video{
			VideoID:     item.ID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			ChannelID:   item.Snippet.ChannelID,
			Views:       parseCount(item.Statistics.ViewCount),
			Likes:       parseCount(item.Statistics.LikeCount),
			PublishedAt: publishedAt,
		})

		if !seen[item.Snippet.ChannelID] {
			seen[item.Snippet.ChannelID] = true
			channelIDs = append(channelIDs, item.Snippet.ChannelID)
		}
	}
	return videos, channelIDs, nil
}

func (c *YoutubeClient) channelStats(ctx context.Context, channelIDs []string) (map[string]int64, error) {
	if len(channelIDs) == 0 {
		return nil, nil
	}

	params := url.Values{
		"part": {"statistics"},
		"id":   {strings.Join(channelIDs, ",")},
		"key":  {c.apiKey},
	}

	var res struct {
		Items []struct {
			ID         string `json:"id"`
			Statistics struct {
				SubscriberCount string `json:"subscriberCount"`
			} `json:"statistics"`
		} `json:"items"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/channels?"+params.Encode(), &res); err != nil {
		return nil, fmt.Errorf("youtube channels: %w", err)
	}

	stats := make(map[string]int64, len(res.Items))
	for _, item := range res.Items {
		stats[item.ID] = parseCount(item.Statistics.SubscriberCount)
	}
	return stats, nil
}

func (c *YoutubeClient) getJSON(ctx context.Context, endpoint string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// The statistics fields arrive as decimal strings; absent or malformed
// counts read as zero.
func parseCount(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
