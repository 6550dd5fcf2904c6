package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	graphAPIBaseURL = "https://graph.facebook.com/v19.0/"
	// Graph API timestamps carry a zone offset without a colon.
	graphTimeLayout = "2006-01-02T15:04:05-0700"
	// Hard page-size limit of the hashtag media endpoints.
	topMediaPageSize = 20
)

// ErrHashtagNotFound is returned when the hashtag search yields no id.
var ErrHashtagNotFound = errors.New("hashtag not found")

// InstagramMedia is one hashtag media item as returned by the platform.
type InstagramMedia struct {
	ID            string
	Caption       string
	Permalink     string
	MediaType     string
	Timestamp     time.Time
	LikeCount     int64
	CommentsCount int64
}

type InstagramClient struct {
	accessToken string
	accountID   string
	baseURL     string
	httpClient  *http.Client
	limiter     *rate.Limiter
}

func NewInstagramClient(accessToken, accountID string) *InstagramClient {
	return &InstagramClient{
		accessToken: accessToken,
		accountID:   accountID,
		baseURL:     graphAPIBaseURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		// One page per second keeps the crawl well inside Graph API limits.
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// HashtagID resolves a hashtag name to its platform id.
func (c *InstagramClient) HashtagID(ctx context.Context, hashtag string) (string, error) {
	params := url.Values{
		"user_id":      {c.accountID},
		"q":            {hashtag},
		"access_token": {c.accessToken},
	}

	var res struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, c.baseURL+"ig_hashtag_search?"+params.Encode(), &res); err != nil {
		return "", fmt.Errorf("instagram hashtag search: %w", err)
	}

	if len(res.Data) == 0 {
		return "", ErrHashtagNotFound
	}
	return res.Data[0].ID, nil
}

// TopMedia pages through the hashtag's top media until maxCount items are
// collected or a post older than maxAge is met. Items arrive in
// relevance/recency order, so the first out-of-window post terminates the
// scan. A failed page fetch returns what was collected so far together with
// the error; items with malformed timestamps are skipped individually.
func (c *InstagramClient) TopMedia(ctx context.Context, hashtagID string, maxCount int, maxAge time.Duration) ([]InstagramMedia, error) {
	cutoff := time.Now().Add(-maxAge)

	params := url.Values{
		"user_id":      {c.accountID},
		"fields":       {"id,caption,timestamp,permalink,like_count,comments_count,media_type"},
		"limit":        {strconv.Itoa(topMediaPageSize)},
		"access_token": {c.accessToken},
	}
	endpoint := c.baseURL + hashtagID + "/top_media?" + params.Encode()

	var media []InstagramMedia
	for endpoint != "" && len(media) < maxCount {
		if err := c.limiter.Wait(ctx); err != nil {
			return media, err
		}

		var page topMediaResponse
		if err := c.getJSON(ctx, endpoint, &page); err != nil {
			return media, fmt.Errorf("instagram top_media: %w", err)
		}

		for _, item := range page.Data {
			ts, err := time.Parse(graphTimeLayout, item.Timestamp)
			if err != nil {
				continue
			}
			if ts.Before(cutoff) {
				return media, nil
			}
			if len(media) >= maxCount {
				return media, nil
			}
			media = append(media, InstagramMedia{
				ID:            item.ID,
				Caption:       item.Caption,
				Permalink:     item.Permalink,
				MediaType:     item.MediaType,
				Timestamp:     ts,
				LikeCount:     item.LikeCount,
				CommentsCount: item.CommentsCount,
			})
		}

		endpoint = page.Paging.Next
	}

	return media, nil
}

func (c *InstagramClient) getJSON(ctx context.Context, endpoint string, out any) error {
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

type topMediaResponse struct {
	Data []struct {
		ID            string `json:"id"`
		Caption       string `json:"caption"`
		Timestamp     string `json:"timestamp"`
		Permalink     string `json:"permalink"`
		LikeCount     int64  `json:"like_count"`
		CommentsCount int64  `json:"comments_count"`
		MediaType     string `json:"media_type"`
	} `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}
