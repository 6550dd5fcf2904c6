package model

import "time"

// InstagramPost is one crawled hashtag media item, keyed by the
// platform-native media id. Re-crawls overwrite the row (last write wins).
type InstagramPost struct {
	MediaID       string
	Permalink     string
	Caption       string
	Timestamp     time.Time
	LikeCount     int64
	CommentsCount int64
	MediaType     string
	CrawledAt     time.Time
}

// YoutubeVideo is one crawled short-form video, keyed by video id.
// SubscriberCount is resolved from the authoring channel at crawl time.
type YoutubeVideo struct {
	VideoID         string
	Title           string
	Description     string
	URL             string
	Views           int64
	Likes           int64
	SubscriberCount int64
	PublishedAt     time.Time
	CrawledAt       time.Time
}
