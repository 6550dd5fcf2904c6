package model

import "buzzmap/internal/stream"

// Image builders produce the change-notification view of a written row.
// Field names match the store columns; zero timestamps are omitted so
// downstream unmarshalling sees them as missing.

func (p *InstagramPost) Image() map[string]stream.AttributeValue {
	image := map[string]stream.AttributeValue{
		"media_id":       stream.String(p.MediaID),
		"permalink":      stream.String(p.Permalink),
		"caption":        stream.String(p.Caption),
		"like_count":     stream.Int(p.LikeCount),
		"comments_count": stream.Int(p.CommentsCount),
		"media_type":     stream.String(p.MediaType),
	}
	if !p.Timestamp.IsZero() {
		image["timestamp"] = stream.Time(p.Timestamp)
	}
	if !p.CrawledAt.IsZero() {
		image["crawled_at"] = stream.Time(p.CrawledAt)
	}
	return image
}

func (v *YoutubeVideo) Image() map[string]stream.AttributeValue {
	image := map[string]stream.AttributeValue{
		"videoId":          stream.String(v.VideoID),
		"title":            stream.String(v.Title),
		"description":      stream.String(v.Description),
		"url":              stream.String(v.URL),
		"views":            stream.Int(v.Views),
		"likes":            stream.Int(v.Likes),
		"subscriber_count": stream.Int(v.SubscriberCount),
	}
	if !v.PublishedAt.IsZero() {
		image["published_at"] = stream.Time(v.PublishedAt)
	}
	if !v.CrawledAt.IsZero() {
		image["crawled_at"] = stream.Time(v.CrawledAt)
	}
	return image
}

func (c *PlaceCandidate) Image() map[string]stream.AttributeValue {
	image := map[string]stream.AttributeValue{
		"postId":    stream.String(c.PostID),
		"platform":  stream.String(c.Platform),
		"url":       stream.String(c.URL),
		"title":     stream.String(c.Title),
		"placeName": stream.String(c.PlaceName),
		"address":   stream.String(c.Address),
		"buzz":      stream.Int(int64(c.Buzz)),
	}
	if !c.FetchedAt.IsZero() {
		image["fetchedAt"] = stream.Time(c.FetchedAt)
	}
	return image
}
