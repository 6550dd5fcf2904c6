package repository

import (
	"database/sql"
	"time"

	"buzzmap/internal/model"
)

type YoutubeRepository struct {
	db *sql.DB
}

func NewYoutubeRepository(db *sql.DB) *YoutubeRepository {
	return &YoutubeRepository{db: db}
}

func (r *YoutubeRepository) Upsert(video *model.YoutubeVideo) error {
	_, err := r.db.Exec(`
		INSERT INTO youtube_video(video_id, title, description, url, views, likes, subscriber_count, published_at, crawled_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (video_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			url = EXCLUDED.url,
			views = EXCLUDED.views,
			likes = EXCLUDED.likes,
			subscriber_count = EXCLUDED.subscriber_count,
			published_at = EXCLUDED.published_at,
			crawled_at = EXCLUDED.crawled_at
	`, video.VideoID, video.Title, video.Description, video.URL, video.Views, video.Likes, video.SubscriberCount, nullableTime(video.PublishedAt), video.CrawledAt)
	return err
}

// nullableTime maps the zero time to SQL NULL.
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
