package repository

import (
	"database/sql"

	"buzzmap/internal/model"
)

type InstagramRepository struct {
	db *sql.DB
}

func NewInstagramRepository(db *sql.DB) *InstagramRepository {
	return &InstagramRepository{db: db}
}

// Upsert writes the post keyed by its media id. A re-crawl of the same post
// fully replaces the previous row, last write wins.
func (r *InstagramRepository) Upsert(post *model.InstagramPost) error {
	_, err := r.db.Exec(`
		INSERT INTO instagram_post(media_id, permalink, caption, posted_at, like_count, comments_count, media_type, crawled_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (media_id) DO UPDATE SET
			permalink = EXCLUDED.permalink,
			caption = EXCLUDED.caption,
			posted_at = EXCLUDED.posted_at,
			like_count = EXCLUDED.like_count,
			comments_count = EXCLUDED.comments_count,
			media_type = EXCLUDED.media_type,
			crawled_at = EXCLUDED.crawled_at
	`, post.MediaID, post.Permalink, post.Caption, nullableTime(post.Timestamp), post.LikeCount, post.CommentsCount, post.MediaType, post.CrawledAt)
	return err
}
