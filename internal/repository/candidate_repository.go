package repository

import (
	"database/sql"

	"buzzmap/internal/model"
)

type CandidateRepository struct {
	db *sql.DB
}

func NewCandidateRepository(db *sql.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

// Upsert replaces the candidate for the post id with the fields computed
// from the current change event. Concurrent writers for the same key
// converge to whoever wrote last.
func (r *CandidateRepository) Upsert(c *model.PlaceCandidate) error {
	_, err := r.db.Exec(`
		INSERT INTO place_candidate(post_id, platform, url, title, place_name, address, buzz, fetched_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (post_id) DO UPDATE SET
			platform = EXCLUDED.platform,
			url = EXCLUDED.url,
			title = EXCLUDED.title,
			place_name = EXCLUDED.place_name,
			address = EXCLUDED.address,
			buzz = EXCLUDED.buzz,
			fetched_at = EXCLUDED.fetched_at
	`, c.PostID, c.Platform, c.URL, c.Title, c.PlaceName, c.Address, c.Buzz, nullableTime(c.FetchedAt))
	return err
}
