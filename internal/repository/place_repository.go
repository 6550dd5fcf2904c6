package repository

import (
	"database/sql"

	"buzzmap/internal/model"
)

type PlaceRepository struct {
	db *sql.DB
}

func NewPlaceRepository(db *sql.DB) *PlaceRepository {
	return &PlaceRepository{db: db}
}

func (r *PlaceRepository) Upsert(p *model.Place) error {
	_, err := r.db.Exec(`
		INSERT INTO place(post_id, platform, url, title, place_name, address, buzz, fetched_at, lat, lng)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (post_id) DO UPDATE SET
			platform = EXCLUDED.platform,
			url = EXCLUDED.url,
			title = EXCLUDED.title,
			place_name = EXCLUDED.place_name,
			address = EXCLUDED.address,
			buzz = EXCLUDED.buzz,
			fetched_at = EXCLUDED.fetched_at,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng
	`, p.PostID, p.Platform, p.URL, p.Title, p.PlaceName, p.Address, p.Buzz, nullableTime(p.FetchedAt), p.Lat, p.Lng)
	return err
}
