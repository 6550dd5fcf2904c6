package repository

import "database/sql"

type StatsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) count(table string) (int64, error) {
	var n int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *StatsRepository) CountInstagramPosts() (int64, error) {
	return r.count("instagram_post")
}

func (r *StatsRepository) CountYoutubeVideos() (int64, error) {
	return r.count("youtube_video")
}

func (r *StatsRepository) CountCandidates() (int64, error) {
	return r.count("place_candidate")
}

func (r *StatsRepository) CountPlaces() (int64, error) {
	return r.count("place")
}
