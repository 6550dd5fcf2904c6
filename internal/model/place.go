package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PlatformInstagram = "Instagram"
	PlatformYoutube   = "Youtube"

	// NotAvailable marks an extracted field the model could not answer.
	// Candidate rows always carry it instead of an absent value.
	NotAvailable = "N/A"
)

// PlaceCandidate is the unified intermediate record produced by the
// extractor for posts from both platforms. Buzz is always in [1,5].
type PlaceCandidate struct {
	PostID    string
	Platform  string
	URL       string
	Title     string
	PlaceName string
	Address   string
	Buzz      int
	FetchedAt time.Time
}

// Place is the final, geocoded record. It only exists when geocoding
// succeeded; coordinates are stored as exact decimals so rewrites of the
// same value never drift.
type Place struct {
	PostID    string
	Platform  string
	URL       string
	Title     string
	PlaceName string
	Address   string
	Buzz      int
	FetchedAt time.Time
	Lat       decimal.Decimal
	Lng       decimal.Decimal
}
