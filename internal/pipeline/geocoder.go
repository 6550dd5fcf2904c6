package pipeline

import (
	"context"
	"log/slog"

	"buzzmap/internal/model"
	"buzzmap/internal/stream"
	"buzzmap/pkg/geo"
)

// Geocoder consumes candidate change batches and writes a final place row
// for every candidate whose address resolves to coordinates.
type Geocoder struct {
	places   PlaceStore
	geocoder geo.Geocoder
}

func NewGeocoder(places PlaceStore, geocoder geo.Geocoder) *Geocoder {
	return &Geocoder{places: places, geocoder: geocoder}
}

// HandleBatch geocodes every INSERT and MODIFY record in the batch.
// Candidates without a usable address, and addresses that do not resolve,
// are skipped without touching the final store.
func (g *Geocoder) HandleBatch(ctx context.Context, batch *stream.Batch) Summary {
	var summary Summary

	for _, record := range batch.Records {
		if record.EventName != stream.EventInsert && record.EventName != stream.EventModify {
			continue
		}
		summary.Processed++

		data := stream.Unmarshal(record.NewImage)
		postID := stream.GetString(data, "postId")
		address := stream.GetString(data, "address")

		if postID == "" || isNullAddress(address) {
			slog.Warn("candidate has no usable address, skipping", "post_id", postID)
			summary.Skipped++
			continue
		}

		point, err := g.geocoder.Geocode(ctx, address)
		if err != nil {
			slog.Error("geocoding error", "post_id", postID, "address", address, "error", err)
			summary.Failed++
			continue
		}
		if point == nil {
			slog.Warn("address did not resolve, skipping", "post_id", postID, "address", address)
			summary.Skipped++
			continue
		}

		place := &model.Place{
			PostID:    postID,
			Platform:  stream.GetString(data, "platform"),
			URL:       stream.GetString(data, "url"),
			Title:     stream.GetString(data, "title"),
			PlaceName: stream.GetString(data, "placeName"),
			Address:   address,
			Buzz:      int(stream.GetInt(data, "buzz")),
			FetchedAt: stream.GetTime(data, "fetchedAt"),
			Lat:       point.Lat,
			Lng:       point.Lng,
		}

		if err := g.places.Upsert(place); err != nil {
			slog.Error("error saving place", "post_id", postID, "error", err)
			summary.Failed++
			continue
		}
		summary.Upserted++
	}

	return summary
}

// isNullAddress reports whether the extracted address carries no usable
// content. The extractor writes "N/A" for fields the model could not
// answer; some model responses also slip through as literal "null".
func isNullAddress(address string) bool {
	return address == "" || address == model.NotAvailable || address == "null"
}
